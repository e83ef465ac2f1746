package compliance

// OCTBScan checks Ophthalmic Tomography Images
var OCTBScan = MustRuleSet("oct_b", "OCT B Scan",
	Entity{Name: "Patient", Modules: []Module{
		patientModule,
	}},
	Entity{Name: "Study", Modules: []Module{
		generalStudyModule,
	}},
	Entity{Name: "Series", Modules: []Module{
		{Name: "General Series", Reference: "C.7.3.1", Elements: []Element{
			{"Modality", "00080060", "CS", MustExist},
			{"SeriesInstanceUID", "0020000E", "UI", MustExist},
			{"SeriesNumber", "00200011", "IS", MustExist},
		}},
		{Name: "Ophthalmic Tomography Series", Reference: "C.8.17.6", Elements: []Element{
			{"Modality", "00080060", "CS", MustExist},
			{"SeriesNumber", "00200011", "IS", MustExist},
		}},
	}},
	Entity{Name: "Frame of Reference", Modules: []Module{
		{Name: "Frame of Reference", Reference: "C.7.4.1", Elements: []Element{
			{"FrameOfReferenceUID", "00200052", "UI", MustExist},
			{"PositionReferenceIndicator", "00201040", "LO", AllowEmpty},
		}},
		synchronizationModule,
	}},
	Entity{Name: "Equipment", Modules: []Module{
		generalEquipmentModule,
		enhancedEquipmentModule,
	}},
	Entity{Name: "Image", Modules: []Module{
		imagePixelModule,
		multiFrameFunctionalGroupsModule,
		multiFrameDimensionModule,
		{Name: "Acquisition Context", Reference: "C.7.6.14", Elements: []Element{
			{"Acquisition Context Sequence", "00400555", "SQ", AllowEmpty},
		}},
		{Name: "Ophthalmic Tomography Image", Reference: "C.8.17.7", Elements: []Element{
			{"ImageType", "00080008", "CS", MustExist},
			{"SamplesPerPixel", "00280002", "US", MustExist},
			{"AcquisitionDateTime", "0008002A", "DT", MustExist},
			{"AcquisitionDuration", "00189073", "US", ExistsWithValueIf("00080008", Contains("ORIGINAL"))},
			{"AcquisitionNumber", "00200012", "US", MustExist},
			{"PhotometricInterpretation", "00280004", "CS", MustExist},
			{"PixelRepresentation", "00280103", "US", MustExist},
			{"BitsAllocated", "00280100", "US", MustExist},
			{"BitsStored", "00280101", "US", MustExist},
			{"HighBit", "00280102", "US", MustExist},
			{"PresentationLUTShape", "20500020", "CS", MustExist},
			{"LossyImageCompression", "00282110", "CS", MustExist},
			{"LossyImageCompressionRatio", "00282112", "DS", ExistsWithValueIf("00282110", FirstEquals("01"))},
			{"LossyImageCompressionMethod", "00282114", "CS", ExistsWithValueIf("00282110", FirstEquals("01"))},
			{"BurnedInAnnotation", "00280301", "CS", MustExist},
			{"ConcatenationFrameOffsetNumber", "00209228", "UL", MustExist},
			{"InConcatenationNumber", "00209162", "US", MustExist},
			{"InConcatenationTotalNumber", "00209163", "US", MustExist},
		}},
		{Name: "Ophthalmic Tomography Acquisition Parameters", Reference: "C.8.17.8", Elements: []Element{
			{"AxialLengthoftheEye", "00220030", "FL", AllowEmpty},
			{"HorizontalFieldofView", "0022000C", "FL", AllowEmpty},
			{"RefractiveStateSequence", "0022001B", "SQ", AllowEmpty},
			{"EmmetropicMagnification", "0022000A", "FL", AllowEmpty},
			{"IntraOcularPressure", "0022000B", "FL", AllowEmpty},
			{"Pupil Dilated", "0022000D", "CS", AllowEmpty},
			{"Madriatic Agent Sequence", "00220058", "SQ", ExistsWithValueIf("0022000D", Contains("YES"))},
			{"Degree of Dilation", "0022000E", "FL", ExistsWithValueIf("0022000D", Contains("YES"))},
		}},
		{Name: "Ophthalmic Tomography Parameters", Reference: "C.8.17.9", Elements: []Element{
			{"AcquisitionDeviceTypeCodeSequence", "00220015", "SQ", MustExist},
			{"LightPathFilterTypeStackCodeSequence", "00220017", "SQ", AllowEmpty},
			{"DetectorType", "00187004", "CS", MustExist},
			{"IlluminationWaveLength", "00220055", "FL", MustExist},
			{"IlluminationPower", "00220056", "FL", MustExist},
			{"IlluminationBandwidth", "00220057", "FL", MustExist},
			{"DepthSpatialResolution", "00220035", "FL", MustExist},
			{"MaximumDepthDistortion", "00220036", "FL", MustExist},
			{"AlongScanSpatialResolution", "00220037", "FL", MustExist},
			{"MaximumAlongScanDistortion", "00220038", "FL", MustExist},
			{"Across-scanSpatialResolution", "00220048", "FL", MustExist},
			{"MaximumAcross-scanDistortion", "00220049", "FL", MustExist},
		}},
		ocularRegionImagedModule,
		sopCommonModule,
	}},
)

// VolumeAnalysis checks Ophthalmic Optical Coherence Tomography B-scan Volume Analysis objects
var VolumeAnalysis = MustRuleSet("volume_analysis", "B-scan Volume Analysis",
	Entity{Name: "Patient", Modules: []Module{
		patientModule,
	}},
	Entity{Name: "Study", Modules: []Module{
		generalStudyModule,
	}},
	Entity{Name: "Series", Modules: []Module{
		generalSeriesUIDModule,
		{Name: "Ophthalmic Tomography B scan Volume Analysis Series", Reference: "C.8.17.18", Elements: []Element{
			{"Modality", "00080060", "CS", MustExist},
			{"SeriesNumber", "00200011", "IS", MustExist},
		}},
	}},
	Entity{Name: "Frame of Reference", Modules: []Module{
		frameOfReferenceModule,
	}},
	Entity{Name: "Equipment", Modules: []Module{
		generalEquipmentModule,
		enhancedEquipmentModule,
	}},
	Entity{Name: "Image", Modules: []Module{
		imagePixelModule,
		{Name: "Ophthalmic Optical Coherence Tomography B scan Volume Analysis", Reference: "C.8.17.16", Elements: []Element{
			{"ImageType", "00080008", "CS", MustExist},
			{"InstanceNumber", "00200013", "IS", MustExist},
			{"ContentDate", "00080023", "DA", MustExist},
			{"ContentTime", "00080033", "TM", MustExist},
			{"BitsAllocated", "00280100", "US", MustExist},
			{"BitsStored", "00280101", "US", MustExist},
			{"HighBit", "00280102", "US", MustExist},
			{"SamplesPerPixel", "00280002", "US", MustExist},
			{"PhotometricInterpretation", "00280004", "CS", MustExist},
			{"PixelRepresentation", "00280103", "US", MustExist},
			{"PresentationLUTShape", "20500020", "CS", MustExist},
			{"LossyImageCompression", "00282110", "CS", MustExist},
			{"LossyImageCompressionRatio", "00282112", "DS", ExistsWithValueIf("00282110", FirstEquals("01"))},
			{"LossyImageCompressionMethod", "00282114", "CS", ExistsWithValueIf("00282110", FirstEquals("01"))},
			{"BurnedInAnnotation", "00280301", "CS", MustExist},
			{"RecognizableVisualFeatures", "00280302", "CS", MustExist},
			{"AcquisitionMethodAlgorithmSequence", "00221423", "SQ", MustExist},
			{"OCTBScanAnalysisAcquisitionParametersSequence", "00221640", "SQ", MustExist},
			{"ConcatenationFrameOffsetNumber", "00209228", "UL", MustExist},
			{"InConcatenationNumber", "00209162", "US", MustExist},
			{"InConcatenationTotalNumber", "00209163", "US", MustExist},
		}},
		multiFrameFunctionalGroupsModule,
		multiFrameDimensionModule,
		sopCommonModule,
	}},
)
