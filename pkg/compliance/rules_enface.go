package compliance

// EnFace checks Ophthalmic Optical Coherence Tomography En Face Images
var EnFace = MustRuleSet("en_face", "En Face",
	Entity{Name: "Patient", Modules: []Module{
		patientModule,
	}},
	Entity{Name: "Study", Modules: []Module{
		generalStudyModule,
	}},
	Entity{Name: "Series", Modules: []Module{
		generalSeriesUIDModule,
		ophthalmicTomographyEnFaceSeriesModule,
	}},
	Entity{Name: "Frame of Reference", Modules: []Module{
		frameOfReferenceModule,
	}},
	Entity{Name: "Equipment", Modules: []Module{
		generalEquipmentModule,
		enhancedEquipmentModule,
	}},
	Entity{Name: "Image", Modules: []Module{
		generalImageEnFaceModule,
		imagePixelModule,
		{Name: "Ophthalmic Optical Coherence Tomography En Face Image", Reference: "C.8.17.14", Elements: []Element{
			{"ImageType", "00080008", "CS", MustExist},
			{"InstanceNumber", "00200013", "IS", MustExist},
			{"BitsAllocated", "00280100", "US", MustExist},
			{"BitsStored", "00280101", "US", MustExist},
			{"HighBit", "00280102", "US", MustExist},
			{"SamplesPerPixel", "00280002", "US", MustExist},
			{"PhotometricInterpretation", "00280004", "CS", MustExist},
			{"PixelRepresentation", "00280103", "US", MustExist},
			{"PixelSpacing", "00280030", "DS", MustExist},
			{"ImageOrientation", "00200037", "DS", MustExist},
			{"OphthalmicFrameLocationSequence", "00220031", "SQ", MustExist},
			{"ContentTime", "00080033", "TM", MustExist},
			{"ContentDate", "00080023", "DA", MustExist},
			{"SourceImageSequence", "00082112", "SQ", MustExist},
			{"DerivationAlgorithmSequence", "00221612", "SQ", MustExist},
			{"OphthalmicImageTypeCodeSequence", "00221615", "SQ", MustExist},
			{"OphthalmicImageTypeDescription", "00221616", "LO", Preferred},
			{"WindowCenter", "00281050", "DS", MustExist},
			{"WindowWidth", "00281051", "DS", MustExist},
			{"OphthalmicEnFaceVolumeDescriptorSequence", "00221627", "SQ", MustExist},
			{"LossyImageCompression", "00282110", "CS", MustExist},
			{"LossyImageCompressionRatio", "00282112", "DS", ExistsWithValueIf("00282110", FirstEquals("01"))},
			{"LossyImageCompressionMethod", "00282114", "CS", ExistsWithValueIf("00282110", FirstEquals("01"))},
			{"PresentationLUTShape", "20500020", "CS", ExistsWithValueIf("00280004", FirstEquals("MONOCHROME2"))},
			{"BurnedInAnnotation", "00280301", "CS", MustExist},
			{"RecognizableVisualFeatures", "00280302", "CS", MustExist},
		}},
		{Name: "Ocular Region Imaged", Reference: "C.8.17.5", Elements: []Element{
			{"ImageLaterality", "00200062", "CS", MustExist},
			{"AnatomicRegionSequence", "00082218", "SQ", MustExist},
			{"RelativeImagePositionCodeSequence", "0022001D", "SQ", Preferred},
			{"PrimaryAnatomicStructureSequence", "00082228", "SQ", Preferred},
			{"OphthalmicAnatomicReferencePointXCoordinate", "00221624", "FL", Preferred},
			{"OphthalmicAnatomicReferencePointYCoordinate", "00221626", "FL", Preferred},
			{"OphthalmicAnatomicReferencePointSequence", "00221632", "SQ", Preferred},
		}},
		sopCommonModule,
	}},
)

// EnFaceLegacy is the older en face table kept for files produced before the
// dedicated module layout
var EnFaceLegacy = MustRuleSet("en_face_legacy", "En Face (legacy)",
	Entity{Name: "Patient", Modules: []Module{
		patientModule,
	}},
	Entity{Name: "Study", Modules: []Module{
		generalStudyModule,
	}},
	Entity{Name: "Series", Modules: []Module{
		generalSeriesUIDModule,
		ophthalmicTomographyEnFaceSeriesModule,
	}},
	Entity{Name: "Frame of Reference", Modules: []Module{
		frameOfReferenceModule,
	}},
	Entity{Name: "Equipment", Modules: []Module{
		generalEquipmentModule,
		enhancedEquipmentModule,
	}},
	Entity{Name: "Image", Modules: []Module{
		generalImageEnFaceModule,
		imagePixelModule,
		{Name: "Ophthalmic Optical Coherence Tomography En Face Image", Reference: "C.8.17.14", Elements: []Element{
			{"ImageType", "00080008", "CS", MustExist},
			{"InstanceNumber", "00200013", "IS", MustExist},
			{"BitsAllocated", "00280100", "US", MustExist},
			{"BitsStored", "00280101", "US", MustExist},
			{"HighBit", "00280102", "US", MustExist},
			{"SamplesPerPixel", "00280002", "US", MustExist},
			{"PhotometricInterpretation", "00280004", "CS", MustExist},
			{"PixelRepresentation", "00280103", "US", MustExist},
			{"PixelSpacing", "00280030", "DS", MustExist},
			{"ContentTime", "00080033", "TM", MustExist},
			{"ContentDate", "00080023", "DA", MustExist},
			{"SourceImageSequence", "00082112", "SQ", MustExist},
			{"DerivationAlgorithmSequence", "00221612", "SQ", MustExist},
			{"OphthalmicImageTypeCodeSequence", "00221615", "SQ", MustExist},
			{"ReferencedSurfaceMeshIdentificationSequence", "00221620", "SQ", MustExist},
			{"WindowCenter", "00281050", "DS", MustExist},
			{"WindowWidth", "00281051", "DS", MustExist},
			{"LossyImageCompression", "00282110", "CS", MustExist},
			{"LossyImageCompressionRatio", "00282112", "DS", ExistsWithValueIf("00282110", FirstEquals("01"))},
			{"LossyImageCompressionMethod", "00282114", "CS", ExistsWithValueIf("00282110", FirstEquals("01"))},
			{"PresentationLUTShape", "20500020", "CS", ExistsWithValueIf("00280004", FirstEquals("MONOCHROME2"))},
			{"BurnedInAnnotation", "00280301", "CS", MustExist},
			{"RecognizableVisualFeatures", "00280302", "CS", MustExist},
		}},
		{Name: "Ocular Region Imaged", Reference: "C.8.17.5", Elements: []Element{
			{"ImageLaterality", "00200062", "CS", MustExist},
			{"AnatomicRegionSequence", "00082218", "SQ", MustExist},
			{"RelativeImagePositionCodeSequence", "0022001D", "SQ", Preferred},
			{"PrimaryAnatomicStructureSequence", "00082228", "SQ", Preferred},
			{"OphthalmicAnatomicReferencePointXCoordinate", "00221624", "FL", Preferred},
			{"OphthalmicAnatomicReferencePointYCoordinate", "00221626", "FL", Preferred},
		}},
		sopCommonModule,
	}},
)
