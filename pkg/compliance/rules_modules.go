package compliance

// Modules shared verbatim by more than one rule table.
var (
	commonInstanceReferenceModule = Module{Name: "Common Instance Reference", Reference: "C.12.2", Elements: []Element{
		{"ReferencedSeriesSequence", "00081115", "SQ", MustExist},
	}}

	enhancedEquipmentModule = Module{Name: "Enhanced Equipment", Reference: "C.7.5.2", Elements: []Element{
		{"Manufacturer", "00080070", "LO", MustExist},
		{"ManufacturerModelName", "00081090", "LO", MustExist},
		{"DeviceSerialNumber", "00181000", "LO", MustExist},
		{"SoftwareVersions", "00181020", "LO", MustExist},
	}}

	frameOfReferenceModule = Module{Name: "Frame of Reference", Reference: "C.7.4.1", Elements: []Element{
		{"FrameofReferenceUID", "00200052", "UI", MustExist},
		{"PositionReferenceIndicator", "00201040", "LO", AllowEmpty},
	}}

	generalEquipmentModule = Module{Name: "General Equipment", Reference: "C.7.5.1", Elements: []Element{
		{"Manufacturer", "00080070", "LO", MustExist},
	}}

	generalImageModule = Module{Name: "General Image", Reference: "C.7.6.1", Elements: []Element{
		{"InstanceNumber", "00200013", "IS", AllowEmpty},
		{"PatientOrientation", "00200020", "CS", AllowEmpty},
		{"BurnedInAnnotation", "00280301", "CS", MustExist},
	}}

	generalImageEnFaceModule = Module{Name: "General Image", Reference: "C.7.6.1", Elements: []Element{
		{"InstanceNumber", "00200013", "IS", AllowEmpty},
		{"PatientOrientation", "00200020", "CS", AllowEmpty},
		{"BurnedInAnnotation", "00280301", "CS", Preferred},
		{"ImageComments", "00204000", "LT", Preferred},
	}}

	generalSeriesModule = Module{Name: "General Series", Reference: "C.7.3.1", Elements: []Element{
		{"Modality", "00080060", "CS", MustExist},
		{"SeriesInstanceUID", "0020000E", "UI", MustExist},
		{"SeriesNumber", "00200011", "IS", AllowEmpty},
	}}

	generalSeriesUIDModule = Module{Name: "General Series", Reference: "C.7.3.1", Elements: []Element{
		{"Modality", "00080060", "CS", MustExist},
		{"SeriesInstanceUID", "0020000E", "UI", MustExist},
	}}

	generalStudyModule = Module{Name: "General Study", Reference: "C.7.2.1", Elements: []Element{
		{"StudyInstanceUID", "0020000D", "UI", MustExist},
		{"StudyDate", "00080020", "DA", AllowEmpty},
		{"StudyTime", "00080030", "TM", AllowEmpty},
		{"ReferringPhysicianName", "00080090", "PN", AllowEmpty},
		{"StudyID", "00200010", "SH", AllowEmpty},
		{"AccessionNumber", "00080050", "SH", AllowEmpty},
	}}

	imagePixelPlanarModule = Module{Name: "Image Pixel", Reference: "C.7.6.3", Elements: []Element{
		{"SamplesPerPixel", "00280002", "US", MustExist},
		{"PhotometricInterpretation", "00280004", "CS", MustExist},
		{"Rows", "00280010", "US", MustExist},
		{"Columns", "00280011", "US", MustExist},
		{"BitsAllocated", "00280100", "US", MustExist},
		{"BitsStored", "00280101", "US", MustExist},
		{"HighBit", "00280102", "US", MustExist},
		{"PixelRepresentation", "00280103", "US", MustExist},
		{"PixelData", "7FE00010", "OB or OW", AllowEmpty},
		{"PlanarConfiguration", "00280006", "US", ExistsWithValueIf("00280002", FirstIntGreaterThan(1))},
	}}

	imagePixelModule = Module{Name: "Image Pixel", Reference: "C.7.6.3", Elements: []Element{
		{"PixelData", "7FE00010", "OB or OW", AllowEmpty},
		{"SamplesPerPixel", "00280002", "US", MustExist},
		{"PhotometricInterpretation", "00280004", "CS", MustExist},
		{"Rows", "00280010", "US", MustExist},
		{"Columns", "00280011", "US", MustExist},
		{"BitsAllocated", "00280100", "US", MustExist},
		{"BitsStored", "00280101", "US", MustExist},
		{"HighBit", "00280102", "US", MustExist},
		{"PixelRepresentation", "00280103", "US", MustExist},
	}}

	multiFrameDimensionModule = Module{Name: "Multi-frame Dimension", Reference: "C.7.6.17", Elements: []Element{
		{"Dimension Organization Sequence", "00209221", "SQ", MustExist},
		{"Dimension Index Sequence", "00209222", "SQ", MustExist},
	}}

	multiFrameFunctionalGroupsModule = Module{Name: "Multi-frame Functional Groups", Reference: "C.7.6.16", Elements: []Element{
		{"SharedFunctionalGroupsSequence", "52009229", "SQ", MustExist},
		{"PerFrameFunctionalGroupsSequence", "52009230", "SQ", MustExist},
		{"InstanceNumber", "00200013", "IS", MustExist},
		{"ContentDate", "00080023", "DA", MustExist},
		{"ContentTime", "00080033", "TM", MustExist},
		{"NumberOfFrames", "00280008", "IS", MustExist},
	}}

	multiFrameModule = Module{Name: "Multi-frame", Reference: "C.7.6.6", Elements: []Element{
		{"NumberOfFrames", "00280008", "IS", MustExist},
		{"FrameIncrementPointer", "00280009", "AT", MustExist},
	}}

	ocularRegionImagedModule = Module{Name: "Ocular Region Imaged", Reference: "C.8.17.5", Elements: []Element{
		{"ImageLaterality", "00200062", "CS", MustExist},
		{"AnatomicRegionSequence", "00082218", "SQ", MustExist},
	}}

	ophthalmicPhotographyAcquisitionParametersModule = Module{Name: "Ophthalmic Photography Acquisition Parameters", Reference: "C.8.17.4", Elements: []Element{
		{"PatientEyeMovementCommanded", "00220005", "CS", AllowEmpty},
		{"PatientEyeMovementCommandCodeSequence", "00220006", "SQ", ExistsWithValueIf("00220005", FirstEquals("YES"))},
		{"EmmetropicMagnification", "0022000A", "FL", AllowEmpty},
		{"IntraOcularPressure", "0022000B", "FL", AllowEmpty},
		{"HorizontalFieldofView", "0022000C", "FL", AllowEmpty},
		{"PupilDilated", "0022000D", "CS", AllowEmpty},
		{"DegreeOfDilation", "0022000E", "FL", TagExistsIf("0022000D", FirstEquals("YES"))},
		{"RefractiveStateSequence", "0022001B", "SQ", AllowEmpty},
		{"MydriaticAgentSequence", "00220058", "SQ", TagExistsIf("0022000D", FirstEquals("YES"))},
	}}

	ophthalmicPhotographyImageModule = Module{Name: "Ophthalmic Photography Image", Reference: "C.8.17.2", Elements: []Element{
		{"ImageType", "00080008", "CS", MustExist},
		{"InstanceNumber", "00200013", "IS", MustExist},
		{"SamplesPerPixel", "00280002", "US", MustExist},
		{"PhotometricInterpretation", "00280004", "CS", MustExist},
		{"PixelRepresentation", "00280103", "US", MustExist},
		{"PlanarConfiguration", "00280006", "US", ExistsWithValueIf("00280002", FirstIntGreaterThan(1))},
		{"PixelSpacing", "00280030", "DS", MustExist},
		{"ContentTime", "00080033", "TM", MustExist},
		{"ContentDate", "00080023", "DA", MustExist},
		{"AcquisitionDateTime", "0008002A", "DT", ExistsWithValueIf("00080008", Contains("ORIGINAL"))},
		{"LossyImageCompression", "00282110", "CS", MustExist},
		{"LossyImageCompressionRatio", "00282112", "DS", ExistsWithValueIf("00282110", FirstEquals("01"))},
		{"LossyImageCompressionMethod", "00282114", "CS", ExistsWithValueIf("00282110", FirstEquals("01"))},
		{"PresentationLUTShape", "20500020", "CS", ExistsWithValueIf("00280004", FirstEquals("MONOCHROME2"))},
		{"BurnedInAnnotation", "00280301", "CS", MustExist},
	}}

	ophthalmicPhotographySeriesModule = Module{Name: "Ophthalmic Photography Series", Reference: "C.8.17.1", Elements: []Element{
		{"Modality", "00080060", "CS", MustExist},
	}}

	ophthalmicTomographyEnFaceSeriesModule = Module{Name: "Ophthalmic Tomography En Face Series", Reference: "C.8.17.17", Elements: []Element{
		{"Modality", "00080060", "CS", MustExist},
		{"SeriesNumber", "00200011", "IS", MustExist},
	}}

	patientModule = Module{Name: "Patient", Reference: "C.7.1.1", Elements: []Element{
		{"PatientName", "00100010", "PN", AllowEmpty},
		{"PatientID", "00100020", "LO", AllowEmpty},
		{"PatientBirthDate", "00100030", "DA", AllowEmpty},
		{"PatientSex", "00100040", "CS", AllowEmpty},
	}}

	sopCommonModule = Module{Name: "SOP Common", Reference: "C.12.1", Elements: []Element{
		{"SOPClassUID", "00080016", "UI", MustExist},
		{"SOPInstanceUID", "00080018", "UI", MustExist},
		{"SpecificCharacterSet", "00080005", "CS", MustExist},
	}}

	segmentationSeriesModule = Module{Name: "Segmentation Series", Reference: "C.8.20.1", Elements: []Element{
		{"Modality", "00080060", "CS", MustExist},
		{"SeriesNumber", "00200011", "IS", MustExist},
	}}

	synchronizationModule = Module{Name: "Synchronization", Reference: "C.7.4.2", Elements: []Element{
		{"SynchronizationFrameOfReferenceUID", "00200200", "UI", MustExist},
		{"SynchronizationTrigger", "0018106A", "CS", MustExist},
		{"AcquisitionTimeSynchronized", "00181800", "CS", MustExist},
	}}
)
