package compliance

// Heightmap checks heightmap segmentations, including the Topcon private SOP class
var Heightmap = MustRuleSet("heightmap", "Heightmap Segmentation",
	Entity{Name: "Patient", Modules: []Module{
		patientModule,
	}},
	Entity{Name: "Study", Modules: []Module{
		generalStudyModule,
	}},
	Entity{Name: "Series", Modules: []Module{
		generalSeriesUIDModule,
		segmentationSeriesModule,
	}},
	Entity{Name: "Frame of Reference", Modules: []Module{
		frameOfReferenceModule,
	}},
	Entity{Name: "Equipment", Modules: []Module{
		generalEquipmentModule,
		enhancedEquipmentModule,
	}},
	Entity{Name: "Image", Modules: []Module{
		{Name: "General Image", Reference: "C.7.6.1", Elements: []Element{
			{"InstanceNumber", "00200013", "IS", MustExist},
		}},
		multiFrameFunctionalGroupsModule,
		multiFrameDimensionModule,
		{Name: "Floating Point Image Pixel", Reference: "C.7.6.24", Elements: []Element{
			{"SamplesPerPixel", "00280002", "US", MustExist},
			{"Rows", "00280010", "US", MustExist},
			{"PhotometricInterpretation", "00280004", "CS", MustExist},
			{"Columns", "00280011", "US", MustExist},
			{"BitsAllocated", "00280100", "US", MustExist},
			{"FloatPixelData", "7FE00008", "OF", AllowEmpty},
			{"FloatPixelPaddingValue", "00280122", "US or SS", Preferred},
			{"FloatPixelPaddingRangeLimit", "00280124", "US or SS", ExistsWithValueIf("00280122", NotEmpty())},
		}},
		{Name: "Heightmap Segmentation Image", Reference: "C.8.20.5", Elements: []Element{
			{"ImageType", "00080008", "CS", MustExist},
			{"InstanceNumber", "00200013", "IS", MustExist},
			{"ContentLabel", "00700080", "CS", MustExist},
			{"ContentDescription", "00700081", "LO", AllowEmpty},
			{"SamplesPerPixel", "00280002", "US", MustExist},
			{"PhotometricInterpretation", "00280004", "CS", MustExist},
			{"Rows", "00280010", "US", MustExist},
			{"Columns", "00280011", "US", MustExist},
			{"SegmentationType", "00620001", "CS", MustExist},
			{"SegmentSequence", "00620002", "SQ", MustExist},
		}},
		sopCommonModule,
		commonInstanceReferenceModule,
	}},
)

var SurfaceSegmentation = MustRuleSet("surface_segmentation", "Surface Segmentation",
	Entity{Name: "Patient", Modules: []Module{
		patientModule,
	}},
	Entity{Name: "Study", Modules: []Module{
		generalStudyModule,
	}},
	Entity{Name: "Series", Modules: []Module{
		generalSeriesModule,
		segmentationSeriesModule,
	}},
	Entity{Name: "Frame of Reference", Modules: []Module{
		frameOfReferenceModule,
	}},
	Entity{Name: "Equipment", Modules: []Module{
		generalEquipmentModule,
		enhancedEquipmentModule,
	}},
	Entity{Name: "Surface", Modules: []Module{
		{Name: "Surface Segmentation", Reference: "C.8.23.1", Elements: []Element{
			{"InstanceNumber", "00200013", "IS", MustExist},
			{"ContentLabel", "00700080", "CS", MustExist},
			{"ContentDescription", "00700081", "LO", AllowEmpty},
			{"ContentDate", "00080023", "DA", MustExist},
			{"ContentTime", "00080033", "TM", MustExist},
			{"SegmentSequence", "00620002", "SQ", MustExist},
			{"ImageLaterality", "00200062", "CS", Preferred},
		}},
		{Name: "Surface Mesh", Reference: "C.27.1", Elements: []Element{
			{"NumberOfSurface", "00660001", "UL", MustExist},
			{"SurfaceSequence", "00660002", "SQ", MustExist},
		}},
		commonInstanceReferenceModule,
		sopCommonModule,
	}},
)
