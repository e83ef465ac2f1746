package compliance

// CFPIR checks color fundus and infrared photographs (Ophthalmic Photography 8 Bit Image)
var CFPIR = MustRuleSet("cfp_ir", "CFP IR",
	Entity{Name: "Patient", Modules: []Module{
		patientModule,
	}},
	Entity{Name: "Study", Modules: []Module{
		generalStudyModule,
	}},
	Entity{Name: "Series", Modules: []Module{
		generalSeriesModule,
		ophthalmicPhotographySeriesModule,
	}},
	Entity{Name: "Frame of Reference", Modules: []Module{
		synchronizationModule,
	}},
	Entity{Name: "Equipment", Modules: []Module{
		generalEquipmentModule,
		enhancedEquipmentModule,
	}},
	Entity{Name: "Image", Modules: []Module{
		generalImageModule,
		imagePixelPlanarModule,
		multiFrameModule,
		ophthalmicPhotographyImageModule,
		ocularRegionImagedModule,
		ophthalmicPhotographyAcquisitionParametersModule,
		{Name: "Ophthalmic Photographic Parameters", Reference: "C.8.17.3", Elements: []Element{
			{"AcquisitionDeviceTypeCodeSequence", "00220015", "SQ", MustExist},
			{"IlluminationTypeCodeSequence", "00220016", "SQ", AllowEmpty},
			{"LightPathFilterTypeStackCodeSequence", "00220017", "SQ", AllowEmpty},
			{"ImagePathFilterTypeStackCodeSequence", "00220018", "SQ", AllowEmpty},
			{"LensesCodeSequence", "00220019", "SQ", AllowEmpty},
			{"DetectorType", "00187004", "CS", AllowEmpty},
			{"ChannelDescriptionCodeSequence", "0022001A", "SQ", Preferred},
		}},
		sopCommonModule,
	}},
)

// CFPIR16 checks Ophthalmic Photography 16 Bit Images
var CFPIR16 = MustRuleSet("cfp_ir_16", "CFP IR 16-bit",
	Entity{Name: "Patient", Modules: []Module{
		patientModule,
	}},
	Entity{Name: "Study", Modules: []Module{
		generalStudyModule,
	}},
	Entity{Name: "Series", Modules: []Module{
		generalSeriesModule,
		ophthalmicPhotographySeriesModule,
	}},
	Entity{Name: "Frame of Reference", Modules: []Module{
		synchronizationModule,
	}},
	Entity{Name: "Equipment", Modules: []Module{
		generalEquipmentModule,
		enhancedEquipmentModule,
	}},
	Entity{Name: "Image", Modules: []Module{
		generalImageModule,
		imagePixelPlanarModule,
		{Name: "Cine", Reference: "C.7.6.5", Elements: []Element{
			{"FrameTime", "00181063", "DS", MustExist},
			{"FrameTimeVector", "00181065", "DS", MustExist},
			{"StartTrim", "00082142", "IS", MustExist},
			{"StopTrim", "00082143", "IS", MustExist},
		}},
		multiFrameModule,
		ophthalmicPhotographyImageModule,
		ocularRegionImagedModule,
		ophthalmicPhotographyAcquisitionParametersModule,
		{Name: "Ophthalmic Photographic Parameters", Reference: "C.8.17.3", Elements: []Element{
			{"AcquisitionDeviceTypeCodeSequence", "00220015", "SQ", MustExist},
			{"IlluminationTypeCodeSequence", "00220016", "SQ", AllowEmpty},
			{"LightPathFilterTypeStackCodeSequence", "00220017", "SQ", AllowEmpty},
			{"LightPathFilterPassThroughWavelength", "00220001", "US", AllowEmpty},
			{"LightPathFilterPassBand", "00220002", "US", AllowEmpty},
			{"ImagePathFilterPassThroughWavelength", "00220003", "US", AllowEmpty},
			{"ImagePathFilterPassBand", "00220004", "US", AllowEmpty},
			{"CameraAngleOfView", "0022001E", "FL", AllowEmpty},
			{"ImagePathFilterTypeStackCodeSequence", "00220018", "SQ", AllowEmpty},
			{"LensesCodeSequence", "00220019", "SQ", AllowEmpty},
			{"DetectorType", "00187004", "CS", AllowEmpty},
			{"ChannelDescriptionCodeSequence", "0022001A", "SQ", Preferred},
		}},
		sopCommonModule,
	}},
)
