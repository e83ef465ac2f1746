// Package tag defines DICOM tags and their canonical text forms
package tag

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag represents a DICOM tag with Group and Element
type Tag struct {
	Group   uint16
	Element uint16
}

// New creates a new Tag
func New(group, element uint16) Tag {
	return Tag{Group: group, Element: element}
}

// Parse reads the canonical 8 hex digit form ("0020000D"). The
// parenthesised "(0020,000D)" form is accepted too.
func Parse(s string) (Tag, error) {
	raw := strings.TrimSpace(s)
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		raw = strings.ReplaceAll(raw[1:len(raw)-1], ",", "")
	}
	if len(raw) != 8 {
		return Tag{}, fmt.Errorf("tag %q: want 8 hex digits, got %d", s, len(raw))
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return Tag{}, fmt.Errorf("tag %q: %w", s, err)
	}
	return Tag{Group: uint16(v >> 16), Element: uint16(v)}, nil
}

// Uint32 packs the tag as group<<16 | element
func (t Tag) Uint32() uint32 {
	return uint32(t.Group)<<16 | uint32(t.Element)
}

// Less orders tags by group, then element
func (t Tag) Less(other Tag) bool {
	return t.Uint32() < other.Uint32()
}

// IsPrivate returns true if this is a private tag (odd group number)
func (t Tag) IsPrivate() bool {
	return t.Group%2 == 1
}

// IsFileMeta returns true if this tag is in the File Meta Information group
func (t Tag) IsFileMeta() bool {
	return t.Group == 0x0002
}

// IsDelimiter reports item and sequence delimitation tags (group FFFE)
func (t Tag) IsDelimiter() bool {
	return t.Group == 0xFFFE
}

// File Meta Information (Group 0002)
var (
	FileMetaInformationGroupLength = Tag{0x0002, 0x0000}
	FileMetaInformationVersion     = Tag{0x0002, 0x0001}
	MediaStorageSOPClassUID        = Tag{0x0002, 0x0002}
	MediaStorageSOPInstanceUID     = Tag{0x0002, 0x0003}
	TransferSyntaxUID              = Tag{0x0002, 0x0010}
	ImplementationClassUID         = Tag{0x0002, 0x0012}
	ImplementationVersionName      = Tag{0x0002, 0x0013}
)

// Item delimiters
var (
	Item                     = Tag{0xFFFE, 0xE000}
	ItemDelimitationItem     = Tag{0xFFFE, 0xE00D}
	SequenceDelimitationItem = Tag{0xFFFE, 0xE0DD}
)

// Patient and Study
var (
	PatientName            = Tag{0x0010, 0x0010}
	PatientID              = Tag{0x0010, 0x0020}
	PatientBirthDate       = Tag{0x0010, 0x0030}
	PatientSex             = Tag{0x0010, 0x0040}
	StudyDate              = Tag{0x0008, 0x0020}
	StudyTime              = Tag{0x0008, 0x0030}
	AccessionNumber        = Tag{0x0008, 0x0050}
	ReferringPhysicianName = Tag{0x0008, 0x0090}
	StudyInstanceUID       = Tag{0x0020, 0x000D}
	StudyID                = Tag{0x0020, 0x0010}
)

// Series, Equipment and SOP Common
var (
	SpecificCharacterSet  = Tag{0x0008, 0x0005}
	ImageType             = Tag{0x0008, 0x0008}
	SOPClassUID           = Tag{0x0008, 0x0016}
	SOPInstanceUID        = Tag{0x0008, 0x0018}
	AcquisitionDateTime   = Tag{0x0008, 0x002A}
	Modality              = Tag{0x0008, 0x0060}
	Manufacturer          = Tag{0x0008, 0x0070}
	ManufacturerModelName = Tag{0x0008, 0x1090}
	ReferencedSeriesSeq   = Tag{0x0008, 0x1115}
	DeviceSerialNumber    = Tag{0x0018, 0x1000}
	SoftwareVersions      = Tag{0x0018, 0x1020}
	SeriesInstanceUID     = Tag{0x0020, 0x000E}
	SeriesNumber          = Tag{0x0020, 0x0011}
	InstanceNumber        = Tag{0x0020, 0x0013}
	ImageLaterality       = Tag{0x0020, 0x0062}
	FrameOfReferenceUID   = Tag{0x0020, 0x0052}
)

// Image Pixel (Group 0028)
var (
	SamplesPerPixel           = Tag{0x0028, 0x0002}
	PhotometricInterpretation = Tag{0x0028, 0x0004}
	PlanarConfiguration       = Tag{0x0028, 0x0006}
	NumberOfFrames            = Tag{0x0028, 0x0008}
	FrameIncrementPointer     = Tag{0x0028, 0x0009}
	Rows                      = Tag{0x0028, 0x0010}
	Columns                   = Tag{0x0028, 0x0011}
	PixelSpacing              = Tag{0x0028, 0x0030}
	BitsAllocated             = Tag{0x0028, 0x0100}
	BitsStored                = Tag{0x0028, 0x0101}
	HighBit                   = Tag{0x0028, 0x0102}
	PixelRepresentation       = Tag{0x0028, 0x0103}
	BurnedInAnnotation        = Tag{0x0028, 0x0301}
	LossyImageCompression     = Tag{0x0028, 0x2110}
	PresentationLUTShape      = Tag{0x2050, 0x0020}
	FloatPixelData            = Tag{0x7FE0, 0x0008}
	PixelData                 = Tag{0x7FE0, 0x0010}
)

// Ophthalmic (Group 0022)
var (
	PupilDilated              = Tag{0x0022, 0x000D}
	DegreeOfDilation          = Tag{0x0022, 0x000E}
	AcquisitionDeviceTypeCode = Tag{0x0022, 0x0015}
	MydriaticAgentSequence    = Tag{0x0022, 0x0058}
)
