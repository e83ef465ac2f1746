// Package vr defines DICOM Value Representations
package vr

import "strings"

// VR represents a DICOM Value Representation
type VR string

// Standard DICOM Value Representations
const (
	AE VR = "AE" // Application Entity (16 bytes max)
	AS VR = "AS" // Age String (4 bytes fixed)
	AT VR = "AT" // Attribute Tag (4 bytes fixed)
	CS VR = "CS" // Code String (16 bytes max)
	DA VR = "DA" // Date (8 bytes fixed)
	DS VR = "DS" // Decimal String (16 bytes max)
	DT VR = "DT" // DateTime (26 bytes max)
	FL VR = "FL" // Floating Point Single (4 bytes fixed)
	FD VR = "FD" // Floating Point Double (8 bytes fixed)
	IS VR = "IS" // Integer String (12 bytes max)
	LO VR = "LO" // Long String (64 bytes max)
	LT VR = "LT" // Long Text (10240 bytes max)
	OB VR = "OB" // Other Byte String
	OD VR = "OD" // Other Double String
	OF VR = "OF" // Other Float String
	OL VR = "OL" // Other Long
	OV VR = "OV" // Other 64-bit Very Long
	OW VR = "OW" // Other Word String
	PN VR = "PN" // Person Name (64 bytes max per component)
	SH VR = "SH" // Short String (16 bytes max)
	SL VR = "SL" // Signed Long (4 bytes fixed)
	SQ VR = "SQ" // Sequence of Items
	SS VR = "SS" // Signed Short (2 bytes fixed)
	ST VR = "ST" // Short Text (1024 bytes max)
	SV VR = "SV" // Signed 64-bit Very Long
	TM VR = "TM" // Time (16 bytes max)
	UC VR = "UC" // Unlimited Characters
	UI VR = "UI" // Unique Identifier (64 bytes max)
	UL VR = "UL" // Unsigned Long (4 bytes fixed)
	UN VR = "UN" // Unknown
	UR VR = "UR" // Universal Resource Identifier
	US VR = "US" // Unsigned Short (2 bytes fixed)
	UT VR = "UT" // Unlimited Text
	UV VR = "UV" // Unsigned 64-bit Very Long
)

// Parse picks the first VR out of a dictionary entry such as "OB or OW" or
// "US/SS". Unknown input yields UN.
func Parse(s string) VR {
	f := strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return r == ' ' || r == '/' || r == ','
	})
	if len(f) == 0 || len(f[0]) != 2 {
		return UN
	}
	return VR(f[0])
}

// HasLongLength returns true if the VR uses a 2-byte reserved field followed
// by a 4-byte length in explicit VR encodings
func (v VR) HasLongLength() bool {
	switch v {
	case OB, OD, OF, OL, OV, OW, SQ, SV, UC, UN, UR, UT, UV:
		return true
	default:
		return false
	}
}

// IsString returns true if this VR contains string data
func (v VR) IsString() bool {
	switch v {
	case AE, AS, CS, DA, DS, DT, IS, LO, LT, PN, SH, ST, TM, UC, UI, UR, UT:
		return true
	default:
		return false
	}
}

// IsMultiValued reports string VRs whose values are split on backslash.
// LT, ST, UT and UR are single valued by definition.
func (v VR) IsMultiValued() bool {
	switch v {
	case LT, ST, UT, UR:
		return false
	default:
		return v.IsString()
	}
}

// IsNumeric returns true for fixed-size binary numbers
func (v VR) IsNumeric() bool {
	switch v {
	case FL, FD, SL, SS, SV, UL, US, UV:
		return true
	default:
		return false
	}
}

// IsBulk returns true for opaque byte/word/float streams
func (v VR) IsBulk() bool {
	switch v {
	case OB, OD, OF, OL, OV, OW, UN:
		return true
	default:
		return false
	}
}

// IsSequence returns true if this is a sequence VR
func (v VR) IsSequence() bool {
	return v == SQ
}

// ValueSize returns the fixed size in bytes for fixed-size VRs, or 0 for variable
func (v VR) ValueSize() int {
	switch v {
	case SS, US:
		return 2
	case AT, FL, SL, UL:
		return 4
	case FD, SV, UV:
		return 8
	default:
		return 0
	}
}
