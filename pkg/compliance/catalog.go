package compliance

import (
	"sort"
	"strings"
)

// SOP Class UIDs with built-in rule tables
const (
	OphthalmicPhotography8BitImage   = "1.2.840.10008.5.1.4.1.1.77.1.5.1"
	OphthalmicPhotography16BitImage  = "1.2.840.10008.5.1.4.1.1.77.1.5.2"
	OphthalmicTomographyImage        = "1.2.840.10008.5.1.4.1.1.77.1.5.4"
	OphthalmicOCTEnFaceImage         = "1.2.840.10008.5.1.4.1.1.77.1.5.7"
	OphthalmicOCTBscanVolumeAnalysis = "1.2.840.10008.5.1.4.1.1.77.1.5.8"
	SurfaceSegmentationStorage       = "1.2.840.10008.5.1.4.1.1.66.5"
	HeightmapSegmentationStorage     = "1.2.840.10008.5.1.4.1.1.66.8"
	TopconHeightmapStorage           = "1.3.6.1.4.1.33437.11.10.240.10"
)

var bySOPClass = map[string]*RuleSet{
	OphthalmicPhotography8BitImage:   CFPIR,
	OphthalmicPhotography16BitImage:  CFPIR16,
	OphthalmicTomographyImage:        OCTBScan,
	OphthalmicOCTEnFaceImage:         EnFace,
	OphthalmicOCTBscanVolumeAnalysis: VolumeAnalysis,
	SurfaceSegmentationStorage:       SurfaceSegmentation,
	HeightmapSegmentationStorage:     Heightmap,
	TopconHeightmapStorage:           Heightmap,
}

// ForSOPClass returns the built-in rule set for a SOP Class UID
func ForSOPClass(uid string) (*RuleSet, bool) {
	rs, ok := bySOPClass[strings.TrimRight(uid, "\x00 ")]
	return rs, ok
}

// BuiltIn lists every built-in rule set ordered by key
func BuiltIn() []*RuleSet {
	out := []*RuleSet{CFPIR, CFPIR16, OCTBScan, VolumeAnalysis, EnFace, EnFaceLegacy, Heightmap, SurfaceSegmentation}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Lookup finds a built-in rule set by key
func Lookup(key string) (*RuleSet, bool) {
	for _, rs := range BuiltIn() {
		if rs.Key == key {
			return rs, true
		}
	}
	return nil, false
}

// Catalog resolves rule sets by key and SOP class, with loaded tables
// overriding built-ins of the same key
type Catalog struct {
	byKey map[string]*RuleSet
	bySOP map[string]*RuleSet
}

// NewCatalog starts from the built-in tables and layers extra on top
func NewCatalog(extra ...*RuleSet) *Catalog {
	c := &Catalog{byKey: map[string]*RuleSet{}, bySOP: map[string]*RuleSet{}}
	for _, rs := range BuiltIn() {
		c.byKey[rs.Key] = rs
	}
	for uid, rs := range bySOPClass {
		c.bySOP[uid] = rs
	}
	for _, rs := range extra {
		if rs == nil {
			continue
		}
		c.byKey[rs.Key] = rs
		for uid, old := range c.bySOP {
			if old.Key == rs.Key {
				c.bySOP[uid] = rs
			}
		}
	}
	return c
}

// Lookup finds a rule set by key
func (c *Catalog) Lookup(key string) (*RuleSet, bool) {
	rs, ok := c.byKey[key]
	return rs, ok
}

// ForSOPClass finds the rule set for a SOP Class UID
func (c *Catalog) ForSOPClass(uid string) (*RuleSet, bool) {
	rs, ok := c.bySOP[strings.TrimRight(uid, "\x00 ")]
	return rs, ok
}

// All lists the catalog ordered by key
func (c *Catalog) All() []*RuleSet {
	out := make([]*RuleSet, 0, len(c.byKey))
	for _, rs := range c.byKey {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
