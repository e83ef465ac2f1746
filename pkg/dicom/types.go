package dicom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/vr"
)

// Dataset represents a complete DICOM dataset or a sequence item
type Dataset struct {
	Elements map[Tag]*Element
}

// Element represents a single DICOM element
type Element struct {
	Tag   Tag
	VR    vr.VR
	Value interface{} // Parsed value, see Reader for the concrete types
}

// Tag alias to avoid duplication
type Tag = tag.Tag

// PixelData represents encapsulated (compressed) pixel data
type PixelData struct {
	IsEncapsulated bool
	Frames         []Frame
	Offsets        []uint32 // Basic Offset Table
}

// Frame is a single encapsulated fragment
type Frame struct {
	CompressedData []byte
}

// Get returns an element by tag
func (ds *Dataset) Get(t Tag) (*Element, bool) {
	if ds == nil {
		return nil, false
	}
	elem, ok := ds.Elements[t]
	return elem, ok
}

// Tags returns the dataset tags in ascending order
func (ds *Dataset) Tags() []Tag {
	if ds == nil {
		return nil
	}
	keys := make([]Tag, 0, len(ds.Elements))
	for k := range ds.Elements {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// GetString returns the first value of a string element, trimmed
func (ds *Dataset) GetString(t Tag) (string, bool) {
	elem, ok := ds.Get(t)
	if !ok {
		return "", false
	}
	return elem.GetString()
}

// GetString returns the first value of a string element, trimmed
func (elem *Element) GetString() (string, bool) {
	s, ok := elem.Value.(string)
	if !ok {
		return "", false
	}
	if i := strings.IndexByte(s, '\\'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s), true
}

// GetInt returns an int value from a numeric or integer string element
func (elem *Element) GetInt() (int, bool) {
	switch v := elem.Value.(type) {
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int:
		return v, true
	case []uint16:
		if len(v) > 0 {
			return int(v[0]), true
		}
	case string:
		var i int
		s, _ := elem.GetString()
		if _, err := fmt.Sscanf(s, "%d", &i); err == nil {
			return i, true
		}
	}
	return 0, false
}

// GetSequence returns the items of a sequence element
func (elem *Element) GetSequence() ([]*Dataset, bool) {
	items, ok := elem.Value.([]*Dataset)
	return items, ok
}

// GetPixelData returns encapsulated pixel data from an element
func (elem *Element) GetPixelData() (*PixelData, bool) {
	if pd, ok := elem.Value.(*PixelData); ok {
		return pd, true
	}
	return nil, false
}
