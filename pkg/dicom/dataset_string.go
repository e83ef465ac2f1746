package dicom

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jpfielding/ophdicom.go/pkg/dicom/dict"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
)

// Values flattens the element into a list of display strings, the way a
// DICOM JSON "Value" array would read. An empty list means the element
// carries no value.
func (e *Element) Values() []string {
	switch v := e.Value.(type) {
	case nil:
		return []string{}
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		if !e.VR.IsMultiValued() {
			return []string{v}
		}
		parts := strings.Split(v, `\`)
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		return parts
	case []string:
		return append([]string{}, v...)
	case []*Dataset:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = fmt.Sprintf("Item %d (%d elements)", i+1, len(item.Elements))
		}
		return out
	case *PixelData:
		return []string{fmt.Sprintf("Pixel Data (%d frames)", len(v.Frames))}
	case []byte:
		if len(v) == 0 {
			return []string{}
		}
		return []string{fmt.Sprintf("Binary Data (%d bytes)", len(v))}
	case tag.Tag:
		return []string{v.Hex()}
	case []tag.Tag:
		return mapStrings(v, func(t tag.Tag) string { return t.Hex() })
	case uint16:
		return []string{strconv.FormatUint(uint64(v), 10)}
	case []uint16:
		return mapStrings(v, func(x uint16) string { return strconv.FormatUint(uint64(x), 10) })
	case uint32:
		return []string{strconv.FormatUint(uint64(v), 10)}
	case []uint32:
		return mapStrings(v, func(x uint32) string { return strconv.FormatUint(uint64(x), 10) })
	case uint64:
		return []string{strconv.FormatUint(v, 10)}
	case []uint64:
		return mapStrings(v, func(x uint64) string { return strconv.FormatUint(x, 10) })
	case int16:
		return []string{strconv.Itoa(int(v))}
	case []int16:
		return mapStrings(v, func(x int16) string { return strconv.Itoa(int(x)) })
	case int32:
		return []string{strconv.Itoa(int(v))}
	case []int32:
		return mapStrings(v, func(x int32) string { return strconv.Itoa(int(x)) })
	case int64:
		return []string{strconv.FormatInt(v, 10)}
	case []int64:
		return mapStrings(v, func(x int64) string { return strconv.FormatInt(x, 10) })
	case int:
		return []string{strconv.Itoa(v)}
	case float32:
		return []string{strconv.FormatFloat(float64(v), 'g', -1, 32)}
	case []float32:
		return mapStrings(v, func(x float32) string { return strconv.FormatFloat(float64(x), 'g', -1, 32) })
	case float64:
		return []string{strconv.FormatFloat(v, 'g', -1, 64)}
	case []float64:
		return mapStrings(v, func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) })
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}

func mapStrings[T any](in []T, f func(T) string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

// String returns a string representation of the Element
func (e *Element) String() string {
	name := dict.Standard().Name(e.Tag)
	if name != "" {
		name = " " + name
	}
	return fmt.Sprintf("[%s] %s%s: %s", e.Tag, e.VR, name, strings.Join(e.Values(), `\`))
}

// MarshalJSON returns a JSON representation of the Element
func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Tag   string   `json:"tag"`
		Name  string   `json:"name,omitempty"`
		VR    string   `json:"vr"`
		Value []string `json:"value"`
	}{
		Tag:   e.Tag.Hex(),
		Name:  dict.Standard().Name(e.Tag),
		VR:    string(e.VR),
		Value: e.Values(),
	})
}

// String returns a string representation of the Dataset
func (ds *Dataset) String() string {
	if ds == nil {
		return "<nil>"
	}
	var b strings.Builder
	for _, k := range ds.Tags() {
		b.WriteString(ds.Elements[k].String())
		b.WriteString("\n")
	}
	return b.String()
}

// MarshalJSON returns the elements as an array sorted by tag
func (ds *Dataset) MarshalJSON() ([]byte, error) {
	elements := []*Element{}
	for _, k := range ds.Tags() {
		elements = append(elements, ds.Elements[k])
	}
	return json.Marshal(elements)
}
