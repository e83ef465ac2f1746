package dicom

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/vr"
)

func TestElementValues(t *testing.T) {
	tests := []struct {
		name string
		elem Element
		want []string
	}{
		{"nil", Element{VR: vr.CS}, []string{}},
		{"blank text", Element{VR: vr.LO, Value: "  "}, []string{}},
		{"multi valued", Element{VR: vr.CS, Value: `ORIGINAL\ PRIMARY`}, []string{"ORIGINAL", "PRIMARY"}},
		{"long text keeps backslash", Element{VR: vr.LT, Value: `a\b`}, []string{`a\b`}},
		{"empty binary", Element{VR: vr.OB, Value: []byte{}}, []string{}},
		{"binary", Element{VR: vr.OB, Value: []byte{1, 2, 3, 4}}, []string{"Binary Data (4 bytes)"}},
		{"empty sequence", Element{VR: vr.SQ, Value: []*Dataset{}}, []string{}},
		{"float", Element{VR: vr.FL, Value: float32(1.5)}, []string{"1.5"}},
		{"doubles", Element{VR: vr.FD, Value: []float64{0.25, 2}}, []string{"0.25", "2"}},
		{"signed", Element{VR: vr.SS, Value: int16(-4)}, []string{"-4"}},
		{"empty numeric", Element{VR: vr.US, Value: []uint16{}}, []string{}},
		{"tags", Element{VR: vr.AT, Value: []tag.Tag{tag.Rows, tag.Columns}}, []string{"00280010", "00280011"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.elem.Values())
		})
	}
}

func TestDatasetJSON(t *testing.T) {
	ds, err := NewDataset(
		WithElement(tag.Rows, uint16(2)),
		WithElement(tag.PatientName, "Doe^Jane"),
	)
	require.NoError(t, err)

	raw, err := json.Marshal(ds)
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "00100010", out[0]["tag"])
	assert.Equal(t, "PatientName", out[0]["name"])
	assert.Equal(t, "00280010", out[1]["tag"])

	assert.Contains(t, ds.String(), "[(0028,0010)] US Rows: 2")
}
