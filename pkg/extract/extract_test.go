package extract

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/ophdicom.go/pkg/compliance"
	"github.com/jpfielding/ophdicom.go/pkg/dicom"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/transfer"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/vr"
)

func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	ds, err := dicom.NewDataset(
		dicom.WithFileMeta(compliance.OphthalmicPhotography8BitImage, "1.2.3.4", transfer.ImplicitVRLittleEndian),
		dicom.WithElement(tag.SOPClassUID, compliance.OphthalmicPhotography8BitImage),
		dicom.WithElement(tag.SOPInstanceUID, "1.2.3.4"),
		dicom.WithElement(tag.Modality, "OP"),
		dicom.WithElement(tag.PatientID, ""),
		dicom.WithElement(tag.ImageType, []string{"ORIGINAL", "PRIMARY"}),
		dicom.WithElement(tag.SamplesPerPixel, uint16(3)),
		dicom.WithElement(tag.PupilDilated, "YES"),
		dicom.WithSequence(tag.ReferencedSeriesSeq),
		dicom.WithVRElement(tag.New(0x0009, 0x1001), vr.LO, "vendor"),
	)
	require.NoError(t, err)
	path := filepath.Join(dir, "cfp.dcm")
	_, err = dicom.WriteFile(path, ds)
	require.NoError(t, err)
	return path
}

func TestLoad(t *testing.T) {
	path := writeFixture(t, t.TempDir())
	ds, err := New(nil).Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, ds.Path)
	assert.Equal(t, compliance.OphthalmicPhotography8BitImage, ds.SOPClassUID)

	e, ok := ds.Get("00080008")
	require.True(t, ok)
	assert.Equal(t, "ImageType", e.Name)
	assert.Equal(t, "CS", e.VR)
	assert.Equal(t, []string{"ORIGINAL", "PRIMARY"}, e.Value)

	e, ok = ds.Get("00100020")
	require.True(t, ok)
	assert.True(t, e.IsEmpty())

	e, ok = ds.Get("00081115")
	require.True(t, ok)
	assert.True(t, e.IsEmpty())

	e, ok = ds.Get("00091001")
	require.True(t, ok)
	assert.Empty(t, e.Name)

	vals, ok := ds.Lookup("00280002")
	require.True(t, ok)
	assert.Equal(t, []string{"3"}, vals)

	_, ok = ds.Lookup("00280006")
	assert.False(t, ok)
}

func TestExtract(t *testing.T) {
	path := writeFixture(t, t.TempDir())
	a := New(nil)
	wanted := []string{"00080060", "0022000d", "00280006"}

	ds, err := a.Extract(context.Background(), path, wanted)
	require.NoError(t, err)
	assert.Equal(t, []string{"00080060", "0022000D"}, ds.Tags())

	extra, err := a.ExtractExtra(context.Background(), path, wanted)
	require.NoError(t, err)
	for _, w := range wanted {
		_, ok := extra.Get(w)
		assert.False(t, ok, w)
	}
	for _, tg := range extra.Tags() {
		assert.NotEqual(t, "0002", tg[:4])
	}
	_, ok := extra.Get("00080008")
	assert.True(t, ok)
}

func TestExtractErrors(t *testing.T) {
	dir := t.TempDir()
	a := New(nil)

	_, err := a.Load(context.Background(), filepath.Join(dir, "missing.dcm"))
	assert.ErrorIs(t, err, ErrFileNotReadable)

	_, err = a.Load(context.Background(), dir)
	assert.ErrorIs(t, err, ErrFileNotReadable)

	junk := filepath.Join(dir, "junk.dcm")
	require.NoError(t, os.WriteFile(junk, []byte("not a dicom file"), 0o644))
	_, err = a.Load(context.Background(), junk)
	assert.ErrorIs(t, err, ErrDecode)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Load(ctx, writeFixture(t, dir))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDatasetJSON(t *testing.T) {
	ds := &Dataset{Entries: map[string]Entry{
		"00280002": {Tag: "00280002", Name: "SamplesPerPixel", VR: "US", Value: []string{"3"}},
		"00080060": {Tag: "00080060", Name: "Modality", VR: "CS", Value: []string{"OP"}},
	}}
	raw, err := json.Marshal(ds)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"tag":"00080060","name":"Modality","vr":"CS","value":["OP"]},
		{"tag":"00280002","name":"SamplesPerPixel","vr":"US","value":["3"]}
	]`, string(raw))
}

func TestFlattenNested(t *testing.T) {
	inner, err := dicom.NewSequenceBuilder(tag.New(0x0028, 0x9110)).
		AddItem(dicom.WithVRElement(tag.PixelSpacing, vr.DS, []string{"0.1", "0.2"})).
		Build()
	require.NoError(t, err)
	shared, err := dicom.NewSequenceBuilder(tag.New(0x5200, 0x9229)).
		AddItem(inner).
		Build()
	require.NoError(t, err)
	ds, err := dicom.NewDataset(
		dicom.WithElement(tag.Modality, "OPT"),
		shared,
		dicom.WithSequence(tag.ReferencedSeriesSeq),
	)
	require.NoError(t, err)

	flat := New(nil).Flatten("oct.dcm", ds)
	nodes, ok := flat.Sequence("52009229")
	require.True(t, ok)
	require.Len(t, nodes, 2)
	assert.Equal(t, "52009229[0].00289110", nodes[0].Path)
	assert.Equal(t, 1, nodes[0].Depth)
	assert.Equal(t, "SQ", nodes[0].VR)
	assert.Equal(t, "52009229[0].00289110[0].00280030", nodes[1].Path)
	assert.Equal(t, 2, nodes[1].Depth)
	assert.Equal(t, "PixelSpacing", nodes[1].Name)
	assert.Equal(t, []string{"0.1", "0.2"}, nodes[1].Value)

	nodes, ok = flat.Sequence("00081115")
	require.True(t, ok)
	assert.Empty(t, nodes)

	_, ok = flat.Sequence("00080060")
	assert.False(t, ok)
}
