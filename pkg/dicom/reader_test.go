package dicom

import (
	"bytes"
	"compress/flate"
	"context"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/transfer"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/vr"
)

const testSOPClass = "1.2.840.10008.5.1.4.1.1.77.1.5.1"

func buildOphthalmicDataset(t *testing.T, ts transfer.Syntax) *Dataset {
	t.Helper()
	codes, err := NewSequenceBuilder(tag.AcquisitionDeviceTypeCode).
		AddItem(
			WithElement(tag.New(0x0008, 0x0100), "R-1021A"),
			WithElement(tag.New(0x0008, 0x0102), "SRT"),
		).
		Build()
	require.NoError(t, err)

	ds, err := NewDataset(
		WithFileMeta(testSOPClass, "1.2.3.4.5", ts),
		WithElement(tag.SOPClassUID, testSOPClass),
		WithElement(tag.SOPInstanceUID, "1.2.3.4.5"),
		WithElement(tag.PatientName, "Doe^Jane"),
		WithElement(tag.PatientID, ""),
		WithElement(tag.ImageType, []string{"ORIGINAL", "PRIMARY"}),
		WithElement(tag.SamplesPerPixel, uint16(3)),
		WithElement(tag.Rows, uint16(512)),
		WithElement(tag.PixelSpacing, []string{"0.01", "0.01"}),
		WithElement(tag.FrameIncrementPointer, tag.NumberOfFrames),
		WithElement(tag.PupilDilated, "YES"),
		codes,
	)
	require.NoError(t, err)
	return ds
}

func roundTrip(t *testing.T, ds *Dataset) *Dataset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rt.dcm")
	n, err := WriteFile(path, ds)
	require.NoError(t, err)
	require.Greater(t, n, int64(132))

	got, err := ReadFile(path)
	require.NoError(t, err)
	return got
}

func TestRoundTrip_ExplicitVR(t *testing.T) {
	got := roundTrip(t, buildOphthalmicDataset(t, transfer.ExplicitVRLittleEndian))

	assert.Equal(t, testSOPClass, SOPClassUID(got))
	assert.Equal(t, transfer.ExplicitVRLittleEndian, TransferSyntax(got))

	name, ok := got.GetString(tag.PatientName)
	require.True(t, ok)
	assert.Equal(t, "Doe^Jane", name)

	elem, ok := got.Get(tag.ImageType)
	require.True(t, ok)
	assert.Equal(t, []string{"ORIGINAL", "PRIMARY"}, elem.Values())

	elem, ok = got.Get(tag.PatientID)
	require.True(t, ok)
	assert.Empty(t, elem.Values())

	elem, ok = got.Get(tag.SamplesPerPixel)
	require.True(t, ok)
	assert.Equal(t, uint16(3), elem.Value)
	assert.Equal(t, []string{"3"}, elem.Values())

	elem, ok = got.Get(tag.FrameIncrementPointer)
	require.True(t, ok)
	assert.Equal(t, []string{"00280008"}, elem.Values())

	elem, ok = got.Get(tag.AcquisitionDeviceTypeCode)
	require.True(t, ok)
	assert.Equal(t, vr.SQ, elem.VR)
	items, ok := elem.GetSequence()
	require.True(t, ok)
	require.Len(t, items, 1)
	code, ok := items[0].GetString(tag.New(0x0008, 0x0100))
	require.True(t, ok)
	assert.Equal(t, "R-1021A", code)
}

func TestRoundTrip_ImplicitVR(t *testing.T) {
	got := roundTrip(t, buildOphthalmicDataset(t, transfer.ImplicitVRLittleEndian))

	assert.Equal(t, transfer.ImplicitVRLittleEndian, TransferSyntax(got))

	// VRs come from the dictionary after the meta group
	elem, ok := got.Get(tag.Rows)
	require.True(t, ok)
	assert.Equal(t, vr.US, elem.VR)
	assert.Equal(t, uint16(512), elem.Value)

	elem, ok = got.Get(tag.PixelSpacing)
	require.True(t, ok)
	assert.Equal(t, vr.DS, elem.VR)
	assert.Equal(t, []string{"0.01", "0.01"}, elem.Values())

	elem, ok = got.Get(tag.AcquisitionDeviceTypeCode)
	require.True(t, ok)
	items, ok := elem.GetSequence()
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Len(t, items[0].Elements, 2)
}

func TestRoundTrip_EncapsulatedPixelData(t *testing.T) {
	ds := buildOphthalmicDataset(t, transfer.JPEGBaseline)
	require.NoError(t, WithEncapsulatedPixelData([]byte{0xFF, 0xD8, 0xFF}, []byte{0xFF, 0xD8})(ds))

	got := roundTrip(t, ds)
	elem, ok := got.Get(tag.PixelData)
	require.True(t, ok)
	pd, ok := elem.GetPixelData()
	require.True(t, ok)
	assert.Len(t, pd.Frames, 2)
	assert.Equal(t, []uint32{0, 12}, pd.Offsets)
	assert.Equal(t, []string{"Pixel Data (2 frames)"}, elem.Values())
}

// explicit VR little endian element bytes
func explicitElem(t Tag, v vr.VR, value []byte) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, t.Group)
	binary.Write(&b, binary.LittleEndian, t.Element)
	b.WriteString(string(v))
	if v.HasLongLength() {
		b.Write([]byte{0, 0})
		binary.Write(&b, binary.LittleEndian, uint32(len(value)))
	} else {
		binary.Write(&b, binary.LittleEndian, uint16(len(value)))
	}
	b.Write(value)
	return b.Bytes()
}

func fileWithBody(body ...[]byte) []byte {
	return fileWithSyntax(transfer.ExplicitVRLittleEndian, body...)
}

func fileWithSyntax(ts transfer.Syntax, body ...[]byte) []byte {
	uid := []byte(ts)
	if len(uid)%2 == 1 {
		uid = append(uid, 0)
	}
	var b bytes.Buffer
	b.Write(make([]byte, 128))
	b.WriteString("DICM")
	b.Write(explicitElem(tag.TransferSyntaxUID, vr.UI, uid))
	for _, part := range body {
		b.Write(part)
	}
	return b.Bytes()
}

// explicit VR big endian element bytes, short length VRs only
func bigEndianElem(t Tag, v vr.VR, value []byte) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.BigEndian, t.Group)
	binary.Write(&b, binary.BigEndian, t.Element)
	b.WriteString(string(v))
	binary.Write(&b, binary.BigEndian, uint16(len(value)))
	b.Write(value)
	return b.Bytes()
}

func TestParse_Deflated(t *testing.T) {
	var body bytes.Buffer
	fw, err := flate.NewWriter(&body, flate.DefaultCompression)
	require.NoError(t, err)
	fw.Write(explicitElem(tag.Modality, vr.CS, []byte("OP")))
	fw.Write(explicitElem(tag.SamplesPerPixel, vr.US, []byte{3, 0}))
	require.NoError(t, fw.Close())

	ds, err := ReadBuffer(fileWithSyntax(transfer.DeflatedExplicitVR, body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, transfer.DeflatedExplicitVR, TransferSyntax(ds))

	elem, ok := ds.Get(tag.Modality)
	require.True(t, ok)
	assert.Equal(t, []string{"OP"}, elem.Values())
	elem, ok = ds.Get(tag.SamplesPerPixel)
	require.True(t, ok)
	assert.Equal(t, []string{"3"}, elem.Values())
}

func TestParse_BigEndian(t *testing.T) {
	ds, err := ReadBuffer(fileWithSyntax(transfer.ExplicitVRBigEndian,
		bigEndianElem(tag.Modality, vr.CS, []byte("OP")),
		bigEndianElem(tag.SamplesPerPixel, vr.US, []byte{0, 3}),
		bigEndianElem(tag.Rows, vr.US, []byte{0x02, 0x00}),
	))
	require.NoError(t, err)
	assert.Equal(t, transfer.ExplicitVRBigEndian, TransferSyntax(ds))

	elem, ok := ds.Get(tag.Modality)
	require.True(t, ok)
	assert.Equal(t, []string{"OP"}, elem.Values())
	elem, ok = ds.Get(tag.SamplesPerPixel)
	require.True(t, ok)
	assert.Equal(t, uint16(3), elem.Value)
	elem, ok = ds.Get(tag.Rows)
	require.True(t, ok)
	assert.Equal(t, []string{"512"}, elem.Values())
}

func TestParse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(bytes.NewReader(fileWithBody(explicitElem(tag.Modality, vr.CS, []byte("OP")))), WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_UndefinedLengthItems(t *testing.T) {
	seq := tag.MydriaticAgentSequence
	var body bytes.Buffer
	binary.Write(&body, binary.LittleEndian, seq.Group)
	binary.Write(&body, binary.LittleEndian, seq.Element)
	body.WriteString("SQ")
	body.Write([]byte{0, 0, 0xFF, 0xFF, 0xFF, 0xFF})
	// item of undefined length holding a nested empty sequence
	body.Write([]byte{0xFE, 0xFF, 0x00, 0xE0, 0xFF, 0xFF, 0xFF, 0xFF})
	body.Write(explicitElem(tag.New(0x0008, 0x0104), vr.LO, []byte("Tropicamide ")))
	body.Write(explicitElem(tag.New(0x0022, 0x0042), vr.SQ, nil))
	body.Write([]byte{0xFE, 0xFF, 0x0D, 0xE0, 0, 0, 0, 0})
	body.Write([]byte{0xFE, 0xFF, 0xDD, 0xE0, 0, 0, 0, 0})

	ds, err := ReadBuffer(fileWithBody(
		explicitElem(tag.PupilDilated, vr.CS, []byte("YES ")),
		body.Bytes(),
		explicitElem(tag.DegreeOfDilation, vr.FL, []byte{0, 0, 0x40, 0x40}),
	))
	require.NoError(t, err)

	elem, ok := ds.Get(seq)
	require.True(t, ok)
	items, ok := elem.GetSequence()
	require.True(t, ok)
	require.Len(t, items, 1)
	agent, ok := items[0].GetString(tag.New(0x0008, 0x0104))
	require.True(t, ok)
	assert.Equal(t, "Tropicamide", agent)

	nested, ok := items[0].Get(tag.New(0x0022, 0x0042))
	require.True(t, ok)
	assert.Empty(t, nested.Values())

	elem, ok = ds.Get(tag.DegreeOfDilation)
	require.True(t, ok)
	assert.Equal(t, float32(3), elem.Value)
}

func TestParse_Errors(t *testing.T) {
	_, err := ReadBuffer([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalid)

	bad := make([]byte, 132)
	copy(bad[128:], "NOPE")
	_, err = ReadBuffer(bad)
	assert.ErrorIs(t, err, ErrInvalid)

	// element header promises more bytes than the stream holds
	truncated := fileWithBody(explicitElem(tag.PatientName, vr.PN, []byte("Doe^Jane")))
	_, err = ReadBuffer(truncated[:len(truncated)-3])
	assert.Error(t, err)
}

func TestParse_MetaOnly(t *testing.T) {
	ds, err := ReadBuffer(fileWithBody())
	require.NoError(t, err)
	assert.Len(t, ds.Elements, 1)
}
