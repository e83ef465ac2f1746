package dicom

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/transfer"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/vr"
)

// WriteFile writes a dataset to a DICOM file
func WriteFile(path string, ds *Dataset) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Write(f, ds)
}

// Write writes preamble, file meta group and dataset body. The meta group is
// always Explicit VR Little Endian; the body follows the dataset's
// TransferSyntaxUID (Implicit or Explicit VR Little Endian).
func Write(w io.Writer, ds *Dataset) (int64, error) {
	cw := &CountingWriter{Writer: w}

	if _, err := cw.Write(make([]byte, 128)); err != nil {
		return cw.Count.Load(), err
	}
	if _, err := cw.Write([]byte("DICM")); err != nil {
		return cw.Count.Load(), err
	}

	meta := &Dataset{Elements: make(map[Tag]*Element)}
	body := &Dataset{Elements: make(map[Tag]*Element)}
	for t, elem := range ds.Elements {
		if t.IsFileMeta() {
			if t != tag.FileMetaInformationGroupLength {
				meta.Elements[t] = elem
			}
			continue
		}
		body.Elements[t] = elem
	}

	if len(meta.Elements) > 0 {
		var mb bytes.Buffer
		if err := writeDataSetBody(&mb, meta, true); err != nil {
			return cw.Count.Load(), err
		}
		groupLength := &Element{Tag: tag.FileMetaInformationGroupLength, VR: vr.UL, Value: uint32(mb.Len())}
		if _, err := writeElement(cw, groupLength, true); err != nil {
			return cw.Count.Load(), err
		}
		if _, err := cw.Write(mb.Bytes()); err != nil {
			return cw.Count.Load(), err
		}
	}

	explicit := true
	if s, ok := ds.GetString(tag.TransferSyntaxUID); ok {
		explicit = transfer.FromUID(s).IsExplicitVR()
	}
	if err := writeDataSetBody(cw, body, explicit); err != nil {
		return cw.Count.Load(), err
	}
	return cw.Count.Load(), nil
}

func writeDataSetBody(w io.Writer, ds *Dataset, explicit bool) error {
	for _, t := range ds.Tags() {
		elem := ds.Elements[t]
		if _, err := writeElement(w, elem, explicit); err != nil {
			return fmt.Errorf("failed to write element %v: %w", elem.Tag, err)
		}
	}
	return nil
}

func writeElement(w io.Writer, elem *Element, explicit bool) (int64, error) {
	cw := &CountingWriter{Writer: w}

	v := elem.VR
	if len(v) != 2 {
		slog.Warn("Invalid VR length, defaulting to UN", "vr", v, "tag", elem.Tag)
		v = vr.UN
	}

	valBytes, undefined, err := encodeValue(elem.Value, v, explicit)
	if err != nil {
		return cw.Count.Load(), err
	}
	length := uint32(len(valBytes))
	if undefined {
		length = undefinedLength
	}

	var hdr bytes.Buffer
	binary.Write(&hdr, binary.LittleEndian, elem.Tag.Group)
	binary.Write(&hdr, binary.LittleEndian, elem.Tag.Element)
	switch {
	case !explicit:
		binary.Write(&hdr, binary.LittleEndian, length)
	case v.HasLongLength():
		hdr.WriteString(string(v))
		hdr.Write([]byte{0, 0})
		binary.Write(&hdr, binary.LittleEndian, length)
	default:
		if undefined {
			return cw.Count.Load(), fmt.Errorf("undefined length not supported for Short VR %s", v)
		}
		if len(valBytes) > math.MaxUint16 {
			return cw.Count.Load(), fmt.Errorf("value of %d bytes too long for VR %s", len(valBytes), v)
		}
		hdr.WriteString(string(v))
		binary.Write(&hdr, binary.LittleEndian, uint16(length))
	}

	if _, err := cw.Write(hdr.Bytes()); err != nil {
		return cw.Count.Load(), err
	}
	if _, err := cw.Write(valBytes); err != nil {
		return cw.Count.Load(), err
	}
	return cw.Count.Load(), nil
}

// encodeValue returns encoded bytes and whether undefined length is used
func encodeValue(val interface{}, v vr.VR, explicit bool) ([]byte, bool, error) {
	if val == nil {
		return []byte{}, false, nil
	}

	switch x := val.(type) {
	case *PixelData:
		b, err := encodeEncapsulatedPixelData(x)
		return b, true, err
	case []*Dataset:
		if v != vr.SQ {
			return nil, false, fmt.Errorf("unexpected []*Dataset for VR %s", v)
		}
		b, err := encodeSequence(x, explicit)
		return b, true, err
	case string:
		return padString(x, v), false, nil
	case []string:
		return padString(strings.Join(x, `\`), v), false, nil
	case tag.Tag:
		return encodeTags([]tag.Tag{x}), false, nil
	case []tag.Tag:
		return encodeTags(x), false, nil
	case uint16:
		return binary.LittleEndian.AppendUint16(nil, x), false, nil
	case []uint16:
		b := make([]byte, 0, len(x)*2)
		for _, u := range x {
			b = binary.LittleEndian.AppendUint16(b, u)
		}
		return b, false, nil
	case uint32:
		return binary.LittleEndian.AppendUint32(nil, x), false, nil
	case []uint32:
		b := make([]byte, 0, len(x)*4)
		for _, u := range x {
			b = binary.LittleEndian.AppendUint32(b, u)
		}
		return b, false, nil
	case int16:
		return binary.LittleEndian.AppendUint16(nil, uint16(x)), false, nil
	case int32:
		return binary.LittleEndian.AppendUint32(nil, uint32(x)), false, nil
	case int:
		switch v {
		case vr.US, vr.SS:
			return binary.LittleEndian.AppendUint16(nil, uint16(x)), false, nil
		case vr.UL, vr.SL:
			return binary.LittleEndian.AppendUint32(nil, uint32(x)), false, nil
		case vr.IS:
			return padString(strconv.Itoa(x), v), false, nil
		}
		return nil, false, fmt.Errorf("int for VR %s not implemented", v)
	case float32:
		return binary.LittleEndian.AppendUint32(nil, math.Float32bits(x)), false, nil
	case []float32:
		b := make([]byte, 0, len(x)*4)
		for _, f := range x {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
		}
		return b, false, nil
	case float64:
		switch v {
		case vr.DS:
			return padString(strconv.FormatFloat(x, 'g', -1, 64), v), false, nil
		case vr.FD:
			return binary.LittleEndian.AppendUint64(nil, math.Float64bits(x)), false, nil
		case vr.FL:
			return binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(x))), false, nil
		}
		return nil, false, fmt.Errorf("float64 for VR %s not implemented", v)
	case []float64:
		b := make([]byte, 0, len(x)*8)
		for _, f := range x {
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(f))
		}
		return b, false, nil
	case []byte:
		if len(x)%2 != 0 {
			return append(append([]byte{}, x...), 0), false, nil
		}
		return x, false, nil
	}

	return nil, false, fmt.Errorf("unsupported value type %T for VR %s", val, v)
}

// padString pads to even length: UI with NUL, other text with space
func padString(s string, v vr.VR) []byte {
	b := []byte(s)
	if len(b)%2 != 0 {
		if v == vr.UI {
			b = append(b, 0)
		} else {
			b = append(b, ' ')
		}
	}
	return b
}

func encodeTags(tags []tag.Tag) []byte {
	b := make([]byte, 0, len(tags)*4)
	for _, t := range tags {
		b = binary.LittleEndian.AppendUint16(b, t.Group)
		b = binary.LittleEndian.AppendUint16(b, t.Element)
	}
	return b
}

// encodeSequence writes defined-length items followed by a sequence delimiter
func encodeSequence(datasets []*Dataset, explicit bool) ([]byte, error) {
	var buf bytes.Buffer
	for _, ds := range datasets {
		var item bytes.Buffer
		if err := writeDataSetBody(&item, ds, explicit); err != nil {
			return nil, fmt.Errorf("failed to encode sequence item: %w", err)
		}
		buf.Write([]byte{0xFE, 0xFF, 0x00, 0xE0})
		binary.Write(&buf, binary.LittleEndian, uint32(item.Len()))
		buf.Write(item.Bytes())
	}
	buf.Write([]byte{0xFE, 0xFF, 0xDD, 0xE0, 0x00, 0x00, 0x00, 0x00})
	return buf.Bytes(), nil
}

func encodeEncapsulatedPixelData(pd *PixelData) ([]byte, error) {
	var buf bytes.Buffer

	buf.Write([]byte{0xFE, 0xFF, 0x00, 0xE0})
	binary.Write(&buf, binary.LittleEndian, uint32(len(pd.Offsets)*4))
	for _, off := range pd.Offsets {
		binary.Write(&buf, binary.LittleEndian, off)
	}

	for _, frame := range pd.Frames {
		data := frame.CompressedData
		if len(data)%2 != 0 {
			data = append(append([]byte{}, data...), 0)
		}
		buf.Write([]byte{0xFE, 0xFF, 0x00, 0xE0})
		binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
		buf.Write(data)
	}

	buf.Write([]byte{0xFE, 0xFF, 0xDD, 0xE0, 0x00, 0x00, 0x00, 0x00})
	return buf.Bytes(), nil
}

// CountingWriter counts bytes successfully written through it
type CountingWriter struct {
	Count  atomic.Int64
	Writer io.Writer
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.Writer.Write(p)
	if err == nil {
		c.Count.Add(int64(n))
	}
	return n, err
}
