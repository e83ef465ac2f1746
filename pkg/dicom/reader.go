package dicom

import (
	"bufio"
	"bytes"
	"compress/flate"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jpfielding/ophdicom.go/pkg/dicom/dict"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/transfer"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/vr"
)

// ErrInvalid is returned for streams that are not DICOM Part 10 files
var ErrInvalid = errors.New("invalid DICOM stream")

const (
	undefinedLength = 0xFFFFFFFF
	// values above this are streamed rather than allocated up front
	eagerAllocLimit = 1 << 20
)

// Reader reads DICOM Part 10 files.
//
// Parsed values use these Go types:
//   - text VRs: string with trailing padding removed (multiple values stay backslash separated)
//   - US/UL/SS/SL/SV/UV/FL/FD: a scalar for one value, a slice otherwise
//   - AT: tag.Tag or []tag.Tag
//   - SQ: []*Dataset
//   - encapsulated Pixel Data: *PixelData
//   - everything else: []byte
type Reader struct {
	ctx      context.Context
	r        io.Reader
	reg      *dict.Registry
	syntax   transfer.Syntax
	explicit bool
	order    binary.ByteOrder
}

// ReaderOption configures a Reader
type ReaderOption func(*Reader)

// WithRegistry sets the dictionary used for implicit VR lookups
func WithRegistry(reg *dict.Registry) ReaderOption {
	return func(r *Reader) {
		if reg != nil {
			r.reg = reg
		}
	}
}

// WithContext stops the reader between elements once ctx is done
func WithContext(ctx context.Context) ReaderOption {
	return func(r *Reader) {
		if ctx != nil {
			r.ctx = ctx
		}
	}
}

// NewReader creates a new DICOM reader
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	rd := &Reader{
		ctx:      context.Background(),
		r:        r,
		reg:      dict.Standard(),
		explicit: true,
		order:    binary.LittleEndian,
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Parse reads a complete DICOM file
func Parse(r io.Reader, opts ...ReaderOption) (*Dataset, error) {
	return NewReader(r, opts...).ReadDataset()
}

// ReadDataset reads the preamble, the file meta group and the dataset body
func (r *Reader) ReadDataset() (*Dataset, error) {
	ds := &Dataset{Elements: make(map[Tag]*Element)}

	var head [132]byte
	if _, err := io.ReadFull(r.r, head[:]); err != nil {
		return nil, fmt.Errorf("%w: reading preamble: %v", ErrInvalid, err)
	}
	if string(head[128:]) != "DICM" {
		return nil, fmt.Errorf("%w: missing DICM magic", ErrInvalid)
	}

	// Group 0002 is always Explicit VR Little Endian; the transfer syntax
	// it declares applies from the first element after the group.
	br := bufio.NewReader(r.r)
	r.r = br
	for {
		peek, err := br.Peek(2)
		if err != nil {
			if errors.Is(err, io.EOF) && len(peek) == 0 {
				return ds, nil
			}
			return nil, fmt.Errorf("reading file meta: %w", err)
		}
		if binary.LittleEndian.Uint16(peek) != 0x0002 {
			break
		}
		t, err := r.readTag()
		if err != nil {
			return nil, fmt.Errorf("reading file meta tag: %w", err)
		}
		elem, err := r.readElement(t)
		if err != nil {
			return nil, fmt.Errorf("failed to read element %v: %w", t, err)
		}
		ds.Elements[t] = elem
	}

	r.syntax = transfer.ImplicitVRLittleEndian
	if s, ok := ds.GetString(tag.TransferSyntaxUID); ok && s != "" {
		r.syntax = transfer.FromUID(s)
	}
	r.explicit = r.syntax.IsExplicitVR()
	if !r.syntax.IsLittleEndian() {
		r.order = binary.BigEndian
	}
	if r.syntax.IsDeflated() {
		r.r = flate.NewReader(br)
	}

	if err := r.readElements(ds, false); err != nil {
		return nil, err
	}
	return ds, nil
}

// readElements reads until EOF, or until an item delimiter when inItem is set
func (r *Reader) readElements(ds *Dataset, inItem bool) error {
	for {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		t, err := r.readTag()
		if err == io.EOF {
			if inItem {
				return fmt.Errorf("item not terminated: %w", io.ErrUnexpectedEOF)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tag: %w", err)
		}
		if t == tag.ItemDelimitationItem && inItem {
			_, err := r.readUint32()
			return err
		}
		elem, err := r.readElement(t)
		if err != nil {
			return fmt.Errorf("failed to read element %v: %w", t, err)
		}
		ds.Elements[t] = elem
	}
}

// readElement reads the VR, length and value of an element whose tag has been read
func (r *Reader) readElement(t Tag) (*Element, error) {
	var v vr.VR
	var vl uint32

	explicit := r.explicit || t.IsFileMeta()
	order := r.order
	if t.IsFileMeta() {
		order = binary.LittleEndian
	}

	if explicit {
		var raw [2]byte
		if _, err := io.ReadFull(r.r, raw[:]); err != nil {
			return nil, err
		}
		v = vr.VR(raw[:])
		if v.HasLongLength() {
			var rest [6]byte
			if _, err := io.ReadFull(r.r, rest[:]); err != nil {
				return nil, err
			}
			vl = order.Uint32(rest[2:])
		} else {
			var l [2]byte
			if _, err := io.ReadFull(r.r, l[:]); err != nil {
				return nil, err
			}
			vl = uint32(order.Uint16(l[:]))
		}
	} else {
		n, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		vl = n
		v = r.reg.VR(t)
		if t == tag.PixelData {
			v = vr.OW
		}
	}

	value, err := r.readValue(t, v, vl)
	if err != nil {
		return nil, err
	}
	if vl == undefinedLength && v == vr.UN {
		// undefined length UN is an implicit VR sequence
		v = vr.SQ
	}
	return &Element{Tag: t, VR: v, Value: value}, nil
}

// readTag reads a DICOM tag; a clean io.EOF means there are no more elements
func (r *Reader) readTag() (Tag, error) {
	var b [4]byte
	n, err := io.ReadFull(r.r, b[:])
	if err != nil {
		if n == 0 && (err == io.EOF || err == io.ErrUnexpectedEOF) {
			return Tag{}, io.EOF
		}
		return Tag{}, err
	}
	return Tag{Group: r.order.Uint16(b[:2]), Element: r.order.Uint16(b[2:])}, nil
}

func (r *Reader) readUint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, err
	}
	return r.order.Uint32(b[:]), nil
}

// readValue reads the value based on VR and VL
func (r *Reader) readValue(t Tag, v vr.VR, vl uint32) (interface{}, error) {
	if vl == undefinedLength {
		switch {
		case t == tag.PixelData:
			return r.readEncapsulatedPixelData()
		case v == vr.SQ:
			return r.readSequence(true)
		case v == vr.UN:
			return r.child(nil, false).readSequence(true)
		default:
			return nil, fmt.Errorf("undefined length not allowed for VR %s", v)
		}
	}

	data, err := r.readBytes(vl)
	if err != nil {
		return nil, err
	}
	if v == vr.SQ {
		return r.child(data, r.explicit).readSequence(false)
	}
	return parseValue(v, data, r.order), nil
}

// readBytes reads n bytes without trusting n for the allocation size
func (r *Reader) readBytes(n uint32) ([]byte, error) {
	if n <= eagerAllocLimit {
		data := make([]byte, n)
		if _, err := io.ReadFull(r.r, data); err != nil {
			return nil, err
		}
		return data, nil
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r.r, int64(n)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// child returns a reader that shares the dictionary and byte order. A nil
// data slice continues on the parent stream.
func (r *Reader) child(data []byte, explicit bool) *Reader {
	src := r.r
	if data != nil {
		src = bytes.NewReader(data)
	}
	return &Reader{ctx: r.ctx, r: src, reg: r.reg, syntax: r.syntax, explicit: explicit, order: r.order}
}

// readSequence reads sequence items. With undefined set the sequence ends
// at (FFFE,E0DD), otherwise at the end of the reader.
func (r *Reader) readSequence(undefined bool) ([]*Dataset, error) {
	items := []*Dataset{}
	for {
		t, err := r.readTag()
		if err == io.EOF {
			if undefined {
				return nil, fmt.Errorf("sequence not terminated: %w", io.ErrUnexpectedEOF)
			}
			return items, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading sequence item tag: %w", err)
		}
		length, err := r.readUint32()
		if err != nil {
			return nil, fmt.Errorf("reading item length: %w", err)
		}

		switch t {
		case tag.SequenceDelimitationItem:
			return items, nil
		case tag.Item:
		default:
			return nil, fmt.Errorf("expected item tag, got %v", t)
		}

		item := &Dataset{Elements: make(map[Tag]*Element)}
		if length == undefinedLength {
			if err := r.readElements(item, true); err != nil {
				return nil, err
			}
		} else {
			data, err := r.readBytes(length)
			if err != nil {
				return nil, fmt.Errorf("reading item data: %w", err)
			}
			if err := r.child(data, r.explicit).readElements(item, false); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}
}

// readEncapsulatedPixelData reads encapsulated (compressed) pixel data
func (r *Reader) readEncapsulatedPixelData() (*PixelData, error) {
	pd := &PixelData{IsEncapsulated: true, Frames: []Frame{}}

	botTag, err := r.readTag()
	if err != nil {
		return nil, err
	}
	if botTag != tag.Item {
		return nil, fmt.Errorf("expected BOT item tag, got %v", botTag)
	}
	botLength, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	bot, err := r.readBytes(botLength)
	if err != nil {
		return nil, err
	}
	for i := 0; i+4 <= len(bot); i += 4 {
		pd.Offsets = append(pd.Offsets, r.order.Uint32(bot[i:]))
	}

	for {
		itemTag, err := r.readTag()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		itemLength, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		if itemTag == tag.SequenceDelimitationItem {
			return pd, nil
		}
		if itemTag != tag.Item {
			return nil, fmt.Errorf("expected item tag, got %v", itemTag)
		}
		frameData, err := r.readBytes(itemLength)
		if err != nil {
			return nil, err
		}
		pd.Frames = append(pd.Frames, Frame{CompressedData: frameData})
	}
}

// parseValue converts raw bytes to typed value based on VR
func parseValue(v vr.VR, data []byte, order binary.ByteOrder) interface{} {
	switch {
	case v.IsString():
		s := string(data)
		for len(s) > 0 && (s[len(s)-1] == 0 || s[len(s)-1] == ' ') {
			s = s[:len(s)-1]
		}
		return s
	case v == vr.AT:
		tags := make([]tag.Tag, len(data)/4)
		for i := range tags {
			tags[i] = tag.New(order.Uint16(data[i*4:]), order.Uint16(data[i*4+2:]))
		}
		if len(tags) == 1 {
			return tags[0]
		}
		return tags
	}

	switch v {
	case vr.US:
		return scalarOrSlice(data, 2, func(b []byte) uint16 { return order.Uint16(b) })
	case vr.UL:
		return scalarOrSlice(data, 4, func(b []byte) uint32 { return order.Uint32(b) })
	case vr.UV:
		return scalarOrSlice(data, 8, func(b []byte) uint64 { return order.Uint64(b) })
	case vr.SS:
		return scalarOrSlice(data, 2, func(b []byte) int16 { return int16(order.Uint16(b)) })
	case vr.SL:
		return scalarOrSlice(data, 4, func(b []byte) int32 { return int32(order.Uint32(b)) })
	case vr.SV:
		return scalarOrSlice(data, 8, func(b []byte) int64 { return int64(order.Uint64(b)) })
	case vr.FL:
		return scalarOrSlice(data, 4, func(b []byte) float32 { return math.Float32frombits(order.Uint32(b)) })
	case vr.FD:
		return scalarOrSlice(data, 8, func(b []byte) float64 { return math.Float64frombits(order.Uint64(b)) })
	}
	return data
}

// scalarOrSlice decodes fixed-size values: one value yields a scalar, any
// other count (including zero) a slice. Trailing partial values are dropped.
func scalarOrSlice[T any](data []byte, size int, decode func([]byte) T) interface{} {
	values := make([]T, len(data)/size)
	for i := range values {
		values[i] = decode(data[i*size:])
	}
	if len(values) == 1 {
		return values[0]
	}
	return values
}
