package dicom

import (
	"fmt"

	"github.com/jpfielding/ophdicom.go/pkg/dicom/dict"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/transfer"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/vr"
)

// ImplementationClassUID identifies files written by this package
const ImplementationClassUID = "1.2.826.0.1.3680043.8.498.77"

// Option configures a Dataset during construction
type Option func(*Dataset) error

// NewDataset creates a Dataset with the given options
func NewDataset(opts ...Option) (*Dataset, error) {
	ds := &Dataset{Elements: make(map[Tag]*Element)}
	for _, opt := range opts {
		if err := opt(ds); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// WithElement adds a single element, taking the VR from the standard dictionary
func WithElement(t tag.Tag, value interface{}) Option {
	return WithVRElement(t, GetVR(t), value)
}

// WithVRElement adds a single element with an explicit VR
func WithVRElement(t tag.Tag, v vr.VR, value interface{}) Option {
	return func(ds *Dataset) error {
		if v == vr.SQ {
			if _, ok := value.([]*Dataset); !ok && value != nil {
				return fmt.Errorf("element %v: SQ value must be []*Dataset, got %T", t, value)
			}
		}
		ds.Elements[t] = &Element{Tag: t, VR: v, Value: value}
		return nil
	}
}

// WithSequence adds a sequence element to the dataset
func WithSequence(t tag.Tag, items ...*Dataset) Option {
	return func(ds *Dataset) error {
		if items == nil {
			items = []*Dataset{}
		}
		ds.Elements[t] = &Element{Tag: t, VR: vr.SQ, Value: items}
		return nil
	}
}

// WithFileMeta adds standard file meta information elements
func WithFileMeta(sopClassUID, sopInstanceUID string, ts transfer.Syntax) Option {
	return func(ds *Dataset) error {
		opts := []Option{
			WithVRElement(tag.FileMetaInformationVersion, vr.OB, []byte{0x00, 0x01}),
			WithElement(tag.MediaStorageSOPClassUID, sopClassUID),
			WithElement(tag.MediaStorageSOPInstanceUID, sopInstanceUID),
			WithElement(tag.TransferSyntaxUID, string(ts)),
			WithElement(tag.ImplementationClassUID, ImplementationClassUID),
			WithVRElement(tag.ImplementationVersionName, vr.SH, "OPHDICOM_GO"),
		}
		for _, opt := range opts {
			if err := opt(ds); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithEncapsulatedPixelData adds pre-compressed frames as Pixel Data
func WithEncapsulatedPixelData(frames ...[]byte) Option {
	return func(ds *Dataset) error {
		pd := &PixelData{IsEncapsulated: true}
		var offset uint32
		for _, f := range frames {
			pd.Offsets = append(pd.Offsets, offset)
			pd.Frames = append(pd.Frames, Frame{CompressedData: f})
			offset += uint32(len(f)+len(f)%2) + 8
		}
		ds.Elements[tag.PixelData] = &Element{Tag: tag.PixelData, VR: vr.OB, Value: pd}
		return nil
	}
}

// GetVR returns the Value Representation (VR) for a standard tag
func GetVR(t tag.Tag) vr.VR {
	if t == tag.PixelData {
		return vr.OW
	}
	return dict.Standard().VR(t)
}
