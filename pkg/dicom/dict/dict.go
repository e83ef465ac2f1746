// Package dict resolves tag keywords and VRs.
//
// A Registry layers an immutable overlay of vendor or newly standardised
// tags over the standard DICOM data dictionary. Registries are safe for
// concurrent use; With returns a new Registry and never mutates the receiver.
package dict

import (
	"sync"

	dicomtag "github.com/suyashkumar/dicom/pkg/tag"

	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/vr"
)

// Info describes a single dictionary entry
type Info struct {
	Tag  tag.Tag
	VR   vr.VR
	Name string // keyword, e.g. "PatientName"
	VM   string
}

// Registry is an immutable tag dictionary
type Registry struct {
	overlay map[tag.Tag]Info
}

// Ophthalmic en face / segmentation attributes that older dictionaries lack,
// plus the private 0022,EEEx block some converters emit before standardisation.
var vendorOverlay = []Info{
	{Tag: tag.New(0x0008, 0x114C), VR: vr.SQ, Name: "ReferencedSegmentationSequence", VM: "1"},
	{Tag: tag.New(0x0022, 0x1627), VR: vr.SQ, Name: "EnFaceVolumeDescriptorSequence", VM: "1"},
	{Tag: tag.New(0x0022, 0x1629), VR: vr.CS, Name: "EnFaceVolumeDescriptorScope", VM: "1"},
	{Tag: tag.New(0x0066, 0x0005), VR: vr.FL, Name: "SurfaceOffset", VM: "1"},
	{Tag: tag.New(0x0022, 0xEEE0), VR: vr.SQ, Name: "EnFaceVolumeDescriptorSequence", VM: "1"},
	{Tag: tag.New(0x0022, 0xEEE1), VR: vr.CS, Name: "EnFaceVolumeDescriptorScope", VM: "1"},
	{Tag: tag.New(0x0022, 0xEEE2), VR: vr.SQ, Name: "ReferencedSegmentationSequence", VM: "1"},
	{Tag: tag.New(0x0022, 0xEEE3), VR: vr.FL, Name: "SurfaceOffset", VM: "1"},
}

var standard = sync.OnceValue(func() *Registry {
	return New(vendorOverlay...)
})

// Standard returns the shared registry: the DICOM dictionary plus the vendor overlay
func Standard() *Registry {
	return standard()
}

// New builds a registry over the standard DICOM dictionary. Later entries
// win over earlier ones for the same tag.
func New(extra ...Info) *Registry {
	r := &Registry{overlay: make(map[tag.Tag]Info, len(extra))}
	for _, i := range extra {
		r.overlay[i.Tag] = i
	}
	return r
}

// With returns a copy of r with additional overlay entries
func (r *Registry) With(extra ...Info) *Registry {
	n := &Registry{overlay: make(map[tag.Tag]Info, len(r.overlay)+len(extra))}
	for k, v := range r.overlay {
		n.overlay[k] = v
	}
	for _, i := range extra {
		n.overlay[i.Tag] = i
	}
	return n
}

// Lookup returns the dictionary entry for t, overlay first
func (r *Registry) Lookup(t tag.Tag) (Info, bool) {
	if i, ok := r.overlay[t]; ok {
		return i, true
	}
	si, err := dicomtag.Find(dicomtag.Tag{Group: t.Group, Element: t.Element})
	if err != nil {
		return Info{}, false
	}
	info := Info{Tag: t, Name: si.Name, VM: si.VM, VR: vr.UN}
	if si.VR != "" {
		info.VR = vr.Parse(si.VR)
	}
	return info, true
}

// Name returns the keyword for t or "" when unknown
func (r *Registry) Name(t tag.Tag) string {
	i, _ := r.Lookup(t)
	return i.Name
}

// VR returns the VR used when decoding t from an implicit VR stream
func (r *Registry) VR(t tag.Tag) vr.VR {
	switch {
	case t.Element == 0x0000:
		return vr.UL // group length
	case t.IsPrivate() && t.Element >= 0x0010 && t.Element <= 0x00FF:
		return vr.LO // private creator
	}
	if i, ok := r.Lookup(t); ok {
		return i.VR
	}
	return vr.UN
}
