package dicom

import (
	"errors"
	"fmt"
)

// SequenceBuilder assembles the items of a sequence element.
//
// Errors from AddItem accumulate and surface from Build, so calls can be
// chained:
//
//	opt, err := dicom.NewSequenceBuilder(tag.AcquisitionDeviceTypeCode).
//		AddItem(
//			dicom.WithElement(codeValue, "R-1021A"),
//			dicom.WithElement(codingScheme, "SRT"),
//		).
//		Build()
type SequenceBuilder struct {
	tag   Tag
	items []*Dataset
	errs  []error
}

// NewSequenceBuilder creates a builder for the sequence element t
func NewSequenceBuilder(t Tag) *SequenceBuilder {
	return &SequenceBuilder{tag: t, items: []*Dataset{}}
}

// AddItem appends an item constructed from opts
func (sb *SequenceBuilder) AddItem(opts ...Option) *SequenceBuilder {
	item, err := NewDataset(opts...)
	if err != nil {
		sb.errs = append(sb.errs, fmt.Errorf("item %d: %w", len(sb.items)+len(sb.errs), err))
		return sb
	}
	sb.items = append(sb.items, item)
	return sb
}

// AddDataset appends a pre-built item; nil is ignored
func (sb *SequenceBuilder) AddDataset(ds *Dataset) *SequenceBuilder {
	if ds != nil {
		sb.items = append(sb.items, ds)
	}
	return sb
}

// Count returns the number of items currently in the sequence
func (sb *SequenceBuilder) Count() int {
	return len(sb.items)
}

// HasErrors returns true if any AddItem call failed
func (sb *SequenceBuilder) HasErrors() bool {
	return len(sb.errs) > 0
}

// Build returns an Option that adds the sequence to a dataset
func (sb *SequenceBuilder) Build() (Option, error) {
	if len(sb.errs) > 0 {
		return nil, fmt.Errorf("sequence %v: %w", sb.tag, errors.Join(sb.errs...))
	}
	items := make([]*Dataset, len(sb.items))
	copy(items, sb.items)
	return WithSequence(sb.tag, items...), nil
}

// BuildDataset creates a standalone dataset containing only this sequence
func (sb *SequenceBuilder) BuildDataset() (*Dataset, error) {
	opt, err := sb.Build()
	if err != nil {
		return nil, err
	}
	return NewDataset(opt)
}
