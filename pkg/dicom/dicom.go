// Package dicom provides a native Go reader and writer for DICOM Part 10 files.
//
// It covers what metadata inspection needs:
//   - Explicit and Implicit VR Little Endian, Deflated Explicit VR and the retired Big Endian syntax
//   - Nested sequences of defined and undefined length
//   - Encapsulated pixel data, kept as opaque fragments
//   - Implicit VR resolution through a pluggable tag registry (see package dict)
//
// Basic usage:
//
//	ds, err := dicom.ReadFile("/path/to/file.dcm")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, t := range ds.Tags() {
//		fmt.Println(ds.Elements[t])
//	}
package dicom

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/transfer"
)

// ReadFile reads a DICOM file from disk
func ReadFile(path string, opts ...ReaderOption) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return ReadBuffer(data, opts...)
}

// ReadBuffer reads a DICOM file from a byte slice
func ReadBuffer(data []byte, opts ...ReaderOption) (*Dataset, error) {
	return Parse(bytes.NewReader(data), opts...)
}

// SOPClassUID returns the SOP Class UID, falling back to the file meta
// Media Storage SOP Class UID
func SOPClassUID(ds *Dataset) string {
	for _, t := range []Tag{tag.SOPClassUID, tag.MediaStorageSOPClassUID} {
		if s, ok := ds.GetString(t); ok && s != "" {
			return s
		}
	}
	return ""
}

// Modality returns the modality string from the dataset
func Modality(ds *Dataset) string {
	s, _ := ds.GetString(tag.Modality)
	return s
}

// TransferSyntax returns the transfer syntax declared in the file meta group
func TransferSyntax(ds *Dataset) transfer.Syntax {
	if s, ok := ds.GetString(tag.TransferSyntaxUID); ok && s != "" {
		return transfer.FromUID(s)
	}
	return transfer.ImplicitVRLittleEndian
}
