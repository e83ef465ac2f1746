// Package extract flattens decoded DICOM files into the tag keyed view the
// compliance evaluator consumes.
package extract

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jpfielding/ophdicom.go/pkg/dicom"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/dict"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
)

var (
	// ErrFileNotReadable marks a path that does not exist or cannot be opened
	ErrFileNotReadable = errors.New("file not readable")
	// ErrDecode marks bytes that are not a valid DICOM file
	ErrDecode = errors.New("dicom decode error")
)

// Entry is one flattened element
type Entry struct {
	Tag   string   `json:"tag"`
	Name  string   `json:"name"`
	VR    string   `json:"vr"`
	Value []string `json:"value"`
}

// IsEmpty reports an element without values
func (e Entry) IsEmpty() bool {
	return len(e.Value) == 0
}

// Node is one element inside a top level sequence. Path addresses it
// from the sequence down, e.g. 52009230[0].00289110[0].00280030.
type Node struct {
	Path  string `json:"path"`
	Depth int    `json:"depth"`
	Entry
}

// Dataset is the flat view of one file keyed by canonical tag
type Dataset struct {
	Path        string
	SOPClassUID string
	Entries     map[string]Entry
	// Nested holds the walked content of each top level sequence
	Nested map[string][]Node
}

// Lookup implements compliance.Dataset
func (d *Dataset) Lookup(t string) ([]string, bool) {
	if d == nil {
		return nil, false
	}
	e, ok := d.Entries[strings.ToUpper(t)]
	return e.Value, ok
}

// Get returns the entry for a tag
func (d *Dataset) Get(t string) (Entry, bool) {
	e, ok := d.Entries[strings.ToUpper(t)]
	return e, ok
}

// Sequence returns the walked items of a top level sequence
func (d *Dataset) Sequence(t string) ([]Node, bool) {
	nodes, ok := d.Nested[strings.ToUpper(t)]
	return nodes, ok
}

// Tags lists the entries in ascending tag order
func (d *Dataset) Tags() []string {
	out := make([]string, 0, len(d.Entries))
	for t := range d.Entries {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Sorted lists the entries in ascending tag order
func (d *Dataset) Sorted() []Entry {
	out := make([]Entry, 0, len(d.Entries))
	for _, t := range d.Tags() {
		out = append(out, d.Entries[t])
	}
	return out
}

// Len is the number of entries
func (d *Dataset) Len() int {
	return len(d.Entries)
}

// Only keeps the wanted tags; absent tags stay absent
func (d *Dataset) Only(wanted []string) *Dataset {
	out := d.derive(len(wanted))
	for _, t := range wanted {
		if e, ok := d.Entries[strings.ToUpper(t)]; ok {
			out.Entries[e.Tag] = e
		}
	}
	return out
}

// Except drops the excluded tags and the file meta group
func (d *Dataset) Except(excluded []string) *Dataset {
	skip := make(map[string]bool, len(excluded))
	for _, t := range excluded {
		skip[strings.ToUpper(t)] = true
	}
	out := d.derive(len(d.Entries))
	for t, e := range d.Entries {
		if skip[t] || strings.HasPrefix(t, "0002") {
			continue
		}
		out.Entries[t] = e
	}
	return out
}

func (d *Dataset) derive(n int) *Dataset {
	return &Dataset{Path: d.Path, SOPClassUID: d.SOPClassUID, Entries: make(map[string]Entry, n)}
}

// MarshalJSON renders the entries as a tag ordered array
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Sorted())
}

// Adapter decodes files and flattens their top level elements
type Adapter struct {
	reg *dict.Registry
}

// New creates an adapter; a nil registry uses dict.Standard
func New(reg *dict.Registry) *Adapter {
	if reg == nil {
		reg = dict.Standard()
	}
	return &Adapter{reg: reg}
}

// Load decodes path fully and flattens every top level element
func (a *Adapter) Load(ctx context.Context, path string) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotReadable, path, err)
	}
	defer f.Close()
	if fi, err := f.Stat(); err != nil || fi.IsDir() {
		return nil, fmt.Errorf("%w: %s: not a regular file", ErrFileNotReadable, path)
	}

	ds, err := dicom.Parse(bufio.NewReader(f), dicom.WithRegistry(a.reg), dicom.WithContext(ctx))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return a.Flatten(path, ds), nil
}

// Flatten converts a decoded dataset into its flat view
func (a *Adapter) Flatten(path string, ds *dicom.Dataset) *Dataset {
	out := &Dataset{
		Path:        path,
		SOPClassUID: dicom.SOPClassUID(ds),
		Entries:     make(map[string]Entry, len(ds.Elements)),
		Nested:      map[string][]Node{},
	}
	for _, t := range ds.Tags() {
		if t.IsDelimiter() {
			continue
		}
		e := ds.Elements[t]
		out.Entries[t.Hex()] = a.entry(t, e)
		if items, ok := e.GetSequence(); ok {
			out.Nested[t.Hex()] = a.walk(t.Hex(), items, 1, nil)
		}
	}
	return out
}

func (a *Adapter) entry(t tag.Tag, e *dicom.Element) Entry {
	return Entry{Tag: t.Hex(), Name: a.reg.Name(t), VR: string(e.VR), Value: e.Values()}
}

// walk appends every element of every item, depth first
func (a *Adapter) walk(prefix string, items []*dicom.Dataset, depth int, out []Node) []Node {
	for i, item := range items {
		for _, t := range item.Tags() {
			if t.IsDelimiter() {
				continue
			}
			e := item.Elements[t]
			path := fmt.Sprintf("%s[%d].%s", prefix, i, t.Hex())
			out = append(out, Node{Path: path, Depth: depth, Entry: a.entry(t, e)})
			if sub, ok := e.GetSequence(); ok {
				out = a.walk(path, sub, depth+1, out)
			}
		}
	}
	return out
}

// Extract decodes path and keeps only the wanted tags
func (a *Adapter) Extract(ctx context.Context, path string, wanted []string) (*Dataset, error) {
	ds, err := a.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return ds.Only(wanted), nil
}

// ExtractExtra decodes path and keeps every tag not in excluded, skipping
// the file meta group
func (a *Adapter) ExtractExtra(ctx context.Context, path string, excluded []string) (*Dataset, error) {
	ds, err := a.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return ds.Except(excluded), nil
}
