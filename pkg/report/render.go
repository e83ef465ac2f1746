package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jpfielding/ophdicom.go/pkg/compliance"
)

// Label is the text shown for a cell: the joined values, or a fixed label
// when the outcome flags a missing tag or value
func Label(o compliance.Outcome, values []string) string {
	switch o {
	case compliance.TagAndValueNeeded:
		return "TAG AND VALUE NEEDED"
	case compliance.TagNeeded:
		return "TAG NEEDED"
	case compliance.ValueNeeded:
		return "VALUE NEEDED"
	}
	return strings.Join(values, ", ")
}

// Severity maps an outcome to a rendering class
func Severity(o compliance.Outcome) string {
	switch o {
	case compliance.TagAndValueNeeded, compliance.TagNeeded:
		return "danger"
	case compliance.ValueNeeded:
		return "warning"
	case compliance.PreferredMissing:
		return "info"
	}
	return ""
}

// GridHeader is the fixed part of the compliance grid header
var GridHeader = []string{"Information Entity", "Module", "Reference", "Tag", "Element Name", "VR"}

// WriteCSV renders the compliance grid, one column per file
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, GridHeader...), r.Files...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range r.Rows {
		rec := []string{row.Entity, row.Module, row.Reference, row.Tag, row.Name, row.VR}
		for _, c := range row.Cells {
			rec = append(rec, c.Display)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExtrasCSV renders the tags each file carries beyond the rule set
func WriteExtrasCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"File", "Tag", "Name", "VR", "Value"}); err != nil {
		return err
	}
	for i, ds := range r.Extras {
		for _, e := range ds.Sorted() {
			if err := cw.Write([]string{r.Files[i], e.Tag, e.Name, e.VR, strings.Join(e.Value, `\`)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonCell struct {
	Display  string   `json:"display"`
	Values   []string `json:"values"`
	Outcome  string   `json:"outcome"`
	Severity string   `json:"severity,omitempty"`
}

type jsonRow struct {
	Entity    string     `json:"entity"`
	Module    string     `json:"module"`
	Reference string     `json:"reference"`
	Tag       string     `json:"tag"`
	Name      string     `json:"name"`
	VR        string     `json:"vr"`
	Cells     []jsonCell `json:"cells"`
}

type jsonFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// MarshalJSON keeps the error text
func (f Failure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(jsonFailure{File: f.File, Error: msg})
}

// WriteJSON renders the full report including severities and summaries
func WriteJSON(w io.Writer, r *Report) error {
	rows := make([]jsonRow, len(r.Rows))
	for i, row := range r.Rows {
		jr := jsonRow{
			Entity: row.Entity, Module: row.Module, Reference: row.Reference,
			Tag: row.Tag, Name: row.Name, VR: row.VR,
			Cells: make([]jsonCell, len(row.Cells)),
		}
		for j, c := range row.Cells {
			vals := c.Values
			if vals == nil {
				vals = []string{}
			}
			jr.Cells[j] = jsonCell{Display: c.Display, Values: vals, Outcome: c.Outcome.String(), Severity: Severity(c.Outcome)}
		}
		rows[i] = jr
	}
	doc := struct {
		ID       string        `json:"id"`
		Key      string        `json:"key"`
		Name     string        `json:"name"`
		Files    []string      `json:"files"`
		Summary  []FileSummary `json:"summary"`
		Rows     []jsonRow     `json:"rows"`
		Extras   any           `json:"extras"`
		Failures []Failure     `json:"failures,omitempty"`
	}{r.ID, r.Key, r.Name, r.Files, r.Summary(), rows, r.Extras, r.Failures}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report %s: %w", r.Key, err)
	}
	return nil
}
