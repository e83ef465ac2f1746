package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	gridSheet   = "compliance_report"
	extrasSheet = "extra_headers"
)

// SeverityFill is the cell background used for each Severity class
var SeverityFill = map[string]string{
	"danger":  "DC3545",
	"warning": "FFC107",
	"info":    "0DCAF0",
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// runs returns the [start, end) ranges of consecutive indexes sharing a key
func runs(n int, key func(int) string) [][2]int {
	var out [][2]int
	for start := 0; start < n; {
		end := start + 1
		for end < n && key(end) == key(start) {
			end++
		}
		out = append(out, [2]int{start, end})
		start = end
	}
	return out
}

// WriteXLSX renders the report as a workbook: the compliance grid with
// cells filled by severity and merged entity/module ranges, then a sheet
// of extra tags laid out four columns per file.
func WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gridSheet); err != nil {
		return err
	}
	if err := writeGridSheet(f, r); err != nil {
		return fmt.Errorf("%s: %w", gridSheet, err)
	}
	if _, err := f.NewSheet(extrasSheet); err != nil {
		return err
	}
	if err := writeExtrasSheet(f, r); err != nil {
		return fmt.Errorf("%s: %w", extrasSheet, err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook %s: %w", r.Key, err)
	}
	return nil
}

func writeGridSheet(f *excelize.File, r *Report) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	fills := map[string]int{}
	for class, color := range SeverityFill {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		fills[class] = id
	}
	merged, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Vertical: "top", WrapText: true}})
	if err != nil {
		return err
	}

	header := append(append([]string{}, GridHeader...), r.Files...)
	if err := f.SetSheetRow(gridSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(gridSheet, "A1", cellName(len(header), 1), bold); err != nil {
		return err
	}

	for i, row := range r.Rows {
		line := i + 2
		rec := []any{"", "", "", row.Tag, row.Name, row.VR}
		for _, c := range row.Cells {
			rec = append(rec, c.Display)
		}
		if err := f.SetSheetRow(gridSheet, cellName(1, line), &rec); err != nil {
			return err
		}
		for j, c := range row.Cells {
			id, ok := fills[Severity(c.Outcome)]
			if !ok {
				continue
			}
			cell := cellName(len(GridHeader)+1+j, line)
			if err := f.SetCellStyle(gridSheet, cell, cell, id); err != nil {
				return err
			}
		}
	}

	// entity in column A, module and reference in B and C
	spans := []struct {
		cols []int
		key  func(int) string
		text func(Row) []string
	}{
		{[]int{1}, func(i int) string { return r.Rows[i].Entity }, func(row Row) []string { return []string{row.Entity} }},
		{[]int{2, 3}, func(i int) string { return r.Rows[i].Entity + "\x00" + r.Rows[i].Module },
			func(row Row) []string { return []string{row.Module, row.Reference} }},
	}
	for _, s := range spans {
		for _, run := range runs(len(r.Rows), s.key) {
			first, last := run[0]+2, run[1]+1
			for k, col := range s.cols {
				top := cellName(col, first)
				if err := f.SetCellValue(gridSheet, top, s.text(r.Rows[run[0]])[k]); err != nil {
					return err
				}
				if last == first {
					continue
				}
				bottom := cellName(col, last)
				if err := f.MergeCell(gridSheet, top, bottom); err != nil {
					return err
				}
				if err := f.SetCellStyle(gridSheet, top, bottom, merged); err != nil {
					return err
				}
			}
		}
	}
	return f.SetColWidth(gridSheet, "A", "C", 28)
}

func writeExtrasSheet(f *excelize.File, r *Report) error {
	if len(r.Files) == 0 {
		return nil
	}
	title, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	const width = 4
	last := cellName(len(r.Files)*width, 1)
	if err := f.SetCellValue(extrasSheet, "A1", "Extra Tags and Information"); err != nil {
		return err
	}
	if err := f.MergeCell(extrasSheet, "A1", last); err != nil {
		return err
	}
	if err := f.SetCellStyle(extrasSheet, "A1", last, title); err != nil {
		return err
	}

	for i, file := range r.Files {
		col := i*width + 1
		start, end := cellName(col, 2), cellName(col+width-1, 2)
		if err := f.SetCellValue(extrasSheet, start, file); err != nil {
			return err
		}
		if err := f.MergeCell(extrasSheet, start, end); err != nil {
			return err
		}
		if err := f.SetCellStyle(extrasSheet, start, end, title); err != nil {
			return err
		}
		header := []string{"Tag", "Name", "VR", "Value"}
		if err := f.SetSheetRow(extrasSheet, cellName(col, 3), &header); err != nil {
			return err
		}
		if err := f.SetCellStyle(extrasSheet, cellName(col, 3), cellName(col+width-1, 3), bold); err != nil {
			return err
		}
		for j, e := range r.Extras[i].Sorted() {
			rec := []string{e.Tag, e.Name, e.VR, strings.Join(e.Value, `\`)}
			if err := f.SetSheetRow(extrasSheet, cellName(col, j+4), &rec); err != nil {
				return err
			}
		}
	}
	return nil
}
