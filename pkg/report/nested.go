package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jpfielding/ophdicom.go/pkg/compliance"
	"github.com/jpfielding/ophdicom.go/pkg/extract"
)

var (
	photographySequences = []string{
		"00082218", // Anatomic Region
		"00220006", // Patient Eye Movement Commanded
		"00220015", // Acquisition Device Type Code
		"00220016", // Illumination Type Code
		"00220017", // Light Path Filter Type Stack Code
		"00220018", // Image Path Filter Type Stack Code
		"00220019", // Lenses Code
		"0022001A", // Channel Description Code
	}
	segmentationSequences = []string{
		"52009229", "52009230", "00209221", "00209222",
		"00620002", // Segment
		"00081115", // Referenced Series
	}
	enFaceSequences = []string{
		"00082112", // Source Image
		"00221612", // Derivation Algorithm
		"00221615", // Ophthalmic Image Type Code
		"00221620", // Referenced Surface Mesh Identification
		"00082218", "0022001D", "00082228", "00220031",
		"0022EEE0", "00081115", "00221627", "00221632",
	}
)

// NestedSequences lists the top level sequences expanded in the nested
// export of each built-in rule set
var NestedSequences = map[string][]string{
	"cfp_ir":    photographySequences,
	"cfp_ir_16": photographySequences,
	"oct_b": {
		"52009229", // Shared Functional Groups
		"52009230", // Per-Frame Functional Groups
		"00209221", // Dimension Organization
		"00209222", // Dimension Index
		"00400555", // Acquisition Context
		"00220015", "00220017", "00082218",
	},
	"volume_analysis": {
		"52009229", "52009230", "00209221", "00209222",
		"00221423", // Acquisition Method Algorithm
		"00221640", // OCT B-scan Analysis Acquisition Parameters
	},
	"heightmap":            segmentationSequences,
	"surface_segmentation": segmentationSequences,
	"en_face":              enFaceSequences,
	"en_face_legacy":       enFaceSequences,
}

// SequencesFor returns the sequences expanded for rs: the fixed list of a
// built-in key, otherwise every SQ element of the table
func SequencesFor(rs *compliance.RuleSet) []string {
	if seqs, ok := NestedSequences[rs.Key]; ok {
		return append([]string{}, seqs...)
	}
	var out []string
	seen := map[string]bool{}
	for _, ref := range rs.Refs() {
		if ref.Element.VR == "SQ" && !seen[ref.Element.Tag] {
			seen[ref.Element.Tag] = true
			out = append(out, ref.Element.Tag)
		}
	}
	return out
}

// NestedRow is one element of an expanded sequence. The sequence element
// itself is the Depth 0 row; Present is false when a file lacks it.
type NestedRow struct {
	File     string `json:"file"`
	Sequence string `json:"sequence"`
	Path     string `json:"path"`
	Depth    int    `json:"depth"`
	Present  bool   `json:"present"`
	extract.Entry
}

// Nested is the sequence content of one group of files
type Nested struct {
	Key       string      `json:"key"`
	Files     []string    `json:"files"`
	Sequences []string    `json:"sequences"`
	Rows      []NestedRow `json:"rows"`
}

// BuildNested walks the given sequences of every file, in file order
func BuildNested(key string, sequences []string, datasets []*extract.Dataset) *Nested {
	n := &Nested{Key: key, Sequences: sequences, Files: make([]string, len(datasets))}
	for i, ds := range datasets {
		n.Files[i] = ds.Path
		for _, seq := range sequences {
			seq = strings.ToUpper(seq)
			e, ok := ds.Get(seq)
			if !ok {
				n.Rows = append(n.Rows, NestedRow{File: ds.Path, Sequence: seq, Path: seq, Entry: extract.Entry{Tag: seq}})
				continue
			}
			n.Rows = append(n.Rows, NestedRow{File: ds.Path, Sequence: seq, Path: seq, Present: true, Entry: e})
			nodes, _ := ds.Sequence(seq)
			for _, node := range nodes {
				n.Rows = append(n.Rows, NestedRow{
					File:     ds.Path,
					Sequence: seq,
					Path:     node.Path,
					Depth:    node.Depth,
					Present:  true,
					Entry:    node.Entry,
				})
			}
		}
	}
	return n
}

// NestedPath names the nested export next to the grid of the same group
func NestedPath(out, deviceProtocol, key, ext string) string {
	grid, _ := OutputPaths(out, deviceProtocol, key, ext)
	return strings.TrimSuffix(grid, "."+ext) + "_nested." + ext
}

func (r NestedRow) display() string {
	if !r.Present {
		return "NOT PRESENT"
	}
	return strings.Join(r.Value, `\`)
}

var nestedHeader = []string{"Sequence", "Path", "Depth", "Tag", "Name", "VR", "Value"}

func (r NestedRow) record() []string {
	return []string{r.Sequence, r.Path, strconv.Itoa(r.Depth), r.Tag, r.Name, r.VR, r.display()}
}

// WriteNestedCSV renders the nested rows with a leading File column
func WriteNestedCSV(w io.Writer, n *Nested) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"File"}, nestedHeader...)); err != nil {
		return err
	}
	for _, row := range n.Rows {
		if err := cw.Write(append([]string{row.File}, row.record()...)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNestedJSON renders the nested export as indented JSON
func WriteNestedJSON(w io.Writer, n *Nested) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(n)
}

// sheetName builds a unique worksheet name of at most 31 runes
func sheetName(i int, file string) string {
	base := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, filepath.Base(file))
	name := fmt.Sprintf("%d %s", i+1, base)
	for utf8.RuneCountInString(name) > 31 {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	return name
}

// WriteNestedXLSX renders one worksheet per file, nested rows indented by
// depth and sequence rows in bold
func WriteNestedXLSX(w io.Writer, n *Nested) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	indents := map[int]int{}
	indent := func(depth int) (int, error) {
		if id, ok := indents[depth]; ok {
			return id, nil
		}
		id, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Indent: depth}})
		indents[depth] = id
		return id, err
	}

	byFile := map[string][]NestedRow{}
	for _, row := range n.Rows {
		byFile[row.File] = append(byFile[row.File], row)
	}
	for i, file := range n.Files {
		sheet := sheetName(i, file)
		if i == 0 {
			err = f.SetSheetName("Sheet1", sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, "A1", file); err != nil {
			return err
		}
		header := nestedHeader
		if err := f.SetSheetRow(sheet, "A2", &header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", cellName(len(header), 2), bold); err != nil {
			return err
		}
		for j, row := range byFile[file] {
			line := j + 3
			rec := row.record()
			if err := f.SetSheetRow(sheet, cellName(1, line), &rec); err != nil {
				return err
			}
			style := bold
			if row.Depth > 0 {
				if style, err = indent(row.Depth); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(sheet, cellName(2, line), cellName(2, line), style); err != nil {
				return err
			}
		}
		if err := f.SetColWidth(sheet, "B", "B", 48); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write nested workbook %s: %w", n.Key, err)
	}
	return nil
}
