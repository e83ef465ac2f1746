package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/ophdicom.go/pkg/compliance"
	"github.com/jpfielding/ophdicom.go/pkg/dicom"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/transfer"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRoot(context.Background(), "test-sha")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeOCT(t *testing.T, dir, name string) string {
	t.Helper()
	ds, err := dicom.NewDataset(
		dicom.WithFileMeta(compliance.OphthalmicTomographyImage, "1.2.3."+name, transfer.ExplicitVRLittleEndian),
		dicom.WithElement(tag.SOPClassUID, compliance.OphthalmicTomographyImage),
		dicom.WithElement(tag.SOPInstanceUID, "1.2.3."+name),
		dicom.WithElement(tag.Modality, "OPT"),
		dicom.WithElement(tag.Manufacturer, "ACME"),
	)
	require.NoError(t, err)
	path := filepath.Join(dir, name+".dcm")
	_, err = dicom.WriteFile(path, ds)
	require.NoError(t, err)
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "test-sha\n", out)
}

func TestRulesCmd(t *testing.T) {
	out, err := run(t, "rules")
	require.NoError(t, err)
	for _, rs := range compliance.BuiltIn() {
		assert.Contains(t, out, rs.Key)
	}

	out, err = run(t, "rules", "oct_b")
	require.NoError(t, err)
	assert.Contains(t, out, "0022000D")

	_, err = run(t, "rules", "nope")
	assert.Error(t, err)
}

func TestReportCmd(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeOCT(t, in, "1")
	writeOCT(t, in, "2")
	require.NoError(t, os.WriteFile(filepath.Join(in, "manifest.csv"), []byte("a,b"), 0o644))

	stdout, err := run(t, "report", in, "Maestro2_Macula", "--out", out, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "OCT B Scan")

	grid := filepath.Join(out, "Maestro2", "Maestro2_Macula_eval_oct_b.csv")
	assert.FileExists(t, grid)
	assert.FileExists(t, filepath.Join(out, "Maestro2", "Maestro2_Macula_eval_oct_b_extra.csv"))

	_, err = run(t, "report", in, "Maestro2_Macula", "--out", out, "--format", "json")
	require.NoError(t, err)
	raw, err := os.ReadFile(filepath.Join(out, "Maestro2", "Maestro2_Macula_eval_oct_b.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "oct_b", doc["key"])

	_, err = run(t, "report", t.TempDir(), "Empty")
	assert.Error(t, err)

	_, err = run(t, "report", in, "X", "--format", "pdf")
	assert.ErrorContains(t, err, "unknown format")
}

func TestReportCmdXLSX(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeOCT(t, in, "1")

	_, err := run(t, "report", in, "Maestro2_Macula", "--out", out, "--format", "xlsx")
	require.NoError(t, err)
	dir := filepath.Join(out, "Maestro2")
	assert.FileExists(t, filepath.Join(dir, "Maestro2_Macula_eval_oct_b.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "Maestro2_Macula_eval_oct_b_nested.xlsx"))
	assert.NoFileExists(t, filepath.Join(dir, "Maestro2_Macula_eval_oct_b_extra.csv"))

	skipped := t.TempDir()
	_, err = run(t, "report", in, "Maestro2_Macula", "--out", skipped, "--no-nested")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(skipped, "Maestro2", "Maestro2_Macula_eval_oct_b.csv"))
	assert.NoFileExists(t, filepath.Join(skipped, "Maestro2", "Maestro2_Macula_eval_oct_b_nested.csv"))
}

func TestDecodeCmd(t *testing.T) {
	path := writeOCT(t, t.TempDir(), "1")

	out, err := run(t, "decode", path)
	require.NoError(t, err)
	var elements []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &elements))
	var tags []any
	for _, e := range elements {
		tags = append(tags, e["tag"])
	}
	assert.Contains(t, tags, "00080060")
	assert.Contains(t, tags, "00020010")

	out, err = run(t, "decode", "--uri", path, "--output", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Modality: OPT")

	_, err = run(t, "decode")
	assert.Error(t, err)
	_, err = run(t, "decode", filepath.Join(t.TempDir(), "missing.dcm"))
	assert.Error(t, err)
}

func TestAnalyzeCmd(t *testing.T) {
	dir := t.TempDir()
	ds, err := dicom.NewDataset(
		dicom.WithFileMeta(compliance.OphthalmicPhotography8BitImage, "1.2.3.9", transfer.JPEGBaseline),
		dicom.WithElement(tag.SOPClassUID, compliance.OphthalmicPhotography8BitImage),
		dicom.WithElement(tag.Modality, "OP"),
		dicom.WithElement(tag.Rows, uint16(4)),
		dicom.WithElement(tag.Columns, uint16(6)),
		dicom.WithEncapsulatedPixelData([]byte{0xFF, 0xD8, 0xFF, 0xD9}, []byte{0xFF, 0xD8}),
	)
	require.NoError(t, err)
	path := filepath.Join(dir, "op.dcm")
	_, err = dicom.WriteFile(path, ds)
	require.NoError(t, err)

	frame := filepath.Join(dir, "frame0.jpg")
	out, err := run(t, "analyze", path, "--dump-frame", "0", "--frame-out", frame)
	require.NoError(t, err)
	assert.Contains(t, out, "Encapsulated: true")
	assert.Contains(t, out, "Rule table:")
	assert.Contains(t, out, "cfp_ir")
	assert.Contains(t, out, "Geometry: 4x6, 1 frames")
	assert.Contains(t, out, "Fragments: 2")
	raw, err := os.ReadFile(frame)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xD9}, raw)

	_, err = run(t, "analyze", path, "--dump-frame", "5", "--frame-out", frame)
	assert.ErrorContains(t, err, "out of bounds")
}

func TestEvaluateCmd(t *testing.T) {
	path := writeOCT(t, t.TempDir(), "1")

	out, err := run(t, "evaluate", path, "--errors")
	require.NoError(t, err)
	assert.Contains(t, out, "TAG_AND_VALUE_NEEDED")
	assert.NotContains(t, out, " OK ")

	out, err = run(t, "evaluate", path, "--json", "--rules", "cfp_ir")
	require.NoError(t, err)
	var doc struct {
		Rules    string            `json:"rules"`
		Outcomes map[string]string `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "cfp_ir", doc.Rules)
	assert.Equal(t, "OK", doc.Outcomes["00080060"])
}

func TestExtractCmd(t *testing.T) {
	path := writeOCT(t, t.TempDir(), "1")

	out, err := run(t, "extract", path, "--tags", "00080060,00080070")
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "00080060", entries[0]["tag"])

	_, err = run(t, "extract", path, "--tags", "bogus")
	assert.Error(t, err)
}
