package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/ophdicom.go/pkg/compliance"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"b.dcm", "A1", "._b.dcm", "manifest.CSV", "_tmp", ".DS_Store", "sub/0002.dcm"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "A1"),
		filepath.Join(dir, "b.dcm"),
		filepath.Join(dir, "sub", "0002.dcm"),
	}, files)

	_, err = Discover(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestGroupBySOPClass(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "1", compliance.OphthalmicTomographyImage, 1),
		writeFile(t, dir, "2", compliance.OphthalmicPhotography8BitImage, 3),
		writeFile(t, dir, "3", compliance.TopconHeightmapStorage, 1),
		writeFile(t, dir, "4", "1.2.840.10008.5.1.4.1.1.2", 1),
		writeFile(t, dir, "5", compliance.OphthalmicPhotography8BitImage, 3),
	}
	batch, err := Load(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, batch.Datasets, 5)

	groups, unmatched := GroupBySOPClass(batch.Datasets, compliance.NewCatalog())
	require.Len(t, groups, 3)
	assert.Equal(t, "cfp_ir", groups[0].RuleSet.Key)
	assert.Equal(t, "heightmap", groups[1].RuleSet.Key)
	assert.Equal(t, "oct_b", groups[2].RuleSet.Key)
	require.Len(t, groups[0].Datasets, 2)
	assert.Equal(t, files[1], groups[0].Datasets[0].Path)
	assert.Equal(t, files[4], groups[0].Datasets[1].Path)
	require.Len(t, unmatched, 1)
	assert.Equal(t, files[3], unmatched[0].Path)

	rep := Assemble(groups[0].RuleSet, groups[0].Datasets)
	assert.Equal(t, []string{files[1], files[4]}, rep.Files)
	assert.Len(t, rep.Rows, len(compliance.CFPIR.Refs()))
}

func TestOutputPaths(t *testing.T) {
	grid, extras := OutputPaths("/out", "Maestro2_Macula6x6", "oct_b", "csv")
	assert.Equal(t, filepath.Join("/out", "Maestro2", "Maestro2_Macula6x6_eval_oct_b.csv"), grid)
	assert.Equal(t, filepath.Join("/out", "Maestro2", "Maestro2_Macula6x6_eval_oct_b_extra.csv"), extras)

	grid, _ = OutputPaths("out", "Spectralis", "cfp_ir", "json")
	assert.Equal(t, filepath.Join("out", "Spectralis", "Spectralis_eval_cfp_ir.json"), grid)
}
