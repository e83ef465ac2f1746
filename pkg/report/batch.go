package report

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/jpfielding/ophdicom.go/pkg/compliance"
	"github.com/jpfielding/ophdicom.go/pkg/extract"
)

// Discover walks root and returns candidate DICOM files in lexical order.
// AppleDouble files (._*), CSV files and names that do not start with a
// letter or digit are skipped.
func Discover(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !keep(d.Name()) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func keep(name string) bool {
	switch {
	case strings.HasPrefix(name, "._"):
		return false
	case strings.HasSuffix(strings.ToLower(name), ".csv"):
		return false
	}
	r := []rune(name)
	return len(r) > 0 && (unicode.IsLetter(r[0]) || unicode.IsDigit(r[0]))
}

// Group is the slice of a batch covered by one rule set
type Group struct {
	RuleSet  *compliance.RuleSet
	Datasets []*extract.Dataset
}

// GroupBySOPClass splits a batch by the rule set each file's SOP Class UID
// maps to. Groups are ordered by rule set key and keep the batch order
// inside; files without a rule set are returned separately.
func GroupBySOPClass(datasets []*extract.Dataset, cat *compliance.Catalog) ([]Group, []*extract.Dataset) {
	byKey := map[string]*Group{}
	var unmatched []*extract.Dataset
	for _, ds := range datasets {
		rs, ok := cat.ForSOPClass(ds.SOPClassUID)
		if !ok {
			unmatched = append(unmatched, ds)
			continue
		}
		g, ok := byKey[rs.Key]
		if !ok {
			g = &Group{RuleSet: rs}
			byKey[rs.Key] = g
		}
		g.Datasets = append(g.Datasets, ds)
	}
	groups := make([]Group, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].RuleSet.Key < groups[j].RuleSet.Key })
	return groups, unmatched
}

// OutputPaths names the report and extras files for a device protocol such
// as "Maestro2_Macula6x6": <out>/<device>/<protocol>_eval_<key>.<ext>
func OutputPaths(out, deviceProtocol, key, ext string) (grid, extras string) {
	device, _, _ := strings.Cut(deviceProtocol, "_")
	base := filepath.Join(out, device, deviceProtocol+"_eval_"+key)
	return base + "." + ext, base + "_extra.csv"
}
