package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuleSetErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		el   Element
	}{
		{"seven digit tag", "k", Element{"PupilDilated", "0022000", "CS", MustExist}},
		{"non hex tag", "k", Element{"Bad", "0022ZZZZ", "CS", MustExist}},
		{"seven digit premise", "k", Element{"DegreeOfDilation", "0022000E", "FL", TagExistsIf("0022000", FirstEquals("YES"))}},
		{"missing predicate", "k", Element{"X", "00280006", "US", Condition{Kind: KindExistsWithValueIf, Premise: "00280002"}}},
		{"unknown kind", "k", Element{"X", "00280006", "US", Condition{Kind: Kind(42)}}},
		{"no key", "", Element{"Modality", "00080060", "CS", MustExist}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRuleSet(tt.key, "Test", Entity{Name: "E", Modules: []Module{{Name: "M", Elements: []Element{tt.el}}}})
			assert.ErrorIs(t, err, ErrRuleDefinition)
		})
	}
	assert.Panics(t, func() {
		MustRuleSet("k", "Test", Entity{Name: "E", Modules: []Module{{Name: "M", Elements: []Element{{"Bad", "1", "CS", MustExist}}}}})
	})
}

func TestRuleSetTags(t *testing.T) {
	a := Module{Name: "A", Elements: []Element{
		{"Modality", "00080060", "CS", MustExist},
		{"ImageType", "00080008", "CS", MustExist},
	}}
	b := Module{Name: "B", Elements: []Element{
		{"Modality", "00080060", "CS", MustExist},
		{"LossyRatio", "00282112", "DS", ExistsWithValueIf("00282110", FirstEquals("01"))},
		{"Lower", "0022000e", "FL", Preferred},
	}}
	rs1 := MustRuleSet("k", "one", Entity{Name: "E", Modules: []Module{a, b}})
	rs2 := MustRuleSet("k", "two", Entity{Name: "F", Modules: []Module{b}}, Entity{Name: "E", Modules: []Module{a}})

	want := []string{"00080008", "00080060", "0022000E", "00282112"}
	assert.Equal(t, want, rs1.Tags())
	assert.Equal(t, rs1.Tags(), rs1.Tags())
	assert.Equal(t, rs1.Tags(), rs2.Tags())
	assert.Equal(t, []string{"00282110"}, rs1.Premises())

	tags := rs1.Tags()
	tags[0] = "FFFFFFFF"
	assert.Equal(t, want, rs1.Tags())

	refs := rs1.Refs()
	require.Len(t, refs, 5)
	assert.Equal(t, "B", refs[2].Module)
	assert.Equal(t, "0022000E", refs[4].Element.Tag)
}

func TestBuiltInTables(t *testing.T) {
	keys := map[string]bool{}
	for _, rs := range BuiltIn() {
		assert.False(t, keys[rs.Key], "duplicate key %s", rs.Key)
		keys[rs.Key] = true
		assert.NotEmpty(t, rs.Tags(), rs.Key)
		for _, r := range rs.Refs() {
			assert.Len(t, r.Element.Tag, 8)
			assert.NotEmpty(t, r.Reference, "%s %s", rs.Key, r.Module)
		}
	}
	assert.Len(t, keys, 8)
}

func TestGuard(t *testing.T) {
	boom := Guard(func(v []string) bool { return v[3] == "x" })
	assert.False(t, boom([]string{"a"}))
	assert.False(t, boom(nil))
	assert.Nil(t, Guard(nil))

	assert.False(t, FirstIntGreaterThan(1)([]string{""}))
	assert.True(t, FirstIntGreaterThan(1)([]string{" 3 "}))
	assert.True(t, Contains("ORIGINAL")([]string{"DERIVED", "ORIGINAL"}))
	assert.False(t, FirstEquals("YES")([]string{"NO", "YES"}))
	assert.True(t, FirstContains("MONO")([]string{"MONOCHROME2"}))
	assert.False(t, NotEmpty()(nil))
}

func TestCatalog(t *testing.T) {
	rs, ok := ForSOPClass(OphthalmicPhotography8BitImage + "\x00")
	require.True(t, ok)
	assert.Same(t, CFPIR, rs)

	rs, ok = ForSOPClass(TopconHeightmapStorage)
	require.True(t, ok)
	assert.Same(t, Heightmap, rs)
	rs, ok = ForSOPClass(HeightmapSegmentationStorage)
	require.True(t, ok)
	assert.Same(t, Heightmap, rs)
	// surface segmentation objects get their own table, not the heightmap one
	rs, ok = ForSOPClass(SurfaceSegmentationStorage)
	require.True(t, ok)
	assert.Same(t, SurfaceSegmentation, rs)

	_, ok = ForSOPClass("1.2.3")
	assert.False(t, ok)

	rs, ok = Lookup("oct_b")
	require.True(t, ok)
	assert.Same(t, OCTBScan, rs)

	custom := MustRuleSet("cfp_ir", "Custom CFP", Entity{Name: "E", Modules: []Module{{Name: "M", Elements: []Element{{"Modality", "00080060", "CS", MustExist}}}}})
	extra := MustRuleSet("site", "Site", Entity{Name: "E", Modules: []Module{{Name: "M", Elements: []Element{{"Modality", "00080060", "CS", MustExist}}}}})
	c := NewCatalog(custom, extra, nil)
	rs, ok = c.ForSOPClass(OphthalmicPhotography8BitImage)
	require.True(t, ok)
	assert.Same(t, custom, rs)
	rs, ok = c.Lookup("site")
	require.True(t, ok)
	assert.Same(t, extra, rs)
	assert.Len(t, c.All(), 9)

	// built-ins are unchanged
	rs, _ = ForSOPClass(OphthalmicPhotography8BitImage)
	assert.Same(t, CFPIR, rs)
}
