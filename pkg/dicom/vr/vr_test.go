package vr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, OB, Parse("OB or OW"))
	assert.Equal(t, US, Parse("US/SS"))
	assert.Equal(t, DA, Parse("da"))
	assert.Equal(t, UN, Parse(""))
	assert.Equal(t, UN, Parse("bogus"))
}

func TestClassification(t *testing.T) {
	assert.True(t, SQ.HasLongLength())
	assert.True(t, UT.HasLongLength())
	assert.False(t, CS.HasLongLength())

	assert.True(t, CS.IsMultiValued())
	assert.False(t, LT.IsMultiValued())
	assert.False(t, US.IsMultiValued())

	assert.True(t, FD.IsNumeric())
	assert.True(t, OW.IsBulk())
	assert.Equal(t, 2, US.ValueSize())
	assert.Equal(t, 0, LO.ValueSize())
}
