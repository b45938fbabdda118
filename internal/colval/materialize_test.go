package colval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeEndToEnd(t *testing.T) {
	line := "COL title VAL Microsoft Office 2007\tCOL title VAL MS Office 07\t1"
	row, err := Materialize(line, 0, []string{"title"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, row.ID)
	assert.Equal(t, 1, row.Label)
	assert.Equal(t, "Microsoft Office 2007", row.Left["title"])
	assert.Equal(t, "MS Office 07", row.Right["title"])
}

func TestMaterializeMissingFieldsAreEmpty(t *testing.T) {
	line := "COL title VAL a\tCOL brand VAL b\t0"
	row, err := Materialize(line, 3, []string{"brand", "title"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "", row.Left["brand"])
	assert.Equal(t, "a", row.Left["title"])
	assert.Equal(t, "b", row.Right["brand"])
	assert.Equal(t, "", row.Right["title"])
}

func TestMaterializeLabelWhitespaceTolerated(t *testing.T) {
	row, err := Materialize("COL t VAL x\tCOL t VAL y\t 1 ", 0, []string{"t"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, row.Label)
}

func TestMaterializeInvalidLabel(t *testing.T) {
	_, err := Materialize("COL t VAL x\tCOL t VAL y\tmaybe", 0, []string{"t"}, Options{})
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

func TestMaterializeMalformedLine(t *testing.T) {
	_, err := Materialize("onlyonefield\tnotab", 0, nil, Options{})
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestMaterializeYearExtraction(t *testing.T) {
	opts := Options{YearFields: []string{"year"}}
	line := "COL year VAL circa 2007 edition\tCOL year VAL unknown era\t0"
	row, err := Materialize(line, 0, []string{"year"}, opts)
	require.NoError(t, err)
	assert.Equal(t, "2007", row.Left["year"])
	assert.Equal(t, "", row.Right["year"])
}

func TestMaterializeCleanValues(t *testing.T) {
	opts := Options{CleanValues: true}
	line := "COL title VAL \"Acer Aspire\"@en laptop\tCOL title VAL plain\t1"
	row, err := Materialize(line, 0, []string{"title"}, opts)
	require.NoError(t, err)
	assert.Equal(t, "Acer Aspire laptop", row.Left["title"])
	assert.Equal(t, "plain", row.Right["title"])
}

func TestSplitLineToleratesTabRuns(t *testing.T) {
	l, r, lbl, ok := SplitLine("left\t\t\tright\t0")
	require.True(t, ok)
	assert.Equal(t, "left", l)
	assert.Equal(t, "right", r)
	assert.Equal(t, "0", lbl)

	_, _, _, ok = SplitLine("")
	assert.False(t, ok)
	_, _, _, ok = SplitLine("a\tb\tc\td")
	assert.False(t, ok)
}
