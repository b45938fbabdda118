package dataset

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleInput = "COL title VAL Microsoft Office 2007 COL price VAL 149.99\tCOL title VAL MS Office 07\t1\n" +
	"COL title VAL Has COLORFUL Cover COL year VAL 2007\tCOL title VAL Colorful Cover Book\t0\n" +
	"onlyonefield\tnotab\n" +
	"COL title VAL a\tCOL title VAL b\tmaybe\n" +
	"\n" +
	"COL brand VAL Acme\tCOL brand VAL acme inc\t1\n"

func TestConvertTwoPassPipeline(t *testing.T) {
	res, err := Convert(strings.NewReader(sampleInput), ConvertOptions{}, zap.NewNop())
	require.NoError(t, err)

	// Schema is the corpus-wide union, sorted without a preferred order.
	assert.Equal(t, []string{"brand", "price", "title", "year"}, res.Schema)
	assert.Equal(t,
		[]string{"id", "label", "left_brand", "right_brand", "left_price", "right_price",
			"left_title", "right_title", "left_year", "right_year"},
		res.Table.Columns)

	// 6 lines: 3 kept, 1 malformed, 1 invalid label, 1 blank.
	assert.Equal(t, 6, res.Stats.LinesRead)
	assert.Equal(t, 3, res.Stats.Kept)
	assert.Equal(t, 1, res.Stats.Malformed)
	assert.Equal(t, 1, res.Stats.InvalidLabel)
	assert.Equal(t, 1, res.Stats.Blank)
	require.Len(t, res.Table.Rows, 3)

	// Ids are contiguous and in input order.
	for i, row := range res.Table.Rows {
		assert.Equal(t, strconv.Itoa(i), row["id"])
	}

	first := res.Table.Rows[0]
	assert.Equal(t, "1", first["label"])
	assert.Equal(t, "Microsoft Office 2007", first["left_title"])
	assert.Equal(t, "149.99", first["left_price"])
	assert.Equal(t, "MS Office 07", first["right_title"])
	assert.Equal(t, "", first["right_price"])

	// Embedded COL inside a value does not truncate it.
	second := res.Table.Rows[1]
	assert.Equal(t, "Has COLORFUL Cover", second["left_title"])
	assert.Equal(t, "2007", second["left_year"])

	// Field discovered on another line is still an (empty) column here.
	third := res.Table.Rows[2]
	assert.Equal(t, "Acme", third["left_brand"])
	assert.Equal(t, "", third["left_title"])
}

func TestConvertPreferredOrder(t *testing.T) {
	input := "COL year VAL 1999 COL title VAL a COL brand VAL x\tCOL title VAL b\t1\n"
	res, err := Convert(strings.NewReader(input), ConvertOptions{Preferred: []string{"title", "year"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "year", "brand"}, res.Schema)
}

func TestConvertYearFields(t *testing.T) {
	input := "COL year VAL circa 2007 edition\tCOL year VAL unknown era\t0\n"
	res, err := Convert(strings.NewReader(input), ConvertOptions{YearFields: []string{"year"}}, nil)
	require.NoError(t, err)
	require.Len(t, res.Table.Rows, 1)
	assert.Equal(t, "2007", res.Table.Rows[0]["left_year"])
	assert.Equal(t, "", res.Table.Rows[0]["right_year"])
}

func TestConvertEmptyInput(t *testing.T) {
	res, err := Convert(strings.NewReader(""), ConvertOptions{}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Schema)
	assert.Equal(t, []string{"id", "label"}, res.Table.Columns)
	assert.Empty(t, res.Table.Rows)
}

func TestProfileMentionsCounts(t *testing.T) {
	res, err := Convert(strings.NewReader(sampleInput), ConvertOptions{}, nil)
	require.NoError(t, err)
	report := Profile("sample", res)
	assert.Contains(t, report, "Rows written: 3")
	assert.Contains(t, report, "Malformed lines skipped: 1")
	assert.Contains(t, report, "`left_title`")
}
