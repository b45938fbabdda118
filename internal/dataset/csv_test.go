package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVQuoteNonNumeric(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	table := &Table{
		Columns: []string{"id", "label", "left_title", "right_title"},
		Rows: []map[string]string{
			{"id": "0", "label": "1", "left_title": `say "hi"`, "right_title": ""},
		},
	}
	require.NoError(t, WriteCSV(path, table, NumericColumns()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "\xef\xbb\xbf" +
		"id,label,left_title,right_title\n" +
		"0,1,\"say \"\"hi\"\"\",\"\"\n"
	assert.Equal(t, want, string(b))
}

func TestLoadCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rt.csv")
	table := &Table{
		Columns: []string{"id", "label", "left_title"},
		Rows: []map[string]string{
			{"id": "0", "label": "1", "left_title": "a, b | c"},
			{"id": "1", "label": "0", "left_title": "multi\nline"},
		},
	}
	require.NoError(t, WriteCSV(path, table, NumericColumns()))

	got, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, table.Columns, got.Columns)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "a, b | c", got.Rows[0]["left_title"])
	assert.Equal(t, "multi\nline", got.Rows[1]["left_title"])
	assert.Equal(t, "1", got.Rows[1]["id"])
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdr.csv")
	require.NoError(t, WriteCSV(path, &Table{Columns: []string{"id", "label"}}, NumericColumns()))
	got, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label"}, got.Columns)
	assert.Empty(t, got.Rows)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
