package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmprep/internal/dataset"
)

func TestCachePutGet(t *testing.T) {
	c, err := OpenCache(filepath.Join(t.TempDir(), "cache.sqlite"))
	require.NoError(t, err)
	defer c.Close()

	key := Key("llama3.1", "clean this record")
	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(key, "run-1", "llama3.1", `{"name":"x"}`))
	got, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"name":"x"}`, got)

	// Overwrite on conflict.
	require.NoError(t, c.Put(key, "run-2", "llama3.1", `{"name":"y"}`))
	got, ok, err = c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"name":"y"}`, got)
}

func TestKeyDistinguishesModelAndPrompt(t *testing.T) {
	assert.NotEqual(t, Key("a", "p"), Key("b", "p"))
	assert.NotEqual(t, Key("a", "p1"), Key("a", "p2"))
	assert.Equal(t, Key("a", "p"), Key("a", "p"))
}

func TestExportSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sqlite")
	table := &dataset.Table{
		Columns: []string{"id", "label", "left_title"},
		Rows: []map[string]string{
			{"id": "0", "label": "1", "left_title": "a"},
			{"id": "1", "label": "0", "left_title": "b"},
		},
	}
	numeric := map[string]bool{"id": true, "label": true}
	require.NoError(t, ExportSQLite(path, "pairs", table, numeric))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pairs`).Scan(&n))
	assert.Equal(t, 2, n)

	var title string
	require.NoError(t, db.QueryRow(`SELECT left_title FROM pairs WHERE id = 1`).Scan(&title))
	assert.Equal(t, "b", title)
}
