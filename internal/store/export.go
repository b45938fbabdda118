package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"dmprep/internal/dataset"
)

// ExportSQLite writes a converted table to a fresh SQLite database. Columns
// flagged numeric become INTEGER, everything else TEXT; id and label get
// indexes for ad hoc querying.
func ExportSQLite(path, table string, t *dataset.Table, numeric map[string]bool) error {
	_ = os.Remove(path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var defs []string
	for _, c := range t.Columns {
		typ := "TEXT"
		if numeric[c] {
			typ = "INTEGER"
		}
		defs = append(defs, fmt.Sprintf("%q %s", c, typ))
	}
	if _, err := db.Exec(fmt.Sprintf(`CREATE TABLE %q (%s)`, table, strings.Join(defs, ","))); err != nil {
		return err
	}

	qCols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		qCols[i] = fmt.Sprintf("%q", c)
	}
	ph := strings.TrimRight(strings.Repeat("?,", len(t.Columns)), ",")
	stmt, err := db.Prepare(fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`, table, strings.Join(qCols, ","), ph))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		args := make([]any, len(t.Columns))
		for i, c := range t.Columns {
			args[i] = row[c]
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}

	for _, col := range []string{"id", "label"} {
		if !contains(t.Columns, col) {
			continue
		}
		idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_%s ON %q(%q)`, table, col, table, col)
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}
	return nil
}

func contains(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}
