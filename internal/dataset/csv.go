// Package dataset turns raw COL/VAL pair files into DeepMatcher-style flat
// CSV tables and handles the CSV/SQLite I/O around them.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Table is a loaded CSV: ordered headers plus one map per row.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadCSV reads a CSV file into a Table, tolerating a UTF-8 BOM and ragged
// rows (missing cells become "").
func LoadCSV(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimPrefix(b, utf8BOM)
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	headers, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv: no header row")
		}
		return nil, err
	}
	t := &Table{Columns: headers}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteCSV writes a Table with pandas QUOTE_NONNUMERIC semantics: every
// field is double-quoted except columns listed in numeric, which are
// written bare. Records end with "\n" and the file starts with a UTF-8 BOM
// so spreadsheet tools pick up the encoding.
func WriteCSV(path string, t *Table, numeric map[string]bool) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(utf8BOM); err != nil {
		return err
	}
	if err := writeRecord(f, t.Columns, nil, nil); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writeRecord(f, t.Columns, row, numeric); err != nil {
			return err
		}
	}
	return nil
}

// writeRecord emits one CSV record. When row is nil the column names
// themselves are written bare (header row).
func writeRecord(w io.Writer, cols []string, row map[string]string, numeric map[string]bool) error {
	var sb strings.Builder
	for i, c := range cols {
		if i > 0 {
			sb.WriteByte(',')
		}
		if row == nil {
			sb.WriteString(c)
			continue
		}
		v := row[c]
		if numeric[c] {
			sb.WriteString(v)
			continue
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(v, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}
