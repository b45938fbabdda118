package dataset

import (
	"bufio"
	"errors"
	"io"
	"strconv"

	"go.uber.org/zap"

	"dmprep/internal/colval"
)

// ConvertOptions selects the per-dataset knobs for one conversion.
type ConvertOptions struct {
	// Preferred pins the leading column order; discovered fields not listed
	// here follow sorted lexicographically.
	Preferred []string
	// YearFields and CleanValues are passed through to the materializer.
	YearFields  []string
	CleanValues bool
}

// ConvertStats counts what happened to the input lines.
type ConvertStats struct {
	LinesRead    int
	Blank        int
	Malformed    int
	InvalidLabel int
	Kept         int
}

// Result is a converted dataset: the discovered schema, the flat output
// table and the line accounting.
type Result struct {
	Schema []string
	Table  *Table
	Stats  ConvertStats
}

// NumericColumns reports which output columns are numeric (written
// unquoted): id and label.
func NumericColumns() map[string]bool {
	return map[string]bool{"id": true, "label": true}
}

// Convert runs the two-pass pipeline over a COL/VAL pair file: pass one
// discovers the schema across every record of the corpus, pass two
// materializes one fixed-width row per well-formed line. Malformed lines
// and invalid labels are logged and skipped; ids stay contiguous over the
// kept rows.
func Convert(r io.Reader, opts ConvertOptions, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	res.Stats.LinesRead = len(lines)

	// Pass 1: schema discovery over the whole corpus. Malformed lines are
	// skipped silently here; pass 2 logs them.
	var pairs []colval.Pair
	for _, line := range lines {
		left, right, _, ok := colval.SplitLine(line)
		if !ok {
			continue
		}
		pairs = append(pairs, colval.Pair{Left: left, Right: right})
	}
	res.Schema = colval.DiscoverSchema(pairs, opts.Preferred)

	mopts := colval.Options{YearFields: opts.YearFields, CleanValues: opts.CleanValues}
	table := &Table{Columns: columnsFor(res.Schema)}

	rowID := 0
	for _, line := range lines {
		if _, _, _, ok := colval.SplitLine(line); !ok {
			if isBlank(line) {
				res.Stats.Blank++
				continue
			}
			res.Stats.Malformed++
			log.Warn("skipping malformed line (not 3 tab-separated parts)",
				zap.String("line", truncate(line, 120)))
			continue
		}
		row, err := colval.Materialize(line, rowID, res.Schema, mopts)
		if err != nil {
			if errors.Is(err, colval.ErrInvalidLabel) {
				res.Stats.InvalidLabel++
				log.Warn("skipping line with invalid label", zap.Error(err))
				continue
			}
			return nil, err
		}
		table.Rows = append(table.Rows, flatten(row, res.Schema))
		rowID++
	}
	res.Stats.Kept = rowID
	res.Table = table
	return res, nil
}

// columnsFor builds the output header: id, label, then left/right columns
// interleaved per schema field.
func columnsFor(schema []string) []string {
	cols := make([]string, 0, 2+2*len(schema))
	cols = append(cols, "id", "label")
	for _, f := range schema {
		cols = append(cols, "left_"+f, "right_"+f)
	}
	return cols
}

func flatten(row colval.Row, schema []string) map[string]string {
	out := make(map[string]string, 2+2*len(schema))
	out["id"] = strconv.Itoa(row.ID)
	out["label"] = strconv.Itoa(row.Label)
	for _, f := range schema {
		out["left_"+f] = row.Left[f]
		out["right_"+f] = row.Right[f]
	}
	return out
}

func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*1024)
	sc.Buffer(buf, 20*1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func isBlank(line string) bool {
	for _, c := range line {
		if c != ' ' && c != '\t' && c != '\r' {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
