package colval

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Input lines tolerate runs of tabs between the three parts.
var tabRE = regexp.MustCompile(`\t+`)

var (
	yearRE    = regexp.MustCompile(`\d{4}`)
	langTagRE = regexp.MustCompile(`@[A-Za-z]{2,3}\b`)
)

// ErrMalformedLine marks a line that does not split into exactly three
// tab-separated parts. ErrInvalidLabel marks a line whose label part is not
// an integer. Both are non-fatal: the caller skips the line and keeps going.
var (
	ErrMalformedLine = errors.New("malformed line")
	ErrInvalidLabel  = errors.New("invalid label")
)

// Options holds the narrow per-dataset exceptions applied to tokenized
// values during materialization.
type Options struct {
	// YearFields lists field names whose values are reduced to the first
	// run of 4 consecutive digits ("" if none).
	YearFields []string
	// CleanValues strips double quotes and @en-style language tags from
	// every value (WDC cameras/computers dumps carry both).
	CleanValues bool
}

// Row is one materialized output row. Left and Right hold a value for
// every schema field, "" where the side lacked the field.
type Row struct {
	ID    int
	Label int
	Left  map[string]string
	Right map[string]string
}

// SplitLine splits one raw input line into its three tab-separated parts.
// Blank lines and lines with the wrong number of parts report !ok.
func SplitLine(line string) (left, right, label string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", "", false
	}
	parts := tabRE.Split(line, -1)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// Materialize converts one well-formed input line into a Row with the given
// id and schema. ErrInvalidLabel is returned (and no id consumed) when the
// label part does not parse as an integer; ErrMalformedLine when the line
// does not have three parts, though callers normally filter those before
// assigning ids.
func Materialize(line string, rowID int, schema []string, opts Options) (Row, error) {
	leftText, rightText, labelText, ok := SplitLine(line)
	if !ok {
		return Row{}, fmt.Errorf("%w: %q", ErrMalformedLine, preview(line))
	}
	label, err := strconv.Atoi(strings.TrimSpace(labelText))
	if err != nil {
		return Row{}, fmt.Errorf("%w: %q", ErrInvalidLabel, labelText)
	}

	left := Parse(leftText)
	right := Parse(rightText)
	row := Row{
		ID:    rowID,
		Label: label,
		Left:  make(map[string]string, len(schema)),
		Right: make(map[string]string, len(schema)),
	}
	for _, f := range schema {
		lv, _ := left.Get(f)
		rv, _ := right.Get(f)
		row.Left[f] = postprocess(f, lv, opts)
		row.Right[f] = postprocess(f, rv, opts)
	}
	return row, nil
}

func postprocess(field, value string, opts Options) string {
	if opts.CleanValues && value != "" {
		value = strings.ReplaceAll(value, `"`, "")
		value = langTagRE.ReplaceAllString(value, "")
		value = strings.TrimSpace(spaceRE.ReplaceAllString(value, " "))
	}
	for _, yf := range opts.YearFields {
		if field == yf {
			return yearRE.FindString(value)
		}
	}
	return value
}

func preview(line string) string {
	const max = 120
	if len(line) > max {
		return line[:max] + "..."
	}
	return line
}
