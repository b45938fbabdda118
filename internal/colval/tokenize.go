// Package colval parses the tokenized record format used by Ditto-style
// entity-matching datasets, where each record side is a free-text string
// of "COL <name> VAL <value>" segments.
package colval

import (
	"regexp"
	"strings"
)

// fieldRE matches one complete marker triple. Boundary detection requires
// the full triple: a bare "COL" inside a value (e.g. "COLORFUL") must not
// open a new field.
var fieldRE = regexp.MustCompile(`(?i)\bCOL\s+([A-Za-z0-9_]+)\s+VAL\b`)

var spaceRE = regexp.MustCompile(`\s+`)

// Separator punctuation stripped from both ends of an extracted value.
const valueCutset = " |;,:"

// FieldMap is the insertion-ordered field name -> value mapping extracted
// from one record side. Names are lowercased; a repeated name keeps its
// first position and the last occurrence's value.
type FieldMap struct {
	keys   []string
	values map[string]string
}

// Get returns the value for a field name and whether it is present.
func (m FieldMap) Get(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Keys returns the field names in first-appearance order.
func (m FieldMap) Keys() []string {
	return m.keys
}

// Len returns the number of distinct fields.
func (m FieldMap) Len() int {
	return len(m.keys)
}

func (m *FieldMap) set(name, value string) {
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = value
}

// Parse extracts the ordered FieldMap encoded in text. A field's value runs
// from the end of its marker triple to the start of the next triple (or end
// of string). Values have whitespace runs collapsed to a single space and
// stray separator punctuation trimmed. Empty or marker-free input yields an
// empty map.
func Parse(text string) FieldMap {
	fm := FieldMap{values: map[string]string{}}
	if text == "" {
		return fm
	}
	matches := fieldRE.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		name := strings.ToLower(strings.TrimSpace(text[m[2]:m[3]]))
		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		val := strings.TrimSpace(text[start:end])
		val = spaceRE.ReplaceAllString(val, " ")
		val = strings.Trim(val, valueCutset)
		fm.set(name, val)
	}
	return fm
}
