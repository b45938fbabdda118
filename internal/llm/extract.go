package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	fenceOpenRE  = regexp.MustCompile("^```[a-zA-Z]*\n?")
	fenceCloseRE = regexp.MustCompile("```$")
)

// StripFences removes a wrapping markdown code fence, which chat models add
// even when told not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = fenceOpenRE.ReplaceAllString(s, "")
		s = strings.TrimSpace(fenceCloseRE.ReplaceAllString(strings.TrimSpace(s), ""))
	}
	return s
}

// DecodeRecord parses a completion into one flat JSON object.
func DecodeRecord(completion string) (map[string]any, error) {
	cleaned := StripFences(completion)
	var rec map[string]any
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCompletion, err)
	}
	return rec, nil
}

// NormalizeRecord maps a decoded model record onto the dataset schema:
// keys are renamed via keyMap, every expected key is present in the output
// (filled from defaults, "false" for is_* flags, else "unknown"), and keys
// outside the schema are dropped. Values are stringified for CSV output.
func NormalizeRecord(rec map[string]any, expected []string, keyMap map[string]string, defaults map[string]string) map[string]string {
	renamed := make(map[string]any, len(rec))
	for k, v := range rec {
		if std, ok := keyMap[k]; ok {
			k = std
		}
		renamed[k] = v
	}

	out := make(map[string]string, len(expected))
	for _, k := range expected {
		if v, ok := renamed[k]; ok && v != nil {
			out[k] = stringify(v)
			continue
		}
		if d, ok := defaults[k]; ok {
			out[k] = d
		} else if strings.HasPrefix(k, "is_") {
			out[k] = "false"
		} else {
			out[k] = "unknown"
		}
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
