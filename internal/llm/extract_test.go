package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  ```JSON\n{\"a\":1}```  ", "{\"a\":1}"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StripFences(c.in), "input %q", c.in)
	}
}

func TestDecodeRecord(t *testing.T) {
	rec, err := DecodeRecord("```json\n{\"name\": \"Red Ale\", \"abv\": 5.5}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Red Ale", rec["name"])

	_, err = DecodeRecord("sorry, I cannot help with that")
	assert.ErrorIs(t, err, ErrBadCompletion)

	_, err = DecodeRecord("[1,2,3]")
	assert.ErrorIs(t, err, ErrBadCompletion)
}

func TestNormalizeRecordRenameAndFill(t *testing.T) {
	expected := []string{"name", "brewery", "abv", "is_ale", "special_ingredients"}
	keyMap := map[string]string{"Beer_Name": "name", "Brew_Factory_Name": "brewery"}
	defaults := map[string]string{"special_ingredients": "none"}

	rec := map[string]any{
		"Beer_Name": "Hazy DIPA",
		"abv":       8.2,
		"is_ale":    true,
		"style":     "ignored, not in schema",
	}
	got := NormalizeRecord(rec, expected, keyMap, defaults)
	assert.Equal(t, map[string]string{
		"name":                "Hazy DIPA",
		"brewery":             "unknown",
		"abv":                 "8.2",
		"is_ale":              "true",
		"special_ingredients": "none",
	}, got)
}

func TestNormalizeRecordEmptyInputAllDefaults(t *testing.T) {
	expected := []string{"name", "is_lager"}
	got := NormalizeRecord(map[string]any{}, expected, nil, nil)
	assert.Equal(t, "unknown", got["name"])
	assert.Equal(t, "false", got["is_lager"])
}

func TestNormalizeRecordNullValueFallsBackToDefault(t *testing.T) {
	got := NormalizeRecord(map[string]any{"name": nil}, []string{"name"}, nil, nil)
	assert.Equal(t, "unknown", got["name"])
}
