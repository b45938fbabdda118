package colval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscoverSchemaUnionSorted(t *testing.T) {
	pairs := []Pair{
		{Left: "COL title VAL a", Right: "COL brand VAL b"},
		{Left: "COL year VAL 1999", Right: "COL title VAL c"},
	}
	assert.Equal(t, []string{"brand", "title", "year"}, DiscoverSchema(pairs, nil))
}

func TestDiscoverSchemaPreferredOrder(t *testing.T) {
	pairs := []Pair{
		{Left: "COL year VAL 1999 COL brand VAL x", Right: "COL title VAL y"},
	}
	got := DiscoverSchema(pairs, []string{"title", "year"})
	assert.Equal(t, []string{"title", "year", "brand"}, got)
}

func TestDiscoverSchemaPreferredMissingFieldsAreDropped(t *testing.T) {
	pairs := []Pair{
		{Left: "COL title VAL y", Right: ""},
	}
	got := DiscoverSchema(pairs, []string{"modelno", "title"})
	assert.Equal(t, []string{"title"}, got)
}

func TestDiscoverSchemaRareFieldStillBecomesColumn(t *testing.T) {
	pairs := make([]Pair, 0, 101)
	for i := 0; i < 100; i++ {
		pairs = append(pairs, Pair{Left: "COL title VAL a", Right: "COL title VAL b"})
	}
	pairs = append(pairs, Pair{Left: "COL title VAL a COL abv VAL 5.5", Right: "COL title VAL b"})
	assert.Equal(t, []string{"abv", "title"}, DiscoverSchema(pairs, nil))
}

func TestDiscoverSchemaEmptyCorpus(t *testing.T) {
	assert.Empty(t, DiscoverSchema(nil, nil))
	assert.Empty(t, DiscoverSchema(nil, []string{"title"}))
}
