package dataset

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableOfSize(n int) *Table {
	t := &Table{Columns: []string{"id", "label"}}
	for i := 0; i < n; i++ {
		t.Rows = append(t.Rows, map[string]string{"id": strconv.Itoa(i), "label": "0"})
	}
	return t
}

func TestSplitRatiosAndDeterminism(t *testing.T) {
	tab := tableOfSize(100)
	train, valid, test, err := Split(tab, 42, SplitRatios{Train: 0.6, Valid: 0.2})
	require.NoError(t, err)
	assert.Len(t, train.Rows, 60)
	assert.Len(t, valid.Rows, 20)
	assert.Len(t, test.Rows, 20)

	// Same seed, same assignment.
	train2, _, _, err := Split(tab, 42, SplitRatios{Train: 0.6, Valid: 0.2})
	require.NoError(t, err)
	assert.Equal(t, train.Rows, train2.Rows)

	// Every input row lands in exactly one split.
	seen := map[string]int{}
	for _, part := range []*Table{train, valid, test} {
		for _, r := range part.Rows {
			seen[r["id"]]++
		}
	}
	assert.Len(t, seen, 100)
	for id, n := range seen {
		assert.Equal(t, 1, n, "row %s assigned %d times", id, n)
	}
}

func TestSplitRejectsBadRatios(t *testing.T) {
	_, _, _, err := Split(tableOfSize(10), 1, SplitRatios{Train: 0.9, Valid: 0.2})
	assert.Error(t, err)
	_, _, _, err = Split(tableOfSize(10), 1, SplitRatios{Train: -0.1, Valid: 0.2})
	assert.Error(t, err)
}
