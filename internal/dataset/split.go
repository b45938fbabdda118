package dataset

import (
	"fmt"
	"math/rand"
)

// SplitRatios divides a shuffled table into train/valid/test. Test takes
// whatever train and valid leave over.
type SplitRatios struct {
	Train float64
	Valid float64
}

// Split deterministically shuffles the rows with the given seed and cuts
// them into train/valid/test tables sharing the input's columns. Row order
// within each split follows the shuffle.
func Split(t *Table, seed int64, ratios SplitRatios) (train, valid, test *Table, err error) {
	if ratios.Train < 0 || ratios.Valid < 0 || ratios.Train+ratios.Valid > 1 {
		return nil, nil, nil, fmt.Errorf("invalid split ratios: train=%.3f valid=%.3f", ratios.Train, ratios.Valid)
	}
	rng := rand.New(rand.NewSource(seed))
	shuffled := append([]map[string]string(nil), t.Rows...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	n := len(shuffled)
	nTrain := int(float64(n) * ratios.Train)
	nValid := int(float64(n) * ratios.Valid)

	train = &Table{Columns: t.Columns, Rows: shuffled[:nTrain]}
	valid = &Table{Columns: t.Columns, Rows: shuffled[nTrain : nTrain+nValid]}
	test = &Table{Columns: t.Columns, Rows: shuffled[nTrain+nValid:]}
	return train, valid, test, nil
}
