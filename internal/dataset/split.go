package dataset

import (
	"fmt"
	"math/rand"

	"carprep/pkg/records"
)

// Split partitions rows into train and test sets. trainFrac is the fraction
// of rows assigned to train (0 < trainFrac < 1). The split is deterministic
// for a given seed: rows are shuffled with a seeded source and cut at the
// boundary, so repeated runs produce identical partitions.
//
// The input slice is not modified; both returned slices alias the original
// records.
func Split(rows []records.Record, trainFrac float64, seed int64) (train, test []records.Record, err error) {
	if trainFrac <= 0 || trainFrac >= 1 {
		return nil, nil, fmt.Errorf("split: trainFrac must be in (0,1), got %v", trainFrac)
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	cut := int(float64(len(rows)) * trainFrac)
	train = make([]records.Record, 0, cut)
	test = make([]records.Record, 0, len(rows)-cut)
	for i, ix := range idx {
		if i < cut {
			train = append(train, rows[ix])
		} else {
			test = append(test, rows[ix])
		}
	}
	return train, test, nil
}
