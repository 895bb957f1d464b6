// Package dataset splits processed tables into training and testing sets
// for downstream modeling.
package dataset

import (
	"fmt"
	"math/rand"

	"cropprep/internal/config"
	"cropprep/internal/table"
)

// Split holds the result of a train/test split. Feature tables carry every
// column except the target; target values are aligned with their table's
// row order.
type Split struct {
	TrainX *table.Table
	TestX  *table.Table
	TrainY []string
	TestY  []string
}

// TrainTestSplit shuffles the table's rows with the configured seed and
// splits them by the configured test fraction. The same seed always yields
// the same partition, so experiments stay reproducible.
func TrainTestSplit(t *table.Table, target string, cfg config.SplitConfig) (*Split, error) {
	if !t.Has(target) {
		return nil, fmt.Errorf("target column %q not found", target)
	}
	if cfg.TestSize <= 0 || cfg.TestSize >= 1 {
		return nil, fmt.Errorf("invalid test_size %v: must be in (0, 1)", cfg.TestSize)
	}
	rows := t.Rows()
	if rows < 2 {
		return nil, fmt.Errorf("cannot split %d rows", rows)
	}

	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	rng.Shuffle(rows, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	testRows := int(float64(rows) * cfg.TestSize)
	if testRows == 0 {
		testRows = 1
	}

	features := make([]string, 0, t.Cols()-1)
	for _, name := range t.Names() {
		if name != target {
			features = append(features, name)
		}
	}

	build := func(idx []int) (*table.Table, []string, error) {
		part, err := table.New(features)
		if err != nil {
			return nil, nil, err
		}
		y := make([]string, 0, len(idx))
		targetCol, _ := t.Column(target)
		for _, i := range idx {
			row := make([]string, 0, len(features))
			for _, name := range features {
				col, _ := t.Column(name)
				row = append(row, col[i])
			}
			if err := part.AppendRow(row); err != nil {
				return nil, nil, err
			}
			y = append(y, targetCol[i])
		}
		return part, y, nil
	}

	testX, testY, err := build(indices[:testRows])
	if err != nil {
		return nil, err
	}
	trainX, trainY, err := build(indices[testRows:])
	if err != nil {
		return nil, err
	}

	return &Split{TrainX: trainX, TestX: testX, TrainY: trainY, TestY: testY}, nil
}
