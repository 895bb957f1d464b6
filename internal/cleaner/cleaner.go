// Package cleaner removes duplicate rows and fills missing cells so that
// every numeric and categorical column is complete before feature
// engineering. Duplicates are dropped before imputation so the fill
// statistics are computed on deduplicated data.
package cleaner

import (
	"log/slog"
	"sort"
	"strings"

	xerrors "cropprep/internal/errors"
	"cropprep/internal/table"
)

// Cleaner fills missing values and removes duplicate rows
type Cleaner struct {
	logger *slog.Logger
	// strategy selects the numeric fill statistic, "mean" or "median"
	strategy string
}

// New creates a Cleaner using the given numeric imputation strategy.
// A nil logger falls back to slog.Default.
func New(logger *slog.Logger, strategy string) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if strategy == "" {
		strategy = "mean"
	}
	return &Cleaner{logger: logger, strategy: strategy}
}

// DropDuplicates removes rows that are exact duplicates across all columns,
// keeping the first occurrence and preserving the order of the rest. It
// returns the number of rows removed.
func (c *Cleaner) DropDuplicates(t *table.Table) int {
	rows := t.Rows()
	seen := make(map[string]struct{}, rows)
	keep := make([]int, 0, rows)

	for i := 0; i < rows; i++ {
		key := strings.Join(t.Row(i), "\x1f")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}

	removed := rows - len(keep)
	if removed > 0 {
		t.KeepRows(keep)
		c.logger.Info("duplicate rows removed", slog.Int("removed", removed), slog.Int("remaining", t.Rows()))
	}
	return removed
}

// Impute fills missing cells column by column: numeric columns get the
// column mean (or median), categorical columns get the mode. Date columns
// are left untouched; forward-filling dates would fabricate observations.
func (c *Cleaner) Impute(t *table.Table, kinds map[string]table.Kind) {
	for _, name := range t.Names() {
		if t.MissingCount(name) == 0 {
			continue
		}
		col, _ := t.Column(name)

		switch kinds[name] {
		case table.Numeric:
			fill, ok := c.numericFill(col)
			if !ok {
				continue // all-missing column, nothing to compute
			}
			cell := table.FormatNumber(fill)
			for i, v := range col {
				if table.IsMissing(v) {
					col[i] = cell
				}
			}
			c.logger.Debug("numeric column imputed",
				slog.String("column", name),
				slog.String("strategy", c.strategy),
				slog.Float64("fill", fill))

		case table.Categorical:
			fill, ok := Mode(col)
			if !ok {
				continue
			}
			for i, v := range col {
				if table.IsMissing(v) {
					col[i] = fill
				}
			}
			c.logger.Debug("categorical column imputed",
				slog.String("column", name),
				slog.String("fill", fill))
		}
	}
}

// Validate asserts the post-imputation invariants: the row count must equal
// rowsBefore (imputation never drops rows) and no numeric or categorical
// column may still contain missing cells.
func (c *Cleaner) Validate(t *table.Table, kinds map[string]table.Kind, rowsBefore int) error {
	if t.Rows() != rowsBefore {
		return &xerrors.ValidationError{Reason: "row count changed during imputation"}
	}

	for _, name := range t.Names() {
		kind := kinds[name]
		if kind != table.Numeric && kind != table.Categorical {
			continue
		}
		// All-missing columns carry no fill statistic and stay empty.
		if missing := t.MissingCount(name); missing > 0 && missing < t.Rows() {
			return xerrors.NewValidationError(name, "missing cells after imputation", missing)
		}
	}
	return nil
}

// numericFill computes the configured fill statistic over the non-missing
// cells of a column.
func (c *Cleaner) numericFill(col []string) (float64, bool) {
	var nums []float64
	for _, cell := range col {
		if table.IsMissing(cell) {
			continue
		}
		if v, err := table.ParseNumber(cell); err == nil {
			nums = append(nums, v)
		}
	}
	if len(nums) == 0 {
		return 0, false
	}
	if c.strategy == "median" {
		return median(nums), true
	}
	return mean(nums), true
}

// Mode returns the most frequent non-missing value of a column. Ties are
// broken by first encounter in column order.
func Mode(col []string) (string, bool) {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, cell := range col {
		if table.IsMissing(cell) {
			continue
		}
		if _, ok := counts[cell]; !ok {
			order = append(order, cell)
		}
		counts[cell]++
	}
	if len(order) == 0 {
		return "", false
	}

	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, true
}

func mean(nums []float64) float64 {
	sum := 0.0
	for _, v := range nums {
		sum += v
	}
	return sum / float64(len(nums))
}

func median(nums []float64) float64 {
	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
