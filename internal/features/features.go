// Package features engineers model-ready columns: numeric columns are
// outlier-clipped and min-max scaled, categorical columns are one-hot
// encoded under a category cap. Identifier columns on the configured
// denylist pass through untouched.
package features

import (
	"log/slog"
	"strings"

	"cropprep/internal/config"
	"cropprep/internal/table"
)

// OtherCategory is the synthetic bucket for categories beyond the cap
const OtherCategory = "Other"

// Engineer applies the feature-engineering stage to a table
type Engineer struct {
	cfg    config.PipelineConfig
	logger *slog.Logger
}

// New creates an Engineer. A nil logger falls back to slog.Default.
func New(cfg config.PipelineConfig, logger *slog.Logger) *Engineer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engineer{cfg: cfg, logger: logger}
}

// Process transforms the table in place and returns the names of the
// transformations applied. Row count is invariant; column count grows by up
// to CategoryCap-1 net columns per encoded categorical column. New indicator
// columns are registered in kinds as numeric.
func (e *Engineer) Process(t *table.Table, kinds map[string]table.Kind) []string {
	rowsBefore := t.Rows()
	applied := make(map[string]bool)

	// Snapshot the column list: encoding appends indicator columns that
	// must not themselves be processed.
	for _, name := range t.Names() {
		if e.cfg.IsExcluded(name) {
			continue
		}
		switch kinds[name] {
		case table.Numeric:
			if e.processNumeric(t, name) {
				applied["outlier_clip"] = true
				applied["minmax_scale"] = true
			}
		case table.Categorical:
			if !e.cfg.OneHotEncode {
				continue
			}
			if e.encodeCategorical(t, kinds, name) {
				applied["one_hot_encode"] = true
			}
		}
	}

	if t.Rows() != rowsBefore {
		// Cannot happen with clip-based outlier handling; guard anyway.
		e.logger.Error("feature engineering changed row count",
			slog.Int("before", rowsBefore), slog.Int("after", t.Rows()))
	}

	names := make([]string, 0, len(applied))
	for _, name := range []string{"outlier_clip", "minmax_scale", "one_hot_encode"} {
		if applied[name] {
			names = append(names, name)
		}
	}
	return names
}

// processNumeric clips outliers to the IQR bounds and min-max scales the
// column to [0, 1]. Missing cells (possible when imputation was skipped for
// an all-missing column) stay missing.
func (e *Engineer) processNumeric(t *table.Table, name string) bool {
	col, _ := t.Column(name)

	values := make([]float64, 0, len(col))
	at := make([]int, 0, len(col))
	for i, cell := range col {
		if table.IsMissing(cell) {
			continue
		}
		v, err := table.ParseNumber(cell)
		if err != nil {
			continue
		}
		values = append(values, v)
		at = append(at, i)
	}
	if len(values) == 0 {
		return false
	}

	lower, upper := IQRBounds(values)
	clipped := 0
	for i, v := range values {
		c := Clip(v, lower, upper)
		if c != v {
			clipped++
		}
		values[i] = c
	}

	min, max := MinMax(values)
	for i, v := range values {
		col[at[i]] = table.FormatNumber(MinMaxScale(v, min, max))
	}

	e.logger.Debug("numeric column processed",
		slog.String("column", name),
		slog.Int("outliers_clipped", clipped),
		slog.Float64("lower_bound", lower),
		slog.Float64("upper_bound", upper))
	return true
}

// encodeCategorical emits one indicator column per selected category. When
// the column has at least CategoryCap distinct values, the CategoryCap-1
// most frequent are kept and the rest collapse into the "Other" bucket, so
// at most CategoryCap indicators are produced. Each row sets exactly one
// indicator within the group.
func (e *Engineer) encodeCategorical(t *table.Table, kinds map[string]table.Kind, name string) bool {
	col, _ := t.Column(name)

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
		return false
	}

	selected := order
	capped := len(order) >= e.cfg.CategoryCap
	if capped {
		selected = topCategories(order, counts, e.cfg.CategoryCap-1)
	}

	keep := make(map[string]bool, len(selected))
	for _, cat := range selected {
		keep[cat] = true
	}

	group := selected
	if capped {
		group = append(append([]string{}, selected...), OtherCategory)
	}

	rows := len(col)
	for _, cat := range group {
		cells := make([]string, rows)
		for i, cell := range col {
			hit := cell == cat
			if cat == OtherCategory {
				hit = !table.IsMissing(cell) && !keep[cell]
			}
			if hit {
				cells[i] = "1"
			} else {
				cells[i] = "0"
			}
		}
		indicator := indicatorName(name, cat)
		if err := t.AddColumn(indicator, cells); err != nil {
			e.logger.Warn("indicator column skipped",
				slog.String("column", indicator),
				slog.String("error", err.Error()))
			continue
		}
		kinds[indicator] = table.Numeric
	}

	if !e.cfg.KeepOriginalCategorical {
		if err := t.DropColumn(name); err == nil {
			delete(kinds, name)
		}
	}

	e.logger.Debug("categorical column encoded",
		slog.String("column", name),
		slog.Int("distinct", len(order)),
		slog.Int("indicators", len(group)),
		slog.Bool("capped", capped))
	return true
}

// topCategories returns the n most frequent categories. Ties break toward
// the earlier first encounter, which order already encodes, so a stable
// selection only needs a linear scan per slot.
func topCategories(order []string, counts map[string]int, n int) []string {
	remaining := append([]string{}, order...)
	top := make([]string, 0, n)
	for len(top) < n && len(remaining) > 0 {
		best := 0
		for i := 1; i < len(remaining); i++ {
			if counts[remaining[i]] > counts[remaining[best]] {
				best = i
			}
		}
		top = append(top, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return top
}

// indicatorName combines the source column and category label.
// Spaces in the label are folded to underscores to keep headers portable.
func indicatorName(column, category string) string {
	return column + "_" + strings.ReplaceAll(category, " ", "_")
}
