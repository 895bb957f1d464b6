package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferKind(t *testing.T) {
	tests := []struct {
		name   string
		column string
		cells  []string
		want   Kind
	}{
		{
			name:   "name hint wins over dirty values",
			column: "hg/ha_yield",
			cells:  []string{"36613", "n/a", "29068"},
			want:   Numeric,
		},
		{
			name:   "name hint is case insensitive",
			column: "Average_Temperature_C",
			cells:  []string{"16.37", "15.36"},
			want:   Numeric,
		},
		{
			name:   "all values numeric",
			column: "pesticides",
			cells:  []string{"121", "121.0", "1,510"},
			want:   Numeric,
		},
		{
			name:   "all values dates",
			column: "recorded_on",
			cells:  []string{"1990-01-01", "1991-01-01"},
			want:   Date,
		},
		{
			name:   "mixed date and text is categorical",
			column: "recorded_on",
			cells:  []string{"1990-01-01", "unknown"},
			want:   Categorical,
		},
		{
			name:   "mixed numeric and date is categorical",
			column: "code",
			cells:  []string{"1990-01-01", "5"},
			want:   Categorical,
		},
		{
			name:   "plain text",
			column: "Area",
			cells:  []string{"Albania", "Algeria"},
			want:   Categorical,
		},
		{
			name:   "all missing has no evidence",
			column: "notes",
			cells:  []string{"", "", ""},
			want:   Categorical,
		},
		{
			name:   "missing cells are skipped",
			column: "pesticides",
			cells:  []string{"", "120", ""},
			want:   Numeric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferKind(tt.column, tt.cells))
		})
	}
}

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber(" 1,510.5 ")
	require.NoError(t, err)
	assert.Equal(t, 1510.5, v)

	_, err = ParseNumber("ten")
	assert.Error(t, err)
}

func TestParseDate_AcceptedLayouts(t *testing.T) {
	for _, cell := range []string{"1990-07-02", "1990/07/02", "02/07/1990", "02-07-1990", "Jul 2, 1990"} {
		ts, err := ParseDate(cell)
		require.NoError(t, err, cell)
		assert.Equal(t, "1990-07-02", ts.Format(DateLayout))
	}

	_, err := ParseDate("yesterday")
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "numeric", Numeric.String())
	assert.Equal(t, "date", Date.String())
	assert.Equal(t, "categorical", Categorical.String())
}
