package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatError(t *testing.T) {
	err := NewFormatError("data/raw/notes.txt", ".txt")

	assert.Contains(t, err.Error(), ".txt")
	assert.Contains(t, err.Error(), "data/raw/notes.txt")
	assert.True(t, IsFormatError(err))
	assert.False(t, IsValidationError(err))
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ValidationError
		message string
	}{
		{
			name:    "column with missing count",
			err:     NewValidationError("Temperature", "missing cells after imputation", 3),
			message: `validation failed for column "Temperature": missing cells after imputation (3 cells)`,
		},
		{
			name:    "table level violation",
			err:     &ValidationError{Reason: "row count changed during imputation"},
			message: "validation failed: row count changed during imputation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.True(t, IsValidationError(tt.err))
		})
	}
}

func TestStageError_WrapsCause(t *testing.T) {
	cause := NewFormatError("yield.dat", ".dat")
	err := NewStageError("yield.dat", "load", cause)

	assert.Contains(t, err.Error(), "dataset yield.dat")
	assert.Contains(t, err.Error(), "stage load")

	// The underlying kind must survive wrapping, including another %w layer.
	wrapped := fmt.Errorf("batch item failed: %w", err)
	assert.True(t, IsFormatError(wrapped))

	var se *StageError
	require.True(t, errors.As(wrapped, &se))
	assert.Equal(t, "load", se.Stage)
}

func TestParseError(t *testing.T) {
	err := &ParseError{Column: "harvest_date", Value: "not-a-date", Want: "date"}
	assert.Equal(t, `cannot parse "not-a-date" in column "harvest_date" as date`, err.Error())
}
