package errors

import (
	"errors"
	"fmt"
)

// FormatError reports a dataset file whose extension is not a supported
// tabular container. It is fatal for that dataset but not for the batch.
type FormatError struct {
	Path string
	Ext  string
}

// Error implements the error interface
func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q for %s", e.Ext, e.Path)
}

// NewFormatError creates a FormatError for the given path and extension
func NewFormatError(path, ext string) *FormatError {
	return &FormatError{Path: path, Ext: ext}
}

// ValidationError reports a post-imputation invariant violation. It carries
// the offending column and the number of cells still missing.
type ValidationError struct {
	Column  string
	Missing int
	Reason  string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed for column %q: %s (%d cells)", e.Column, e.Reason, e.Missing)
}

// NewValidationError creates a ValidationError for a column
func NewValidationError(column, reason string, missing int) *ValidationError {
	return &ValidationError{Column: column, Reason: reason, Missing: missing}
}

// ParseError reports a cell value that could not be converted to the kind
// inferred for its column. Callers recover by treating the cell as missing,
// so a ParseError is informational and never aborts a dataset.
type ParseError struct {
	Column string
	Value  string
	Want   string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q in column %q as %s", e.Value, e.Column, e.Want)
}

// StageError wraps a failure with the dataset and pipeline stage where it
// occurred. The orchestrator logs it and continues with the next dataset.
type StageError struct {
	Dataset string
	Stage   string
	Err     error
}

// Error implements the error interface
func (e *StageError) Error() string {
	return fmt.Sprintf("dataset %s: stage %s: %v", e.Dataset, e.Stage, e.Err)
}

// Unwrap returns the underlying cause
func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with dataset and stage context
func NewStageError(dataset, stage string, err error) *StageError {
	return &StageError{Dataset: dataset, Stage: stage, Err: err}
}

// IsFormatError reports whether err is or wraps a FormatError
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
