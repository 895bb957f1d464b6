// Package table provides the in-memory model shared by every pipeline stage:
// an ordered collection of named string columns aligned by row index, plus the
// column-kind tags assigned at load time.
//
// Cells are kept as strings throughout the pipeline; numeric stages parse on
// demand and write formatted values back. A missing cell is the empty string
// (loaders normalize NA/NaN markers on the way in).
package table

import (
	"fmt"
	"strings"
)

// Kind classifies a column as numeric, date, or categorical. It is assigned
// once at load time and reused by later stages.
type Kind int

const (
	Numeric Kind = iota
	Date
	Categorical
)

// String returns the lowercase kind name used in logs and reports
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Date:
		return "date"
	default:
		return "categorical"
	}
}

// Table is an ordered sequence of named columns aligned by row index.
// Row count is invariant across columns; column names are unique.
type Table struct {
	names []string
	index map[string]int
	cols  [][]string
}

// New creates an empty table with the given column headers.
// Header names must be non-empty and unique.
func New(headers []string) (*Table, error) {
	t := &Table{
		names: make([]string, 0, len(headers)),
		index: make(map[string]int, len(headers)),
		cols:  make([][]string, 0, len(headers)),
	}
	for _, name := range headers {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("empty column name in header")
		}
		if _, exists := t.index[name]; exists {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		t.index[name] = len(t.names)
		t.names = append(t.names, name)
		t.cols = append(t.cols, []string{})
	}
	return t, nil
}

// Rows returns the number of rows
func (t *Table) Rows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0])
}

// Cols returns the number of columns
func (t *Table) Cols() int {
	return len(t.names)
}

// Names returns the column names in insertion order
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Has reports whether a column with the given name exists
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the cells of the named column. The returned slice is the
// table's backing storage; callers that mutate it must preserve its length.
func (t *Table) Column(name string) ([]string, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// SetColumn replaces the cells of an existing column. The replacement must
// have exactly one cell per row.
func (t *Table) SetColumn(name string, cells []string) error {
	i, ok := t.index[name]
	if !ok {
		return fmt.Errorf("unknown column %q", name)
	}
	if len(cells) != t.Rows() {
		return fmt.Errorf("column %q: got %d cells, table has %d rows", name, len(cells), t.Rows())
	}
	t.cols[i] = cells
	return nil
}

// AddColumn appends a new column after the existing ones. The new column must
// have exactly one cell per row and a unique name.
func (t *Table) AddColumn(name string, cells []string) error {
	if _, exists := t.index[name]; exists {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(t.names) > 0 && len(cells) != t.Rows() {
		return fmt.Errorf("column %q: got %d cells, table has %d rows", name, len(cells), t.Rows())
	}
	t.index[name] = len(t.names)
	t.names = append(t.names, name)
	t.cols = append(t.cols, cells)
	return nil
}

// DropColumn removes the named column, preserving the order of the rest
func (t *Table) DropColumn(name string) error {
	i, ok := t.index[name]
	if !ok {
		return fmt.Errorf("unknown column %q", name)
	}
	t.names = append(t.names[:i], t.names[i+1:]...)
	t.cols = append(t.cols[:i], t.cols[i+1:]...)
	delete(t.index, name)
	for j := i; j < len(t.names); j++ {
		t.index[t.names[j]] = j
	}
	return nil
}

// AppendRow appends a row of cells. Short rows are padded with missing cells;
// rows longer than the header are rejected.
func (t *Table) AppendRow(cells []string) error {
	if len(cells) > len(t.names) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.names))
	}
	for i := range t.cols {
		if i < len(cells) {
			t.cols[i] = append(t.cols[i], cells[i])
		} else {
			t.cols[i] = append(t.cols[i], "")
		}
	}
	return nil
}

// Row returns a copy of the cells at the given row index
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.cols))
	for j := range t.cols {
		out[j] = t.cols[j][i]
	}
	return out
}

// KeepRows retains only the rows at the given indices, in the order given.
// Indices must be valid and strictly increasing for a stable filter.
func (t *Table) KeepRows(keep []int) {
	for j := range t.cols {
		next := make([]string, 0, len(keep))
		for _, i := range keep {
			next = append(next, t.cols[j][i])
		}
		t.cols[j] = next
	}
}

// IsMissing reports whether a cell is a missing value
func IsMissing(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// MissingCount returns the number of missing cells in the named column
func (t *Table) MissingCount(name string) int {
	col, ok := t.Column(name)
	if !ok {
		return 0
	}
	n := 0
	for _, cell := range col {
		if IsMissing(cell) {
			n++
		}
	}
	return n
}

// MissingTotal returns the number of missing cells across the whole table
func (t *Table) MissingTotal() int {
	n := 0
	for _, name := range t.names {
		n += t.MissingCount(name)
	}
	return n
}
