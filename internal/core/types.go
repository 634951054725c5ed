// Package core provides the load, search, and format pipeline for uploaded tables.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"time"
)

// Kind is the inferred type of a cell or column.
type Kind int

const (
	KindMissing Kind = iota
	KindText
	KindNumber
	KindDate
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "missing"
	}
}

// Value is a single cell. Raw holds the text exactly as it appeared in the
// source file; Num and Time are populated only for KindNumber and KindDate.
type Value struct {
	Kind Kind
	Raw  string
	Num  float64
	Time time.Time
}

// IsMissing reports whether the cell is null.
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing
}

// String returns the text form of the value. Missing values render as "".
func (v Value) String() string {
	if v.Kind == KindMissing {
		return ""
	}
	return v.Raw
}

// Table is an in-memory dataset with named columns and ordered rows.
// A Table is never mutated after the Loader returns it.
type Table struct {
	Columns []string
	Kinds   []Kind    // Inferred kind per column, aligned with Columns
	Rows    [][]Value // Every row has len(Columns) values
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t == nil {
		return -1, false
	}
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Row returns the values of row i, or nil if i is out of range.
func (t *Table) Row(i int) []Value {
	if t == nil || i < 0 || i >= len(t.Rows) {
		return nil
	}
	return t.Rows[i]
}

// Record returns row i as a column name to text map.
func (t *Table) Record(i int) map[string]string {
	row := t.Row(i)
	if row == nil {
		return nil
	}
	rec := make(map[string]string, len(t.Columns))
	for j, col := range t.Columns {
		rec[col] = row[j].String()
	}
	return rec
}

// SearchResult is the outcome of a column search.
//
// Active is false when the search text was empty; in that case no filtering
// happened and Rows is nil. An active search with Count == 0 means the search
// ran and nothing matched.
type SearchResult struct {
	Column string
	Text   string
	Active bool
	Rows   []int // Positions of matching rows, in table order
	Count  int
}

// Record is one matched row rendered for copying.
type Record struct {
	Index  int    // Position of the row in the table
	Number int    // 1-based label within the result ("Record 1")
	Text   string // Output of Format
}
