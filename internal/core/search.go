package core

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Status messages shown for the three search outcomes.
const (
	StatusNoSearch  = "Enter a search term above to find records"
	StatusNoMatches = "No records found matching your search"
)

// Search filters the table by case-insensitive substring match on one column.
//
// An empty text performs no filtering and returns a result with Active set
// to false. Otherwise every row whose value in column, in text form,
// contains text is returned in table order. Missing values have an empty
// text form and never match. The text is matched literally.
//
// A column that is not in the table is a *QueryError, never an empty result.
func Search(t *Table, column, text string) (SearchResult, error) {
	if t == nil {
		return SearchResult{}, &QueryError{Column: column, Err: ErrNoTable}
	}

	col, ok := t.ColumnIndex(column)
	if !ok {
		return SearchResult{}, &QueryError{Column: column, Err: ErrColumnNotFound}
	}

	res := SearchResult{Column: column, Text: text}
	if text == "" {
		return res, nil
	}
	res.Active = true
	res.Rows = []int{}

	folder := cases.Fold()
	needle := folder.String(text)

	for i, row := range t.Rows {
		if col >= len(row) {
			return SearchResult{}, &QueryError{
				Column: column,
				Err:    fmt.Errorf("row %d has %d values, table has %d columns", i, len(row), len(t.Columns)),
			}
		}
		hay := row[col].String()
		if hay == "" {
			continue
		}
		if strings.Contains(folder.String(hay), needle) {
			res.Rows = append(res.Rows, i)
		}
	}
	res.Count = len(res.Rows)
	return res, nil
}

// Status returns the user-facing summary for a search result.
func Status(res SearchResult) string {
	switch {
	case !res.Active:
		return StatusNoSearch
	case res.Count == 0:
		return StatusNoMatches
	default:
		return fmt.Sprintf("Found %d record(s)", res.Count)
	}
}
