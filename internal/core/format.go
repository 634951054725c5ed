package core

import (
	"fmt"
	"strings"
)

// Format renders a row as one "<column>: <value>" line per column, in the
// given column order, joined by single newlines. Missing values render as
// an empty string, so a trailing empty column yields "City: ".
// The result never ends in a line break, even when the last value does.
func Format(row []Value, columns []string) string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(col)
		b.WriteString(": ")
		if i < len(row) {
			b.WriteString(row[i].String())
		}
	}
	return strings.TrimRight(b.String(), "\r\n")
}

// FormatRow formats row i of t. Rows are addressed by position.
func FormatRow(t *Table, i int) (string, error) {
	if t == nil {
		return "", &QueryError{Err: ErrNoTable}
	}
	row := t.Row(i)
	if row == nil {
		return "", fmt.Errorf("%w: row %d, table has %d rows", ErrRecordNotFound, i, t.Len())
	}
	return Format(row, t.Columns), nil
}

// FormatRecords renders every row of a search result, in result order.
// An inactive search yields no records.
func FormatRecords(t *Table, res SearchResult) []Record {
	if t == nil || !res.Active {
		return nil
	}
	records := make([]Record, 0, len(res.Rows))
	for n, idx := range res.Rows {
		records = append(records, Record{
			Index:  idx,
			Number: n + 1,
			Text:   Format(t.Row(idx), t.Columns),
		})
	}
	return records
}
