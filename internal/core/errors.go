package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for file names without a .csv, .xlsx or .xls suffix.
	ErrUnsupportedFormat = errors.New("unsupported file type")

	// ErrEmptyFile is returned when the payload holds no header row.
	ErrEmptyFile = errors.New("empty file: no columns to parse")

	// ErrFileTooLarge is returned when a payload exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrColumnNotFound is returned when a search names a column the table does not have.
	ErrColumnNotFound = errors.New("column not found")

	// ErrNoTable is returned when a session is searched before anything was loaded.
	ErrNoTable = errors.New("no table loaded")

	// ErrRecordNotFound is returned for a row position outside the table.
	ErrRecordNotFound = errors.New("record not found")
)

// LoadError reports that an uploaded payload could not be parsed.
// No partial table is ever returned alongside a LoadError.
type LoadError struct {
	FileName string
	Format   string // "csv", "xlsx", "xls" or "" when the format was not determined
	Err      error
}

func (e *LoadError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("load %s: %v", e.FileName, e.Err)
	}
	return fmt.Sprintf("load %s (%s): %v", e.FileName, e.Format, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// QueryError reports an invalid search request.
type QueryError struct {
	Column string
	Err    error
}

func (e *QueryError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("search: %v", e.Err)
	}
	return fmt.Sprintf("search column %q: %v", e.Column, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is, or wraps, a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// IsQueryError reports whether err is, or wraps, a *QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}
