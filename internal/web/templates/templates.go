// Package templates holds the templ components for the data viewer pages.
// page_templ.go is generated from page.templ.
package templates

//go:generate templ generate

import (
	"fmt"
	"strconv"
)

// AlertKind selects the styling of a status banner.
type AlertKind string

const (
	AlertInfo    AlertKind = "info"
	AlertSuccess AlertKind = "success"
	AlertWarning AlertKind = "warning"
	AlertError   AlertKind = "error"
)

// Alert is a one-line banner with an optional follow-up action and error code.
type Alert struct {
	Kind    AlertKind
	Message string
	Action  string
	Code    string
}

// RecordView is one formatted record offered for copying.
type RecordView struct {
	Number int
	Text   string
}

// PageView is everything the page needs. The zero value renders the
// "How to use" instructions.
type PageView struct {
	FileName string
	Columns  []string
	Rows     [][]string

	// Search form state
	Column string
	Query  string

	// Set when a search ran (non-empty query)
	Searched   bool
	ResultRows [][]string
	Records    []RecordView

	Flash  *Alert // Upload confirmation
	Status *Alert // Search status line
	Error  *Alert
}

// Loaded reports whether a table is on display.
func (v PageView) Loaded() bool {
	return len(v.Columns) > 0
}

func fileSummary(v PageView) string {
	return fmt.Sprintf("%s (%d rows)", v.FileName, len(v.Rows))
}

func recordID(n int) string {
	return "record-" + strconv.Itoa(n)
}

func recordLabel(n int) string {
	return "Record " + strconv.Itoa(n) + ":"
}
