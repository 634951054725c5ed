// Package core provides the load, search, and format pipeline for uploaded tables.
//
// This package holds all domain logic independent of any UI or transport
// layer. The web server and the terminal CLI both call into it.
//
// # Pipeline
//
//  1. [Load] parses a .csv, .xlsx or .xls payload into a [Table]. The first
//     row is the header; column and row order follow the source.
//  2. [Search] filters one column by case-insensitive substring match and
//     returns matching row positions. Empty search text is "no active
//     search", which is distinct from a search with zero matches.
//  3. [Format] renders a row as "<column>: <value>" lines, all columns, in
//     table order, ready to copy.
//
// # Sessions
//
// A [Session] holds the table of one user. It is created by the shell and
// passed to each handler. A successful load replaces the table wholesale;
// a failed load leaves it unchanged. [SessionStore] keeps sessions for the
// web server and expires idle ones.
//
// # Missing Values
//
// Empty cells and the usual null spellings ("NaN", "NULL", "N/A", ...) load
// as missing. A missing value has the text form "" everywhere: in the grid,
// in search, and in formatted records.
//
// # Error Handling
//
// Parse failures are [*LoadError]; bad searches are [*QueryError]. Technical
// errors are mapped to user-friendly messages using [MapError].
package core
