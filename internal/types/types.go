// =============================================================================
// CSV Cleaner - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser
//   - cleaner
//   - profile
//   - web
//
// =============================================================================

package types

import "time"

// =============================================================================
// TABLE
// =============================================================================

// Table is an in-memory, ordered collection of rows sharing a fixed header.
//
// Every row has exactly len(Header) cells. Cells are kept positionally so that
// duplicate or empty header names survive a round trip unchanged.
type Table struct {
	// Header contains the column names exactly as they appeared in the
	// first row of the source.
	Header []string

	// Rows contains the data rows, in source order.
	Rows [][]string
}

// NewTable creates an empty table with a copy of the given header.
func NewTable(header []string) *Table {
	h := make([]string, len(header))
	copy(h, header)
	return &Table{
		Header: h,
		Rows:   [][]string{},
	}
}

// RowCount returns the number of data rows (the header is not counted).
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.Header)
}

// Column returns every value of the column at index col, in row order.
func (t *Table) Column(col int) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[col]
	}
	return values
}

// =============================================================================
// CLEANING SUMMARY
// =============================================================================

// CleaningSummary reports the outcome of a single clean run.
type CleaningSummary struct {
	// Source is the path (or upload name) the table was read from.
	Source string `json:"source"`

	// Destination is the path the cleaned table was written to.
	Destination string `json:"destination"`

	// InputRows is the number of data rows read from the source.
	InputRows int `json:"input_rows"`

	// OutputRows is the number of data rows written to the destination.
	OutputRows int `json:"output_rows"`

	// DroppedRows is the number of rows removed because they held a null cell.
	DroppedRows int `json:"dropped_rows"`

	// DateColumns lists the columns that were normalized as dates.
	DateColumns []string `json:"date_columns"`

	// Duration is the wall time of the whole run.
	Duration time.Duration `json:"duration"`
}
