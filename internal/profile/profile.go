// =============================================================================
// CSV Cleaner - Data Profile
// =============================================================================
//
// This module summarizes a table before and after cleaning:
//   - Row and column counts
//   - Missing (null) cells per column
//   - The inferred kind of each column
//   - The first few rows as a sample
//
// KIND INFERENCE:
//   numeric : more than 80% of the non-null cells are numbers
//   date    : the column is date-like by the cleaner's own rule
//   text    : everything else
//
// =============================================================================

package profile

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/ginjaninja78/csv-cleaner/internal/cleaner"
	"github.com/ginjaninja78/csv-cleaner/internal/logging"
	"github.com/ginjaninja78/csv-cleaner/internal/types"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindDate    Kind = "date"
	KindText    Kind = "text"
)

// numericShare is the share of non-null cells that must be numbers for a
// column to be numeric.
const numericShare = 0.8

// =============================================================================
// PROFILE STRUCTURE
// =============================================================================

// Profile is a summary of one table.
type Profile struct {
	// Rows is the number of data rows.
	Rows int

	// Header is the column names in order.
	Header []string

	// Columns holds one entry per header column, in order.
	Columns []Column

	// Sample holds up to the requested number of leading rows.
	Sample [][]string
}

// Column is the profile of a single column.
type Column struct {
	Name    string
	Missing int
	Kind    Kind
}

// MissingCells returns the number of null cells across all columns.
func (p *Profile) MissingCells() int {
	total := 0
	for _, col := range p.Columns {
		total += col.Missing
	}
	return total
}

// =============================================================================
// BUILDING
// =============================================================================

// Build profiles t.
//
// PARAMETERS:
//   - t: The table to profile. It is not modified.
//   - sampleSize: The number of leading rows to keep as a sample.
func Build(t *types.Table, sampleSize int) *Profile {
	p := &Profile{
		Rows:    t.RowCount(),
		Header:  append([]string(nil), t.Header...),
		Columns: make([]Column, len(t.Header)),
	}

	for col, name := range t.Header {
		var present []string
		missing := 0
		for _, row := range t.Rows {
			if col >= len(row) || cleaner.IsNull(row[col]) {
				missing++
				continue
			}
			present = append(present, strings.TrimSpace(row[col]))
		}

		p.Columns[col] = Column{
			Name:    name,
			Missing: missing,
			Kind:    inferKind(name, present),
		}
	}

	if sampleSize > t.RowCount() {
		sampleSize = t.RowCount()
	}
	for i := 0; i < sampleSize; i++ {
		p.Sample = append(p.Sample, append([]string(nil), t.Rows[i]...))
	}

	return p
}

// inferKind classifies a column from its non-null, trimmed values.
func inferKind(name string, values []string) Kind {
	if len(values) > 0 {
		numbers := 0
		for _, v := range values {
			if _, err := cast.ToFloat64E(v); err == nil {
				numbers++
			}
		}
		if float64(numbers) > numericShare*float64(len(values)) {
			return KindNumeric
		}
	}

	if cleaner.IsDateColumn(name, values) {
		return KindDate
	}

	return KindText
}

// =============================================================================
// LOGGING
// =============================================================================

// Log writes the profile to logger at info level, one entry per column and
// per sample row.
func (p *Profile) Log(logger logging.Logger) {
	logger.Info("data profile", "rows", p.Rows, "columns", len(p.Columns), "missing_cells", p.MissingCells())

	for _, col := range p.Columns {
		logger.Info("column profile", "column", col.Name, "missing", col.Missing, "kind", string(col.Kind))
	}

	for i, row := range p.Sample {
		logger.Info("sample row", "row", i+1, "values", strings.Join(row, " | "))
	}
}
