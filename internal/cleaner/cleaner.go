// =============================================================================
// CSV Cleaner - Cleaner Module
// =============================================================================
//
// This module contains the core cleaning logic. It runs the whole pipeline for
// a single source, from CSV parsing to writing the cleaned copy.
//
// CLEANING PIPELINE:
//   1. Parse the source (first row is the header)
//   2. Drop every row holding at least one null cell
//   3. Trim leading and trailing whitespace of every remaining cell
//   4. Normalize date-like columns to YYYY-MM-DD
//   5. Write the table to the destination, all or nothing
//
// ERRORS:
//   - *ParseError for malformed or empty input
//   - *IOError for an unreadable source or an unwritable destination
//   Neither is retried. On error no destination file is created and an
//   existing destination is left untouched.
//
// CONCURRENCY:
//   A run is synchronous and shares no state, so one Cleaner may be used by
//   several goroutines at once.
//
// =============================================================================

package cleaner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ginjaninja78/csv-cleaner/internal/csvparser"
	"github.com/ginjaninja78/csv-cleaner/internal/logging"
	"github.com/ginjaninja78/csv-cleaner/internal/types"
	"github.com/ginjaninja78/csv-cleaner/pkg/utils"
)

// =============================================================================
// STATS
// =============================================================================

// Stats describes what CleanTable did.
type Stats struct {
	// InputRows is the number of data rows before cleaning.
	InputRows int

	// OutputRows is the number of data rows after cleaning.
	OutputRows int

	// DroppedRows is the number of rows removed for holding a null cell.
	DroppedRows int

	// TrimmedCells is the number of cells whose value changed when trimmed.
	TrimmedCells int

	// DateColumns lists the columns normalized as dates, in header order.
	DateColumns []string

	// NormalizedCells is the number of date cells that were rewritten.
	NormalizedCells int
}

// =============================================================================
// CLEANER STRUCTURE
// =============================================================================

// Cleaner cleans CSV files.
type Cleaner struct {
	logger logging.Logger
}

// New creates a Cleaner that logs to logger. A nil logger discards output.
func New(logger logging.Logger) *Cleaner {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Cleaner{logger: logger}
}

// Clean cleans source into destination with a silent Cleaner.
func Clean(source, destination string) (*types.CleaningSummary, error) {
	return New(nil).Clean(source, destination)
}

// CleanReader cleans the text read from r into destination with a silent
// Cleaner.
func CleanReader(r io.Reader, sourceName, destination string) (*types.CleaningSummary, error) {
	return New(nil).CleanReader(r, sourceName, destination)
}

// CleanTable applies the cleaning steps to t with a silent Cleaner.
func CleanTable(t *types.Table) (*types.Table, Stats) {
	return New(nil).CleanTable(t)
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Clean reads the CSV file at source and writes a cleaned copy to destination.
//
// PARAMETERS:
//   - source: The file to clean. It is never modified.
//   - destination: The output file. It is replaced if it exists and must not
//     be the same file as source.
//
// RETURNS:
//   - A summary of the run.
//   - A *ParseError or *IOError on failure.
func (c *Cleaner) Clean(source, destination string) (*types.CleaningSummary, error) {
	same, err := utils.SameFile(source, destination)
	if err != nil {
		return nil, &IOError{Op: "resolve", Path: destination, Err: err}
	}
	if same {
		return nil, &IOError{Op: "write destination", Path: destination, Err: ErrSameFile}
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, &IOError{Op: "open source", Path: source, Err: err}
	}
	defer file.Close()

	return c.CleanReader(file, source, destination)
}

// CleanReader cleans the CSV text read from r and writes it to destination.
//
// PARAMETERS:
//   - r: The source text. The caller owns and closes it.
//   - sourceName: A name for the source used in the summary and in errors.
//   - destination: The output file.
//
// RETURNS:
//   - A summary of the run.
//   - A *ParseError or *IOError on failure.
func (c *Cleaner) CleanReader(r io.Reader, sourceName, destination string) (*types.CleaningSummary, error) {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: PARSE SOURCE
	// =========================================================================

	c.logger.Debug("parsing source", "source", sourceName)

	table, err := csvparser.Parse(r, sourceName)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return nil, parseErr
		}
		return nil, &IOError{Op: "read source", Path: sourceName, Err: err}
	}

	c.logger.Debug("parsed source", "rows", table.RowCount(), "columns", table.ColumnCount())

	// =========================================================================
	// STEPS 2-4: TRANSFORM
	// =========================================================================

	cleaned, stats := c.CleanTable(table)

	// =========================================================================
	// STEP 5: WRITE DESTINATION
	// =========================================================================

	err = utils.WriteFileAtomic(destination, func(w io.Writer) error {
		return csvparser.Write(w, cleaned)
	})
	if err != nil {
		return nil, &IOError{Op: "write destination", Path: destination, Err: err}
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	summary := &types.CleaningSummary{
		Source:      sourceName,
		Destination: destination,
		InputRows:   stats.InputRows,
		OutputRows:  stats.OutputRows,
		DroppedRows: stats.DroppedRows,
		DateColumns: stats.DateColumns,
		Duration:    time.Since(startTime),
	}

	c.logger.Info("cleaned csv",
		"source", summary.Source,
		"destination", summary.Destination,
		"rows_in", summary.InputRows,
		"rows_out", summary.OutputRows,
		"dropped", summary.DroppedRows,
		"date_columns", strings.Join(summary.DateColumns, ","),
		"duration", summary.Duration.String(),
	)

	return summary, nil
}

// CleanTable applies the cleaning steps to t and returns a new table. The
// input table is not modified.
func (c *Cleaner) CleanTable(t *types.Table) (*types.Table, Stats) {
	stats := Stats{InputRows: t.RowCount()}

	out := types.NewTable(t.Header)
	width := len(t.Header)

	// =========================================================================
	// STEP 2: DROP NULL ROWS
	// =========================================================================
	// A row goes if any cell is missing, blank or a null token.

	for _, row := range t.Rows {
		if hasNull(row, width) {
			stats.DroppedRows++
			continue
		}

		// =====================================================================
		// STEP 3: TRIM WHITESPACE
		// =====================================================================

		trimmed := make([]string, width)
		for col := 0; col < width; col++ {
			trimmed[col] = strings.TrimSpace(row[col])
			if trimmed[col] != row[col] {
				stats.TrimmedCells++
			}
		}
		out.Rows = append(out.Rows, trimmed)
	}

	c.logger.Debug("dropped null rows", "dropped", stats.DroppedRows, "trimmed_cells", stats.TrimmedCells)

	// =========================================================================
	// STEP 4: NORMALIZE DATE COLUMNS
	// =========================================================================

	stats.DateColumns = []string{}
	for col, name := range out.Header {
		if !IsDateColumn(name, out.Column(col)) {
			continue
		}

		stats.DateColumns = append(stats.DateColumns, name)
		for _, row := range out.Rows {
			normalized := NormalizeDate(row[col])
			if normalized != row[col] {
				row[col] = normalized
				stats.NormalizedCells++
			}
		}
	}

	c.logger.Debug("normalized dates",
		"columns", fmt.Sprint(stats.DateColumns),
		"cells", stats.NormalizedCells,
	)

	stats.OutputRows = out.RowCount()
	return out, stats
}

// hasNull reports whether row holds a null cell or has fewer than width cells.
func hasNull(row []string, width int) bool {
	if len(row) < width {
		return true
	}
	for col := 0; col < width; col++ {
		if IsNull(row[col]) {
			return true
		}
	}
	return false
}
