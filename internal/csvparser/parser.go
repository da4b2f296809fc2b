// =============================================================================
// CSV Cleaner - CSV Parser Module
// =============================================================================
//
// This module reads comma-delimited UTF-8 text into a types.Table and writes a
// table back out in the same dialect.
//
// PARSING RULES:
//   - The first record is the header; its names are kept verbatim
//   - Every record must have as many fields as the header (no ragged rows)
//   - Quotes must follow RFC 4180 (no lazy quotes)
//   - A leading byte order mark is removed before parsing
//   - Every field must be valid UTF-8
//   - Blank lines are ignored, as encoding/csv does
//
// Violations are reported as *ParseError. Failures of the underlying reader
// are returned wrapped but are NOT ParseErrors, so callers can tell malformed
// input apart from I/O trouble.
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/csv-cleaner/internal/types"
)

// Delimiter is the field separator for both input and output.
const Delimiter = ','

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrMalformed is matched by every *ParseError.
	ErrMalformed = errors.New("malformed csv")

	// ErrEmpty is the cause of a ParseError for a source without a header row.
	ErrEmpty = errors.New("csv source is empty")

	// ErrInvalidUTF8 is the cause of a ParseError for a field that is not UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// ParseError describes malformed input.
type ParseError struct {
	// Source names the input (a path or an upload name). May be empty.
	Source string

	// Line and Column locate the problem (1-based). Zero when unknown.
	Line   int
	Column int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	prefix := "parse error"
	if e.Source != "" {
		prefix = fmt.Sprintf("parse error in %s", e.Source)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s on line %d, column %d: %v", prefix, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrMalformed) match any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrMalformed }

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile opens path and parses it.
//
// RETURNS:
//   - The parsed table.
//   - A *ParseError for malformed content, or a wrapped *os.PathError when the
//     file cannot be opened or read.
func ParseFile(path string) (*types.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer file.Close()

	return Parse(file, path)
}

// Parse reads every record from r into a table.
//
// PARAMETERS:
//   - r: The source text.
//   - source: A name for the source used in error messages.
//
// RETURNS:
//   - The parsed table. A header-only source yields zero rows and no error.
//   - A *ParseError for malformed content, or a wrapped read error.
func Parse(r io.Reader, source string) (*types.Table, error) {
	// Strip a UTF-8 BOM (and decode UTF-16 when a UTF-16 BOM is present).
	// Input without a BOM passes through untouched and is validated below.
	decoded := transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	reader := csv.NewReader(decoded)
	configureReader(reader)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Source: source, Err: ErrEmpty}
	}
	if err != nil {
		return nil, classify(err, source)
	}
	if err := checkUTF8(header, reader, source); err != nil {
		return nil, err
	}

	table := types.NewTable(header)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, classify(err, source)
		}
		if err := checkUTF8(record, reader, source); err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// configureReader configures the csv reader for strict comma-delimited input.
func configureReader(reader *csv.Reader) {
	reader.Comma = Delimiter

	// Zero means the header fixes the field count for every later record.
	reader.FieldsPerRecord = 0

	reader.LazyQuotes = false

	// Whitespace is part of the cell; trimming is a cleaning step, not a
	// parsing one.
	reader.TrimLeadingSpace = false
}

// classify turns csv reader errors into ParseErrors and leaves I/O errors as is.
func classify(err error, source string) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{
			Source: source,
			Line:   csvErr.Line,
			Column: csvErr.Column,
			Err:    csvErr.Err,
		}
	}
	return fmt.Errorf("failed to read source: %w", err)
}

// checkUTF8 reports the first field of record that is not valid UTF-8.
func checkUTF8(record []string, reader *csv.Reader, source string) error {
	for i, field := range record {
		if !utf8.ValidString(field) {
			line, col := reader.FieldPos(i)
			return &ParseError{Source: source, Line: line, Column: col, Err: ErrInvalidUTF8}
		}
	}
	return nil
}

// =============================================================================
// WRITER
// =============================================================================

// Write serializes the table to w with the header first.
func Write(w io.Writer, table *types.Table) error {
	writer := csv.NewWriter(w)
	writer.Comma = Delimiter

	if err := writer.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}
