// =============================================================================
// CSV Cleaner - Cleaner Errors
// =============================================================================
//
// Error types returned by the cleaner.
//
//   *ParseError - malformed or empty input; matches ErrParse
//   *IOError    - unreadable source or unwritable destination; matches ErrIO
//
// =============================================================================

package cleaner

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/csv-cleaner/internal/csvparser"
)

// ParseError reports malformed or empty input. It carries the line and column
// of the problem when the parser knows them.
type ParseError = csvparser.ParseError

var (
	// ErrParse matches every *ParseError via errors.Is.
	ErrParse = csvparser.ErrMalformed

	// ErrIO matches every *IOError via errors.Is.
	ErrIO = errors.New("csv cleaner i/o failure")

	// ErrSameFile is the cause of an IOError when the destination would
	// overwrite the source.
	ErrSameFile = errors.New("destination is the same file as the source")
)

// IOError reports an unreadable source or an unwritable destination.
type IOError struct {
	// Op is what was being attempted ("open source", "read source",
	// "write destination").
	Op string

	// Path is the file involved.
	Path string

	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
