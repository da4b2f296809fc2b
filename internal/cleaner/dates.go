// =============================================================================
// CSV Cleaner - Date Normalization
// =============================================================================
//
// Date-like columns are rewritten to a single output layout (YYYY-MM-DD).
//
// DETECTION:
//   A column is date-like when its header has "date" or "dates" as a word
//   (any case; words split on punctuation, spaces and camelCase), or when at
//   least half of its non-empty cells parse as dates and at least one does.
//
// PARSING:
//   - Plain numbers are never dates ("42", "3.5", "1e3"), except 8-digit
//     values which are read as YYYYMMDD
//   - Everything else goes through dateparse with format inference; ambiguous
//     numeric forms are read month first ("01/02/2024" is January 2nd)
//   - A value must carry a year; "12:30", "3/4" or "1.2.3" are not dates
//   - Values without a zone are taken as UTC, so no local offset can move
//     the calendar day
//
// A cell that does not parse is left exactly as it is.
//
// =============================================================================

package cleaner

import (
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
)

// DateLayout is the output layout of normalized dates.
const DateLayout = "2006-01-02"

// ParseDate parses a single cell as a date.
//
// RETURNS:
//   - The parsed time and true, or the zero time and false when the cell is
//     not a date candidate or does not parse.
func ParseDate(value string) (t time.Time, ok bool) {
	value = strings.TrimSpace(value)
	if !isDateCandidate(value) {
		return time.Time{}, false
	}

	// dateparse can panic on some malformed input.
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()

	parsed, err := dateparse.ParseIn(value, time.UTC)
	if err != nil || parsed.Year() == 0 {
		return time.Time{}, false
	}
	return parsed, true
}

// NormalizeDate returns value in DateLayout, or value unchanged when it does
// not parse as a date.
func NormalizeDate(value string) string {
	t, ok := ParseDate(value)
	if !ok {
		return value
	}
	return t.Format(DateLayout)
}

// IsDateColumn reports whether a column is date-like.
//
// PARAMETERS:
//   - name: The header name of the column.
//   - cells: Every value of the column.
func IsDateColumn(name string, cells []string) bool {
	if hasDateWord(name) {
		return true
	}

	nonEmpty, parsed := 0, 0
	for _, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		nonEmpty++
		if _, ok := ParseDate(cell); ok {
			parsed++
		}
	}

	return parsed > 0 && parsed*2 >= nonEmpty
}

// hasDateWord reports whether a header name holds the word "date" or "dates".
// "order_date", "Signup Date" and "dateOfBirth" match; "candidate" and
// "updated_by" do not.
func hasDateWord(name string) bool {
	words := strings.FieldsFunc(splitCamelCase(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, word := range words {
		switch strings.ToLower(word) {
		case "date", "dates":
			return true
		}
	}
	return false
}

// splitCamelCase inserts a space between a lower case letter and the upper
// case letter that follows it.
func splitCamelCase(s string) string {
	var b strings.Builder
	var prev rune
	for _, r := range s {
		if unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// isDateCandidate excludes plain numbers, which dateparse would otherwise read
// as unix timestamps.
func isDateCandidate(value string) bool {
	if value == "" {
		return false
	}
	if len(value) == 8 && isDigits(value) {
		return true
	}
	if _, err := cast.ToFloat64E(value); err == nil {
		return false
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
