// =============================================================================
// CSV Cleaner - Null Values
// =============================================================================
//
// A cell is null when it is empty after trimming whitespace, or when the
// trimmed value is one of the recognized null tokens. Matching is exact and
// case-sensitive: "NA" and "null" are null, "na" and "Null" are data.
//
// =============================================================================

package cleaner

import (
	"sort"
	"strings"
)

// nullTokens are the cell values treated as missing. The set matches the
// default NA markers of common dataframe readers and is matched exactly
// against the trimmed cell.
var nullTokens = map[string]struct{}{
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNull reports whether a cell is null: empty after trimming whitespace, or a
// recognized null token.
func IsNull(cell string) bool {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return true
	}
	_, ok := nullTokens[trimmed]
	return ok
}

// NullTokens returns the recognized null tokens, sorted.
func NullTokens() []string {
	tokens := make([]string, 0, len(nullTokens))
	for token := range nullTokens {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
