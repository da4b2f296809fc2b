package csvparser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csv-cleaner/internal/types"
)

func TestParse_HeaderAndRows(t *testing.T) {
	table, err := Parse(strings.NewReader("id,name\n1,Alice\n2,\"Smith, Bob\"\n"), "in.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, table.Header)
	assert.Equal(t, [][]string{{"1", "Alice"}, {"2", "Smith, Bob"}}, table.Rows)
}

func TestParse_HeaderOnly(t *testing.T) {
	table, err := Parse(strings.NewReader("a,b\n"), "in.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, table.Header)
	assert.Zero(t, table.RowCount())
}

func TestParse_KeepsWhitespace(t *testing.T) {
	table, err := Parse(strings.NewReader("a\n  x  \n"), "in.csv")
	require.NoError(t, err)
	assert.Equal(t, "  x  ", table.Rows[0][0])
}

func TestParse_StripsBOM(t *testing.T) {
	table, err := Parse(strings.NewReader("\ufeffid,name\n1,a\n"), "in.csv")
	require.NoError(t, err)
	assert.Equal(t, "id", table.Header[0])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cause error
	}{
		{"empty", "", ErrEmpty},
		{"ragged", "a,b\n1,2\n3\n", nil},
		{"bare quote", "a,b\n1,x\"y\n", nil},
		{"unterminated quote", "a,b\n1,\"open\n", nil},
		{"invalid utf8", "a,b\n1,\xff\xfe\n", ErrInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), "in.csv")
			require.Error(t, err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Equal(t, "in.csv", parseErr.Source)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestParse_RaggedReportsLine(t *testing.T) {
	_, err := Parse(strings.NewReader("a,b\n1,2\n3\n"), "in.csv")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Line)
	assert.Contains(t, err.Error(), "line 3")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestParse_ReadFailureIsNotParseError(t *testing.T) {
	_, err := Parse(failingReader{}, "in.csv")
	require.Error(t, err)

	var parseErr *ParseError
	assert.False(t, errors.As(err, &parseErr))
	assert.Contains(t, err.Error(), "disk gone")
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWrite_RoundTrip(t *testing.T) {
	table := types.NewTable([]string{"id", "note"})
	table.Rows = [][]string{
		{"1", "plain"},
		{"2", "has, comma"},
		{"3", "has \"quote\""},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, table))
	assert.Equal(t, "id,note\n1,plain\n2,\"has, comma\"\n3,\"has \"\"quote\"\"\"\n", buf.String())

	back, err := Parse(&buf, "round-trip")
	require.NoError(t, err)
	assert.Equal(t, table.Header, back.Header)
	assert.Equal(t, table.Rows, back.Rows)
}
