package cleaner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csv-cleaner/internal/csvparser"
	"github.com/ginjaninja78/csv-cleaner/internal/logging"
	"github.com/ginjaninja78/csv-cleaner/internal/types"
)

const scenarioInput = "id,name,joined\n1,  Alice ,2024/01/05\n2,,2024-02-10\n3,Bob,not-a-date"

func writeSource(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// =============================================================================
// END TO END
// =============================================================================

func TestClean_Scenario(t *testing.T) {
	src := writeSource(t, scenarioInput)
	dst := filepath.Join(t.TempDir(), "out.csv")

	summary, err := Clean(src, dst)
	require.NoError(t, err)

	assert.Equal(t, "id,name,joined\n1,Alice,2024-01-05\n3,Bob,not-a-date\n", readFile(t, dst))
	assert.Equal(t, src, summary.Source)
	assert.Equal(t, dst, summary.Destination)
	assert.Equal(t, 3, summary.InputRows)
	assert.Equal(t, 2, summary.OutputRows)
	assert.Equal(t, 1, summary.DroppedRows)
	assert.Equal(t, []string{"joined"}, summary.DateColumns)
}

func TestClean_SourceUntouched(t *testing.T) {
	src := writeSource(t, scenarioInput)
	dst := filepath.Join(t.TempDir(), "out.csv")

	_, err := Clean(src, dst)
	require.NoError(t, err)
	assert.Equal(t, scenarioInput, readFile(t, src))
}

func TestClean_HeaderOnly(t *testing.T) {
	src := writeSource(t, "id,name,joined\n")
	dst := filepath.Join(t.TempDir(), "out.csv")

	summary, err := Clean(src, dst)
	require.NoError(t, err)

	assert.Equal(t, "id,name,joined\n", readFile(t, dst))
	assert.Zero(t, summary.InputRows)
	assert.Zero(t, summary.OutputRows)
}

func TestClean_OverwritesDestination(t *testing.T) {
	src := writeSource(t, "a\nx\n")
	dst := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(dst, []byte("stale,data\n1,2\n3,4\n"), 0o644))

	_, err := Clean(src, dst)
	require.NoError(t, err)
	assert.Equal(t, "a\nx\n", readFile(t, dst))
}

func TestClean_StripsBOM(t *testing.T) {
	src := writeSource(t, "\xEF\xBB\xBFid,when\n1,2024/03/04\n")
	dst := filepath.Join(t.TempDir(), "out.csv")

	_, err := Clean(src, dst)
	require.NoError(t, err)
	assert.Equal(t, "id,when\n1,2024-03-04\n", readFile(t, dst))
}

// =============================================================================
// ERRORS
// =============================================================================

func TestClean_ParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"ragged", "a,b\n1,2\n3\n"},
		{"empty", ""},
		{"bad quoting", "a,b\n\"1,2\n"},
		{"invalid utf8", "a,b\n1,\xc3\x28\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeSource(t, tt.input)
			outDir := t.TempDir()
			dst := filepath.Join(outDir, "out.csv")

			summary, err := Clean(src, dst)
			require.Error(t, err)
			assert.Nil(t, summary)

			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
			assert.ErrorIs(t, err, ErrParse)
			assert.NotErrorIs(t, err, ErrIO)

			entries, err := os.ReadDir(outDir)
			require.NoError(t, err)
			assert.Empty(t, entries, "no destination or temp file may be left behind")
		})
	}
}

func TestClean_MissingSource(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.csv")

	_, err := Clean(filepath.Join(t.TempDir(), "missing.csv"), dst)
	require.Error(t, err)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open source", ioErr.Op)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, dst)
}

func TestClean_SameFile(t *testing.T) {
	src := writeSource(t, scenarioInput)

	_, err := Clean(src, src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, ErrSameFile)
	assert.Equal(t, scenarioInput, readFile(t, src))
}

func TestClean_UnwritableDestination(t *testing.T) {
	src := writeSource(t, scenarioInput)
	dst := filepath.Join(t.TempDir(), "no-such-dir", "out.csv")

	_, err := Clean(src, dst)
	require.Error(t, err)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write destination", ioErr.Op)
	assert.Equal(t, dst, ioErr.Path)
}

func TestClean_ReadOnlyDirectoryLeavesNothing(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	src := writeSource(t, scenarioInput)
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	_, err := Clean(src, filepath.Join(dir, "out.csv"))
	require.ErrorIs(t, err, ErrIO)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestCleanReader_ReadFailureIsIOError(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.csv")

	_, err := CleanReader(brokenReader{}, "upload.csv", dst)
	require.Error(t, err)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read source", ioErr.Op)
	assert.NotErrorIs(t, err, ErrParse)
	assert.NoFileExists(t, dst)
}

func TestCleanReader_LogsSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logging.Adapt(logging.New(logging.Options{Level: "info", Format: "json", Output: buf}))
	dst := filepath.Join(t.TempDir(), "out.csv")

	_, err := New(log).CleanReader(strings.NewReader(scenarioInput), "upload.csv", dst)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"message":"cleaned csv"`)
	assert.Contains(t, buf.String(), `"rows_out":2`)
}

// =============================================================================
// TRANSFORMATION
// =============================================================================

func TestCleanTable_DropsNullRows(t *testing.T) {
	table := types.NewTable([]string{"a", "b"})
	table.Rows = [][]string{
		{"1", "x"},
		{"2", ""},
		{"3", "   "},
		{"4", "NA"},
		{"5", " null "},
		{"N/A", "y"},
		{"6", "na"},
		{"7", "Nothing"},
		{"8"},
	}

	out, stats := CleanTable(table)

	assert.Equal(t, [][]string{{"1", "x"}, {"6", "na"}, {"7", "Nothing"}}, out.Rows)
	assert.Equal(t, 9, stats.InputRows)
	assert.Equal(t, 3, stats.OutputRows)
	assert.Equal(t, 6, stats.DroppedRows)
}

func TestCleanTable_DoesNotMutateInput(t *testing.T) {
	table := types.NewTable([]string{"name", "date"})
	table.Rows = [][]string{{"  a  ", "2024/01/05"}}
	before := types.NewTable(table.Header)
	before.Rows = [][]string{{"  a  ", "2024/01/05"}}

	CleanTable(table)
	assert.Equal(t, before, table)
}

func TestCleanTable_YearlessValuesAreNotDates(t *testing.T) {
	table := types.NewTable([]string{"version", "time"})
	table.Rows = [][]string{{"1.2.3", "12:30"}, {"2.10.0", "08:15"}}

	out, stats := CleanTable(table)

	assert.Equal(t, table.Rows, out.Rows)
	assert.Empty(t, stats.DateColumns)
	assert.Zero(t, stats.NormalizedCells)
}

func TestCleanTable_UnparseableDatesUnchanged(t *testing.T) {
	table := types.NewTable([]string{"order_date"})
	table.Rows = [][]string{{"2024/01/05"}, {"someday"}, {"31/31/2024"}}

	out, stats := CleanTable(table)

	assert.Equal(t, [][]string{{"2024-01-05"}, {"someday"}, {"31/31/2024"}}, out.Rows)
	assert.Equal(t, []string{"order_date"}, stats.DateColumns)
	assert.Equal(t, 1, stats.NormalizedCells)
}

func TestCleanTable_NumericColumnsAreNotDates(t *testing.T) {
	table := types.NewTable([]string{"id", "amount"})
	table.Rows = [][]string{{"1", "10.5"}, {"2", "1700000000"}}

	out, stats := CleanTable(table)

	assert.Equal(t, table.Rows, out.Rows)
	assert.Empty(t, stats.DateColumns)
}

func TestCleanTable_ContentDetectedDates(t *testing.T) {
	table := types.NewTable([]string{"when", "who"})
	table.Rows = [][]string{
		{"January 5, 2024", "a"},
		{"2024-02-10T08:30:00Z", "b"},
		{"20240315", "c"},
	}

	out, stats := CleanTable(table)

	assert.Equal(t, []string{"2024-01-05", "2024-02-10", "2024-03-15"}, out.Column(0))
	assert.Equal(t, []string{"when"}, stats.DateColumns)
}

// =============================================================================
// PROPERTIES
// =============================================================================

var propertyInputs = []string{
	scenarioInput,
	"a,b,c\n x ,y,z\n1,2,3\n",
	"name,created\n\tTab\t,2023-12-01\nNone,2024-01-01\nOk, 03/04/2024 \n",
	"v\nNaN\n-nan\n#N/A\n",
	"h1,h2\n\"quoted, value\",\" spaced \"\n",
	"only\n",
}

func TestClean_Properties(t *testing.T) {
	for i, input := range propertyInputs {
		in, err := csvparser.Parse(strings.NewReader(input), "prop")
		require.NoError(t, err, "input %d", i)

		out, stats := CleanTable(in)

		// Header and column order are preserved.
		assert.Equal(t, in.Header, out.Header)

		// No null cell survives and trimming again is a no-op.
		for _, row := range out.Rows {
			assert.Len(t, row, len(in.Header))
			for _, cell := range row {
				assert.False(t, IsNull(cell), "null cell %q in output", cell)
				assert.Equal(t, strings.TrimSpace(cell), cell)
			}
		}

		// Row count never grows and is unchanged only without nulls.
		assert.LessOrEqual(t, out.RowCount(), in.RowCount())
		assert.Equal(t, stats.DroppedRows == 0, out.RowCount() == in.RowCount())

		// Cleaning the output again changes nothing.
		again, againStats := CleanTable(out)
		assert.Equal(t, out.Rows, again.Rows, "input %d", i)
		assert.Zero(t, againStats.DroppedRows)
	}
}

func TestClean_IdempotentOnDisk(t *testing.T) {
	src := writeSource(t, scenarioInput)
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	_, err := Clean(src, first)
	require.NoError(t, err)
	_, err = Clean(first, second)
	require.NoError(t, err)

	assert.Equal(t, readFile(t, first), readFile(t, second))
}
