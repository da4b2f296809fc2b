package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csv-cleaner/internal/cleaner"
	"github.com/ginjaninja78/csv-cleaner/internal/csvparser"
	"github.com/ginjaninja78/csv-cleaner/internal/types"
)

func TestResultFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ResultSuccess},
		{"parse", &csvparser.ParseError{Err: csvparser.ErrEmpty}, ResultParseError},
		{"io", &cleaner.IOError{Op: "open source", Path: "x", Err: errors.New("nope")}, ResultIOError},
		{"other", errors.New("boom"), ResultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResultFor(tt.err))
		})
	}
}

func TestRecordRun(t *testing.T) {
	c := NewCollector()

	c.RecordRun("cli", &types.CleaningSummary{InputRows: 3, OutputRows: 2}, nil, 10*time.Millisecond)
	c.RecordRun("web", nil, &csvparser.ParseError{Err: csvparser.ErrEmpty}, time.Millisecond)

	body := scrape(t, c)
	assert.Contains(t, body, `csvclean_runs_total{origin="cli",result="success"} 1`)
	assert.Contains(t, body, `csvclean_runs_total{origin="web",result="parse_error"} 1`)
	assert.Contains(t, body, `csvclean_rows_read_total{origin="cli"} 3`)
	assert.Contains(t, body, `csvclean_rows_written_total{origin="cli"} 2`)
	assert.NotContains(t, body, `csvclean_rows_read_total{origin="web"}`)
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.RecordRun("cli", &types.CleaningSummary{InputRows: 1, OutputRows: 1}, nil, time.Millisecond)

	body := scrape(t, c)
	assert.Contains(t, body, "csvclean_run_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
