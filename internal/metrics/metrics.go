// =============================================================================
// CSV Cleaner - Metrics
// =============================================================================
//
// Prometheus metrics for cleaning runs. Each Collector owns its registry, so
// the CLI can dump one run to a textfile and the server can expose /metrics.
//
// METRICS:
//   csvclean_runs_total{origin,result}            - runs by outcome
//   csvclean_rows_read_total{origin}              - data rows read
//   csvclean_rows_written_total{origin}           - data rows written
//   csvclean_run_duration_seconds{origin,result}  - run wall time
//
// LABELS:
//   origin: cli or web
//   result: success, parse_error, io_error, error
//
// =============================================================================

// Package metrics provides Prometheus metrics for cleaning runs.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ginjaninja78/csv-cleaner/internal/cleaner"
	"github.com/ginjaninja78/csv-cleaner/internal/types"
)

const namespace = "csvclean"

// Result label values.
const (
	ResultSuccess    = "success"
	ResultParseError = "parse_error"
	ResultIOError    = "io_error"
	ResultError      = "error"
)

// Collector owns a registry with the cleaning metrics.
type Collector struct {
	registry *prometheus.Registry

	runsTotal   *prometheus.CounterVec
	rowsRead    *prometheus.CounterVec
	rowsWritten *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry. Go runtime and
// process collectors are registered alongside the cleaning metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of cleaning runs by result",
			},
			[]string{"origin", "result"},
		),
		rowsRead: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_read_total",
				Help:      "Total number of data rows read from sources",
			},
			[]string{"origin"},
		),
		rowsWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_written_total",
				Help:      "Total number of data rows written to destinations",
			},
			[]string{"origin"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of cleaning runs in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"origin", "result"},
		),
	}

	c.registry.MustRegister(
		c.runsTotal,
		c.rowsRead,
		c.rowsWritten,
		c.runDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// =============================================================================
// RECORDING
// =============================================================================

// RecordRun records one cleaning run.
//
// origin is where the run came from ("cli" or "web"). summary may be nil when
// err is set.
func (c *Collector) RecordRun(origin string, summary *types.CleaningSummary, err error, duration time.Duration) {
	result := ResultFor(err)

	c.runsTotal.WithLabelValues(origin, result).Inc()
	c.runDuration.WithLabelValues(origin, result).Observe(duration.Seconds())

	if summary != nil {
		c.rowsRead.WithLabelValues(origin).Add(float64(summary.InputRows))
		c.rowsWritten.WithLabelValues(origin).Add(float64(summary.OutputRows))
	}
}

// ResultFor maps a cleaning error to a result label.
func ResultFor(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, cleaner.ErrParse):
		return ResultParseError
	case errors.Is(err, cleaner.ErrIO):
		return ResultIOError
	default:
		return ResultError
	}
}
