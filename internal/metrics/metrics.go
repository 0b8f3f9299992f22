// Package metrics exposes Prometheus collectors for the scrape pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scrapePagesTotal   *prometheus.CounterVec
	scrapeRowsTotal    *prometheus.CounterVec
	encodingViolations prometheus.Counter
	sourcesFailedTotal prometheus.Counter
	runsTotal          *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scrapePagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payrollscrape_pages_total",
				Help: "Total number of pages fetched, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		scrapeRowsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payrollscrape_rows_total",
				Help: "Total number of salary rows normalized, labeled by team.",
			},
			[]string{"team"},
		)

		encodingViolations = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payrollscrape_encoding_violations_total",
				Help: "Total player names replaced by the sentinel after failing the ASCII guard.",
			},
		)

		sourcesFailedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payrollscrape_sources_failed_total",
				Help: "Total per-team branches that failed and were skipped.",
			},
		)

		runsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payrollscrape_runs_total",
				Help: "Total number of scrape runs, labeled by status.",
			},
			[]string{"status"},
		)
	})
}

// RecordPage counts one fetched page by outcome ("fetched" or "failed").
func RecordPage(outcome string) {
	Init()
	scrapePagesTotal.WithLabelValues(outcome).Inc()
}

// AddRows counts normalized rows for one team.
func AddRows(team string, n int) {
	Init()
	scrapeRowsTotal.WithLabelValues(team).Add(float64(n))
}

// AddEncodingViolations counts sentinel substitutions.
func AddEncodingViolations(n int) {
	Init()
	encodingViolations.Add(float64(n))
}

// RecordSourceFailure counts one failed per-team branch.
func RecordSourceFailure() {
	Init()
	sourcesFailedTotal.Inc()
}

// RecordRun counts one finished run by status ("succeeded" or "failed").
func RecordRun(status string) {
	Init()
	runsTotal.WithLabelValues(status).Inc()
}

// Handler returns the HTTP handler serving the Prometheus exposition format.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}
