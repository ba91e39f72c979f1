// Package metrics exposes prometheus instruments for Goodreads sync runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// syncRuns counts completed sync runs.
	// Labels: result (success, failure)
	syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shelfgraph",
		Subsystem: "sync",
		Name:      "runs_total",
		Help:      "Total Goodreads sync runs by result",
	}, []string{"result"})

	// syncBooks counts processed records.
	// Labels: outcome (imported, existing, failed)
	syncBooks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shelfgraph",
		Subsystem: "sync",
		Name:      "books_total",
		Help:      "Total books processed by Goodreads sync, by outcome",
	}, []string{"outcome"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shelfgraph",
		Subsystem: "sync",
		Name:      "duration_seconds",
		Help:      "Goodreads sync run duration in seconds",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})
)

// BookCounts is the per-run outcome breakdown recorded by ObserveSync.
type BookCounts struct {
	Imported int
	Existing int
	Failed   int
}

// ObserveSync records one finished sync run.
func ObserveSync(started time.Time, counts BookCounts, err error) {
	syncDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		syncRuns.WithLabelValues(ResultFailure).Inc()
		return
	}
	syncRuns.WithLabelValues(ResultSuccess).Inc()
	syncBooks.WithLabelValues("imported").Add(float64(counts.Imported))
	syncBooks.WithLabelValues("existing").Add(float64(counts.Existing))
	syncBooks.WithLabelValues("failed").Add(float64(counts.Failed))
}
