// Package metrics exposes the pipeline's observability signals. Identity
// match statistics in particular are a diagnostic surface, never control
// flow: reconciliation behaves the same whether anyone scrapes them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SubmissionsMatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autojourney", Name: "submissions_matched_total",
		Help: "Submissions resolved to a known candidate during sync",
	}, []string{"tier"})

	SubmissionsUnmatched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "autojourney", Name: "submissions_unmatched_total",
		Help: "Submissions skipped because no candidate matched",
	})

	AnalysesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "autojourney", Name: "analyses_completed_total",
		Help: "Submission analyses stored successfully",
	})

	AnalysesFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "autojourney", Name: "analyses_failed_total",
		Help: "Submission analyses that errored",
	})

	JobsFinished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autojourney", Name: "jobs_finished_total",
		Help: "Processing jobs by terminal status",
	}, []string{"type", "status"})

	SyncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "autojourney", Name: "course_sync_seconds",
		Help:    "Wall time of a full course sync",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		SubmissionsMatched,
		SubmissionsUnmatched,
		AnalysesCompleted,
		AnalysesFailed,
		JobsFinished,
		SyncDuration,
	)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }
