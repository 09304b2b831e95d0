// Package metrics exposes Prometheus collectors for the pipeline stages.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pipelineItemsTotal *prometheus.CounterVec
	pipelineRunsTotal  *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		pipelineItemsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_items_total",
				Help: "Total number of items processed, labeled by stage and outcome.",
			},
			[]string{"stage", "outcome"},
		)

		pipelineRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_runs_total",
				Help: "Total number of stage runs, labeled by stage and status.",
			},
			[]string{"stage", "status"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveItems adds n to the item counter for the given stage and outcome.
func ObserveItems(stage, outcome string, n int) {
	if pipelineItemsTotal == nil || n <= 0 {
		return
	}
	pipelineItemsTotal.WithLabelValues(stage, outcome).Add(float64(n))
}

// ObserveRun increments the run counter for the given stage and status.
func ObserveRun(stage, status string) {
	if pipelineRunsTotal == nil {
		return
	}
	pipelineRunsTotal.WithLabelValues(stage, status).Inc()
}
