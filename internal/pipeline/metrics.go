package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	modeExtractOnly = "extract"
	modeEnhance     = "enhance"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ocrprep_pipeline_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"mode", "status"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ocrprep_pipeline_run_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 25, 50, 100},
		},
		[]string{"mode"},
	)

	artifactsPerRun = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ocrprep_pipeline_artifacts_per_run",
			Help:    "Number of artifacts produced per pipeline run",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 8, 12, 20},
		},
	)
)

// observeRun records metrics for one pipeline run.
func observeRun(mode string, err error, elapsed time.Duration, artifacts int) {
	status := "success"
	if err != nil {
		status = "error"
	}
	runsTotal.WithLabelValues(mode, status).Inc()
	runDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if err == nil {
		artifactsPerRun.Observe(float64(artifacts))
	}
}
