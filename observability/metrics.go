package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ModsLoadedTotal counts mods discovered during pack loads by outcome
	ModsLoadedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpacker_mods_loaded_total",
			Help: "Total number of mod jars processed by outcome",
		},
		[]string{"outcome"}, // loaded, no_manifest, decode_error
	)

	// ValidationErrorsTotal counts validation notes by kind
	ValidationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpacker_validation_errors_total",
			Help: "Total number of validation errors by kind",
		},
		[]string{"kind"}, // mismatch, missing, bad_range
	)

	// OracleRunsTotal counts host application runs by verdict
	OracleRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpacker_oracle_runs_total",
			Help: "Total number of oracle runs by verdict",
		},
		[]string{"verdict"}, // reproduced, clean, failed
	)

	// OracleRunDuration tracks host application run duration in seconds
	OracleRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mcpacker_oracle_run_duration_seconds",
			Help:    "Host application run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~17min
		},
	)

	// ToggleOperationsTotal counts enable/disable renames by direction
	ToggleOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpacker_toggle_operations_total",
			Help: "Total number of mod enable/disable renames",
		},
		[]string{"direction"}, // enable, disable
	)
)
