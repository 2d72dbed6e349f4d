// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_wizard_transitions_total",
			Help: "Total number of wizard step transitions",
		},
		[]string{"direction", "outcome"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_validation_failures_total",
			Help: "Total number of step validation failures",
		},
		[]string{"step"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_submissions_total",
			Help: "Total number of profile submissions",
		},
		[]string{"status"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "onboarding_submission_duration_seconds",
			Help: "Duration of profile submission in seconds",
		},
		[]string{"status"},
	)

	DraftStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_draft_store_errors_total",
			Help: "Total number of best-effort draft store failures",
		},
		[]string{"operation"},
	)
)
