package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	draftsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobapply_drafts_started_total",
			Help: "Total number of application drafts started",
		},
	)

	stepTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobapply_step_transitions_total",
			Help: "Step transitions by direction and outcome",
		},
		[]string{"direction", "outcome"}, // direction: next/back, outcome: ok/blocked/invalid
	)

	submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobapply_submissions_total",
			Help: "Final submissions by outcome",
		},
		[]string{"outcome"}, // outcome: accepted/invalid/failed
	)

	submissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobapply_submission_duration_seconds",
			Help:    "Time spent handling a final submission",
			Buckets: prometheus.DefBuckets,
		},
	)

	documentUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobapply_document_uploads_total",
			Help: "Document uploads by field and outcome",
		},
		[]string{"field", "outcome"},
	)
)
