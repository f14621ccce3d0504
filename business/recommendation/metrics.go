package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GeneratorDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reco_generator_duration_seconds",
			Help:    "Duration of each candidate generator.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"generator"},
	)

	GeneratorFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_generator_failures_total",
			Help: "Count of candidate generator failures by generator.",
		},
		[]string{"generator"},
	)

	CandidatesDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_candidates_dropped_total",
			Help: "Candidates removed after merge, by reason.",
		},
		[]string{"reason"},
	)

	AvailabilityLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_availability_lookups_total",
			Help: "Store availability lookups by outcome.",
		},
		[]string{"outcome"},
	)

	TrainingActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_training_actions_total",
			Help: "Processed cart actions by action.",
		},
		[]string{"action"},
	)

	ModelTrainRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_model_train_runs_total",
			Help: "Batch training runs by outcome.",
		},
		[]string{"outcome"},
	)

	OnlineUpdatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reco_model_online_updates_total",
			Help: "Single-example weight updates applied.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		GeneratorDuration,
		GeneratorFailuresTotal,
		CandidatesDroppedTotal,
		AvailabilityLookupsTotal,
		TrainingActionsTotal,
		ModelTrainRunsTotal,
		OnlineUpdatesTotal,
	)
}
