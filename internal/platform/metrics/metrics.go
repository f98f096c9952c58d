package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "spinwheel"

	LabelTheme   = "theme"
	LabelMode    = "mode"
	LabelOutcome = "outcome"
	LabelCue     = "cue"

	OutcomeCompleted = "completed"
	OutcomeRejected  = "rejected"
	OutcomeAborted   = "aborted"
)

var (
	SpinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spins_total",
			Help:      "Spin triggers by theme, selection mode and outcome.",
		},
		[]string{LabelTheme, LabelMode, LabelOutcome},
	)

	SpinDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "spin_duration_seconds",
			Help:      "Wall time from spin trigger to winner reveal.",
			Buckets:   []float64{1, 2, 4, 6, 8, 10, 15, 20, 30},
		},
		[]string{LabelTheme},
	)

	HistoryDuplicates = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_duplicates_total",
			Help:      "History appends discarded by the duplicate window.",
		},
	)

	CuesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cues_dropped_total",
			Help:      "Audio cues dropped because the sink queue was full or failed.",
		},
		[]string{LabelCue},
	)

	RosterSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roster_participants",
			Help:      "Participants on the roster at the last idle rebuild.",
		},
	)
)
