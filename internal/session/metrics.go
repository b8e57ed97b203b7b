package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricStatesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "flowcanvas",
		Name:      "scroll_states_saved_total",
		Help:      "Number of viewport scroll states saved.",
	})
	metricStatesRestored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flowcanvas",
		Name:      "scroll_states_restored_total",
		Help:      "Number of viewport scroll state lookups, by outcome.",
	}, []string{"outcome"})
)
