package plan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	occurrencesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "secugard",
		Subsystem: "plan",
		Name:      "occurrences_generated_total",
		Help:      "Patrol log occurrences inserted by plan confirmations.",
	})

	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "secugard",
		Subsystem: "plan",
		Name:      "transitions_total",
		Help:      "Plan state transition attempts by action and result.",
	}, []string{"action", "result"})
)

func observeTransition(action string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	transitionsTotal.WithLabelValues(action, result).Inc()
}
