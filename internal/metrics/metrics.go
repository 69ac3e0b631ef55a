// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Selection outcomes.
const (
	OutcomeExact       = "exact"
	OutcomeClosest     = "closest"
	OutcomeUnderfilled = "underfilled"
	OutcomeEmpty       = "empty"
)

var (
	selections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_selections_total",
			Help: "Total number of quiz selections by outcome",
		},
		[]string{"outcome", "strategy"},
	)

	selectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_selection_duration_seconds",
			Help:    "Time spent selecting questions for a quiz",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"strategy"},
	)

	questionLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_question_loads_total",
			Help: "Question pool reads by the source that served them",
		},
		[]string{"source"},
	)

	submissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of scored quiz submissions",
		},
	)

	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_logins_total",
			Help: "Login attempts by provider and result",
		},
		[]string{"provider", "result"}, // result: success/failure
	)
)

func ObserveSelection(strategy, outcome string, elapsed time.Duration) {
	selections.WithLabelValues(outcome, strategy).Inc()
	selectionDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

func QuestionsServed(source string) {
	questionLoads.WithLabelValues(source).Inc()
}

func QuizSubmitted() {
	submissions.Inc()
}

func Login(provider string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	logins.WithLabelValues(provider, result).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
