package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of handled updates labeled by route and status",
		},
		[]string{"route", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Duration of update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	effectApplicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "effect_applications_total",
			Help: "Voice effect applications labeled by effect code and outcome",
		},
		[]string{"effect", "outcome"},
	)
	creditsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credits_total",
			Help: "Credits moved through the ledger labeled by direction",
		},
		[]string{"direction"},
	)
	translationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translations_total",
			Help: "Translation requests labeled by status",
		},
		[]string{"status"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
)

// RecordUpdate increments the update counter and records handling duration.
func RecordUpdate(route, status string, duration time.Duration) {
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	updatesTotal.WithLabelValues(route, status).Inc()
	updateDurationSeconds.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordEffect tracks an effect application. Outcome is "ok" or "fallback";
// fallback means the transform failed and the buffer passed through
// unmodified, which is the observable signal for silent degradation.
func RecordEffect(effect, outcome string) {
	if effect == "" {
		effect = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}

	effectApplicationsTotal.WithLabelValues(effect, outcome).Inc()
}

// RecordCredits accumulates ledger movements by direction.
func RecordCredits(direction string, delta int64) {
	if direction == "" {
		direction = "unknown"
	}

	creditsTotal.WithLabelValues(direction).Add(float64(delta))
}

// RecordTranslation tracks translation attempts by status.
func RecordTranslation(status string) {
	if status == "" {
		status = "unknown"
	}

	translationsTotal.WithLabelValues(status).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}
