package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
)

// CommandMetrics records catalog and order command executions.
type CommandMetrics struct {
	duration       *prometheus.HistogramVec
	outcomes       *prometheus.CounterVec
	numberAttempts prometheus.Histogram
}

// NewCommandMetrics registers the command metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCommandMetrics(reg prometheus.Registerer) *CommandMetrics {
	if reg == nil {
		return &CommandMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admin_command_duration_seconds",
		Help:    "Duration of admin commands in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity", "op"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_command_total",
		Help: "Admin command executions by outcome.",
	}, []string{"entity", "op", "outcome"})
	numberAttempts := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_number_generation_attempts",
		Help:    "Candidates drawn before a free order number was found.",
		Buckets: []float64{1, 2, 3, 4, 5, 8, 13},
	})
	reg.MustRegister(duration, outcomes, numberAttempts)
	return &CommandMetrics{
		duration:       duration,
		outcomes:       outcomes,
		numberAttempts: numberAttempts,
	}
}

// Observe records how long a command took and whether it failed. The outcome
// label is "ok" or the lower-cased error code.
func (m *CommandMetrics) Observe(entity, op string, started time.Time, err error) {
	if m == nil || m.duration == nil {
		return
	}
	entity = normalizeLabel(entity)
	op = normalizeLabel(op)
	m.duration.WithLabelValues(entity, op).Observe(time.Since(started).Seconds())
	m.outcomes.WithLabelValues(entity, op, outcomeFor(err)).Inc()
}

// ObserveNumberAttempts records how many order-number candidates were drawn.
func (m *CommandMetrics) ObserveNumberAttempts(attempts int) {
	if m == nil || m.numberAttempts == nil {
		return
	}
	m.numberAttempts.Observe(float64(attempts))
}

func outcomeFor(err error) string {
	if err == nil {
		return "ok"
	}
	if typed := pkgerrors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return "error"
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
