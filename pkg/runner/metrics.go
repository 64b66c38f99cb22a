package runner

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "codecprop"

// Metrics records per-property run statistics.
type Metrics struct {
	duration   *prometheus.HistogramVec
	iterations *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "property",
				Name:      "duration_seconds",
				Help:      "Wall-clock time of one property run.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"property"},
		),
		iterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "property",
				Name:      "iterations_total",
				Help:      "Draws that ran to a verdict.",
			},
			[]string{"property"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "property",
				Name:      "failures_total",
				Help:      "Runs that ended in a counterexample or a fatal error.",
			},
			[]string{"property"},
		),
	}

	err := errors.Join(
		registerer.Register(m.duration),
		registerer.Register(m.iterations),
		registerer.Register(m.failures),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(res *Result) {
	m.duration.WithLabelValues(res.Property).Observe(res.Elapsed.Seconds())
	m.iterations.WithLabelValues(res.Property).Add(float64(res.Iterations))
	if !res.Success {
		m.failures.WithLabelValues(res.Property).Inc()
	}
}
