package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for runs_total.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics exposes Prometheus collectors that report automation runs.
type Metrics struct {
	runs         *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	runsActive   prometheus.Gauge
	rejected     prometheus.Counter
	artifacts    *prometheus.CounterVec
	fieldsFilled *prometheus.CounterVec
}

// MustNewMetrics constructs Metrics registered with reg. Registration errors
// panic, except that already registered collectors are reused.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "formpilot",
				Name:      "runs_total",
				Help:      "Automation runs by script and outcome.",
			},
			[]string{"script", "outcome"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "formpilot",
				Name:      "run_duration_seconds",
				Help:      "Wall time of dispatched automation runs.",
				Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300},
			},
			[]string{"script"},
		),
		runsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "formpilot",
				Name:      "runs_active",
				Help:      "Runs currently holding a browser session.",
			},
		),
		rejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "formpilot",
				Name:      "runs_rejected_total",
				Help:      "Run requests turned away because every run slot was busy.",
			},
		),
		artifacts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "formpilot",
				Name:      "artifacts_captured_total",
				Help:      "Failed runs that left a screenshot or raw HTML behind.",
			},
			[]string{"script"},
		),
		fieldsFilled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "formpilot",
				Name:      "payload_fields_total",
				Help:      "Automation fields handed to scripts, by control type.",
			},
			[]string{"control_type"},
		),
	}

	m.runs = register(reg, m.runs)
	m.runDuration = register(reg, m.runDuration)
	m.runsActive = register(reg, m.runsActive)
	m.rejected = register(reg, m.rejected)
	m.artifacts = register(reg, m.artifacts)
	m.fieldsFilled = register(reg, m.fieldsFilled)
	return m
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(script, outcome string, duration time.Duration, hasArtifacts bool) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(script, outcome).Inc()
	if duration > 0 {
		m.runDuration.WithLabelValues(script).Observe(duration.Seconds())
	}
	if hasArtifacts {
		m.artifacts.WithLabelValues(script).Inc()
	}
}

// ObserveFields counts the payload fields of a run by control type.
func (m *Metrics) ObserveFields(controlTypes []string) {
	if m == nil {
		return
	}
	for _, ct := range controlTypes {
		m.fieldsFilled.WithLabelValues(ct).Inc()
	}
}

// RunStarted increments the active gauge and returns the matching decrement.
func (m *Metrics) RunStarted() func() {
	if m == nil {
		return func() {}
	}
	m.runsActive.Inc()
	return m.runsActive.Dec
}

// RunRejected counts a request refused for lack of a free run slot.
func (m *Metrics) RunRejected() {
	if m == nil {
		return
	}
	m.rejected.Inc()
}
