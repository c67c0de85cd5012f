package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveRun(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())

	m.ObserveRun("demo", OutcomeSuccess, 2*time.Second, false)
	m.ObserveRun("demo", OutcomeFailure, time.Second, true)
	m.ObserveRun("demo", OutcomeFailure, time.Second, true)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.runs.WithLabelValues("demo", OutcomeSuccess)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.runs.WithLabelValues("demo", OutcomeFailure)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.artifacts.WithLabelValues("demo")))
}

func TestMetrics_RunStarted(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())

	done := m.RunStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.runsActive))
	done()
	assert.Equal(t, float64(0), testutil.ToFloat64(m.runsActive))
}

func TestMetrics_RunRejected(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())

	m.RunRejected()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.rejected))
}

func TestMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := MustNewMetrics(reg)
	second := MustNewMetrics(reg)

	first.ObserveFields([]string{"text", "text", "select"})
	assert.Equal(t, float64(2), testutil.ToFloat64(second.fieldsFilled.WithLabelValues("text")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun("demo", OutcomeSuccess, time.Second, false)
		m.ObserveFields([]string{"text"})
		m.RunStarted()()
		m.RunRejected()
	})
}
