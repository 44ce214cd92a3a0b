package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFormMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFormMetrics(reg)

	m.ObserveSubmission("summary", "ok")
	m.ObserveSubmission("summary", "ok")
	m.ObserveSubmission("rewrite", "missing_credential")
	m.ObserveCall("summary", "map", "ok", 0.2)
	m.ObserveCall("summary", "reduce", "ok", 0.1)
	m.ObserveChunks("summary", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("summary", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("rewrite", "missing_credential")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("summary", "map", "ok")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.callLatency))
	assert.Equal(t, 1, testutil.CollectAndCount(m.chunks))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *FormMetrics
	m.ObserveSubmission("x", "ok")
	m.ObserveCall("x", "single", "ok", 1)
	m.ObserveChunks("x", 1)
}
