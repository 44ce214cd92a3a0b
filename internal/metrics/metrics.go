package metrics

import "github.com/prometheus/client_golang/prometheus"

// FormMetrics counts submissions and completion calls per form.
type FormMetrics struct {
	submissions *prometheus.CounterVec
	calls       *prometheus.CounterVec
	callLatency *prometheus.HistogramVec
	chunks      *prometheus.HistogramVec
}

func NewFormMetrics(reg prometheus.Registerer) *FormMetrics {
	m := &FormMetrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promptforms",
			Subsystem: "forms",
			Name:      "submissions_total",
			Help:      "Form submissions by outcome",
		}, []string{"form", "outcome"}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promptforms",
			Subsystem: "completion",
			Name:      "calls_total",
			Help:      "Completion calls by stage and status",
		}, []string{"form", "stage", "status"}),
		callLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "promptforms",
			Subsystem: "completion",
			Name:      "call_latency_seconds",
			Help:      "Latency of completion calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"form", "stage"}),
		chunks: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "promptforms",
			Subsystem: "forms",
			Name:      "chunks_per_submission",
			Help:      "Number of chunks a long input was split into",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
		}, []string{"form"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions, m.calls, m.callLatency, m.chunks)
	return m
}

func (m *FormMetrics) ObserveSubmission(form, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(form, outcome).Inc()
}

func (m *FormMetrics) ObserveCall(form, stage, status string, seconds float64) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(form, stage, status).Inc()
	m.callLatency.WithLabelValues(form, stage).Observe(seconds)
}

func (m *FormMetrics) ObserveChunks(form string, n int) {
	if m == nil {
		return
	}
	m.chunks.WithLabelValues(form).Observe(float64(n))
}
