package verification

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeDropped        = "dropped"
	outcomeFailed         = "failed"
	outcomeAnalyzerFailed = "analyzer_failed"
)

// Metrics - метрики пула верификации. Методы допускают nil-получатель.
type Metrics struct {
	outcomes   *prometheus.CounterVec
	contention prometheus.Counter
	queueDepth prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis",
			Subsystem: "verification",
			Name:      "jobs_total",
			Help:      "Verification jobs by outcome (VERIFIED, FAKE, UNVERIFIED, failed, analyzer_failed, dropped).",
		}, []string{"outcome"}),
		contention: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisis",
			Subsystem: "verification",
			Name:      "write_contention_total",
			Help:      "Verdict writes rejected because the incident row was locked.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crisis",
			Subsystem: "verification",
			Name:      "queue_depth",
			Help:      "Jobs waiting in the verification queue.",
		}),
	}
	reg.MustRegister(m.outcomes, m.contention, m.queueDepth)
	return m
}

func (m *Metrics) observeOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeContention() {
	if m == nil {
		return
	}
	m.contention.Inc()
}

func (m *Metrics) setQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}
