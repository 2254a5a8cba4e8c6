package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
)

// Metrics - счетчики бизнес-операций. Методы допускают nil-получатель.
type Metrics struct {
	reports     *prometheus.CounterVec
	breaches    prometheus.Counter
	resolutions *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis",
			Subsystem: "incidents",
			Name:      "reports_total",
			Help:      "Ingested reports by correlation outcome and source.",
		}, []string{"outcome", "source"}),
		breaches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisis",
			Subsystem: "geofence",
			Name:      "breaches_total",
			Help:      "Zones breached by evaluated locations.",
		}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis",
			Subsystem: "incidents",
			Name:      "status_transitions_total",
			Help:      "Resolution workflow transitions by target status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.reports, m.breaches, m.resolutions)
	return m
}

func (m *Metrics) observeIngest(outcome models.IngestOutcome, source string) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(string(outcome), source).Inc()
}

func (m *Metrics) observeBreaches(n int) {
	if m == nil {
		return
	}
	m.breaches.Add(float64(n))
}

func (m *Metrics) observeResolution(status string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(status).Inc()
}
