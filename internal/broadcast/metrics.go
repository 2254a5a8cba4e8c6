package broadcast

import "github.com/prometheus/client_golang/prometheus"

// Metrics - метрики хаба. Методы допускают nil-получатель.
type Metrics struct {
	clients   prometheus.Gauge
	envelopes *prometheus.CounterVec
	dropped   prometheus.Counter
	relayedIn *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crisis",
			Subsystem: "broadcast",
			Name:      "connected_clients",
			Help:      "Number of connected websocket clients.",
		}),
		envelopes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis",
			Subsystem: "broadcast",
			Name:      "envelopes_published_total",
			Help:      "Envelopes published locally, by event and room scope.",
		}, []string{"event", "scope"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisis",
			Subsystem: "broadcast",
			Name:      "dropped_clients_total",
			Help:      "Clients disconnected because their send buffer was full.",
		}),
		relayedIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis",
			Subsystem: "broadcast",
			Name:      "envelopes_relayed_total",
			Help:      "Envelopes received from other instances via Redis.",
		}, []string{"event"}),
	}
	reg.MustRegister(m.clients, m.envelopes, m.dropped, m.relayedIn)
	return m
}

func (m *Metrics) setClients(n int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(n))
}

func (m *Metrics) published(event, room string) {
	if m == nil {
		return
	}
	scope := "incident"
	if room == GlobalRoom {
		scope = "global"
	}
	m.envelopes.WithLabelValues(event, scope).Inc()
}

func (m *Metrics) droppedClient() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}

func (m *Metrics) relayed(event string) {
	if m == nil {
		return
	}
	m.relayedIn.WithLabelValues(event).Inc()
}
