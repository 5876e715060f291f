package internal

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the scaler.
type Metrics struct {
	RequestsTotal  *prometheus.CounterVec // labels: method, code
	DecisionsTotal *prometheus.CounterVec // labels: method, active
	ActiveStreams  prometheus.Gauge
	StreamSends    prometheus.Counter
	WorkingDaysMTD prometheus.Gauge
	Holidays       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workdayscalr_requests_total",
			Help: "Scaler RPCs handled, by method and status code",
		}, []string{"method", "code"}),
		DecisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workdayscalr_decisions_total",
			Help: "Activation decisions taken, by method and outcome",
		}, []string{"method", "active"}),
		ActiveStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workdayscalr_active_streams",
			Help: "Number of open StreamIsActive streams",
		}),
		StreamSends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "workdayscalr_stream_sends_total",
			Help: "Decisions pushed to StreamIsActive streams",
		}),
		WorkingDaysMTD: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workdayscalr_working_days_mtd",
			Help: "Working days elapsed in the current month as of the last evaluation",
		}),
		Holidays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workdayscalr_holidays",
			Help: "Number of holidays loaded at startup",
		}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.DecisionsTotal,
		m.ActiveStreams,
		m.StreamSends,
		m.WorkingDaysMTD,
		m.Holidays,
	)

	return m
}

func (m *Metrics) observeDecision(method string, decision ActivationDecision) {
	m.DecisionsTotal.WithLabelValues(method, strconv.FormatBool(decision.Active)).Inc()
}
