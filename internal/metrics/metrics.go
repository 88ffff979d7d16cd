package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors exported on /metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	AuditReports       *prometheus.CounterVec
	Emails             *prometheus.CounterVec
	Bookings           *prometheus.CounterVec
	LLMRequestDuration prometheus.Histogram
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AuditReports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resyne_audit_reports_total",
			Help: "Audit report requests by outcome",
		}, []string{"outcome"}),
		Emails: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resyne_emails_total",
			Help: "Transactional emails by template and outcome",
		}, []string{"template", "outcome"}),
		Bookings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resyne_bookings_total",
			Help: "Confirmed bookings by kind",
		}, []string{"kind"}),
		LLMRequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "resyne_llm_request_duration_seconds",
			Help:    "Duration of report generation calls to the LLM provider",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 45, 60, 90},
		}),
	}
}

func (m *Metrics) IncAuditReport(outcome string) {
	if m == nil {
		return
	}
	m.AuditReports.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncEmail(template string, err error) {
	if m == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.Emails.WithLabelValues(template, outcome).Inc()
}

func (m *Metrics) IncBooking(kind string) {
	if m == nil {
		return
	}
	m.Bookings.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveLLMRequest(start time.Time) {
	if m == nil {
		return
	}
	m.LLMRequestDuration.Observe(time.Since(start).Seconds())
}
