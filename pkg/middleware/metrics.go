package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "bestellung"

// Gate outcomes.
const (
	OutcomeBypass   = "bypass"
	OutcomeDisabled = "disabled"
	OutcomeMissing  = "missing"
	OutcomeInvalid  = "invalid"
	OutcomeAllowed  = "allowed"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	gateDecisions   *prometheus.CounterVec
	gateEnforced    prometheus.Gauge
	loginAttempts   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors with reg. Use a fresh registry per
// Metrics: registering twice with the same one panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "auth_gate",
			Name:      "decisions_total",
			Help:      "Requests seen by the session gate, by outcome.",
		}, []string{"outcome"}),

		gateEnforced: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "auth_gate",
			Name:      "enforced",
			Help:      "1 when the session gate enforces authentication, 0 when it is disabled.",
		}),

		loginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts, by result.",
		}, []string{"result"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}
}

func (m *Metrics) ObserveGate(outcome string) {
	m.gateDecisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetGateEnforced(enforced bool) {
	if enforced {
		m.gateEnforced.Set(1)
		return
	}
	m.gateEnforced.Set(0)
}

func (m *Metrics) ObserveLogin(result string) {
	m.loginAttempts.WithLabelValues(result).Inc()
}

// Instrument records the duration of every request.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)
		m.requestDuration.
			WithLabelValues(r.Method, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}
