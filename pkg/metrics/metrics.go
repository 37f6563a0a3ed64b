package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// Manager holds the application metrics on a dedicated registry.
type Manager struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	UsersRegistered     prometheus.Counter
	LoginsTotal         *prometheus.CounterVec
	TokensRevoked       prometheus.Counter
}

func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	registered := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users.",
	})

	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts by result.",
	}, []string{"result"})

	revoked := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of tokens deactivated by logout or password change.",
	})

	registry.MustRegister(
		requests,
		duration,
		registered,
		logins,
		revoked,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:            registry,
		HTTPRequestsTotal:   requests,
		HTTPRequestDuration: duration,
		UsersRegistered:     registered,
		LoginsTotal:         logins,
		TokensRevoked:       revoked,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// The helpers below accept a nil receiver so services can run without metrics.

func (m *Manager) ObserveLogin(success bool) {
	if m == nil {
		return
	}
	result := LoginFailure
	if success {
		result = LoginSuccess
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}

func (m *Manager) ObserveRegistration() {
	if m == nil {
		return
	}
	m.UsersRegistered.Inc()
}

func (m *Manager) ObserveRevoked(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.TokensRevoked.Add(float64(n))
}
