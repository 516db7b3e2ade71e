// metrics — Prometheus-инструменты для исходящих вызовов к posts-бэкенду.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — счётчики/гистограммы клиентского слоя.
// Nil-значение допустимо: Observe на nil ничего не делает,
// чтобы клиент в тестах не требовал registry.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New регистрирует инструменты в переданном Registerer.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		requestsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "blog_admin_api_requests_total",
			Help: "Outgoing posts API requests by operation and HTTP status (0 = transport failure).",
		}, []string{"op", "code"}),
		requestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blog_admin_api_request_duration_seconds",
			Help:    "Outgoing posts API request duration by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

// Observe фиксирует завершённый вызов.
func (m *Metrics) Observe(op string, status int, dur time.Duration) {
	if m == nil {
		return
	}

	m.requestsTotal.WithLabelValues(op, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(op).Observe(dur.Seconds())
}
