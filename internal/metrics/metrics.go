package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vibra_http_requests_total", Help: "HTTP requests by route, method and status"},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "vibra_http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	RegistrationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vibra_registrations_total", Help: "Event registration attempts by outcome"},
		[]string{"outcome"},
	)
	Unregistrations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "vibra_unregistrations_total", Help: "Successful unregistrations that removed a participant"},
	)
	NotificationsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vibra_activity_dispatch_total", Help: "Activities dispatched to notifications by kind and result"},
		[]string{"kind", "result"},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequests, HTTPDuration, RegistrationOutcomes, Unregistrations, NotificationsDispatched)
	})
}
