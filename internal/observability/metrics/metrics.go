package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harbormaster_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "harbormaster_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	reservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harbormaster_reservations_created_total",
		Help: "Count of reservations created",
	})

	statusDerivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harbormaster_status_derivations_total",
		Help: "Count of availability derivations by outcome",
	}, []string{"outcome"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harbormaster_login_attempts_total",
		Help: "Count of login attempts by result",
	}, []string{"result"})

	occupiedBerths = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "harbormaster_occupied_berths",
		Help: "Number of berths currently derived as occupied",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveReservationCreated increments the reservation counter
func ObserveReservationCreated() {
	reservationsCreated.Inc()
}

// ObserveDerivation records one availability derivation
func ObserveDerivation(free bool) {
	outcome := "occupied"
	if free {
		outcome = "free"
	}
	statusDerivations.WithLabelValues(outcome).Inc()
}

// ObserveLogin records a login attempt with a result label
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// SetOccupied sets the occupied-berth gauge to a specific count
func SetOccupied(count int) {
	if count < 0 {
		count = 0
	}
	occupiedBerths.Set(float64(count))
}
