package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lessonbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lessonbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ReservationsTotal counts booking attempts by outcome: created, or the
	// rejection code (TIME_CONFLICT, INSUFFICIENT_MINUTES, ...).
	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lessonbook_reservations_total",
			Help: "Total number of reservation attempts by outcome",
		},
		[]string{"outcome"},
	)

	ReservationCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lessonbook_reservation_cancellations_total",
			Help: "Total number of reservation cancellations",
		},
		[]string{"refunded"},
	)

	ReservationStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lessonbook_reservation_status_changes_total",
			Help: "Total number of admin reservation status transitions",
		},
		[]string{"to"},
	)

	LedgerMinutesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lessonbook_ledger_minutes_total",
			Help: "Absolute lesson-minutes moved through the membership ledger",
		},
		[]string{"reason"},
	)

	MembershipsIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lessonbook_memberships_issued_total",
			Help: "Total number of memberships issued",
		},
	)

	AvailabilityCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lessonbook_availability_cache_total",
			Help: "Availability cache lookups by result",
		},
		[]string{"result"},
	)

	AvailabilityComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lessonbook_availability_compute_seconds",
			Help:    "Time spent loading inputs and computing availability",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordReservation(outcome string) {
	ReservationsTotal.WithLabelValues(outcome).Inc()
}

func RecordCancellation(refunded bool) {
	ReservationCancellationsTotal.WithLabelValues(strconv.FormatBool(refunded)).Inc()
}

func RecordStatusChange(to string) {
	ReservationStatusChangesTotal.WithLabelValues(to).Inc()
}

func RecordLedger(reason string, delta int) {
	if delta < 0 {
		delta = -delta
	}
	LedgerMinutesTotal.WithLabelValues(reason).Add(float64(delta))
}

func RecordMembershipIssued() {
	MembershipsIssuedTotal.Inc()
}

func RecordCacheResult(result string) {
	AvailabilityCacheTotal.WithLabelValues(result).Inc()
}

func ObserveAvailabilityCompute(seconds float64) {
	AvailabilityComputeDuration.Observe(seconds)
}
