package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_http_active_connections",
			Help: "Number of in-flight HTTP requests",
		},
	)

	leadsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_leads_created_total",
			Help: "Leads created since process start",
		},
	)

	notificationsEmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_notifications_emitted_total",
			Help: "Notifications emitted since process start",
		},
	)

	remindersFiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_reminders_fired_total",
			Help: "Activity reminders fired since process start",
		},
	)

	loginLockoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_login_lockouts_total",
			Help: "Login attempts rejected by the brute-force lockout",
		},
	)
)

func RecordLeadCreated()         { leadsCreatedTotal.Inc() }
func RecordNotificationEmitted() { notificationsEmittedTotal.Inc() }
func RecordRemindersFired(n int) { remindersFiredTotal.Add(float64(n)) }
func RecordLoginLockout()        { loginLockoutsTotal.Inc() }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Metrics instruments every request with count, latency and in-flight
// gauges. Paths are recorded as registered route patterns by the
// router, so raw IDs never explode label cardinality here.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(recorder.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
