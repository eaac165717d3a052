package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Order placements by outcome
	OrderCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gift_orders_total",
			Help: "Total number of order placements by result",
		},
		[]string{"result"}, // result can be "success", "insufficient_inventory", "busy", "not_found", "internal"
	)

	// Authentication gate failures
	AuthFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gift_auth_failures_total",
			Help: "Total number of requests the authentication gate could not authenticate",
		},
		[]string{"reason"},
	)

	// Post-order notifications
	NotificationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gift_notifications_total",
			Help: "Total number of order notifications by notifier and result",
		},
		[]string{"notifier", "result"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gift_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	OrderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gift_order_duration_seconds",
			Help:    "Duration of order placements in seconds, lock wait included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gift_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Gauge metrics
var (
	NotificationQueueGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gift_notification_queue_length",
			Help: "Number of order notifications waiting for a worker",
		},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gift_info",
			Help: "Information about the gift service",
		},
		[]string{"version", "storage"},
	)
)

func init() {
	prometheus.MustRegister(OrderCounter)
	prometheus.MustRegister(AuthFailureCounter)
	prometheus.MustRegister(NotificationCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(OrderDuration)
	prometheus.MustRegister(RequestDuration)

	prometheus.MustRegister(NotificationQueueGauge)
	prometheus.MustRegister(InfoGauge)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// SetInfo publishes the running version and storage driver
func SetInfo(version, storage string) {
	InfoGauge.With(prometheus.Labels{"version": version, "storage": storage}).Set(1)
}

// TrackOrder returns a func that records the outcome and duration of one order placement
func TrackOrder() func(result string) {
	start := time.Now()
	return func(result string) {
		OrderCounter.With(prometheus.Labels{"result": result}).Inc()
		OrderDuration.With(prometheus.Labels{"result": result}).Observe(time.Since(start).Seconds())
	}
}

// RecordAuthFailure records a reason the gate left a request anonymous
func RecordAuthFailure(reason string) {
	AuthFailureCounter.With(prometheus.Labels{"reason": reason}).Inc()
}

// RecordNotification records the result of one notifier call
func RecordNotification(notifier, result string) {
	NotificationCounter.With(prometheus.Labels{"notifier": notifier, "result": result}).Inc()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
