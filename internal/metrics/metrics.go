package metrics

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "user_api"

// Metrics groups the collectors exposed on /metrics
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         prometheus.Gauge

	DBQueryDuration *prometheus.HistogramVec
	DBErrorsTotal   *prometheus.CounterVec

	AuthAttempts *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				// bcrypt dominates the auth routes, hence the wide upper range
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "DB operation latency by logical op.",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2},
			},
			[]string{"op", "status"},
		),
		DBErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "errors_total",
				Help:      "DB errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "attempts_total",
				Help:      "Registration and login attempts by outcome.",
			},
			[]string{"action", "result"},
		),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestsDuration, m.InFlight, m.DBQueryDuration, m.DBErrorsTotal, m.AuthAttempts)

	return m
}

// GinMiddleware records request count, latency and in-flight gauge
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.RequestsTotal.WithLabelValues(method, route, status).Inc()
		m.RequestsDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
	}
}

// ObserveDB times fn under the logical op name and counts its failures.
// A nil receiver just runs fn.
func (m *Metrics) ObserveDB(op string, fn func() error) error {
	if m == nil {
		return fn()
	}

	start := time.Now()
	err := fn()

	status := "ok"
	if err != nil {
		status = "error"
		m.DBErrorsTotal.WithLabelValues(op, classifyDBErr(err)).Inc()
	}
	m.DBQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

// AuthAttempt counts one register/login outcome. A nil receiver is a no-op.
func (m *Metrics) AuthAttempt(action, result string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(action, result).Inc()
}

func classifyDBErr(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "unique_violation"
		case "23502":
			return "not_null_violation"
		case "57014":
			return "query_canceled"
		default:
			return "pg_" + pgErr.Code
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
