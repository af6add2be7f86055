package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/shopfront/internal/revocation"
	"github.com/tair/shopfront/internal/shop/domain"
)

// Metrics holds the HTTP and cart collectors
type Metrics struct {
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	cartOperations *prometheus.CounterVec
}

// NewMetrics registers the shop collectors on reg. registry may be nil.
func NewMetrics(reg prometheus.Registerer, registry *revocation.Registry) *Metrics {
	m := &Metrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shop_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shop_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		cartOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shop_cart_operations_total",
				Help: "Cart and wishlist mutations by outcome",
			},
			[]string{"operation", "result"},
		),
	}

	reg.MustRegister(m.requestCounter, m.requestLatency, m.cartOperations)
	if registry != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "shop_revoked_tokens",
				Help: "Revoked session tokens that have not expired yet",
			},
			func() float64 { return float64(registry.Len()) },
		))
	}
	return m
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (m *Metrics) middleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		m.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		m.requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) cartOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = strings.ToLower(string(domain.CodeOf(err)))
	}
	m.cartOperations.WithLabelValues(operation, result).Inc()
}
