package http

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	corsRejectsTotal  *prometheus.CounterVec
	oboExchangesTotal *prometheus.CounterVec
)

// RegisterMetrics inicializa las métricas del gateway y devuelve el handler
// para /metrics. Idempotente: registrar dos veces no duplica series.
func RegisterMetrics(registry prometheus.Registerer) http.Handler {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"})

		corsRejectsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cors_rejects_total",
			Help: "Origins rechazados por el allow-list, por ruta",
		}, []string{"path"})

		oboExchangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obo_exchanges_total",
			Help: "Intercambios on-behalf-of por resultado (ok|no_token|rejected|transport)",
		}, []string{"result"})

		registry.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			httpInflight,
			corsRejectsTotal,
			oboExchangesTotal,
		)
	})

	return promhttp.Handler()
}

// ObserveOBO registra el resultado de un exchange. No-op si las métricas no
// fueron inicializadas (tests de unidad de handlers sueltos).
func ObserveOBO(result string) {
	if oboExchangesTotal != nil {
		oboExchangesTotal.WithLabelValues(result).Inc()
	}
}

// WithMetrics instrumenta count/duración/inflight por request.
func WithMetrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpRequestsTotal == nil {
				next.ServeHTTP(w, r)
				return
			}
			path := r.URL.Path
			httpInflight.WithLabelValues(r.Method, path).Inc()
			defer httpInflight.WithLabelValues(r.Method, path).Dec()

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
