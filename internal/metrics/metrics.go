package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plise_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plise_http_request_duration_ms",
			Help:    "Duration of HTTP requests in ms",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "route"},
	)

	QuotesComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plise_quotes_computed_total",
		Help: "Orders priced by the engine",
	})

	QuotesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plise_quotes_saved_total",
		Help: "Quotes persisted",
	})

	LinesPriced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plise_lines_priced_total",
		Help: "Order lines priced by the engine",
	})

	PriceBookSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plise_price_book_saves_total",
		Help: "Price book save attempts by result",
	}, []string{"result"})

	PriceBookFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plise_price_book_fallbacks_total",
		Help: "Price book loads answered with the built-in defaults",
	})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and durations per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(float64(time.Since(start).Milliseconds()))
	})
}
