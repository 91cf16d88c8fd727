package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "advisor", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "advisor", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	FetchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "advisor", Name: "fetch_requests_total", Help: "Outbound page fetches."},
		[]string{"status"},
	)
	FetchLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "advisor", Name: "fetch_duration_seconds",
			Help:    "Outbound page fetch duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	FieldMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "advisor", Name: "field_misses_total", Help: "Detail-page fields that fell back to their default."},
		[]string{"field"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "advisor", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, FetchRequests, FetchLatency, FieldMisses, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveFetch records one outbound page fetch; status 0 means the
// request never produced a response.
func ObserveFetch(status int, dur time.Duration) {
	FetchRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	FetchLatency.Observe(dur.Seconds())
}

func ObserveFieldMiss(field string) {
	FieldMisses.WithLabelValues(field).Inc()
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
