package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "everjourney", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "everjourney", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "everjourney", Name: "db_queries_total", Help: "Database round-trips."},
		[]string{"op", "result"}, // result: ok|error
	)
	DBLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "everjourney", Name: "db_query_duration_seconds",
			Help:    "Database round-trip duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	TxOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "everjourney", Name: "db_transactions_total", Help: "Write transactions by outcome."},
		[]string{"flow", "outcome"}, // outcome: commit|rollback
	)
	Degradations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "everjourney", Name: "section_degradations_total", Help: "Page sections served empty after a read failure."},
		[]string{"page", "section"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "everjourney", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

// Serve exposes /metrics on its own listener. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

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
	reg.MustRegister(HTTPRequests, HTTPLatency, DBQueries, DBLatency, TxOutcomes, Degradations, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveDB(op string, err error, dur time.Duration) {
	DBQueries.WithLabelValues(op, result(err)).Inc()
	DBLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func ObserveTx(flow, outcome string) { // outcome: commit|rollback
	TxOutcomes.WithLabelValues(flow, outcome).Inc()
}

func ObserveDegraded(page, section string) {
	Degradations.WithLabelValues(page, section).Inc()
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func result(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}
