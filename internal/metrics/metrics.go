package metrics

import (
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// outcome: ok|invalid_request|not_found|insufficient_funds|unavailable|timeout|internal
	TransfersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfers_total",
			Help: "Transfer attempts by outcome.",
		},
		[]string{"outcome"},
	)
	TransferDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transfer_duration_seconds",
			Help:    "Time spent inside the transfer unit of work.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// result: hit|miss|error
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "View cache lookups by cache and result.",
		},
		[]string{"cache", "result"},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Jobs waiting in the audit worker queue.",
		},
	)
	WorkerDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_queue_dropped_total",
			Help: "Audit jobs dropped because the queue was full.",
		},
	)

	initOnce sync.Once
)

var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(HTTPLatency, TransfersTotal, TransferDuration,
			CacheRequests, WorkerQueueDepth, WorkerDropped)
	})
}

// RegisterPool exports connection pool statistics as gauges.
func RegisterPool(pool *pgxpool.Pool) {
	gauge := func(name, help string, f func(*pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help},
			func() float64 { return f(pool.Stat()) })
	}
	prometheus.MustRegister(
		gauge("db_pool_acquired_conns", "Connections currently checked out.",
			func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
		gauge("db_pool_idle_conns", "Idle connections in the pool.",
			func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
		gauge("db_pool_max_conns", "Configured pool size.",
			func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
		gauge("db_pool_empty_acquire_total", "Acquires that had to wait for a connection.",
			func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) }),
	)
}
