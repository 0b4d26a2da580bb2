package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

const namespace = "classbridge"

// Metrics owns a private registry so tests can build as many instances as they like.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	aggregateOps       *prometheus.HistogramVec
	aggregateConflicts *prometheus.CounterVec
	aggregateTxFailed  *prometheus.CounterVec

	lessonsImported  prometheus.Counter
	schedulesReset   prometheus.Counter
	progressUpdates  *prometheus.CounterVec
	eventsPublished  *prometheus.CounterVec
	purchasesCreated prometheus.Counter

	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		aggregateOps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "aggregate_operation_duration_seconds",
			Help:    "Aggregate write latency by operation and outcome.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		aggregateConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "aggregate_conflicts_total",
			Help: "Aggregate writes rejected by a uniqueness conflict.",
		}, []string{"operation"}),
		aggregateTxFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "aggregate_transaction_failures_total",
			Help: "Aggregate writes aborted by the database or the timeout ceiling.",
		}, []string{"operation"}),
		lessonsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "schedule_lessons_imported_total",
			Help: "Lessons created by bulk schedule imports.",
		}),
		schedulesReset: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "schedule_resets_total",
			Help: "Subject schedule resets.",
		}),
		progressUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "lesson_progress_updates_total",
			Help: "Lesson progress upserts by completion flag.",
		}, []string{"completed"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "realtime_events_published_total",
			Help: "Realtime events published by type and outcome.",
		}, []string{"event", "status"}),
		purchasesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "purchases_created_total",
			Help: "Verified course purchases.",
		}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "redis_up",
			Help: "1 when the last redis ping succeeded.",
		}),
		redisPing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "redis_ping_seconds",
			Help: "Latency of the last redis ping.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.aggregateOps, m.aggregateConflicts, m.aggregateTxFailed,
		m.lessonsImported, m.schedulesReset, m.progressUpdates, m.eventsPublished, m.purchasesCreated,
		m.redisUp, m.redisPing,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.WithLabelValues(strings.TrimSpace(name), strings.TrimSpace(status)).Observe(dur.Seconds())
}

func (m *Metrics) IncAggregateConflict(name string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.WithLabelValues(strings.TrimSpace(name)).Inc()
}

func (m *Metrics) IncAggregateTxFailure(name string) {
	if m == nil {
		return
	}
	m.aggregateTxFailed.WithLabelValues(strings.TrimSpace(name)).Inc()
}

func (m *Metrics) AddLessonsImported(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.lessonsImported.Add(float64(n))
}

func (m *Metrics) IncScheduleReset() {
	if m == nil {
		return
	}
	m.schedulesReset.Inc()
}

func (m *Metrics) IncProgressUpdate(completed bool) {
	if m == nil {
		return
	}
	m.progressUpdates.WithLabelValues(strconv.FormatBool(completed)).Inc()
}

func (m *Metrics) IncEventPublished(event string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.eventsPublished.WithLabelValues(event, status).Inc()
}

func (m *Metrics) IncPurchase() {
	if m == nil {
		return
	}
	m.purchasesCreated.Inc()
}

// RegisterDBStats exposes the sql.DB pool statistics of db.
func (m *Metrics) RegisterDBStats(log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
		}
		return
	}
	if err := m.registry.Register(collectors.NewDBStatsCollector(sqlDB, namespace)); err != nil && log != nil {
		log.Warn("metrics: db stats collector not registered", "error", err)
	}
}

// StartRedisCollector pings rdb every interval until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
