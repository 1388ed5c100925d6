package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ideahub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// IdeaViews counts idea detail reads that incremented a view counter.
	IdeaViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ideahub_idea_views_total",
		Help: "Total number of idea views recorded",
	})

	// IdeaMutations counts idea writes by action.
	IdeaMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideahub_idea_mutations_total",
		Help: "Total number of idea create, update and delete operations",
	}, []string{"action"})

	// FavoriteChanges counts like/favorite relation changes by action.
	FavoriteChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideahub_favorite_changes_total",
		Help: "Total number of favorite relation changes",
	}, []string{"action"})

	// CacheLookups counts cache-aside lookups by keyspace and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideahub_cache_lookups_total",
		Help: "Total number of cache lookups by result",
	}, []string{"keyspace", "result"})

	// WebSocketEventsTotal counts realtime events delivered by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideahub_websocket_events_total",
		Help: "Total realtime events published by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideahub_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// TrackQuery returns a function that records query latency when called, usually via defer.
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
