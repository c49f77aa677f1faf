// Package metrics defines the Prometheus instruments shared across packages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WebSocket / broadcast metrics
var (
	// ActiveTopics tracks the number of topics with at least one subscriber
	ActiveTopics = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "broadcast_active_topics",
			Help: "Number of topics with at least one live subscriber",
		},
	)

	// ConnectedClients tracks currently registered websocket connections
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "broadcast_connected_clients",
			Help: "Currently registered websocket connections",
		},
	)

	// EventsPublishedTotal tracks published domain events by kind
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_events_published_total",
			Help: "Domain events published, by event kind",
		},
		[]string{"kind"},
	)

	// DeliveriesTotal tracks per-connection delivery attempts by outcome
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_deliveries_total",
			Help: "Per-connection delivery attempts, by outcome (sent/dropped)",
		},
		[]string{"outcome"},
	)

	// SlowClientsEvictedTotal tracks connections evicted for backpressure
	SlowClientsEvictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_slow_clients_evicted_total",
			Help: "Connections evicted because their send buffer was full",
		},
	)

	// RelayPublishErrorsTotal tracks failed publishes to the Redis relay
	RelayPublishErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_relay_publish_errors_total",
			Help: "Failed publishes to the cross-instance relay",
		},
	)
)

// Pipeline metrics
var (
	// OrdersCreatedTotal tracks successfully created orders by intake path
	OrdersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Successfully created orders, by intake path",
		},
		[]string{"path"},
	)

	// OrderRollbacksTotal tracks compensating bill deletions during intake
	OrderRollbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_intake_rollbacks_total",
			Help: "Compensating bill deletions after partial intake failure",
		},
	)

	// StatusUpdatesTotal tracks applied order item status transitions
	StatusUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_item_status_updates_total",
			Help: "Applied order item status transitions, by new status",
		},
		[]string{"status"},
	)

	// GeofenceRejectionsTotal tracks orders rejected by the distance check
	GeofenceRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_geofence_rejections_total",
			Help: "Orders rejected because the customer was outside the radius",
		},
	)
)
