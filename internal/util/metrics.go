package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActionsAdmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actions_admitted_total",
		Help: "Total number of user actions admitted for processing",
	})

	ActionsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "actions_dropped_total",
		Help: "Total number of user actions dropped before processing",
	}, []string{"reason"})

	ActionsDeniedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actions_denied_total",
		Help: "Total number of actions rejected by the authorization gate",
	})

	ActionHandlingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "action_handling_latency_seconds",
		Help:    "Latency of admitted action handling",
		Buckets: prometheus.DefBuckets,
	})

	ActionPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "action_panics_total",
		Help: "Total number of panics recovered inside action handlers",
	})

	SessionsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_started_total",
		Help: "Total number of sale sessions started",
	})

	SessionsEndedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_ended_total",
		Help: "Total number of sale sessions ended",
	})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_deleted_total",
		Help: "Total number of orders deleted",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order submissions",
	}, []string{"reason"})

	MenuItemsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "menu_items_created_total",
		Help: "Total number of menu items created",
	})

	InventoryEntriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_entries_total",
		Help: "Total number of inventory log entries persisted",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
