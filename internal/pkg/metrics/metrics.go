// Package metrics defines and registers all custom Prometheus metrics for the
// cat registry API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry at package init through
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catapi"

// ── Entity metrics ────────────────────────────────────────────────────────────

// CatsCreatedTotal counts cats persisted by the create endpoint.
var CatsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cats_created_total",
		Help:      "Total number of cats created.",
	},
)

// UsersCreatedTotal counts registered accounts.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created.",
	},
)

// AuthorizationDeniedTotal counts requests rejected by the ownership or role gate.
// Label:
//   - operation: e.g. "cat_update", "cat_delete_admin", "route"
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests denied by the authorization policy.",
	},
	[]string{"operation"},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// CacheLookupsTotal counts read-through cache decisions.
// Labels:
//   - entity: "cat" or "user"
//   - result: "hit", "miss" or "error"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of cache lookups, labelled by entity and result.",
	},
	[]string{"entity", "result"},
)

// StoreOperationDuration measures document store round trips.
// Labels:
//   - collection: "cats" or "users"
//   - operation: repository method, e.g. "find_within"
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of document store operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"collection", "operation"},
)

// ObserveStore records the time since start for a store operation.
//
//	defer metrics.ObserveStore("cats", "find_all", time.Now())
func ObserveStore(collection, operation string, start time.Time) {
	StoreOperationDuration.WithLabelValues(collection, operation).Observe(time.Since(start).Seconds())
}
