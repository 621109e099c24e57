// Package metrics defines and registers all custom Prometheus metrics for the
// todo API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// via promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo"

// Auth event names and results used as label values.
const (
	EventRegister = "register"
	EventLogin    = "login"
	EventLogout   = "logout"
	EventRefresh  = "refresh"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthEventsTotal counts account operations.
// Labels:
//   - event: "register", "login", "logout" or "refresh"
//   - result: "success" or "failure"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication operations, by event and result.",
	},
	[]string{"event", "result"},
)

// TokensRevokedTotal counts token ids written to the denylist.
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of bearer tokens revoked by logout or refresh.",
	},
)

// ── Todo metrics ──────────────────────────────────────────────────────────────

// TodoMutationsTotal counts successful writes.
// Label:
//   - operation: "create", "update", "delete", "complete" or "pending"
var TodoMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "todos_mutations_total",
		Help:      "Total number of todo mutations, by operation.",
	},
	[]string{"operation"},
)

// ListPageSize observes how many items each listing returned.
var ListPageSize = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "list_page_size",
		Help:      "Number of todos returned per listing page.",
		Buckets:   []float64{0, 1, 5, 10, 15, 25, 50, 100},
	},
)

// Collectors lists the custom metrics so they can be added to a registry
// other than the default one.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		AuthEventsTotal,
		TokensRevokedTotal,
		TodoMutationsTotal,
		ListPageSize,
	}
}
