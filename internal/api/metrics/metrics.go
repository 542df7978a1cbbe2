// Package metrics defines and registers all custom Prometheus metrics for the
// circulation API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Collectors register themselves with the default Prometheus registry via
// promauto at package load time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "circulation"

// ── Loan metrics ──────────────────────────────────────────────────────────────

// LoansIssuedTotal counts loans successfully issued.
var LoansIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_issued_total",
		Help:      "Total number of loans issued.",
	},
)

// LoansReturnedTotal counts loans successfully returned.
var LoansReturnedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_returned_total",
		Help:      "Total number of loans returned.",
	},
)

// LoansMarkedOverdueTotal counts loans transitioned to overdue by the lazy
// sweep that runs before listing queries.
var LoansMarkedOverdueTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_marked_overdue_total",
		Help:      "Total number of loans transitioned from on_loan to overdue.",
	},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// BooksCreatedTotal counts catalog entries created.
var BooksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_created_total",
		Help:      "Total number of books added to the catalog.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts authentication attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
