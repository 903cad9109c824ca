// Package metrics defines and registers all custom Prometheus metrics for the
// Komunidad API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default registry on package init (promauto), so
// importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "komunidad"

// ── Announcement metrics ──────────────────────────────────────────────────────

// AnnouncementsCreatedTotal counts announcements posted by officials.
// Label:
//   - category: the category chosen on the form (e.g. "Emergency")
var AnnouncementsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "announcements_created_total",
		Help:      "Total number of announcements created, by category.",
	},
	[]string{"category"},
)

// AnnouncementsChangedTotal counts edits and deletions.
// Label:
//   - op: "update" or "delete"
var AnnouncementsChangedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "announcements_changed_total",
		Help:      "Total number of announcement updates and deletions.",
	},
	[]string{"op"},
)

// SnapshotFallbackTotal counts area feeds served from the snapshot cache
// because the document store failed.
// Label:
//   - result: "hit" (snapshot served) or "miss" (empty list served)
var SnapshotFallbackTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_fallback_total",
		Help:      "Area feeds served from the snapshot cache, by result (hit/miss).",
	},
	[]string{"result"},
)

// SearchResults observes how many announcements a search returned.
var SearchResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_results",
		Help:      "Number of announcements returned per search request.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts sign-in attempts.
// Label:
//   - result: "success" or the failure code (e.g. "invalid-credentials", "rate-limited")
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// ObserveFallback adapts SnapshotFallbackTotal to the repository's fallback
// observer.
func ObserveFallback(_ string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	SnapshotFallbackTotal.WithLabelValues(result).Inc()
}
