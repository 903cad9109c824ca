// Package search filters and orders announcement lists in memory.
//
// Everything here is pure: the same inputs and the same "now" always yield
// the same output. The predicates are independent, so the order in which they
// are applied does not change the resulting set.
package search

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

// Filter values that let everything through.
const (
	AllCategories = "All"
	AllAreas      = "all"
)

// DateRange limits results by posting date.
type DateRange string

const (
	RangeAll     DateRange = "all"
	RangeToday   DateRange = "today"
	RangeWeek    DateRange = "week"
	RangeMonth   DateRange = "month"
	RangeQuarter DateRange = "3months"
)

// SortOrder selects how results are ordered.
type SortOrder string

const (
	SortNewest   SortOrder = "newest"
	SortOldest   SortOrder = "oldest"
	SortRelevant SortOrder = "relevant"
)

// SearchCategories are the category chips offered by the search screen.
var SearchCategories = []string{AllCategories, domain.CategoryEmergency, "Events", domain.CategoryHealth, domain.CategorySafety, "Announcement"}

// Config is a filter and sort selection.
type Config struct {
	Category  string
	AreaID    string
	DateRange DateRange
	Query     string
	Sort      SortOrder
}

// DefaultConfig is the state of a freshly opened (or cleared) search.
func DefaultConfig() Config {
	return Config{
		Category:  AllCategories,
		AreaID:    AllAreas,
		DateRange: RangeAll,
		Sort:      SortNewest,
	}
}

// Active reports whether any filter narrows the result. Sort order alone
// does not count.
func (c Config) Active() bool {
	return strings.TrimSpace(c.Query) != "" ||
		!passesAll(c.Category, AllCategories) ||
		!passesAll(c.AreaID, AllAreas) ||
		(c.DateRange != "" && c.DateRange != RangeAll)
}

// Rank returns the announcements of all that satisfy cfg, ordered by
// cfg.Sort. The input slice is not modified.
func Rank(all []domain.Announcement, cfg Config, now time.Time) []domain.Announcement {
	query := fold(cfg.Query)
	since, sameDay := dateBound(cfg.DateRange, now)

	out := make([]domain.Announcement, 0, len(all))
	for _, a := range all {
		if !passesAll(cfg.Category, AllCategories) && a.Category != cfg.Category {
			continue
		}
		if !passesAll(cfg.AreaID, AllAreas) && a.AreaID != cfg.AreaID {
			continue
		}
		if sameDay && !SameDay(a.DatePosted, now) {
			continue
		}
		if !since.IsZero() && a.DatePosted.Before(since) {
			continue
		}
		if query != "" && !strings.Contains(fold(a.Title), query) && !strings.Contains(fold(a.Description), query) {
			continue
		}
		out = append(out, a)
	}

	switch cfg.Sort {
	case SortOldest:
		slices.SortStableFunc(out, func(x, y domain.Announcement) int {
			return x.DatePosted.Compare(y.DatePosted)
		})
	case SortRelevant:
		scored := make([]scoredAnnouncement, len(out))
		for i, a := range out {
			scored[i] = scoredAnnouncement{Announcement: a, score: Relevance(a, query, now)}
		}
		slices.SortStableFunc(scored, func(x, y scoredAnnouncement) int {
			return cmp.Compare(y.score, x.score)
		})
		for i := range scored {
			out[i] = scored[i].Announcement
		}
	default:
		slices.SortStableFunc(out, func(x, y domain.Announcement) int {
			return y.DatePosted.Compare(x.DatePosted)
		})
	}
	return out
}

type scoredAnnouncement struct {
	domain.Announcement
	score float64
}

// Relevance scores a against an already folded query:
// +10 for a title match, +5 for Emergency, plus up to 10 for recency
// decaying one point per day.
func Relevance(a domain.Announcement, foldedQuery string, now time.Time) float64 {
	var score float64
	if foldedQuery != "" && strings.Contains(fold(a.Title), foldedQuery) {
		score += 10
	}
	if a.Category == domain.CategoryEmergency {
		score += 5
	}
	days := now.Sub(a.DatePosted).Hours() / 24
	score += max(0, 10-days)
	return score
}

// CountByCategory counts announcements with the given category.
func CountByCategory(all []domain.Announcement, category string) int {
	n := 0
	for _, a := range all {
		if a.Category == category {
			n++
		}
	}
	return n
}

// CountSince counts announcements posted at or after since.
func CountSince(all []domain.Announcement, since time.Time) int {
	n := 0
	for _, a := range all {
		if !a.DatePosted.Before(since) {
			n++
		}
	}
	return n
}

// SameDay reports whether t falls on the same calendar day as now, in now's
// location.
func SameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// dateBound returns the inclusive lower bound for r, or sameDay for "today".
// A zero bound with sameDay false means no date filtering.
func dateBound(r DateRange, now time.Time) (since time.Time, sameDay bool) {
	switch r {
	case RangeToday:
		return time.Time{}, true
	case RangeWeek:
		return now.Add(-7 * 24 * time.Hour), false
	case RangeMonth:
		return monthsBack(now, 1), false
	case RangeQuarter:
		return monthsBack(now, 3), false
	}
	return time.Time{}, false
}

// monthsBack is local midnight of (year, month-n, day). time.Date normalises
// a non-positive month into the previous year and an overflowing day into the
// following month.
func monthsBack(now time.Time, n int) time.Time {
	return time.Date(now.Year(), now.Month()-time.Month(n), now.Day(), 0, 0, 0, 0, now.Location())
}

func passesAll(v, all string) bool {
	return v == "" || v == all
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
