// Package history summarizes and renders stored quotes.
package history

import (
	"context"
	"sort"

	"github.com/verte-zerg/quipe/internal/model"
)

// Lister loads stored quotes newest first.
type Lister interface {
	ListQuotes(ctx context.Context, limit int) ([]model.HistoryEntry, error)
}

// CategoryCount is the number of stored quotes in a category.
type CategoryCount struct {
	Category string
	Count    int
}

// Report contains precomputed data for history rendering.
type Report struct {
	Entries    []model.HistoryEntry
	Categories []CategoryCount
}

// BuildReport loads up to limit entries and tallies them by category.
func BuildReport(ctx context.Context, lister Lister, limit int) (Report, error) {
	entries, err := lister.ListQuotes(ctx, limit)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Entries:    entries,
		Categories: TopCategories(entries),
	}, nil
}

// TopCategories counts entries per category, most frequent first.
func TopCategories(entries []model.HistoryEntry) []CategoryCount {
	counts := map[string]int{}
	for _, e := range entries {
		counts[e.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		out = append(out, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Category < out[j].Category
		}
		return out[i].Count > out[j].Count
	})
	return out
}
