// Package feed merges per-country article lists into one deduplicated,
// time-ordered feed. Pure functions: lists in, list out.
package feed

import (
	"sort"

	"github.com/kbaumler/worldmood/internal/model"
)

// Display caps for merged feeds.
const (
	GlobalLimit  = 20 // cross-country feed
	CountryLimit = 12 // single-country popup feed
)

// Merge flattens the given per-country article lists, collapses
// duplicates by dedup key (first occurrence wins), sorts by publish
// time descending, and truncates to limit.
//
// Articles with an unparsable publish time carry the zero time and sort
// as oldest. Articles with no usable dedup key at all (no id, url, or
// title) are dropped. A country whose fetch failed simply contributes
// an empty or nil list; Merge never fails.
func Merge(lists [][]model.Article, limit int) []model.Article {
	seen := make(map[string]bool)
	merged := make([]model.Article, 0)

	for _, list := range lists {
		for _, a := range list {
			key := a.DedupKey()
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, a)
		}
	}

	// Stable so same-timestamp articles keep first-seen order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Published.After(merged[j].Published)
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
