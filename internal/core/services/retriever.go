package services

import (
	"sort"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
)

// Rank scores every record in store against query by dot product and returns
// the best k, highest first. Equal scores keep insertion order.
//
// query must already be normalised and match the store dimension. k <= 0 or
// an empty store yields an empty, non-nil slice.
func Rank(store *domain.Store, query []float32, k int) []domain.SearchResult {
	if k <= 0 || store.Len() == 0 {
		return []domain.SearchResult{}
	}

	results := make([]domain.SearchResult, len(store.Docs))
	for i, d := range store.Docs {
		results[i] = domain.SearchResult{
			Text:     d.Text,
			Score:    domain.Dot(d.Vector, query),
			Position: i,
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}
