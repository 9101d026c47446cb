package integrity

import (
	"sort"

	"github.com/lorekeep/lorekeep/internal/types"
)

// Resolve partitions an unresolved duplicate group into one keeper and the
// losers slated for deletion: entities are stable-sorted descending by
// quality score, ties preserving store listing order, and the top entity
// wins. The partition is total and disjoint — every group member lands in
// exactly one of Keep or Delete.
func (s *Scorer) Resolve(group types.DuplicateGroup) types.DuplicateGroup {
	scores := make([]float64, len(group.Entities))
	order := make([]int, len(group.Entities))
	for i := range group.Entities {
		scores[i] = s.Score(group.Kind, &group.Entities[i])
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	sorted := make([]types.Entity, len(order))
	for i, idx := range order {
		sorted[i] = group.Entities[idx]
	}

	keep := sorted[0]
	group.Keep = &keep
	group.Delete = sorted[1:]
	return group
}
