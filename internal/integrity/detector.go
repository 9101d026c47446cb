package integrity

import (
	"sort"

	"github.com/lorekeep/lorekeep/internal/types"
)

// GroupByKey buckets entities by their normalized duplicate key. Entity
// order within a bucket follows the input (store listing) order; that is
// the only ordering guarantee the detector makes.
func GroupByKey(entities []types.Entity) map[string][]types.Entity {
	buckets := make(map[string][]types.Entity)
	for _, e := range entities {
		key := e.DuplicateKey()
		buckets[key] = append(buckets[key], e)
	}
	return buckets
}

// DetectDuplicates groups one collection's entities by normalized key and
// returns only the groups with 2 or more members, sorted by key for
// deterministic output. Singleton buckets are dropped, so an entity that is
// alone under its key — including alone in the shared "unnamed" bucket —
// is never reported as a duplicate.
//
// The returned groups are unresolved: Keep and Delete are unset until
// Resolve partitions them.
func DetectDuplicates(kind types.Kind, entities []types.Entity) []types.DuplicateGroup {
	buckets := GroupByKey(entities)

	keys := make([]string, 0, len(buckets))
	for key, members := range buckets {
		if len(members) < 2 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([]types.DuplicateGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, types.DuplicateGroup{
			Kind:     kind,
			Key:      key,
			Entities: buckets[key],
		})
	}
	return groups
}
