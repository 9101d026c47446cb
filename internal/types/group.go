package types

import "fmt"

// DuplicateGroup is a set of entities of one kind sharing a normalized
// identity key. The detector produces unresolved groups (Keep empty,
// Delete nil); resolution partitions Entities into one keeper and the
// losers slated for deletion.
type DuplicateGroup struct {
	Kind     Kind     `json:"kind"`
	Key      string   `json:"key"`
	Entities []Entity `json:"entities"`
	Keep     *Entity  `json:"keep,omitempty"`
	Delete   []Entity `json:"delete,omitempty"`
}

// Resolved reports whether a keeper has been selected for this group.
func (g *DuplicateGroup) Resolved() bool {
	return g.Keep != nil
}

// Validate checks the group's structural invariants. Groups of size 1 are
// never constructed; for resolved groups, {Keep} and Delete must be a total,
// disjoint partition of Entities.
func (g *DuplicateGroup) Validate() error {
	if !g.Kind.IsValid() {
		return fmt.Errorf("invalid kind: %q", g.Kind)
	}
	if g.Key == "" {
		return fmt.Errorf("duplicate key must not be empty")
	}
	if len(g.Entities) < 2 {
		return fmt.Errorf("duplicate group must contain at least 2 entities (got %d)", len(g.Entities))
	}
	if !g.Resolved() {
		if len(g.Delete) != 0 {
			return fmt.Errorf("unresolved group must not have delete entries (got %d)", len(g.Delete))
		}
		return nil
	}
	if len(g.Delete) != len(g.Entities)-1 {
		return fmt.Errorf("delete list must hold all non-keepers (got %d, want %d)",
			len(g.Delete), len(g.Entities)-1)
	}
	seen := make(map[string]int, len(g.Entities))
	for _, e := range g.Entities {
		seen[e.ID]++
	}
	if n := seen[g.Keep.ID]; n == 0 {
		return fmt.Errorf("keeper %s is not a member of the group", g.Keep.ID)
	}
	seen[g.Keep.ID]--
	for _, e := range g.Delete {
		if e.ID == g.Keep.ID {
			return fmt.Errorf("keeper %s also appears in the delete list", g.Keep.ID)
		}
		if seen[e.ID] == 0 {
			return fmt.Errorf("delete entry %s is not a member of the group", e.ID)
		}
		seen[e.ID]--
	}
	for id, n := range seen {
		if n != 0 {
			return fmt.Errorf("entity %s is in neither keep nor delete", id)
		}
	}
	return nil
}
