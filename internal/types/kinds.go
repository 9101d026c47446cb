package types

import "fmt"

// Kind identifies one of the fixed entity collections managed by Lorekeep.
// The set is closed: every kind is bound to exactly one store adapter at
// construction time, so an unsupported kind is a wiring error, not a
// runtime lookup miss.
type Kind string

const (
	KindCharacter Kind = "characters"
	KindLocation  Kind = "locations"
	KindItem      Kind = "items"
	KindEvent     Kind = "events"
	KindSession   Kind = "sessions"
	KindFaction   Kind = "factions"
	KindStoryArc  Kind = "story_arcs"
	KindNote      Kind = "notes"
	KindWorld     Kind = "worlds"
	KindCampaign  Kind = "campaigns"
)

// allKinds is the fixed registry order. Cleanup, preview, and audit all
// iterate collections in this order, which makes report aggregation
// deterministic regardless of any listing fan-out.
var allKinds = []Kind{
	KindCharacter,
	KindLocation,
	KindItem,
	KindEvent,
	KindSession,
	KindFaction,
	KindStoryArc,
	KindNote,
	KindWorld,
	KindCampaign,
}

// AllKinds returns every supported entity kind in registry order.
// The returned slice is a copy; callers may reorder it freely.
func AllKinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// IsValid checks if the kind is one of the supported collections
func (k Kind) IsValid() bool {
	switch k {
	case KindCharacter, KindLocation, KindItem, KindEvent, KindSession,
		KindFaction, KindStoryArc, KindNote, KindWorld, KindCampaign:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a collection name into a Kind, rejecting unknown names.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown entity kind: %q", s)
	}
	return k, nil
}

// kindAttrs declares, per kind, the type-specific attribute names that count
// toward an entity's completeness score. Scoring iterates this list rather
// than every runtime key so incidental bookkeeping fields (sync markers,
// cached counters, UI state) cannot skew canonical selection.
var kindAttrs = map[Kind][]string{
	KindCharacter: {"race", "class", "level", "alignment", "backstory", "portrait_url"},
	KindLocation:  {"region", "terrain", "population", "description", "map_url"},
	KindItem:      {"rarity", "item_type", "value", "description", "attunement"},
	KindEvent:     {"date", "location_id", "description", "outcome"},
	KindSession:   {"number", "date", "summary", "recap", "duration_minutes"},
	KindFaction:   {"alignment", "leader_id", "goals", "description"},
	KindStoryArc:  {"status", "summary", "resolution", "act"},
	KindNote:      {"body", "category", "pinned"},
	KindWorld:     {"genre", "description", "calendar", "cover_url"},
	KindCampaign:  {"world_id", "status", "description", "start_date"},
}

// AttrSchema returns the declared extra attribute names for a kind, in a
// stable order. Unknown kinds return nil.
func AttrSchema(k Kind) []string {
	attrs, ok := kindAttrs[k]
	if !ok {
		return nil
	}
	out := make([]string, len(attrs))
	copy(out, attrs)
	return out
}
