package types

import (
	"fmt"
	"strings"
)

// Entity is one record from a campaign collection. Every core field is
// optional in the store: the CRUD layer that writes these records has
// evolved independently per collection, so the integrity engine must
// tolerate any of them being absent. Type-specific fields ride along in
// Attrs and are interpreted only through the kind's declared schema.
type Entity struct {
	ID                string            `json:"id,omitempty" yaml:"id,omitempty"`
	Name              string            `json:"name,omitempty" yaml:"name,omitempty"`
	Title             string            `json:"title,omitempty" yaml:"title,omitempty"`
	CreatedAt         string            `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt         string            `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	CreatedBy         string            `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	UserID            string            `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	RelationshipCount int               `json:"relationship_count,omitempty" yaml:"relationship_count,omitempty"`
	Attrs             map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// DisplayName returns the identity used for duplicate matching:
// name, falling back to title, falling back to id.
func (e *Entity) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	if e.Title != "" {
		return e.Title
	}
	return e.ID
}

// UnnamedKey is the duplicate key assigned to entities with no name, title,
// or id. Unrelated entities can collapse into this bucket and be reported
// as duplicates of each other; callers that surface duplicate groups should
// flag this key as a known false-positive source.
const UnnamedKey = "unnamed"

// DuplicateKey computes the normalized identity key used to group
// duplicates: lowercased, whitespace-trimmed display name. Entities whose
// display name is empty (or whitespace only) share the UnnamedKey bucket.
func (e *Entity) DuplicateKey() string {
	key := strings.ToLower(strings.TrimSpace(e.DisplayName()))
	if key == "" {
		return UnnamedKey
	}
	return key
}

// HasOwner reports whether the entity carries any ownership reference.
// Collections written by older clients use created_by; newer ones user_id.
func (e *Entity) HasOwner() bool {
	return e.CreatedBy != "" || e.UserID != ""
}

// Attr returns the named type-specific attribute, or "" when absent.
func (e *Entity) Attr(name string) string {
	if e.Attrs == nil {
		return ""
	}
	return e.Attrs[name]
}

func (e *Entity) String() string {
	return fmt.Sprintf("Entity{ID: %s, Name: %q}", e.ID, e.DisplayName())
}
