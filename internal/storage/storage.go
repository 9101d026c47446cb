package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/lorekeep/lorekeep/internal/storage/sqlite"
	"github.com/lorekeep/lorekeep/internal/types"
)

// EntityStore is the per-collection adapter contract the integrity engine
// runs against. One instance serves exactly one entity kind.
type EntityStore interface {
	// List returns the full current set of the collection's entities in
	// stable store order. Each call is a fresh point-in-time snapshot.
	List(ctx context.Context) ([]types.Entity, error)

	// Delete removes one entity by id. Deleting an id that no longer
	// exists must be a silent no-op; the cleanup executor relies on that
	// tolerance for its failure-isolation policy.
	Delete(ctx context.Context, id string) error
}

// Registry binds every entity kind to exactly one EntityStore. The binding
// is fixed at construction: a missing kind is a wiring error surfaced by
// NewRegistry, never a runtime lookup miss. There are no ambient cached
// singletons — callers construct a registry and thread it into the engine.
type Registry struct {
	stores map[types.Kind]EntityStore
	closer io.Closer
}

// NewRegistry builds a registry from a complete kind-to-store mapping.
// Every supported kind must be present.
func NewRegistry(stores map[types.Kind]EntityStore) (*Registry, error) {
	for _, kind := range types.AllKinds() {
		if stores[kind] == nil {
			return nil, fmt.Errorf("no store adapter for kind %q", kind)
		}
	}
	for kind := range stores {
		if !kind.IsValid() {
			return nil, fmt.Errorf("unknown entity kind: %q", kind)
		}
	}
	copied := make(map[types.Kind]EntityStore, len(stores))
	for kind, store := range stores {
		copied[kind] = store
	}
	return &Registry{stores: copied}, nil
}

// For returns the store adapter bound to the given kind.
func (r *Registry) For(kind types.Kind) EntityStore {
	return r.stores[kind]
}

// Close releases the backing store, if the registry owns one.
func (r *Registry) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Config holds store configuration
type Config struct {
	// Path is the SQLite database file path
	// Default: ".lorekeep/lorekeep.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".lorekeep/lorekeep.db",
	}
}

// Open wires the SQLite backend into a full registry: every kind bound to
// its per-kind view of one database. Closing the registry closes the
// database.
func Open(ctx context.Context, cfg *Config) (*Registry, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}

	db, err := sqlite.Open(ctx, cfg.Path)
	if err != nil {
		return nil, err
	}

	stores := make(map[types.Kind]EntityStore, len(types.AllKinds()))
	for _, kind := range types.AllKinds() {
		stores[kind] = db.ForKind(kind)
	}
	reg, err := NewRegistry(stores)
	if err != nil {
		db.Close()
		return nil, err
	}
	reg.closer = db
	return reg, nil
}
