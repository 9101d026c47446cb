package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lorekeep/lorekeep/internal/types"
)

// DB is a SQLite-backed entity store. Per-collection adapters are views
// over one shared database, obtained via ForKind.
type DB struct {
	db *sql.DB
}

// Open creates or opens the entity database at path.
func Open(ctx context.Context, path string) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// WAL mode for better concurrency between the CRUD layer and
	// integrity runs.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// ForKind returns the per-collection adapter for one entity kind.
func (d *DB) ForKind(kind types.Kind) *KindStore {
	return &KindStore{db: d.db, kind: kind}
}

// KindStore is the store adapter for a single collection.
type KindStore struct {
	db   *sql.DB
	kind types.Kind
}

// List returns every entity of the collection in insertion (rowid) order.
func (s *KindStore) List(ctx context.Context) ([]types.Entity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, title, created_at, updated_at, created_by, user_id, relationship_count, attrs
		FROM entities WHERE kind = ? ORDER BY rowid
	`, string(s.kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.kind, err)
	}
	defer rows.Close()

	var entities []types.Entity
	for rows.Next() {
		var e types.Entity
		var attrs string
		if err := rows.Scan(&e.ID, &e.Name, &e.Title, &e.CreatedAt, &e.UpdatedAt,
			&e.CreatedBy, &e.UserID, &e.RelationshipCount, &attrs); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", s.kind, err)
		}
		if attrs != "" && attrs != "{}" {
			if err := json.Unmarshal([]byte(attrs), &e.Attrs); err != nil {
				return nil, fmt.Errorf("failed to decode attrs for %s/%s: %w", s.kind, e.ID, err)
			}
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.kind, err)
	}
	return entities, nil
}

// Delete removes one entity by id. Deleting a missing id is a no-op.
func (s *KindStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM entities WHERE kind = ? AND id = ?`, string(s.kind), id); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", s.kind, id, err)
	}
	return nil
}

// Put inserts or replaces one entity. Entities arriving without an id
// (exports from older clients) get a generated one. The integrity engine
// never calls Put; it exists for the import tool and tests.
func (s *KindStore) Put(ctx context.Context, e *types.Entity) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	attrs := "{}"
	if len(e.Attrs) > 0 {
		encoded, err := json.Marshal(e.Attrs)
		if err != nil {
			return fmt.Errorf("failed to encode attrs for %s/%s: %w", s.kind, e.ID, err)
		}
		attrs = string(encoded)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO entities
			(kind, id, name, title, created_at, updated_at, created_by, user_id, relationship_count, attrs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, string(s.kind), e.ID, e.Name, e.Title, e.CreatedAt, e.UpdatedAt,
		e.CreatedBy, e.UserID, e.RelationshipCount, attrs); err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", s.kind, e.ID, err)
	}
	return nil
}

// Count returns the number of entities in the collection.
func (s *KindStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entities WHERE kind = ?`, string(s.kind)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.kind, err)
	}
	return n, nil
}
