package sqlite

// schema is the database schema for entity storage. One table holds every
// collection, keyed by (kind, id); type-specific attributes live in the
// attrs JSON column. rowid preserves insertion order, which List exposes
// as the store's stable listing order.
const schema = `
CREATE TABLE IF NOT EXISTS entities (
	kind               TEXT NOT NULL,
	id                 TEXT NOT NULL,
	name               TEXT NOT NULL DEFAULT '',
	title              TEXT NOT NULL DEFAULT '',
	created_at         TEXT NOT NULL DEFAULT '',
	updated_at         TEXT NOT NULL DEFAULT '',
	created_by         TEXT NOT NULL DEFAULT '',
	user_id            TEXT NOT NULL DEFAULT '',
	relationship_count INTEGER NOT NULL DEFAULT 0,
	attrs              TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (kind, id)
);

CREATE INDEX IF NOT EXISTS idx_entities_kind ON entities(kind);
`
