package store

// SchemaVersion is the current library schema version
const SchemaVersion = 3

const schema = `
-- Patterns table
CREATE TABLE IF NOT EXISTS patterns (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL CHECK(type IN ('individual', 'allTogether', 'doubleFaced')),
    holes INTEGER NOT NULL,
    tablets INTEGER NOT NULL,
    row_count INTEGER NOT NULL,
    body TEXT NOT NULL,
    source_path TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Tags table
CREATE TABLE IF NOT EXISTS pattern_tags (
    pattern_id TEXT NOT NULL,
    tag TEXT NOT NULL,
    PRIMARY KEY (pattern_id, tag),
    FOREIGN KEY (pattern_id) REFERENCES patterns(id) ON DELETE CASCADE
);

-- Schema info table
CREATE TABLE IF NOT EXISTS schema_info (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_patterns_name ON patterns(name COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_patterns_updated ON patterns(updated_at);
CREATE INDEX IF NOT EXISTS idx_pattern_tags_tag ON pattern_tags(tag);
`

// Migration defines a library schema migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations lists every schema change after version 1, in order.
var Migrations = []Migration{
	{
		Version:     2,
		Description: "Add pattern tags",
		SQL: `CREATE TABLE IF NOT EXISTS pattern_tags (
    pattern_id TEXT NOT NULL,
    tag TEXT NOT NULL,
    PRIMARY KEY (pattern_id, tag),
    FOREIGN KEY (pattern_id) REFERENCES patterns(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_pattern_tags_tag ON pattern_tags(tag);`,
	},
	{
		Version:     3,
		Description: "Track the file a pattern was imported from",
		SQL:         `ALTER TABLE patterns ADD COLUMN source_path TEXT NOT NULL DEFAULT '';`,
	},
}
