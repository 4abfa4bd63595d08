package db

const (
	// SchemaV1 is version 1 of the blobstore component: a version table and a
	// single string-keyed blob table.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS wordcache_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS blobs (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);
`
)
