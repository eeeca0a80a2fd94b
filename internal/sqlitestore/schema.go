package sqlitestore

import "context"

// schema is the fixed table set created on first write-open of a repository
// database (spec.md §3/§4.3). There are no migrations: this is the entire
// schema, forever, for every repository.
const schema = `
CREATE TABLE IF NOT EXISTS builds (
	"commit"    TEXT NOT NULL,
	name        TEXT NOT NULL,
	source      INTEGER NOT NULL,
	timestamp   INTEGER NOT NULL,
	successful  INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	PRIMARY KEY ("commit", name, source, timestamp)
) WITHOUT ROWID, STRICT;

CREATE TABLE IF NOT EXISTS commits (
	"commit"          TEXT NOT NULL,
	build_name        TEXT NOT NULL,
	build_source      INTEGER NOT NULL,
	builds            INTEGER NOT NULL,
	builds_successful INTEGER NOT NULL,
	builds_failed     INTEGER NOT NULL,
	timestamp         INTEGER NOT NULL,
	PRIMARY KEY ("commit", build_name, build_source)
) WITHOUT ROWID, STRICT;

CREATE TABLE IF NOT EXISTS imports (
	timestamp INTEGER NOT NULL PRIMARY KEY
) WITHOUT ROWID, STRICT;

CREATE TABLE IF NOT EXISTS hooks (
	timestamp INTEGER NOT NULL,
	type      INTEGER NOT NULL,
	"commit"  TEXT NOT NULL,
	PRIMARY KEY (timestamp, type)
) WITHOUT ROWID, STRICT;

CREATE INDEX IF NOT EXISTS idx_hooks_commit ON hooks("commit");
`

// applySchema creates the fixed table set. Idempotent across opens: every
// statement uses IF NOT EXISTS, matching the teacher's schema.up convention
// of a single batched DDL script run unconditionally on every write-open.
func applySchema(ctx context.Context, exec execContext) error {
	_, err := exec.ExecContext(ctx, schema)
	return err
}
