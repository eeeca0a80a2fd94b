package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/buildsignal/statusstore/internal/types"
)

// Tx exposes the write-side operations available inside one transaction
// (spec.md §4.4). All four operate within one *sql.Tx and commit atomically
// on the caller's success; any error aborts every write in the transaction.
type Tx struct {
	tx *sql.Tx
}

// UpsertBuilds inserts or updates builds by their (commit, name, source,
// timestamp) identity, overwriting only the mutable columns on conflict.
func (t *Tx) UpsertBuilds(ctx context.Context, builds []types.Build) error {
	if len(builds) == 0 {
		return nil
	}
	stmt, err := t.tx.PrepareContext(ctx, `
		INSERT INTO builds ("commit", name, source, timestamp, successful, failed, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT("commit", name, source, timestamp) DO UPDATE SET
			successful = excluded.successful,
			failed = excluded.failed,
			duration_ms = excluded.duration_ms
	`)
	if err != nil {
		return errStorage("prepare upsert builds", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range builds {
		if _, err := stmt.ExecContext(ctx, b.Commit, b.Name, int32(b.Source), b.Timestamp,
			b.Successful, b.Failed, b.DurationMs); err != nil {
			return errStorage("upsert build", err)
		}
	}
	return nil
}

// UpsertCommits inserts or updates commit rollups by their (commit,
// build_name, build_source) identity, overwriting counts and timestamp on
// conflict.
func (t *Tx) UpsertCommits(ctx context.Context, commits []types.Commit) error {
	if len(commits) == 0 {
		return nil
	}
	stmt, err := t.tx.PrepareContext(ctx, `
		INSERT INTO commits ("commit", build_name, build_source, builds, builds_successful, builds_failed, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT("commit", build_name, build_source) DO UPDATE SET
			builds = excluded.builds,
			builds_successful = excluded.builds_successful,
			builds_failed = excluded.builds_failed,
			timestamp = excluded.timestamp
	`)
	if err != nil {
		return errStorage("prepare upsert commits", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range commits {
		if _, err := stmt.ExecContext(ctx, c.Commit, c.BuildName, int32(c.BuildSource),
			c.Builds, c.BuildsSuccessful, c.BuildsFailed, c.Timestamp); err != nil {
			return errStorage("upsert commit", err)
		}
	}
	return nil
}

// AppendImport records completion of a batch import at timestamp. The
// maximum timestamp across all import rows is the "last import watermark"
// consumed by the incremental resume protocol (spec.md §4.8).
func (t *Tx) AppendImport(ctx context.Context, timestamp int64) error {
	_, err := t.tx.ExecContext(ctx, `INSERT INTO imports (timestamp) VALUES (?)`, timestamp)
	if err != nil {
		return errStorage("append import marker", err)
	}
	return nil
}

// AppendHook records a single webhook-derived signal. A hook with an
// identity (timestamp, type) clash returns Duplicate, which callers treat
// as benign (spec.md §4.4).
func (t *Tx) AppendHook(ctx context.Context, hook types.Hook) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO hooks (timestamp, type, "commit") VALUES (?, ?, ?)`,
		hook.Timestamp, int32(hook.Type), hook.Commit)
	if err != nil {
		if isUniqueViolation(err) {
			return errDuplicate(err)
		}
		return errStorage("append hook", err)
	}
	return nil
}

// isUniqueViolation recognizes SQLite's constraint-violation message shape
// without depending on the driver's internal error types, which differ
// between the CGo and pure-Go SQLite drivers.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY constraint failed")
}

// WithTransaction runs fn inside a single transaction on repositoryID's
// write handle, serialized against every other write to that repository
// (spec.md §4.4/§5). fn's error rolls the transaction back; its success
// commits atomically.
func (p *Pool) WithTransaction(ctx context.Context, repositoryID string, fn func(*Tx) error) error {
	handle, err := p.writeHandle(ctx, repositoryID)
	if err != nil {
		return err
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()

	sqlTx, err := handle.db.BeginTx(ctx, nil)
	if err != nil {
		return errStorage("begin transaction", err)
	}

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errStorage("rollback after error", errors.Join(err, rbErr))
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return errStorage("commit transaction", err)
	}
	return nil
}
