// Package sqlitestore is the per-repository storage engine: schema
// management, the write path (upsert/append, transactional), and the read
// path (parameterized aggregate queries), all backed by an embedded SQLite
// database, one file per repository (spec.md §3-§4.6).
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// execContext is the subset of *sql.DB / *sql.Tx used by applySchema, so it
// can run against either a fresh connection or inside a transaction.
type execContext interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func dbPath(dir, repositoryID string) string {
	return filepath.Join(dir, repositoryID+".db")
}

// writeDSN enables WAL journaling, a busy timeout, and synchronous=NORMAL
// on the single read-write handle for a repository.
func writeDSN(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)&_pragma=synchronous(normal)",
		path,
	)
}

// readDSN opens the same file read-only, per spec.md §4.6: reads never
// trigger schema creation and never block on the write lock.
func readDSN(path string) string {
	return fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)&immutable=0", path)
}

// openWrite opens (creating the directory if needed) and schema-initializes
// the read-write handle for one repository.
func openWrite(ctx context.Context, dir, repositoryID string) (*sql.DB, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errStorage("create store directory", err)
	}
	path := dbPath(dir, repositoryID)
	db, err := sql.Open("sqlite3", writeDSN(path))
	if err != nil {
		return nil, errStorage("open write handle", err)
	}
	db.SetMaxOpenConns(1) // one writer per repository; transactions serialize the rest
	if err := applySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, errStorage("apply schema", err)
	}
	return db, nil
}

// openRead opens the read-only handle for one repository. If the file does
// not exist, this surfaces as NotInitialized (spec.md §4.6) rather than a
// raw driver error.
func openRead(repositoryID, dir string) (*sql.DB, error) {
	path := dbPath(dir, repositoryID)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errNotInitialized(repositoryID)
		}
		return nil, errStorage("stat database file", err)
	}
	db, err := sql.Open("sqlite3", readDSN(path))
	if err != nil {
		return nil, errStorage("open read handle", err)
	}
	return db, nil
}
