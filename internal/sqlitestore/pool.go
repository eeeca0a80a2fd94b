package sqlitestore

import (
	"context"
	"database/sql"
	"sync"
)

// writeHandle pairs a repository's single write connection with the mutex
// that serializes transactions against it (spec.md §5: writes to one
// repository never interleave, writes to different repositories never
// block each other).
type writeHandle struct {
	db *sql.DB
	mu sync.Mutex
}

// Pool caches one read-write and one read-only *sql.DB per repository,
// opened lazily on first use and kept open for the life of the process
// (spec.md §4.6). A repository's write handle also owns schema
// initialization: the first write ever made to a repository is what
// creates its database file and tables.
type Pool struct {
	dir string

	mu      sync.Mutex
	writers map[string]*writeHandle
	readers map[string]*sql.DB
}

// NewPool returns a Pool rooted at dir, the directory holding one SQLite
// file per repository (STORE_DIR in the ambient configuration).
func NewPool(dir string) *Pool {
	return &Pool{
		dir:     dir,
		writers: make(map[string]*writeHandle),
		readers: make(map[string]*sql.DB),
	}
}

// writeHandle returns the cached write handle for repositoryID, opening and
// schema-initializing it on first use.
func (p *Pool) writeHandle(ctx context.Context, repositoryID string) (*writeHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.writers[repositoryID]; ok {
		return h, nil
	}
	db, err := openWrite(ctx, p.dir, repositoryID)
	if err != nil {
		return nil, err
	}
	h := &writeHandle{db: db}
	p.writers[repositoryID] = h
	return h, nil
}

// readDB returns the cached read-only handle for repositoryID, opening it
// on first use. It does not create the database: a repository with no
// prior write surfaces NotInitialized here, per spec.md §4.6.
func (p *Pool) readDB(repositoryID string) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if db, ok := p.readers[repositoryID]; ok {
		return db, nil
	}
	db, err := openRead(repositoryID, p.dir)
	if err != nil {
		return nil, err
	}
	p.readers[repositoryID] = db
	return db, nil
}

// Close closes every cached handle. Intended for graceful shutdown only;
// the Pool is unusable afterward.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for _, h := range p.writers {
		if err := h.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, db := range p.readers {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
