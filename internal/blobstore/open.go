// internal/blobstore/open.go
package blobstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"bunkhaus/internal/config"
)

// Open builds the configured blob store and returns a cleanup function
// for any underlying resources.
func Open(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), func() {}, nil
	case config.BackendFile:
		store, err := NewFile(cfg.BlobDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		store := NewPostgres(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}
