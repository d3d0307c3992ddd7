// internal/blobstore/postgres.go
package blobstore

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Postgres keeps blobs in a single key/value table. It is the durable
// backend for multi-host deployments; the file backend covers the
// single-box case.
type Postgres struct {
	db     *sql.DB
	tracer trace.Tracer
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{
		db:     db,
		tracer: otel.Tracer("bunkhaus/blobstore"),
	}
}

// EnsureSchema creates the blobs table when it does not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS blobs (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("create blobs table: %w", err)
	}
	return nil
}

func (p *Postgres) Save(ctx context.Context, key, value string) error {
	ctx, span := p.tracer.Start(ctx, "blobstore.save",
		trace.WithAttributes(
			attribute.String("blob.key", key),
			attribute.Int("blob.size", len(value)),
		),
	)
	defer span.End()

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	if err != nil {
		return fmt.Errorf("save blob %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context, key string) (string, bool, error) {
	ctx, span := p.tracer.Start(ctx, "blobstore.load",
		trace.WithAttributes(attribute.String("blob.key", key)),
	)
	defer span.End()

	var value string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load blob %q: %w", key, err)
	}
	span.SetAttributes(attribute.Int("blob.size", len(value)))
	return value, true, nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	ctx, span := p.tracer.Start(ctx, "blobstore.delete",
		trace.WithAttributes(attribute.String("blob.key", key)),
	)
	defer span.End()

	if _, err := p.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete blob %q: %w", key, err)
	}
	return nil
}
