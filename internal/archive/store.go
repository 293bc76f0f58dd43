package archive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createSnapshotsTable = `
	CREATE TABLE IF NOT EXISTS forbin_snapshots (
		run_id    uuid        NOT NULL,
		resource  text        NOT NULL,
		record_id text        NOT NULL,
		taken_at  timestamptz NOT NULL,
		body      jsonb       NOT NULL,
		PRIMARY KEY (run_id, resource, record_id)
	)
`

const upsertSnapshotItem = `
	INSERT INTO forbin_snapshots (run_id, resource, record_id, taken_at, body)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (run_id, resource, record_id)
	DO UPDATE SET taken_at = EXCLUDED.taken_at, body = EXCLUDED.body
`

// Store writes snapshots to PostgreSQL.
type Store struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a Store over an open pool.
func NewStore(db *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Migrate creates the snapshot table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createSnapshotsTable); err != nil {
		return fmt.Errorf("create forbin_snapshots: %w", err)
	}
	return nil
}

// Save upserts every item of the snapshot in one batch.
func (s *Store) Save(ctx context.Context, snap Snapshot) (int, error) {
	if len(snap.Items) == 0 {
		return 0, nil
	}

	start := time.Now()
	batch := buildBatch(snap)

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for _, item := range snap.Items {
		ct, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("upsert %s %s: %w", item.Resource, item.RecordID, err)
		}
		written += int(ct.RowsAffected())
	}

	s.logger.Debug("saved snapshot",
		"run_id", snap.RunID,
		"count", written,
		"duration", time.Since(start),
	)

	return written, nil
}

// buildBatch queues one upsert per item.
func buildBatch(snap Snapshot) *pgx.Batch {
	runID := pgtype.UUID{Bytes: snap.RunID, Valid: true}

	batch := &pgx.Batch{}
	for _, item := range snap.Items {
		batch.Queue(upsertSnapshotItem, runID, item.Resource, item.RecordID, snap.TakenAt, []byte(item.Body))
	}
	return batch
}
