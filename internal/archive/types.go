package archive

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/forbin-capital/forbin-go/internal/model"
)

// Source lists every collection. *api.Client satisfies it.
type Source interface {
	Challenges(ctx context.Context) ([]model.Challenge, error)
	GroundTruths(ctx context.Context) ([]model.GroundTruth, error)
	Submissions(ctx context.Context) ([]model.Submission, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
	Datasets(ctx context.Context) ([]model.Dataset, error)
}

// Sink persists a snapshot and returns the number of rows written.
type Sink interface {
	Save(ctx context.Context, snap Snapshot) (int, error)
}

// Snapshot is everything fetched by one archive run.
type Snapshot struct {
	RunID   uuid.UUID
	TakenAt time.Time
	Items   []Item
}

// Item is one archived record.
type Item struct {
	Resource string // subroute, e.g. "challenges"
	RecordID string
	Body     json.RawMessage
}

// Result summarizes an archive run.
type Result struct {
	RunID   uuid.UUID
	TakenAt time.Time
	Counts  map[string]int // items per resource
	Written int
}
