package archive

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/forbin-capital/forbin-go/internal/model"
)

type fakeSource struct {
	challenges   []model.Challenge
	groundTruths []model.GroundTruth
	submissions  []model.Submission
	transactions []model.Transaction
	datasets     []model.Dataset
	failOn       string
}

func (f *fakeSource) fail(name string) error {
	if f.failOn == name {
		return errors.New(name + " unavailable")
	}
	return nil
}

func (f *fakeSource) Challenges(ctx context.Context) ([]model.Challenge, error) {
	return f.challenges, f.fail("challenges")
}

func (f *fakeSource) GroundTruths(ctx context.Context) ([]model.GroundTruth, error) {
	return f.groundTruths, f.fail("groundtruths")
}

func (f *fakeSource) Submissions(ctx context.Context) ([]model.Submission, error) {
	return f.submissions, f.fail("submissions")
}

func (f *fakeSource) Transactions(ctx context.Context) ([]model.Transaction, error) {
	return f.transactions, f.fail("transactions")
}

func (f *fakeSource) Datasets(ctx context.Context) ([]model.Dataset, error) {
	return f.datasets, f.fail("datasets")
}

type fakeSink struct {
	mu    sync.Mutex
	saved []Snapshot
	err   error
}

func (f *fakeSink) Save(ctx context.Context, snap Snapshot) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.saved = append(f.saved, snap)
	return len(snap.Items), nil
}

func newTestArchiver(source Source, sink Sink) *Archiver {
	a := NewArchiver(source, sink, nil)
	a.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	a.newID = func() uuid.UUID { return uuid.MustParse("8f14e45f-ceea-467a-9af0-2b1d3c4e5f60") }
	return a
}

func TestArchiverRun(t *testing.T) {
	amount := decimal.NewFromInt(5)
	category := "bonus"
	source := &fakeSource{
		challenges:   []model.Challenge{{ID: "c1"}, {ID: "c2"}},
		groundTruths: []model.GroundTruth{{ID: "g1", ChallengeID: "c1"}},
		submissions:  []model.Submission{{ID: "s1", ChallengeID: "c1", UserID: "u1"}},
		transactions: []model.Transaction{{ID: "t1", UserID: "u1", Amount: &amount, Category: &category}},
		datasets:     []model.Dataset{{}},
	}
	sink := &fakeSink{}

	res, err := newTestArchiver(source, sink).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.RunID.String() != "8f14e45f-ceea-467a-9af0-2b1d3c4e5f60" {
		t.Errorf("RunID = %s", res.RunID)
	}
	if res.Written != 6 {
		t.Errorf("Written = %d, want 6", res.Written)
	}
	wantCounts := map[string]int{
		"challenges":   2,
		"groundtruths": 1,
		"submissions":  1,
		"transactions": 1,
		"datasets":     1,
	}
	for k, v := range wantCounts {
		if res.Counts[k] != v {
			t.Errorf("Counts[%s] = %d, want %d", k, res.Counts[k], v)
		}
	}

	if len(sink.saved) != 1 {
		t.Fatalf("saved %d snapshots, want 1", len(sink.saved))
	}
	snap := sink.saved[0]
	if !snap.TakenAt.Equal(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("TakenAt = %v", snap.TakenAt)
	}

	byKey := make(map[string]Item)
	for _, item := range snap.Items {
		byKey[item.Resource+"/"+item.RecordID] = item
	}

	tx, ok := byKey["transactions/t1"]
	if !ok {
		t.Fatalf("transactions/t1 missing from %v", byKey)
	}
	var body map[string]any
	if err := json.Unmarshal(tx.Body, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["category"] != "bonus" || body["amount"] != float64(5) {
		t.Errorf("transaction body = %v", body)
	}

	if _, ok := byKey["datasets/#0"]; !ok {
		t.Error("dataset without id should be keyed by position")
	}
}

func TestArchiverRunFetchError(t *testing.T) {
	source := &fakeSource{failOn: "submissions"}
	sink := &fakeSink{}

	_, err := newTestArchiver(source, sink).Run(context.Background())
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if len(sink.saved) != 0 {
		t.Error("nothing should be saved when a fetch fails")
	}
}

func TestArchiverRunSinkError(t *testing.T) {
	sinkErr := errors.New("db down")
	source := &fakeSource{challenges: []model.Challenge{{ID: "c1"}}}

	_, err := newTestArchiver(source, &fakeSink{err: sinkErr}).Run(context.Background())
	if !errors.Is(err, sinkErr) {
		t.Fatalf("error = %v, want wrapped %v", err, sinkErr)
	}
}
