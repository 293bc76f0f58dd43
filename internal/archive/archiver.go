package archive

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/forbin-capital/forbin-go/internal/api"
	"github.com/forbin-capital/forbin-go/internal/model"
)

// Archiver fetches all collections from a Source and writes them to a Sink.
type Archiver struct {
	source Source
	sink   Sink
	logger *slog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// NewArchiver creates an Archiver.
func NewArchiver(source Source, sink Sink, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{
		source: source,
		sink:   sink,
		logger: logger,
		now:    time.Now,
		newID:  uuid.New,
	}
}

// Run performs one archive pass.
func (a *Archiver) Run(ctx context.Context) (Result, error) {
	snap := Snapshot{
		RunID:   a.newID(),
		TakenAt: a.now().UTC(),
	}

	var (
		challenges   []model.Challenge
		groundTruths []model.GroundTruth
		submissions  []model.Submission
		transactions []model.Transaction
		datasets     []model.Dataset
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		challenges, err = a.source.Challenges(gctx)
		return err
	})
	g.Go(func() (err error) {
		groundTruths, err = a.source.GroundTruths(gctx)
		return err
	})
	g.Go(func() (err error) {
		submissions, err = a.source.Submissions(gctx)
		return err
	})
	g.Go(func() (err error) {
		transactions, err = a.source.Transactions(gctx)
		return err
	})
	g.Go(func() (err error) {
		datasets, err = a.source.Datasets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("fetch collections: %w", err)
	}

	counts := make(map[string]int)
	for _, add := range []func() ([]Item, error){
		func() ([]Item, error) { return collect(challenges) },
		func() ([]Item, error) { return collect(groundTruths) },
		func() ([]Item, error) { return collect(submissions) },
		func() ([]Item, error) { return collect(transactions) },
		func() ([]Item, error) { return collect(datasets) },
	} {
		items, err := add()
		if err != nil {
			return Result{}, err
		}
		for _, item := range items {
			counts[item.Resource]++
		}
		snap.Items = append(snap.Items, items...)
	}

	written, err := a.sink.Save(ctx, snap)
	if err != nil {
		return Result{}, fmt.Errorf("save snapshot %s: %w", snap.RunID, err)
	}

	a.logger.Info("archive run complete",
		"run_id", snap.RunID,
		"items", len(snap.Items),
		"written", written,
	)

	return Result{
		RunID:   snap.RunID,
		TakenAt: snap.TakenAt,
		Counts:  counts,
		Written: written,
	}, nil
}

// collect encodes each object in its wire form. Objects without an id are keyed by
// their position in the listing.
func collect[T any, PT interface {
	*T
	model.Resource
}](objects []T) ([]Item, error) {
	items := make([]Item, 0, len(objects))
	for i := range objects {
		r := PT(&objects[i])

		body, err := api.MarshalResource(r)
		if err != nil {
			return nil, fmt.Errorf("encode %s %d: %w", r.Subroute(), i, err)
		}

		id := r.Identity().String()
		if id == "" {
			id = "#" + strconv.Itoa(i)
		}

		items = append(items, Item{
			Resource: r.Subroute(),
			RecordID: id,
			Body:     body,
		})
	}
	return items, nil
}
