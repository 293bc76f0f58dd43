package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/forbin-capital/forbin-go/internal/api"
	"github.com/forbin-capital/forbin-go/internal/archive"
	"github.com/forbin-capital/forbin-go/internal/config"
	"github.com/forbin-capital/forbin-go/internal/database"
	"github.com/forbin-capital/forbin-go/internal/model"
	"github.com/forbin-capital/forbin-go/internal/poller"
)

var errUsage = errors.New("invalid usage")

var resourceAliases = map[string]string{
	"challenges":    model.ChallengesRoute,
	"groundtruths":  model.GroundTruthsRoute,
	"ground_truths": model.GroundTruthsRoute,
	"submissions":   model.SubmissionsRoute,
	"transactions":  model.TransactionsRoute,
	"datasets":      model.DatasetsRoute,
}

func resourceNames() string {
	return strings.Join([]string{
		model.ChallengesRoute,
		model.GroundTruthsRoute,
		model.SubmissionsRoute,
		model.TransactionsRoute,
		model.DatasetsRoute,
	}, ", ")
}

func run(ctx context.Context, cfg *config.Config, c *api.Client, args []string, out io.Writer, logger *slog.Logger) error {
	switch args[0] {
	case "list":
		if len(args) != 2 {
			return fmt.Errorf("%w: list <resource>", errUsage)
		}
		items, err := fetchAll(ctx, c, args[1])
		if err != nil {
			return err
		}
		bodies, err := encodeAll(items)
		if err != nil {
			return err
		}
		return writeJSON(out, bodies)

	case "get":
		if len(args) != 3 {
			return fmt.Errorf("%w: get <resource> <id>", errUsage)
		}
		item, err := fetchOne(ctx, c, args[1], model.ID(args[2]))
		if err != nil {
			return err
		}
		body, err := api.MarshalResource(item)
		if err != nil {
			return err
		}
		return writeJSON(out, json.RawMessage(body))

	case "archive":
		return runArchive(ctx, cfg, c, out, logger)

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func lookupRoute(name string) (string, error) {
	route, ok := resourceAliases[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: unknown resource %q (want one of %s)", errUsage, name, resourceNames())
	}
	return route, nil
}

func fetchAll(ctx context.Context, c *api.Client, name string) ([]model.Resource, error) {
	route, err := lookupRoute(name)
	if err != nil {
		return nil, err
	}

	switch route {
	case model.ChallengesRoute:
		return asResources(c.Challenges(ctx))
	case model.GroundTruthsRoute:
		return asResources(c.GroundTruths(ctx))
	case model.SubmissionsRoute:
		return asResources(c.Submissions(ctx))
	case model.TransactionsRoute:
		return asResources(c.Transactions(ctx))
	default:
		return asResources(c.Datasets(ctx))
	}
}

func fetchOne(ctx context.Context, c *api.Client, name string, id model.ID) (model.Resource, error) {
	route, err := lookupRoute(name)
	if err != nil {
		return nil, err
	}

	switch route {
	case model.ChallengesRoute:
		return asResource(c.Challenge(ctx, id))
	case model.GroundTruthsRoute:
		return asResource(c.GroundTruth(ctx, id))
	case model.SubmissionsRoute:
		return asResource(c.Submission(ctx, id))
	case model.TransactionsRoute:
		return asResource(c.Transaction(ctx, id))
	default:
		return asResource(c.Dataset(ctx, id))
	}
}

func asResources[T any, PT interface {
	*T
	model.Resource
}](items []T, err error) ([]model.Resource, error) {
	if err != nil {
		return nil, err
	}
	out := make([]model.Resource, len(items))
	for i := range items {
		out[i] = PT(&items[i])
	}
	return out, nil
}

func asResource[T any, PT interface {
	*T
	model.Resource
}](item *T, err error) (model.Resource, error) {
	if err != nil {
		return nil, err
	}
	return PT(item), nil
}

// encodeAll renders resources in their wire form.
func encodeAll(items []model.Resource) ([]json.RawMessage, error) {
	bodies := make([]json.RawMessage, len(items))
	for i, item := range items {
		body, err := api.MarshalResource(item)
		if err != nil {
			return nil, err
		}
		bodies[i] = body
	}
	return bodies, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runArchive(ctx context.Context, cfg *config.Config, c *api.Client, out io.Writer, logger *slog.Logger) error {
	if !cfg.Archive.Enabled {
		return errors.New("archive is disabled (set archive.enabled in config)")
	}

	logger.Debug("connecting archive database", "dsn", database.RedactedConnString(cfg.Archive.Database))
	pool, err := database.Connect(ctx, cfg.Archive.Database)
	if err != nil {
		return fmt.Errorf("connect archive database: %w", err)
	}
	defer pool.Close()

	store := archive.NewStore(pool, logger)
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	archiver := archive.NewArchiver(c, store, logger)
	if cfg.Archive.Interval > 0 {
		return runArchiveLoop(ctx, cfg.Archive, archiver, out, logger)
	}

	passCtx, cancel := context.WithTimeout(ctx, cfg.Archive.Timeout)
	defer cancel()

	res, err := archiver.Run(passCtx)
	if err != nil {
		return err
	}
	return printResult(out, res)
}

// runArchiveLoop archives on every interval until ctx is cancelled.
func runArchiveLoop(ctx context.Context, cfg config.ArchiveConfig, runner poller.Runner, out io.Writer, logger *slog.Logger) error {
	p := poller.New(poller.Config{
		Interval: cfg.Interval,
		Timeout:  cfg.Timeout,
	}, runner, poller.ResultHandlerFunc(func(res archive.Result) {
		if err := printResult(out, res); err != nil {
			logger.Warn("failed to print archive result", "err", err)
		}
	}), logger)

	if err := p.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	return p.Stop(stopCtx)
}

func printResult(out io.Writer, res archive.Result) error {
	_, err := fmt.Fprintf(out, "run %s at %s: %d records written\n",
		res.RunID, res.TakenAt.Format("2006-01-02T15:04:05Z07:00"), res.Written)
	return err
}
