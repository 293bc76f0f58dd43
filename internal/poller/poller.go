package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/forbin-capital/forbin-go/internal/archive"
)

// Runner performs one archive pass. *archive.Archiver satisfies it.
type Runner interface {
	Run(ctx context.Context) (archive.Result, error)
}

// ResultHandler receives the outcome of every successful pass.
type ResultHandler interface {
	HandleResult(res archive.Result)
}

// ResultHandlerFunc is a function adapter for ResultHandler.
type ResultHandlerFunc func(archive.Result)

func (f ResultHandlerFunc) HandleResult(res archive.Result) {
	f(res)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // time between passes (default: 1h)
	Timeout  time.Duration // per-pass timeout (default: 5m)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: time.Hour,
		Timeout:  5 * time.Minute,
	}
}

// Stats counts passes since Start.
type Stats struct {
	Runs   int64
	Errors int64
}

// Poller periodically runs archive passes.
type Poller struct {
	cfg     Config
	runner  Runner
	handler ResultHandler
	logger  *slog.Logger

	runs   atomic.Int64
	errors atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller. Zero config fields take DefaultConfig values.
func New(cfg Config, runner Runner, handler ResultHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Poller{
		cfg:     cfg,
		runner:  runner,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("archive poller started",
		"interval", p.cfg.Interval,
		"timeout", p.cfg.Timeout,
	)

	return nil
}

// Stop cancels the loop and waits for an in-flight pass to finish.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("archive poller stopped",
			"runs", p.runs.Load(),
			"errors", p.errors.Load(),
		)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns pass counters.
func (p *Poller) Stats() Stats {
	return Stats{Runs: p.runs.Load(), Errors: p.errors.Load()}
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.pollOnce()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce()
		}
	}
}

func (p *Poller) pollOnce() {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	start := time.Now()
	p.runs.Add(1)

	res, err := p.runner.Run(ctx)
	if err != nil {
		if p.ctx.Err() != nil {
			return
		}
		p.errors.Add(1)
		p.logger.Warn("archive pass failed", "err", err, "duration", time.Since(start))
		return
	}

	p.logger.Info("archive pass complete",
		"run_id", res.RunID,
		"written", res.Written,
		"duration", time.Since(start),
	)

	if p.handler != nil {
		p.handler.HandleResult(res)
	}
}
