package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/forbin-capital/forbin-go/internal/archive"
)

type runnerFunc func(ctx context.Context) (archive.Result, error)

func (f runnerFunc) Run(ctx context.Context) (archive.Result, error) {
	return f(ctx)
}

func TestPoller_RunsImmediately(t *testing.T) {
	var calls atomic.Int32
	runner := runnerFunc(func(ctx context.Context) (archive.Result, error) {
		calls.Add(1)
		return archive.Result{RunID: uuid.New(), Written: 3}, nil
	})

	results := make(chan archive.Result, 1)
	handler := ResultHandlerFunc(func(res archive.Result) {
		select {
		case results <- res:
		default:
		}
	})

	p := New(Config{Interval: time.Hour, Timeout: time.Second}, runner, handler, nil)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case res := <-results:
		if res.Written != 3 {
			t.Errorf("Written = %d, want 3", res.Written)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first pass")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("runner called %d times, want 1", got)
	}
}

func TestPoller_RunsOnEachTick(t *testing.T) {
	var calls atomic.Int32
	runner := runnerFunc(func(ctx context.Context) (archive.Result, error) {
		calls.Add(1)
		return archive.Result{}, nil
	})

	p := New(Config{Interval: 10 * time.Millisecond, Timeout: time.Second}, runner, nil, nil)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if got := calls.Load(); got < 3 {
		t.Errorf("runner called %d times, want at least 3", got)
	}
}

func TestPoller_CountsErrors(t *testing.T) {
	done := make(chan struct{})
	var once atomic.Bool
	runner := runnerFunc(func(ctx context.Context) (archive.Result, error) {
		if once.CompareAndSwap(false, true) {
			defer close(done)
		}
		return archive.Result{}, errors.New("fetch collections: boom")
	})

	var handled atomic.Int32
	handler := ResultHandlerFunc(func(archive.Result) { handled.Add(1) })

	p := New(Config{Interval: time.Hour, Timeout: time.Second}, runner, handler, nil)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pass")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	stats := p.Stats()
	if stats.Runs != 1 || stats.Errors != 1 {
		t.Errorf("Stats = %+v, want 1 run and 1 error", stats)
	}
	if handled.Load() != 0 {
		t.Error("handler called for a failed pass")
	}
}

func TestPoller_PassTimeout(t *testing.T) {
	deadlines := make(chan bool, 1)
	runner := runnerFunc(func(ctx context.Context) (archive.Result, error) {
		_, ok := ctx.Deadline()
		select {
		case deadlines <- ok:
		default:
		}
		return archive.Result{}, nil
	})

	p := New(Config{Interval: time.Hour, Timeout: time.Second}, runner, nil, nil)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case ok := <-deadlines:
		if !ok {
			t.Error("pass context has no deadline")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pass")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	p.Stop(ctx)
}

func TestNew_Defaults(t *testing.T) {
	p := New(Config{}, runnerFunc(nil), nil, nil)
	if p.cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want %+v", p.cfg, DefaultConfig())
	}
}
