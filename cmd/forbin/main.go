package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/forbin-capital/forbin-go/internal/api"
	"github.com/forbin-capital/forbin-go/internal/config"
	"github.com/forbin-capital/forbin-go/internal/version"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: forbin [-config path] [-env path] <command> [args]

Commands:
  version                 print build information
  list <resource>         print every record of a collection as JSON
  get <resource> <id>     print one record as JSON
  archive                 store a snapshot of all collections in PostgreSQL
                          (repeats every archive.interval when set)

Resources: %s

Flags:
`, resourceNames())
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "forbin.yaml", "path to config file")
	envPath := flag.String("env", ".env", "dotenv file loaded before the config (skipped if absent)")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if args[0] == "version" {
		fmt.Println(version.String())
		return
	}

	if err := config.LoadEnvFile(*envPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	logger.Debug("starting forbin",
		"version", version.Version,
		"commit", version.Commit,
		"release", version.IsRelease(),
		"config", *configPath,
		"endpoint", cfg.API.Endpoint,
	)

	// Cancel in-flight requests on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := api.Connect(ctx,
		cfg.API.Endpoint,
		cfg.API.Username,
		cfg.API.Password,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to log in", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, client, args, os.Stdout, logger); err != nil {
		logger.Error("command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

// newLogger builds the slog handler selected by config.
func newLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}
