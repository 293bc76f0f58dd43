package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
api:
  endpoint: https://staging.forbin-capital.com/api
  username: alice
  password: secret
  timeout: 10s
log:
  level: debug
  format: json
archive:
  enabled: true
  database:
    host: localhost
    port: 5433
    name: forbin
    user: forbin
    password: dbpass
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.Endpoint != "https://staging.forbin-capital.com/api" {
		t.Errorf("API.Endpoint = %q", cfg.API.Endpoint)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
	if !cfg.Archive.Enabled || cfg.Archive.Database.Port != 5433 {
		t.Errorf("Archive = %+v", cfg.Archive)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_FORBIN_USER", "bob")
	t.Setenv("TEST_FORBIN_PASSWORD", "secret123")

	yaml := `
api:
  username: ${TEST_FORBIN_USER}
  password: ${TEST_FORBIN_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.Username != "bob" {
		t.Errorf("API.Username = %q, want %q", cfg.API.Username, "bob")
	}
	if cfg.API.Password != "secret123" {
		t.Errorf("API.Password = %q, want %q", cfg.API.Password, "secret123")
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("TEST_FORBIN_ENV_USER", "")
	os.Unsetenv("TEST_FORBIN_ENV_USER")
	t.Setenv("TEST_FORBIN_ENV_KEEP", "from-process")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "TEST_FORBIN_ENV_USER=carol\nTEST_FORBIN_ENV_KEEP=from-file\n"
	if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	if err := LoadEnvFile(envPath); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TEST_FORBIN_ENV_USER") })

	cfg, err := Parse([]byte("api:\n  username: ${TEST_FORBIN_ENV_USER}\n  password: ${TEST_FORBIN_ENV_KEEP}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.API.Username != "carol" {
		t.Errorf("API.Username = %q, want carol", cfg.API.Username)
	}
	if cfg.API.Password != "from-process" {
		t.Errorf("API.Password = %q, want existing variable to win", cfg.API.Password)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("LoadEnvFile on missing file: %v", err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Fatalf("LoadEnvFile with empty path: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("api: [unclosed")); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
api:
  username: alice
  password: secret
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.API.Endpoint != DefaultEndpoint {
		t.Errorf("API.Endpoint = %q, want default %q", cfg.API.Endpoint, DefaultEndpoint)
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("API.Timeout = %v, want default %v", cfg.API.Timeout, DefaultAPITimeout)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v, want defaults", cfg.Log)
	}
	if cfg.Archive.Database.Port != DefaultDBPort {
		t.Errorf("Archive.Database.Port = %d, want default %d", cfg.Archive.Database.Port, DefaultDBPort)
	}
	if cfg.Archive.Database.MaxConns != DefaultMaxConns {
		t.Errorf("Archive.Database.MaxConns = %d, want default %d", cfg.Archive.Database.MaxConns, DefaultMaxConns)
	}
}

func TestLoadAndValidate(t *testing.T) {
	path := writeTempFile(t, "api:\n  username: alice\n")

	if _, err := LoadAndValidate(path); err == nil {
		t.Fatal("expected validation error for missing password")
	}
}

func validConfig() Config {
	cfg := Config{
		API: APIConfig{Endpoint: "https://app.forbin-capital.com/api", Username: "alice", Password: "secret"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "relative endpoint",
			mutate:  func(c *Config) { c.API.Endpoint = "/api" },
			wantErr: `api.endpoint must be an absolute URL, got "/api"`,
		},
		{
			name:    "missing username",
			mutate:  func(c *Config) { c.API.Username = "" },
			wantErr: "api.username is required",
		},
		{
			name:    "missing password",
			mutate:  func(c *Config) { c.API.Password = "" },
			wantErr: "api.password is required",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: `log.level must be debug, info, warn or error, got "loud"`,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: `log.format must be text or json, got "xml"`,
		},
		{
			name:    "archive disabled skips database checks",
			mutate:  func(c *Config) { c.Archive.Enabled = false },
			wantErr: "",
		},
		{
			name:    "archive missing host",
			mutate:  func(c *Config) { c.Archive.Enabled = true },
			wantErr: "archive.database.host is required",
		},
		{
			name: "negative archive interval",
			mutate: func(c *Config) {
				c.Archive.Enabled = true
				c.Archive.Interval = -time.Minute
			},
			wantErr: "archive.interval must not be negative, got -1m0s",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *Config) {
				c.Archive.Enabled = true
				c.Archive.Database = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 2, MinConns: 5}
			},
			wantErr: "archive.database.min_conns (5) cannot exceed max_conns (2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	level, err := LogConfig{Level: "warn"}.SlogLevel()
	if err != nil {
		t.Fatalf("SlogLevel: %v", err)
	}
	if level != slog.LevelWarn {
		t.Errorf("SlogLevel() = %v, want %v", level, slog.LevelWarn)
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
