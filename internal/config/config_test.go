package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const validConfig = `
server:
  host: 127.0.0.1
  port: 8080
database:
  host: db.internal
  port: 5432
  name: repbook
  user: repbook
  password: hunter2
`

// TestLoadValidConfig verifies parsing a complete config file and the
// defaults applied for optional sections.
func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("db host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.State.Dir != "data" {
		t.Errorf("state dir = %q, want default data", cfg.State.Dir)
	}
	if cfg.State.Owner != "local" {
		t.Errorf("state owner = %q, want default local", cfg.State.Owner)
	}
	if cfg.Sync.ProbeIntervalSeconds != 30 {
		t.Errorf("probe interval = %d, want default 30", cfg.Sync.ProbeIntervalSeconds)
	}
}

// TestDSN verifies connection string assembly including the sslmode default.
func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, Name: "repbook", User: "u", Password: "p"}
	want := "postgres://u:p@localhost:5432/repbook?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}

	d.SSLMode = "require"
	if got := d.DSN(); !strings.HasSuffix(got, "sslmode=require") {
		t.Errorf("dsn = %q, want sslmode=require", got)
	}
}

// TestEnvOverrides verifies that REPBOOK_* environment variables take
// precedence over file values.
func TestEnvOverrides(t *testing.T) {
	t.Setenv("REPBOOK_SERVER_PORT", "9999")
	t.Setenv("REPBOOK_DB_PASSWORD", "from-env")
	t.Setenv("REPBOOK_STATE_OWNER", "alice")

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server port = %d, want 9999 from env", cfg.Server.Port)
	}
	if cfg.Database.Password != "from-env" {
		t.Errorf("db password = %q, want from-env", cfg.Database.Password)
	}
	if cfg.State.Owner != "alice" {
		t.Errorf("state owner = %q, want alice", cfg.State.Owner)
	}
}

// TestValidationErrors verifies missing required fields are rejected with a
// field-naming error.
func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errSub string
	}{
		{
			"missing server port",
			"database: {host: h, port: 5432, name: n, user: u}",
			"server.port",
		},
		{
			"missing db host",
			"server: {port: 8080}\ndatabase: {port: 5432, name: n, user: u}",
			"database.host",
		},
		{
			"tailscale without hostname",
			validConfig + "tailscale:\n  enabled: true\n",
			"tailscale.hostname",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error = %v, want mention of %s", err, tt.errSub)
			}
		})
	}
}

// TestLoadMissingFile verifies a readable error for a nonexistent path.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
