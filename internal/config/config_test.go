package config

import (
	"os"
	"path/filepath"
	"testing"
)

// cliWithPath returns a CLI struct pointing at the given config file.
func cliWithPath(path string) *CLI {
	return &CLI{Config: path}
}

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[server]
host = "127.0.0.1"
port = 9000
body_max_bytes = 5242880

[relay]
allowed_hosts = ["example.com"]
forward_headers = ["authorization"]
timeout_seconds = 60
echo_max_bytes = 1000

[log]
level = "debug"
format = "text"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cliWithPath(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9000)
	}
	if len(cfg.Relay.AllowedHosts) != 1 || cfg.Relay.AllowedHosts[0] != "example.com" {
		t.Errorf("Relay.AllowedHosts = %v, want [example.com]", cfg.Relay.AllowedHosts)
	}
	if cfg.Relay.TimeoutSeconds != 60 {
		t.Errorf("Relay.TimeoutSeconds = %d, want %d", cfg.Relay.TimeoutSeconds, 60)
	}
	if cfg.Relay.EchoMaxBytes != 1000 {
		t.Errorf("Relay.EchoMaxBytes = %d, want %d", cfg.Relay.EchoMaxBytes, 1000)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	// No --config and no file on the search paths: the relay must start
	// on documented defaults.
	cfg, err := Load(&CLI{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 3000)
	}
	if cfg.Relay.TimeoutSeconds != 120 {
		t.Errorf("Relay.TimeoutSeconds = %d, want %d", cfg.Relay.TimeoutSeconds, 120)
	}
	if cfg.Relay.EchoMaxBytes != 2000 {
		t.Errorf("Relay.EchoMaxBytes = %d, want %d", cfg.Relay.EchoMaxBytes, 2000)
	}
	if len(cfg.Relay.AllowedHosts) == 0 {
		t.Error("expected non-empty default allow-list")
	}
	if len(cfg.Relay.ForwardHeaders) != 4 {
		t.Errorf("Relay.ForwardHeaders = %v, want 4 defaults", cfg.Relay.ForwardHeaders)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(cliWithPath("/nonexistent/config.toml"))
	if err == nil {
		t.Fatal("Load() expected error for explicit missing config file, got nil")
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[server]
host = "0.0.0.0"
port = 9000
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cli := &CLI{Config: path, Host: "127.0.0.1", Port: 4000, LogLevel: "warn"}
	cfg, err := Load(cli)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want CLI override %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want CLI override %d", cfg.Server.Port, 4000)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want CLI override %q", cfg.Log.Level, "warn")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"port out of range", "[server]\nport = 70000\n"},
		{"negative timeout", "[relay]\ntimeout_seconds = -1\n"},
		{"negative echo cap", "[relay]\necho_max_bytes = -5\n"},
		{"allowed host with scheme", "[relay]\nallowed_hosts = [\"https://example.com\"]\n"},
		{"allowed host with wildcard", "[relay]\nallowed_hosts = [\"*.example.com\"]\n"},
		{"empty allowed host", "[relay]\nallowed_hosts = [\"\"]\n"},
		{"bad log level", "[log]\nlevel = \"verbose\"\n"},
		{"bad log format", "[log]\nformat = \"xml\"\n"},
		{"rate limit without rps", "[server.rate_limit]\nenabled = true\n"},
		{"metrics path shadows route", "[metrics]\nenabled = true\npath = \"/fetch\"\n"},
		{"metrics path not absolute", "[metrics]\nenabled = true\npath = \"metrics\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}

			if _, err := Load(cliWithPath(path)); err == nil {
				t.Errorf("Load() expected validation error, got nil")
			}
		})
	}
}

func TestFindConfigInPaths(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(existing, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	got := findConfigInPaths([]string{filepath.Join(dir, "missing.toml"), existing})
	if got != existing {
		t.Errorf("findConfigInPaths = %q, want %q", got, existing)
	}

	if got := findConfigInPaths([]string{filepath.Join(dir, "missing.toml")}); got != "" {
		t.Errorf("findConfigInPaths = %q, want empty", got)
	}
}

func TestAddr(t *testing.T) {
	s := &ServerConfig{Host: "0.0.0.0", Port: 3000}
	if got := s.Addr(); got != "0.0.0.0:3000" {
		t.Errorf("Addr() = %q, want %q", got, "0.0.0.0:3000")
	}
}
