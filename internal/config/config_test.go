package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Address() != "localhost:8080" {
		t.Fatalf("Address = %q, want localhost:8080", cfg.Address())
	}
	if cfg.BaseURL() != "http://localhost:8080/api/v1" {
		t.Fatalf("BaseURL = %q, want http://localhost:8080/api/v1", cfg.BaseURL())
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 500ms", cfg.PollInterval)
	}
	if cfg.NotifyDebounce != 2*time.Second || cfg.PollErrorLogInterval != 10*time.Second {
		t.Fatalf("debounce/log interval = %v/%v, want 2s/10s", cfg.NotifyDebounce, cfg.PollErrorLogInterval)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
host = "  10.0.0.5  "
port = 9999
api_prefix = "api/v2/"
poll_interval_ms = 250
request_timeout_ms = 0
notification_ttl_ms = 8000
log_file = "  ~/logs/remote.log  "
log_level = "DEBUG"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL() != "http://10.0.0.5:9999/api/v2" {
		t.Fatalf("BaseURL = %q, want http://10.0.0.5:9999/api/v2", cfg.BaseURL())
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 250ms", cfg.PollInterval)
	}
	if cfg.RequestTimeout != 0 {
		t.Fatalf("RequestTimeout = %v, want 0 (disabled)", cfg.RequestTimeout)
	}
	if cfg.NotificationTTL != 8*time.Second {
		t.Fatalf("NotificationTTL = %v, want 8s", cfg.NotificationTTL)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("Level = %v, want debug", cfg.Level())
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
host = "   "
poll_interval_ms = 0
log_file = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != defaultHost {
		t.Fatalf("Host = %q, want %q", cfg.Host, defaultHost)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`host = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"port":  "port = 70000\n",
		"level": "log_level = \"loud\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("Load returned nil error for %s", name)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestBaseURL_IPv6Host(t *testing.T) {
	cfg := Default()
	cfg.Host = "::1"
	if cfg.BaseURL() != "http://[::1]:8080/api/v1" {
		t.Fatalf("BaseURL = %q, want bracketed IPv6", cfg.BaseURL())
	}
}
