package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"parley/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "parley", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "parley")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.JournalPath() != filepath.Join(wantState, "journal.db") {
		t.Fatalf("unexpected journal path: %q", cfg.JournalPath())
	}
	if cfg.LockPath() != filepath.Join(wantState, "parley.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if cfg.Playback.Transport != config.TransportFFplay {
		t.Fatalf("expected ffplay transport by default, got %q", cfg.Playback.Transport)
	}
	if cfg.PollInterval() != 100*time.Millisecond {
		t.Fatalf("expected 100ms poll interval, got %v", cfg.PollInterval())
	}
	if cfg.Playback.DefaultVolume != 0.5 {
		t.Fatalf("expected default volume 0.5, got %v", cfg.Playback.DefaultVolume)
	}
	if cfg.CommandTimeout() != 5*time.Second {
		t.Fatalf("expected 5s command timeout, got %v", cfg.CommandTimeout())
	}
	if !cfg.Journal.Enabled {
		t.Fatal("expected journal enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "parley.toml")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
		} `toml:"paths"`
		Playback struct {
			Transport      string  `toml:"transport"`
			PollIntervalMs int     `toml:"poll_interval_ms"`
			DefaultVolume  float64 `toml:"default_volume"`
		} `toml:"playback"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.Playback.Transport = "Clock"
	custom.Playback.PollIntervalMs = 40
	custom.Playback.DefaultVolume = 0.8
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.StateDir != filepath.Join(tempDir, "state") {
		t.Fatalf("unexpected state dir %q", cfg.Paths.StateDir)
	}
	if cfg.Playback.Transport != config.TransportClock {
		t.Fatalf("expected transport normalized to clock, got %q", cfg.Playback.Transport)
	}
	if cfg.PollInterval() != 40*time.Millisecond {
		t.Fatalf("expected 40ms poll interval, got %v", cfg.PollInterval())
	}
	if cfg.Playback.DefaultVolume != 0.8 {
		t.Fatalf("expected volume 0.8, got %v", cfg.Playback.DefaultVolume)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "parley.toml")
	if err := os.WriteFile(configPath, []byte("[playback]\ntransprot = \"clock\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "parley.toml")
	contents := "[playback]\ntransport = \"ffplay\"\n\n[logging]\nlevel = \"info\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PARLEY_TRANSPORT", "clock")
	t.Setenv("PARLEY_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Playback.Transport != config.TransportClock {
		t.Errorf("expected transport from env, got %q", cfg.Playback.Transport)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level from env, got %q", cfg.Logging.Level)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[playback]") {
		t.Fatalf("sample config missing playback section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	want := config.Default()
	if cfg.Playback != want.Playback {
		t.Fatalf("sample playback %+v differs from defaults %+v", cfg.Playback, want.Playback)
	}
	if cfg.Paths != want.Paths {
		t.Fatalf("sample paths %+v differ from defaults %+v", cfg.Paths, want.Paths)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"unknown transport", func(c *config.Config) { c.Playback.Transport = "vlc" }, "playback.transport"},
		{"zero poll interval", func(c *config.Config) { c.Playback.PollIntervalMs = 0 }, "playback.poll_interval_ms"},
		{"negative timeout", func(c *config.Config) { c.Playback.CommandTimeoutSeconds = -1 }, "playback.command_timeout_seconds"},
		{"volume above one", func(c *config.Config) { c.Playback.DefaultVolume = 1.5 }, "playback.default_volume"},
		{"missing ffplay binary", func(c *config.Config) { c.FFplay.Binary = " " }, "ffplay.binary"},
		{"unknown log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"empty state dir", func(c *config.Config) { c.Paths.StateDir = "" }, "paths.state_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateSkipsFFplayBinariesForClockTransport(t *testing.T) {
	cfg := config.Default()
	cfg.Playback.Transport = config.TransportClock
	cfg.FFplay.Binary = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected clock transport to ignore ffplay settings, got %v", err)
	}
}
