package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// unsetEnv clears key for the test, restoring any previous value after.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func TestNewDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.RosterPath != filepath.Join(dir, "roster.yaml") {
		t.Fatalf("roster path = %q", cfg.RosterPath)
	}
	if cfg.Spin.Duration != 6*time.Second || cfg.Spin.Mode != "uniform" {
		t.Fatalf("spin defaults = %+v", cfg.Spin)
	}
	if got := cfg.FrameInterval(); got != time.Second/60 {
		t.Fatalf("frame interval = %v", got)
	}
}

func TestNewRequiresDataDir(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `
event_name: Friday Raffle
spin:
  mode: weighted
  theme: dramatic
  duration: 9s
  remove_after_win: true
motion:
  fps: 30
`)
	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.EventName != "Friday Raffle" {
		t.Fatalf("event = %q", cfg.EventName)
	}
	if cfg.Spin.Mode != "weighted" || cfg.Spin.Theme != "dramatic" || !cfg.Spin.RemoveAfterWin {
		t.Fatalf("spin = %+v", cfg.Spin)
	}
	if cfg.Spin.Duration != 9*time.Second {
		t.Fatalf("duration = %v", cfg.Spin.Duration)
	}
	if cfg.Spin.MsPerCard != 100 {
		t.Fatalf("unset keys keep defaults, ms_per_card = %d", cfg.Spin.MsPerCard)
	}
	if got := cfg.FrameInterval(); got != time.Second/30 {
		t.Fatalf("frame interval = %v", got)
	}
}

func TestNewEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "spin:\n  theme: playful\n")
	t.Setenv(EnvPrefix+"THEME", "funny")
	t.Setenv(EnvPrefix+"DURATION", "2500ms")
	t.Setenv(EnvPrefix+"MUTED", "true")
	t.Setenv(EnvPrefix+"LOG_FORMAT", "json")

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.Spin.Theme != "funny" || cfg.Spin.Duration != 2500*time.Millisecond || !cfg.Cues.Muted || cfg.LogFormat != "json" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestNewDotEnv(t *testing.T) {
	unsetEnv(t, EnvPrefix+"EVENT_NAME")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "SPINWHEEL_EVENT_NAME=Office Party\n")

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.EventName != "Office Party" {
		t.Fatalf("event = %q", cfg.EventName)
	}
}

func TestNewRejectsBadEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"SHUFFLE_ROSTER", "sometimes")
	_, err := New(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "SHUFFLE_ROSTER") {
		t.Fatalf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"mode", func(c *Config) { c.Spin.Mode = "rigged" }, "Mode"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "LogFormat"},
		{"theme", func(c *Config) { c.Spin.Theme = "sleepy" }, "Theme"},
		{"shuffle slower than idle", func(c *Config) { c.Motion.ShuffleSpeed = 0.1 }, "ShuffleSpeed"},
		{"plugin without name", func(c *Config) { c.Cues.Sink = "plugin" }, "Plugin"},
		{"webhook", func(c *Config) { c.Announce.DiscordWebhookURL = "not a url" }, "DiscordWebhookURL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults(t.TempDir())
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("err = %v", err)
			}
		})
	}

	if err := Defaults(t.TempDir()).Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}
