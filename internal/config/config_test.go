package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port=%d, want 8080", cfg.Port)
	}
	if cfg.Mode != "release" {
		t.Fatalf("mode=%q, want release", cfg.Mode)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Fatalf("ping_period=%v", cfg.PingPeriod)
	}
	if cfg.SendBuffer != 32 {
		t.Fatalf("send_buffer=%d", cfg.SendBuffer)
	}
	if len(cfg.STUNServers) == 0 {
		t.Fatalf("no default stun servers")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CONFIG_ENV", "test")

	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yaml := []byte("mode: debug\nport: 9999\nping_period: 10s\nmeeting_ttl: 1h\nstun_servers:\n  - stun:stun.example.org:3478\n")
	if err := os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != "debug" || cfg.Port != 9999 {
		t.Fatalf("mode=%q port=%d", cfg.Mode, cfg.Port)
	}
	if cfg.PingPeriod != 10*time.Second {
		t.Fatalf("ping_period=%v", cfg.PingPeriod)
	}
	if cfg.MeetingTTL != time.Hour {
		t.Fatalf("meeting_ttl=%v", cfg.MeetingTTL)
	}
	if len(cfg.STUNServers) != 1 || cfg.STUNServers[0] != "stun:stun.example.org:3478" {
		t.Fatalf("stun_servers=%v", cfg.STUNServers)
	}
	// untouched keys keep their defaults
	if cfg.ReadLimit != 65536 {
		t.Fatalf("read_limit=%d", cfg.ReadLimit)
	}
}
