package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/molview/pkg/pipeline"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, unknown, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if len(unknown) != 0 {
		t.Errorf("unknown = %v", unknown)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "redis"
redis_url = "redis://cache:6379/2"
ttl = "2h"

[server]
addr = ":9000"
mongo_uri = "mongodb://db:27017"

[render]
width = 800
legend = true
`)
	cfg, unknown, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if len(unknown) != 0 {
		t.Errorf("unknown = %v", unknown)
	}

	if cfg.Cache.Backend != backendRedis || cfg.Cache.RedisURL != "redis://cache:6379/2" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("ttl = %v, want 2h", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.MongoURI != "mongodb://db:27017" {
		t.Errorf("server = %+v", cfg.Server)
	}
	// Unset keys keep their defaults.
	if cfg.Server.MongoDatabase != DefaultConfig().Server.MongoDatabase {
		t.Errorf("mongo database = %q", cfg.Server.MongoDatabase)
	}
	if cfg.Render.Width != 800 || cfg.Render.Height != pipeline.DefaultHeight || !cfg.Render.Legend {
		t.Errorf("render = %+v", cfg.Render)
	}
}

func TestLoadConfigUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "none"
colour = "blue"

[plugins]
enabled = true
`)
	cfg, unknown, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Cache.Backend != backendNone {
		t.Errorf("backend = %q", cfg.Cache.Backend)
	}
	want := map[string]bool{"cache.colour": true, "plugins": true, "plugins.enabled": true}
	if len(unknown) == 0 {
		t.Fatal("expected unknown keys")
	}
	for _, key := range unknown {
		if !want[key] {
			t.Errorf("unexpected unknown key %q", key)
		}
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"syntax error", "[cache\nbackend = 1"},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"negative ttl", "[cache]\nttl = \"-1h\""},
		{"oversized render", "[render]\nwidth = 100000"},
		{"negative frames", "[render]\nframes = -2"},
		{"bad redis url", "[cache]\nbackend = \"redis\"\nredis_url = \"localhost:6379\""},
		{"bad mongo uri", "[server]\nmongo_uri = \"http://db\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := LoadConfig(writeConfig(t, tt.contents)); err == nil {
				t.Error("LoadConfig() expected error")
			}
		})
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, want := defaultConfigPath(), filepath.Join("/tmp/xdg", "molview", "config.toml"); got != want {
		t.Errorf("defaultConfigPath() = %q, want %q", got, want)
	}
}

func TestApplyRender(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.Width = 320
	cfg.Render.Legend = true

	opts := pipeline.Options{Height: 200}
	cfg.applyRender(&opts)
	if opts.Width != 320 {
		t.Errorf("width = %d, want 320", opts.Width)
	}
	if opts.Height != 200 {
		t.Errorf("height = %d, explicit value should win", opts.Height)
	}
	if opts.Frames != pipeline.DefaultFrames {
		t.Errorf("frames = %d", opts.Frames)
	}
	if !opts.Legend {
		t.Error("legend should be enabled by config")
	}
}
