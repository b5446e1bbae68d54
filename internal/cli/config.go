package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperr "github.com/matzehuels/molview/pkg/errors"
	"github.com/matzehuels/molview/pkg/pipeline"
	"github.com/matzehuels/molview/pkg/storage"
)

// Cache backends accepted in [cache] backend.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the contents of config.toml. Flags override every field.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend  string        `toml:"backend"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"` // 0 keeps the per-kind defaults
}

// ServerConfig configures "molview serve".
type ServerConfig struct {
	Addr          string `toml:"addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// RenderConfig holds render defaults for the CLI.
type RenderConfig struct {
	Width  int  `toml:"width"`
	Height int  `toml:"height"`
	Legend bool `toml:"legend"`
	Frames int  `toml:"frames"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend:  backendFile,
			RedisURL: "redis://localhost:6379/0",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			MongoDatabase: storage.DefaultDatabase,
		},
		Render: RenderConfig{
			Width:  pipeline.DefaultWidth,
			Height: pipeline.DefaultHeight,
			Frames: pipeline.DefaultFrames,
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
// Keys the config does not know are returned so the caller can warn.
func LoadConfig(path string) (Config, []string, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil, nil
	}
	if err != nil {
		return DefaultConfig(), nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return DefaultConfig(), nil, fmt.Errorf("config %s: %w", path, err)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return cfg, unknown, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendRedis, backendNone:
	default:
		return fmt.Errorf("cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == backendRedis {
		if err := apperr.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return fmt.Errorf("cache.redis_url: %w", err)
		}
	}
	if c.Server.MongoURI != "" {
		if err := apperr.ValidateURL(c.Server.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return fmt.Errorf("server.mongo_uri: %w", err)
		}
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.Render.Width < 0 || c.Render.Width > pipeline.MaxDimension ||
		c.Render.Height < 0 || c.Render.Height > pipeline.MaxDimension {
		return fmt.Errorf("render size must be between 1 and %d", pipeline.MaxDimension)
	}
	if c.Render.Frames < 0 {
		return fmt.Errorf("render.frames must not be negative")
	}
	return nil
}

// defaultConfigPath returns $XDG_CONFIG_HOME/molview/config.toml, falling
// back to ~/.config/molview/config.toml.
func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// applyRender copies render defaults onto opts for fields the user left unset.
func (c Config) applyRender(opts *pipeline.Options) {
	if opts.Width == 0 {
		opts.Width = c.Render.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Render.Height
	}
	if opts.Frames == 0 {
		opts.Frames = c.Render.Frames
	}
	if c.Render.Legend {
		opts.Legend = true
	}
}
