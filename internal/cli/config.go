package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/guptarut/treemap/internal/server"
	"github.com/guptarut/treemap/pkg/cache"
	"github.com/guptarut/treemap/pkg/pipeline"
	"github.com/guptarut/treemap/pkg/store"
)

// =============================================================================
// Config File
// =============================================================================

// Config is the optional config.toml. Zero values mean "use the default";
// command-line flags override everything here.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Scan   ScanConfig   `toml:"scan"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Serve  ServeConfig  `toml:"serve"`
}

// LayoutConfig holds [layout] settings.
type LayoutConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Expand string `toml:"expand"`
	Depth  int    `toml:"depth"`
	Labels bool   `toml:"labels"`
}

// ScanConfig holds [scan] settings.
type ScanConfig struct {
	Exclude       []string `toml:"exclude"`
	IncludeHidden bool     `toml:"include_hidden"`
	MaxDepth      int      `toml:"max_depth"`
}

// CacheConfig holds [cache] settings.
type CacheConfig struct {
	Backend       string `toml:"backend"` // none, file, redis
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig holds [store] settings.
type StoreConfig struct {
	Backend  string `toml:"backend"` // file, mongo
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServeConfig holds [serve] settings.
type ServeConfig struct {
	Addr            string `toml:"addr"`
	AllowAllOrigins bool   `toml:"allow_all_origins"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			Width:  pipeline.DefaultWidth,
			Height: pipeline.DefaultHeight,
			Expand: pipeline.DefaultExpand,
			Depth:  pipeline.DefaultDepth,
		},
		Cache: CacheConfig{Backend: cache.BackendFile},
		Store: StoreConfig{Backend: store.BackendFile},
		Serve: ServeConfig{Addr: server.DefaultAddr},
	}
}

// LoadConfig reads the config file at path on top of the defaults. An
// empty path means the default location; a missing default file is not an
// error, a missing explicit one is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// PipelineOptions returns pipeline options seeded from the config.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Exclude:       c.Scan.Exclude,
		IncludeHidden: c.Scan.IncludeHidden,
		MaxDepth:      c.Scan.MaxDepth,
		Width:         c.Layout.Width,
		Height:        c.Layout.Height,
		Expand:        c.Layout.Expand,
		Depth:         c.Layout.Depth,
		Labels:        c.Layout.Labels,
	}
}

// CacheBackend returns the cache backend configuration. The file backend
// defaults to the XDG cache directory.
func (c *Config) CacheBackend() (cache.Config, error) {
	cfg := cache.Config{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
	}
	if cfg.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cfg, err
		}
		cfg.Dir = dir
	}
	return cfg, nil
}

// StoreBackend returns the snapshot store configuration. The file backend
// defaults to the XDG data directory.
func (c *Config) StoreBackend() (store.Config, error) {
	cfg := store.Config{
		Backend: c.Store.Backend,
		Dir:     c.Store.Dir,
		Mongo: store.MongoConfig{
			URI:      c.Store.MongoURI,
			Database: c.Store.Database,
		},
	}
	if cfg.Dir == "" {
		dir, err := dataDir()
		if err != nil {
			return cfg, err
		}
		cfg.Dir = filepath.Join(dir, "snapshots")
	}
	return cfg, nil
}
