// Package config loads the dashwright configuration file and resolves
// the backends it names.
//
// The file lives at ~/.config/dashwright/config.toml by default. Secrets
// (workspace and assistant tokens) can be supplied through environment
// variables instead of the file; the environment wins when both are set.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dashwright/dashwright/pkg/cache"
	"github.com/dashwright/dashwright/pkg/catalog"
	"github.com/dashwright/dashwright/pkg/errors"
)

// Environment variables that override file values.
const (
	EnvHost  = "DASHWRIGHT_HOST"
	EnvToken = "DASHWRIGHT_TOKEN"
)

// Config is the full dashwright configuration.
type Config struct {
	Workspace Workspace `toml:"workspace"`
	Assistant Assistant `toml:"assistant"`
	Cache     CacheConf `toml:"cache"`
	Catalog   Catalog   `toml:"catalog"`
	Server    Server    `toml:"server"`
}

// Workspace identifies the analytics workspace dashboards are published to.
type Workspace struct {
	Host        string `toml:"host"`
	Token       string `toml:"token"`
	WarehouseID string `toml:"warehouse_id"`
	ParentPath  string `toml:"parent_path"`
}

// Assistant configures the generation service.
type Assistant struct {
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`
}

// CacheConf selects the response cache backend.
type CacheConf struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	URL     string `toml:"url"`
	TTL     string `toml:"ttl"`
}

// Catalog selects where published-dashboard records are kept.
type Catalog struct {
	// Backend is "file" or "mongo".
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "dashwright", "config.toml"), nil
}

// Load reads the config file at path, applies environment overrides, and
// validates the result. An empty path means the default location; a
// missing file at the default location is not an error (the environment
// and defaults must then carry the required values).
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			// No config file is fine for env-only setups.
		} else {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
		}
	}

	cfg.applyEnv()
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvHost); v != "" {
		c.Workspace.Host = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Workspace.Token = v
	}
}

// ValidateAndSetDefaults fills defaults and rejects unknown backend names.
// Workspace credentials are not required here; commands that talk to the
// workspace check for them at call time.
func (c *Config) ValidateAndSetDefaults() error {
	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend: %s (expected file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.URL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires cache.url")
	}
	if c.Cache.TTL != "" {
		if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid cache.ttl %q", c.Cache.TTL)
		}
	}

	if c.Catalog.Backend == "" {
		c.Catalog.Backend = "file"
	}
	switch c.Catalog.Backend {
	case "file", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown catalog backend: %s (expected file or mongo)", c.Catalog.Backend)
	}
	if c.Catalog.Backend == "mongo" && c.Catalog.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "catalog backend mongo requires catalog.uri")
	}

	if c.Assistant.Model == "" {
		c.Assistant.Model = "databricks-gpt-5"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	return nil
}

// CacheTTL returns the configured cache TTL. Zero means unset, letting
// each pipeline stage apply its own default.
// ValidateAndSetDefaults has already rejected unparseable values.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL == "" {
		return 0
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0
	}
	return ttl
}

// OpenCache constructs the configured cache backend.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, c.Cache.URL)
	default:
		return cache.NewFileCache(c.Cache.Dir)
	}
}

// OpenCatalog constructs the configured catalog backend.
func (c *Config) OpenCatalog(ctx context.Context) (catalog.Store, error) {
	if c.Catalog.Backend == "mongo" {
		return catalog.NewMongoStore(ctx, c.Catalog.URI, c.Catalog.Database, c.Catalog.Collection)
	}
	return catalog.NewFileStore(c.Catalog.Dir)
}
