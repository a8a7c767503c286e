// Package config loads familytree settings.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/familytree/config.toml
//  3. FAMILYTREE_* environment variables
//
// A missing config file is not an error. A sample file:
//
//	[view]
//	ancestor_depth = 3
//	descendant_depth = 2
//
//	[layout]
//	node_width = 180
//
//	[store]
//	backend = "sqlite"
//	path = "/srv/familytree/family.db"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/familytree/pkg/cache"
	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/store"
	"github.com/matzehuels/familytree/pkg/tree"
)

// Config holds all familytree settings.
type Config struct {
	View   ViewConfig   `toml:"view"`
	Layout LayoutConfig `toml:"layout"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// ViewConfig sets the initial depths and the node budget of built trees.
type ViewConfig struct {
	AncestorDepth   int    `toml:"ancestor_depth" validate:"min=0,max=6"`
	DescendantDepth int    `toml:"descendant_depth" validate:"min=0,max=6"`
	MaxNodes        int    `toml:"max_nodes" validate:"min=1"`
	Focus           string `toml:"focus"`
	Palette         string `toml:"palette" validate:"oneof=default print"`
}

// LayoutConfig sets the person box geometry.
type LayoutConfig struct {
	NodeWidth  float64 `toml:"node_width" validate:"gt=0"`
	NodeHeight float64 `toml:"node_height" validate:"gt=0"`
	Spacing    float64 `toml:"spacing" validate:"gte=0"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend  string `toml:"backend" validate:"oneof=memory file sqlite redis mongo"`
	Path     string `toml:"path"` // empty means the backend default
	URL      string `toml:"url"`
	Database string `toml:"database"`
	Name     string `toml:"name"`
}

// CacheConfig selects the render cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
	// RedisURL switches the cache to Redis when set.
	RedisURL string `toml:"redis_url"`
}

// ServerConfig configures `familytree serve`.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			AncestorDepth:   tree.DefaultDepth,
			DescendantDepth: tree.DefaultDepth,
			MaxNodes:        tree.DefaultMaxNodes,
			Palette:         "default",
		},
		Layout: LayoutConfig{
			NodeWidth:  layout.DefaultNodeWidth,
			NodeHeight: layout.DefaultNodeHeight,
			Spacing:    layout.DefaultSpacing,
		},
		Store: StoreConfig{
			Backend: store.BackendFile,
			Name:    store.DefaultName,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     cache.DefaultDir(),
		},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/familytree/config.toml, falling
// back to the user config dir reported by the OS.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "familytree", "config.toml")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "familytree", "config.toml")
	}
	return "familytree.toml"
}

// Load reads path (DefaultPath when empty), applies environment overrides,
// and validates the result. Only an explicitly named path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "read config %s", path)
		}
		if explicit {
			return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from FAMILYTREE_* variables.
func (c *Config) applyEnv() error {
	var err error
	c.View.AncestorDepth, err = envInt("FAMILYTREE_ANCESTOR_DEPTH", c.View.AncestorDepth)
	if err != nil {
		return err
	}
	c.View.DescendantDepth, err = envInt("FAMILYTREE_DESCENDANT_DEPTH", c.View.DescendantDepth)
	if err != nil {
		return err
	}
	c.View.MaxNodes, err = envInt("FAMILYTREE_MAX_NODES", c.View.MaxNodes)
	if err != nil {
		return err
	}
	c.View.Focus = envOr("FAMILYTREE_FOCUS", c.View.Focus)
	c.View.Palette = envOr("FAMILYTREE_PALETTE", c.View.Palette)

	c.Store.Backend = envOr("FAMILYTREE_STORE", c.Store.Backend)
	c.Store.Path = envOr("FAMILYTREE_STORE_PATH", c.Store.Path)
	c.Store.URL = envOr("FAMILYTREE_STORE_URL", c.Store.URL)
	c.Store.Database = envOr("FAMILYTREE_STORE_DATABASE", c.Store.Database)
	c.Store.Name = envOr("FAMILYTREE_FAMILY", c.Store.Name)

	c.Cache.Dir = envOr("FAMILYTREE_CACHE_DIR", c.Cache.Dir)
	c.Cache.RedisURL = envOr("FAMILYTREE_CACHE_REDIS_URL", c.Cache.RedisURL)
	if v := os.Getenv("FAMILYTREE_NO_CACHE"); v != "" {
		c.Cache.Enabled = v == "0" || strings.EqualFold(v, "false")
	}

	c.Server.Addr = envOr("FAMILYTREE_ADDR", c.Server.Addr)
	c.Log.Level = envOr("FAMILYTREE_LOG_LEVEL", c.Log.Level)
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "validate config")
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return apperr.New(apperr.ErrCodeInvalidConfig, "invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of %s (got %q)", field, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "required":
		return field + " is required"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// TreeOptions returns the build options for the configured view.
func (c *Config) TreeOptions() tree.Options {
	return tree.Options{
		AncestorDepth:   c.View.AncestorDepth,
		DescendantDepth: c.View.DescendantDepth,
		MaxNodes:        c.View.MaxNodes,
	}
}

// LayoutOptions returns the configured box geometry.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		NodeWidth:  c.Layout.NodeWidth,
		NodeHeight: c.Layout.NodeHeight,
		Spacing:    c.Layout.Spacing,
	}
}

// StoreOptions returns the settings for store.Open.
func (c *Config) StoreOptions() store.Config {
	return store.Config{
		Backend:  c.Store.Backend,
		Path:     c.Store.Path,
		URL:      c.Store.URL,
		Database: c.Store.Database,
		Name:     c.Store.Name,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "%s must be an integer, got %q", key, v)
	}
	return n, nil
}
