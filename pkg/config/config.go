// Package config loads stagger settings from a TOML file and the environment.
//
// Settings are resolved in this order, later sources winning:
//
//  1. built-in defaults
//  2. the config file ($STAGGER_CONFIG, or $XDG_CONFIG_HOME/stagger/config.toml)
//  3. STAGGER_* environment variables, with dots replaced by underscores
//     (STAGGER_GRID_ROWS, STAGGER_CACHE_REDIS_ADDR, ...)
//
// Command-line flags are applied on top by the CLI.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/stagger/pkg/errors"
	"github.com/matzehuels/stagger/pkg/grid"
)

// AppName is used for directory names and the environment prefix.
const AppName = "stagger"

// Defaults.
const (
	DefaultRows       = 3
	DefaultMaxExtent  = 1 << 20
	DefaultCacheTTL   = 24 * time.Hour
	DefaultServerAddr = ":8080"
)

// Config holds application configuration.
type Config struct {
	Grid   GridConfig   `mapstructure:"grid" toml:"grid"`
	Cache  CacheConfig  `mapstructure:"cache" toml:"cache"`
	Server ServerConfig `mapstructure:"server" toml:"server"`
	Todo   TodoConfig   `mapstructure:"todo" toml:"todo"`
}

// GridConfig holds the layout defaults applied to requests that omit them.
type GridConfig struct {
	Rows      int `mapstructure:"rows" toml:"rows"`
	MinWidth  int `mapstructure:"min_width" toml:"min_width"`
	MaxWidth  int `mapstructure:"max_width" toml:"max_width"`
	MinHeight int `mapstructure:"min_height" toml:"min_height"`
	MaxHeight int `mapstructure:"max_height" toml:"max_height"`
}

// Constraints returns the configured bounds.
func (g GridConfig) Constraints() grid.Constraints {
	return grid.Constraints{
		MinWidth:  g.MinWidth,
		MaxWidth:  g.MaxWidth,
		MinHeight: g.MinHeight,
		MaxHeight: g.MaxHeight,
	}
}

// CacheConfig holds artifact cache settings. A non-empty RedisAddr selects
// the Redis backend; otherwise artifacts go to Dir.
type CacheConfig struct {
	Dir       string        `mapstructure:"dir" toml:"dir"`
	TTL       time.Duration `mapstructure:"ttl" toml:"ttl"`
	RedisAddr string        `mapstructure:"redis_addr" toml:"redis_addr"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" toml:"addr"`
}

// TodoConfig holds the path of the to-do database.
type TodoConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// Load reads configuration from file and env. An empty path falls back to
// $STAGGER_CONFIG and then the default location; a missing default file is
// not an error, a missing explicit file is.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("STAGGER_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STAGGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := stderrors.As(err, &notFound) || stderrors.Is(err, os.ErrNotExist)
		switch {
		case missing && explicit:
			return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		case missing:
		default:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Validate checks the grid defaults and cache settings.
func (c Config) Validate() error {
	if err := errors.ValidateRows(c.Grid.Rows); err != nil {
		return err
	}
	if err := errors.ValidateAxis("width", c.Grid.MinWidth, c.Grid.MaxWidth); err != nil {
		return err
	}
	if err := errors.ValidateAxis("height", c.Grid.MinHeight, c.Grid.MaxHeight); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("grid.rows", DefaultRows)
	v.SetDefault("grid.min_width", 0)
	v.SetDefault("grid.max_width", DefaultMaxExtent)
	v.SetDefault("grid.min_height", 0)
	v.SetDefault("grid.max_height", DefaultMaxExtent)
	v.SetDefault("cache.dir", CacheDir())
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("todo.path", filepath.Join(DataDir(), "todo.db"))
}

// =============================================================================
// Paths
// =============================================================================

// CacheDir returns the cache directory using XDG standard (~/.cache/stagger/).
func CacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// ConfigDir returns the config directory (~/.config/stagger/).
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the data directory (~/.local/share/stagger/).
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, fallback, AppName)
}
