package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/strokerisk/strokerisk/internal/predictor"
	"github.com/strokerisk/strokerisk/internal/risk"
	"github.com/strokerisk/strokerisk/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g.
// STROKERISK_PREDICTOR_URL.
const EnvPrefix = "STROKERISK"

// Backend names accepted by store.backend.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the resolved application configuration.
type Config struct {
	Predictor predictor.Config `mapstructure:"predictor"`
	Store     StoreConfig      `mapstructure:"store"`
	Risk      risk.Thresholds  `mapstructure:"risk"`
	Log       LogConfig        `mapstructure:"log"`
	Metrics   MetricsConfig    `mapstructure:"metrics"`
	Export    ExportConfig     `mapstructure:"export"`
}

// StoreConfig selects and configures the submission slot backend.
type StoreConfig struct {
	Backend string            `mapstructure:"backend"`
	Path    string            `mapstructure:"path"`
	Slot    string            `mapstructure:"slot"`
	Redis   store.RedisConfig `mapstructure:"redis"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// ExportConfig is where CSV files and reports are written.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Options tune how Load finds its inputs.
type Options struct {
	// ConfigFile, when set, must exist and is the only file read.
	ConfigFile string

	// SearchPaths are probed for config.yaml when ConfigFile is empty.
	SearchPaths []string

	// EnvFiles are loaded into the process environment if present.
	// Variables already set are not overwritten.
	EnvFiles []string
}

// DefaultOptions probes the working directory and the user config dir.
func DefaultOptions() Options {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "strokerisk"))
	}
	return Options{
		SearchPaths: paths,
		EnvFiles:    []string{".env"},
	}
}

// Load reads .env files, the optional config file and STROKERISK_*
// environment overrides on top of the defaults, then validates the result.
func Load(opts Options) (*Config, error) {
	loadEnvFiles(opts.EnvFiles)

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range opts.SearchPaths {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFiles(paths []string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		// godotenv.Load never overrides variables that are already set.
		_ = godotenv.Load(p)
	}
}

func setDefaults(v *viper.Viper) {
	pc := predictor.DefaultConfig()
	th := risk.DefaultThresholds()

	v.SetDefault("predictor.url", pc.BaseURL)
	v.SetDefault("predictor.timeout", pc.Timeout)

	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.path", "")
	v.SetDefault("store.slot", store.DefaultSlot)
	v.SetDefault("store.redis.address", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "strokerisk:")

	v.SetDefault("risk.medium_threshold", th.Medium)
	v.SetDefault("risk.high_threshold", th.High)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	v.SetDefault("metrics.addr", "")
	v.SetDefault("export.dir", ".")
}

// resolvePaths fills data-dir based defaults that depend on the host.
func (c *Config) resolvePaths() error {
	needsPath := c.Store.Path == "" && (c.Store.Backend == BackendSQLite || c.Store.Backend == BackendFile)
	if !needsPath && c.Log.File != "" {
		return nil
	}
	dir, err := store.DataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	if c.Store.Path == "" {
		switch c.Store.Backend {
		case BackendSQLite:
			// Honors STROKERISK_DB before falling back to the data dir.
			if c.Store.Path, err = store.DefaultDBPath(); err != nil {
				return fmt.Errorf("resolve database path: %w", err)
			}
		case BackendFile:
			c.Store.Path = filepath.Join(dir, "slots")
		}
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(dir, "strokerisk.log")
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Predictor.Validate(); err != nil {
		return err
	}
	if err := c.Risk.Validate(); err != nil {
		return err
	}

	switch c.Store.Backend {
	case BackendSQLite, BackendFile:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
	case BackendRedis:
		if c.Store.Redis.Address == "" {
			return errors.New("store.redis.address is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q (want sqlite, file, redis or memory)", c.Store.Backend)
	}
	if strings.TrimSpace(c.Store.Slot) == "" {
		return errors.New("store.slot must not be empty")
	}

	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", c.Log.Format)
	}
	return nil
}
