// Package config loads runtime settings for the CLI and server.
//
// Sources, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. $XDG_CONFIG_HOME/spending/config.toml
//  3. variables from a .env file (process environment takes precedence)
//  4. SPENDING_* environment variables
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/spendinglol/spending/pkg/errors"
)

const appName = "spending"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config holds all settings.
type Config struct {
	DataDir      string             `toml:"data_dir"`
	FiscalYear   int                `toml:"fiscal_year"`
	Width        int                `toml:"width"`
	Height       int                `toml:"height"`
	Contribution ContributionConfig `toml:"contribution"`
	Cache        CacheConfig        `toml:"cache"`
	API          APIConfig          `toml:"api"`
	Server       ServerConfig       `toml:"server"`
	Prefetch     PrefetchConfig     `toml:"prefetch"`
}

// ContributionConfig is the starting personal contribution.
type ContributionConfig struct {
	Amount  float64 `toml:"amount"`
	Enabled bool    `toml:"enabled"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir,omitempty"`
	RedisURL      string `toml:"redis_url,omitempty"`
	MongoURI      string `toml:"mongo_uri,omitempty"`
	MongoDatabase string `toml:"mongo_database,omitempty"`
}

// APIConfig configures the upstream spending API.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	Period  int    `toml:"period"`
	// Offline serves only what is in DataDir.
	Offline bool `toml:"offline"`
}

// ServerConfig configures `spending serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// PrefetchConfig configures `spending prefetch`.
type PrefetchConfig struct {
	Delay       time.Duration `toml:"delay"`
	Concurrency int           `toml:"concurrency"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:    "data",
		FiscalYear: 2024,
		Width:      1024,
		Height:     1024,
		Contribution: ContributionConfig{
			Amount: 1,
		},
		Cache: CacheConfig{
			Backend:       BackendFile,
			MongoDatabase: appName,
		},
		API: APIConfig{
			BaseURL: "https://api.usaspending.gov",
			Period:  12,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Prefetch: PrefetchConfig{
			Delay:       time.Second,
			Concurrency: 4,
		},
	}
}

// Dir returns the XDG config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the XDG cache directory used by the file backend.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", appName)
}

// Load reads path (or [Path] when empty), then applies the .env file at
// envFile (skipped when empty or missing) and SPENDING_* variables. A
// missing config file is not an error.
func Load(path, envFile string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("read config: %w", err)
	}

	env, err := environ(envFile)
	if err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return cfg, err
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = CacheDir()
	}
	return cfg, cfg.Validate()
}

// Save writes cfg as TOML to path (or [Path] when empty).
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// environ merges the .env file under the process environment.
func environ(envFile string) (map[string]string, error) {
	env := map[string]string{}
	if envFile != "" {
		file, err := godotenv.Read(envFile)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", envFile)
		}
		for k, v := range file {
			env[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, "SPENDING_") {
			env[k] = v
		}
	}
	return env, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	str := func(name string, dst *string) {
		if v, ok := env["SPENDING_"+name]; ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		if v, ok := env["SPENDING_"+name]; ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "SPENDING_%s", name)
			}
			*dst = n
		}
		return nil
	}

	str("DATA_DIR", &c.DataDir)
	str("CACHE_BACKEND", &c.Cache.Backend)
	str("CACHE_DIR", &c.Cache.Dir)
	str("REDIS_URL", &c.Cache.RedisURL)
	str("MONGO_URI", &c.Cache.MongoURI)
	str("MONGO_DATABASE", &c.Cache.MongoDatabase)
	str("API_URL", &c.API.BaseURL)
	str("ADDR", &c.Server.Addr)

	for name, dst := range map[string]*int{
		"FISCAL_YEAR":          &c.FiscalYear,
		"WIDTH":                &c.Width,
		"HEIGHT":               &c.Height,
		"API_PERIOD":           &c.API.Period,
		"PREFETCH_CONCURRENCY": &c.Prefetch.Concurrency,
	} {
		if err := num(name, dst); err != nil {
			return err
		}
	}

	if v := env["SPENDING_AMOUNT"]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "SPENDING_AMOUNT")
		}
		c.Contribution.Amount = f
	}
	for name, dst := range map[string]*bool{
		"PERSONALIZE": &c.Contribution.Enabled,
		"OFFLINE":     &c.API.Offline,
	} {
		if v := env["SPENDING_"+name]; v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "SPENDING_%s", name)
			}
			*dst = b
		}
	}
	if v := env["SPENDING_PREFETCH_DELAY"]; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "SPENDING_PREFETCH_DELAY")
		}
		c.Prefetch.Delay = d
	}
	return nil
}

// Validate checks value ranges and backend settings.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}
	if err := errors.ValidateFiscalYear(c.FiscalYear); err != nil {
		return invalid("fiscal_year: %v", errors.UserMessage(err))
	}
	if c.API.Period < 1 || c.API.Period > 12 {
		return invalid("api.period must be between 1 and 12")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return invalid("width and height must be positive")
	}
	if err := errors.ValidateAmount(c.Contribution.Amount); err != nil {
		return invalid("contribution.amount: %v", errors.UserMessage(err))
	}
	if c.Prefetch.Delay < 0 || c.Prefetch.Concurrency < 0 {
		return invalid("prefetch settings must be non-negative")
	}
	if !c.API.Offline {
		if err := errors.ValidateURL(c.API.BaseURL); err != nil {
			return invalid("api.base_url: %v", errors.UserMessage(err))
		}
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return invalid("cache.redis_url is required for the redis backend")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" {
			return invalid("cache.mongo_uri is required for the mongo backend")
		}
	default:
		return invalid("unknown cache backend %q (want file, redis, mongo or none)", c.Cache.Backend)
	}
	return nil
}
