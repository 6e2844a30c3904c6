// Package config layers noir settings from flags, the environment, an
// optional YAML file and built-in defaults.
//
// Configuration hierarchy (highest to lowest priority):
//  1. CLI flags
//  2. Environment variables (NOIR_*, nested keys joined by "_")
//  3. Config file
//  4. Defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/roach88/noir/internal/investigation"
	"github.com/roach88/noir/internal/presentation"
	"github.com/roach88/noir/internal/validate"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "NOIR"

// Keys.
const (
	KeyDB               = "db"
	KeyCatalog          = "catalog"
	KeyFormat           = "format"
	KeyVerbose          = "verbose"
	KeyDeadlineDelta    = "deadline_delta"
	KeyTimeLimit        = "limits.time"
	KeyPressureLimit    = "limits.pressure"
	KeySweepConcurrency = "sweep.concurrency"
	KeyCacheTTL         = "projector.cache_ttl"
)

// Formats are the accepted output formats.
var Formats = []string{"text", "json"}

// Config is the resolved configuration.
type Config struct {
	// DB is the journal database path.
	DB string `json:"db" mapstructure:"db" yaml:"db"`
	// Catalog is a CUE catalog file; empty means the embedded catalog.
	Catalog       string               `json:"catalog" mapstructure:"catalog" yaml:"catalog"`
	Format        string               `json:"format" mapstructure:"format" yaml:"format" validate:"oneof=text json"`
	Verbose       bool                 `json:"verbose" mapstructure:"verbose" yaml:"verbose"`
	DeadlineDelta int                  `json:"deadline_delta" mapstructure:"deadline_delta" yaml:"deadline_delta" validate:"gte=0"`
	Limits        investigation.Limits `json:"limits" mapstructure:"limits" yaml:"limits"`
	Sweep         Sweep                `json:"sweep" mapstructure:"sweep" yaml:"sweep"`
	Projector     Projector            `json:"projector" mapstructure:"projector" yaml:"projector"`
}

// Sweep configures the seed sweep.
type Sweep struct {
	Concurrency int `json:"concurrency" mapstructure:"concurrency" yaml:"concurrency" validate:"min=1"`
}

// Projector configures the evidence projection cache.
type Projector struct {
	// CacheTTL is how long a projected case stays cached; zero keeps
	// entries until the process exits.
	CacheTTL time.Duration `json:"cache_ttl" mapstructure:"cache_ttl" yaml:"cache_ttl" validate:"gte=0"`
}

var configValidate = validate.New("mapstructure")

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		DB:     "noir.db",
		Format: "text",
		Limits: investigation.DefaultLimits(),
		Sweep:  Sweep{Concurrency: 4},
		Projector: Projector{
			CacheTTL: presentation.DefaultCacheTTL,
		},
	}
}

// SetDefaults registers the defaults with v. Every key needs a default for
// environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyDB, d.DB)
	v.SetDefault(KeyCatalog, d.Catalog)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyVerbose, d.Verbose)
	v.SetDefault(KeyDeadlineDelta, d.DeadlineDelta)
	v.SetDefault(KeyTimeLimit, d.Limits.Time)
	v.SetDefault(KeyPressureLimit, d.Limits.Pressure)
	v.SetDefault(KeySweepConcurrency, d.Sweep.Concurrency)
	v.SetDefault(KeyCacheTTL, d.Projector.CacheTTL)
}

// New returns a viper instance with defaults and environment binding. An
// explicit file must exist; otherwise config.yaml is looked up in
// searchPaths and may be absent.
func New(file string, searchPaths ...string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		return v, nil
	}
	if len(searchPaths) == 0 {
		return v, nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// DefaultSearchPaths returns the user config directory for noir, if any.
func DefaultSearchPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "noir")}
}

// Load resolves v into a validated Config.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", validate.Describe(err))
	}
	return nil
}

// YAML renders the configuration for display.
func (c Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}
