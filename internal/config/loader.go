package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultFile is read from the working directory when no path is given
const DefaultFile = "taskboard.yaml"

// EnvPrefix prefixes environment overrides, e.g. TASKBOARD_SERVER_ADDR
const EnvPrefix = "TASKBOARD"

// Load builds the configuration from defaults, an optional YAML file and
// the environment. An explicit path must exist; the default file may not.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.cors_origin", cfg.Server.CORSOrigin)
	v.SetDefault("store.driver", cfg.Store.Driver)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("pagination.default_limit", cfg.Pagination.DefaultLimit)
	v.SetDefault("pagination.max_limit", cfg.Pagination.MaxLimit)
	v.SetDefault("contributions.default_days", cfg.Contributions.DefaultDays)
	v.SetDefault("contributions.max_days", cfg.Contributions.MaxDays)
	v.SetDefault("contributions.max_range_days", cfg.Contributions.MaxRangeDays)
	v.SetDefault("seed.default_tags", cfg.Seed.DefaultTags)
	v.SetDefault("seed.file", cfg.Seed.File)
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return errors.New("store.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.Pagination.DefaultLimit < 1 || c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		return fmt.Errorf("invalid pagination limits: default %d, max %d",
			c.Pagination.DefaultLimit, c.Pagination.MaxLimit)
	}
	if c.Contributions.DefaultDays < 1 || c.Contributions.MaxDays < c.Contributions.DefaultDays {
		return fmt.Errorf("invalid contribution days: default %d, max %d",
			c.Contributions.DefaultDays, c.Contributions.MaxDays)
	}
	if c.Contributions.MaxRangeDays < c.Contributions.MaxDays {
		return fmt.Errorf("contributions.max_range_days %d is below max_days %d",
			c.Contributions.MaxRangeDays, c.Contributions.MaxDays)
	}
	return nil
}
