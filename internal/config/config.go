package config

// Config is the taskboard configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Store         StoreConfig         `mapstructure:"store"`
	Pagination    PaginationConfig    `mapstructure:"pagination"`
	Contributions ContributionsConfig `mapstructure:"contributions"`
	Seed          SeedConfig          `mapstructure:"seed"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr       string `mapstructure:"addr"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

// StoreConfig selects the entity store backend
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "memory" or "sqlite"
	Path   string `mapstructure:"path"`
}

// PaginationConfig bounds task listings
type PaginationConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// ContributionsConfig bounds the contribution window
type ContributionsConfig struct {
	DefaultDays  int `mapstructure:"default_days"`
	MaxDays      int `mapstructure:"max_days"`
	MaxRangeDays int `mapstructure:"max_range_days"` // explicit startDate..endDate
}

// SeedConfig controls startup data
type SeedConfig struct {
	DefaultTags bool   `mapstructure:"default_tags"`
	File        string `mapstructure:"file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8000",
			CORSOrigin: "*",
		},
		Store: StoreConfig{
			Driver: "memory",
		},
		Pagination: PaginationConfig{
			DefaultLimit: 50,
			MaxLimit:     100,
		},
		Contributions: ContributionsConfig{
			DefaultDays:  365,
			MaxDays:      365,
			MaxRangeDays: 3660,
		},
		Seed: SeedConfig{
			DefaultTags: true,
		},
	}
}
