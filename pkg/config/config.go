package config

import (
	"context"
	"time"
)

// EnvPrefix is prepended to every environment variable the loader reads.
const EnvPrefix = "CATALOG_"

// Config is the runtime configuration of the admin client. It is loaded once
// at startup and passed explicitly to the components that need it.
type Config struct {
	URLs    URLsConfig    `koanf:"urls"    json:"urls"    validate:"required"`
	API     APIConfig     `koanf:"api"     json:"api"`
	Runtime RuntimeConfig `koanf:"runtime" json:"runtime"`
	CLI     CLIConfig     `koanf:"cli"     json:"cli"`
	Prefs   PrefsConfig   `koanf:"prefs"   json:"prefs"`
}

// URLsConfig holds the backend base URLs, one per entity kind.
type URLsConfig struct {
	Products string `koanf:"products" json:"products" validate:"required,http_url,endpoint" env:"URLS_PRODUCTS"`
	Brands   string `koanf:"brands"   json:"brands"   validate:"required,http_url,endpoint" env:"URLS_BRANDS"`
}

type APIConfig struct {
	PageSize int           `koanf:"page_size" json:"page_size" validate:"min=1,max=100" env:"API_PAGE_SIZE"`
	Timeout  time.Duration `koanf:"timeout"   json:"timeout"   validate:"min=0"         env:"API_TIMEOUT"`
}

type RuntimeConfig struct {
	Environment string `koanf:"environment" json:"environment" validate:"oneof=development staging production" env:"RUNTIME_ENVIRONMENT"`
	LogLevel    string `koanf:"log_level"   json:"log_level"   validate:"oneof=debug info warn error disabled"   env:"RUNTIME_LOG_LEVEL"`
	LogFile     string `koanf:"log_file"    json:"log_file"                                                       env:"RUNTIME_LOG_FILE"`
}

// IsProduction reports whether diagnostics such as API versions are hidden.
func (r RuntimeConfig) IsProduction() bool {
	return r.Environment == "production"
}

type CLIConfig struct {
	Format      string `koanf:"format"       json:"format"       validate:"oneof=auto json tui" env:"CLI_FORMAT"`
	Interactive bool   `koanf:"interactive"  json:"interactive"                                 env:"CLI_INTERACTIVE"`
	WatchConfig bool   `koanf:"watch_config" json:"watch_config"                                env:"CLI_WATCH_CONFIG"`
}

type PrefsConfig struct {
	Path string `koanf:"path" json:"path" env:"PREFS_PATH"`
}

// Default returns the built-in configuration, pointing at a local dev backend.
func Default() *Config {
	return &Config{
		URLs: URLsConfig{
			Products: "http://localhost:8080/",
			Brands:   "http://localhost:8080/",
		},
		API: APIConfig{
			PageSize: 10,
			Timeout:  30 * time.Second,
		},
		Runtime: RuntimeConfig{
			Environment: "development",
			LogLevel:    "info",
		},
		CLI: CLIConfig{
			Format:      "auto",
			Interactive: true,
		},
	}
}

// SourceType identifies where a configuration value came from.
type SourceType string

const (
	SourceDefault SourceType = "default"
	SourceFile    SourceType = "file"
	SourceEnv     SourceType = "env"
	SourceCLI     SourceType = "cli"
)

// Source is one layer of configuration data.
type Source interface {
	Load() (map[string]any, error)
	Watch(ctx context.Context, debounce time.Duration, callback func()) error
	Type() SourceType
	Close() error
}

// Service loads and validates configuration.
type Service interface {
	Load(ctx context.Context, sources ...Source) (*Config, error)
	Validate(config *Config) error
	GetSource(key string) SourceType
}

// Metadata records which source supplied each key.
type Metadata struct {
	Sources  map[string]SourceType
	LoadedAt time.Time
}
