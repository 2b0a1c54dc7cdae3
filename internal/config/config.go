package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/customs/internal/api"
	"github.com/Veraticus/customs/internal/common"
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/search"
	"github.com/Veraticus/customs/internal/tui/themes"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. CUSTOMS_API_URL for api.url.
const EnvPrefix = "CUSTOMS"

// Config is the complete application configuration.
type Config struct {
	Logging LoggingConfig
	API     APIConfig
	Display DisplayConfig
	History HistoryConfig
	Search  SearchConfig
}

// APIConfig locates the calculator backend.
type APIConfig struct {
	URL     string
	Timeout time.Duration
}

// SearchConfig tunes the code field's lookup.
type SearchConfig struct {
	Debounce       time.Duration
	MinQueryLength int
	Limit          int
	DiscardStale   bool
}

// DisplayConfig controls how results are shown.
type DisplayConfig struct {
	Locale string
	Theme  string
	Mouse  bool
}

// HistoryConfig controls the local calculation journal.
type HistoryConfig struct {
	Path    string
	Enabled bool
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.url", api.DefaultBaseURL)
	v.SetDefault("api.timeout", 30*time.Second)

	v.SetDefault("search.debounce", search.DefaultDebounce)
	v.SetDefault("search.min_query_length", search.DefaultMinQueryLength)
	v.SetDefault("search.limit", api.DefaultSearchLimit)
	v.SetDefault("search.discard_stale", true)

	v.SetDefault("display.locale", format.DefaultLocale)
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.mouse", false)

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", filepath.Join(DefaultDir(), "history.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", filepath.Join(DefaultDir(), "customs.log"))
}

// Load reads the configuration held by v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			URL:     strings.TrimSpace(v.GetString("api.url")),
			Timeout: v.GetDuration("api.timeout"),
		},
		Search: SearchConfig{
			Debounce:       v.GetDuration("search.debounce"),
			MinQueryLength: v.GetInt("search.min_query_length"),
			Limit:          v.GetInt("search.limit"),
			DiscardStale:   v.GetBool("search.discard_stale"),
		},
		Display: DisplayConfig{
			Locale: v.GetString("display.locale"),
			Theme:  v.GetString("display.theme"),
			Mouse:  v.GetBool("display.mouse"),
		},
		History: HistoryConfig{
			Enabled: v.GetBool("history.enabled"),
			Path:    ExpandPath(v.GetString("history.path")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return fmt.Errorf("%w: api.url is required", common.ErrInvalidConfig)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("%w: search.debounce cannot be negative", common.ErrInvalidConfig)
	}
	if c.Search.MinQueryLength < 1 {
		return fmt.Errorf("%w: search.min_query_length must be at least 1", common.ErrInvalidConfig)
	}
	if c.Search.Limit < 1 || c.Search.Limit > 100 {
		return fmt.Errorf("%w: search.limit must be between 1 and 100", common.ErrInvalidConfig)
	}
	if _, err := format.NewMoneyForLocale(c.Display.Locale); err != nil {
		return fmt.Errorf("%w: display.locale: %w", common.ErrInvalidConfig, err)
	}
	if !slices.Contains(themes.Names, c.Display.Theme) {
		return fmt.Errorf("%w: display.theme must be one of %s", common.ErrInvalidConfig, strings.Join(themes.Names, ", "))
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("%w: history.path is required when history is enabled", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", common.ErrInvalidConfig, err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// DefaultAPIURL is the API root used when none is configured.
func DefaultAPIURL() string {
	return api.DefaultBaseURL
}
