package tui

import (
	"log/slog"
	"time"

	"github.com/Veraticus/customs/internal/api"
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/search"
	"github.com/Veraticus/customs/internal/submission"
	"github.com/Veraticus/customs/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
)

// Config holds TUI configuration.
type Config struct {
	Theme          themes.Theme
	Money          format.Money
	Scheduler      search.Scheduler
	Journal        submission.Recorder
	Logger         *slog.Logger
	notify         func(tea.Msg)
	Width          int
	Height         int
	Debounce       time.Duration
	MinQueryLength int
	SearchLimit    int
	DiscardStale   bool
	MouseSupport   bool
	ShowHelp       bool
	Record         bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	tag, err := language.Parse(format.DefaultLocale)
	if err != nil {
		tag = language.Und
	}

	return Config{
		Theme:          themes.Default,
		Money:          format.NewMoney(tag),
		Scheduler:      search.TimerScheduler{},
		Logger:         slog.Default(),
		Width:          80,
		Height:         24,
		Debounce:       search.DefaultDebounce,
		MinQueryLength: search.DefaultMinQueryLength,
		SearchLimit:    api.DefaultSearchLimit,
		DiscardStale:   true,
		ShowHelp:       true,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithMoney sets the money formatter.
func WithMoney(money format.Money) Option {
	return func(c *Config) {
		c.Money = money
	}
}

// WithSearch configures the code field's lookup.
func WithSearch(debounce time.Duration, minQueryLength, limit int, discardStale bool) Option {
	return func(c *Config) {
		c.Debounce = debounce
		c.MinQueryLength = minQueryLength
		c.SearchLimit = limit
		c.DiscardStale = discardStale
	}
}

// WithScheduler replaces the timer used for debouncing.
func WithScheduler(s search.Scheduler) Option {
	return func(c *Config) {
		c.Scheduler = s
	}
}

// WithJournal records successful calculations.
func WithJournal(r submission.Recorder) Option {
	return func(c *Config) {
		c.Journal = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithRecording writes every frame to a temp directory for debugging.
func WithRecording(enabled bool) Option {
	return func(c *Config) {
		c.Record = enabled
	}
}

// WithMouse enables mouse reporting.
func WithMouse(enabled bool) Option {
	return func(c *Config) {
		c.MouseSupport = enabled
	}
}

// withNotify sets where asynchronous updates are delivered.
func withNotify(fn func(tea.Msg)) Option {
	return func(c *Config) {
		c.notify = fn
	}
}
