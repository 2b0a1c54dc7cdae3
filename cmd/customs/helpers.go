package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/customs/internal/api"
	"github.com/Veraticus/customs/internal/common"
	"github.com/Veraticus/customs/internal/config"
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/storage"
	"github.com/Veraticus/customs/internal/tui/themes"
)

const breakdownWidth = 72

// setupLogging points the default logger at w.
func setupLogging(w io.Writer) error {
	level, err := common.ParseLevel(appConfig.Logging.Level)
	if err != nil {
		return err
	}
	return common.SetupLoggerTo(w, level, appConfig.Logging.Format)
}

// openLogFile sends logs to the configured file so they stay off the
// terminal the TUI draws on.
func openLogFile() (io.Closer, error) {
	path := appConfig.Logging.File
	if err := config.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) // #nosec G304 -- configured path
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if err := setupLogging(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// newClient builds the API client from the loaded configuration.
func newClient() (*api.Client, error) {
	return api.NewClient(appConfig.API.URL, api.WithTimeout(appConfig.API.Timeout))
}

func newMoney() (format.Money, error) {
	return format.NewMoneyForLocale(appConfig.Display.Locale)
}

func theme() themes.Theme {
	return themes.GetTheme(appConfig.Display.Theme)
}

// openJournal opens the history database whether or not recording is enabled.
func openJournal(ctx context.Context) (*storage.SQLiteStorage, error) {
	journal, err := storage.Open(ctx, appConfig.History.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return journal, nil
}

// recordingJournal returns the journal when history is enabled, nil otherwise.
// A journal that fails to open is logged and skipped.
func recordingJournal(ctx context.Context) *storage.SQLiteStorage {
	if !appConfig.History.Enabled {
		return nil
	}
	journal, err := openJournal(ctx)
	if err != nil {
		slog.Warn("History disabled for this run", "path", appConfig.History.Path, "error", err)
		return nil
	}
	return journal
}

func closeJournal(j *storage.SQLiteStorage) {
	if j == nil {
		return
	}
	if err := j.Close(); err != nil {
		common.LogError(err, "Failed to close history", common.Fields{"path": j.Path()})
	}
}
