package main

import (
	"log/slog"

	"github.com/Veraticus/customs/internal/common"
	"github.com/Veraticus/customs/internal/tui"
	"github.com/spf13/cobra"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive calculator",
		Long: `Open the interactive customs calculator. Type a code or keywords in the
code field to search the classification, fill in the price and origin,
then press Enter on the button or Ctrl+S anywhere to calculate.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}

	cmd.Flags().Bool("record", false, "record every frame to a temp directory for debugging")

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	record, err := cmd.Flags().GetBool("record")
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to the file instead.
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer func() {
		_ = logFile.Close()
	}()

	client, err := newClient()
	if err != nil {
		return err
	}
	money, err := newMoney()
	if err != nil {
		return err
	}

	opts := []tui.Option{
		tui.WithTheme(theme()),
		tui.WithMoney(money),
		tui.WithSearch(appConfig.Search.Debounce, appConfig.Search.MinQueryLength, appConfig.Search.Limit, appConfig.Search.DiscardStale),
		tui.WithLogger(slog.Default()),
		tui.WithMouse(appConfig.Display.Mouse),
		tui.WithRecording(record),
	}

	journal := recordingJournal(ctx)
	defer closeJournal(journal)
	if journal != nil {
		opts = append(opts, tui.WithJournal(journal))
	}

	common.LogInfo("Starting calculator", common.Fields{"api": client.BaseURL(), "history": journal != nil})
	return tui.Run(ctx, client, opts...)
}
