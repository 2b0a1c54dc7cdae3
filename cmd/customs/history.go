package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/customs/internal/cli"
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/storage"
	"github.com/Veraticus/customs/internal/tui/components"
	"github.com/Veraticus/customs/internal/tui/viewmodel"
	"github.com/spf13/cobra"
)

const historyTimeLayout = "2006-01-02 15:04"

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past calculations",
		Long: `Browse the calculations kept in the local history database.

Calculations are only recorded when history.enabled is set in the config
file (or CUSTOMS_HISTORY_ENABLED=true).`,
	}

	// Subcommands
	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyPruneCmd())

	return cmd
}

func historyListCmd() *cobra.Command {
	var (
		limit int
		code  string
		since time.Duration
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent calculations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := storage.ListOptions{Code: code, Limit: limit}
			if since > 0 {
				opts.Since = time.Now().Add(-since)
			}
			return runHistoryList(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", storage.DefaultListLimit, "maximum number of entries")
	cmd.Flags().StringVar(&code, "code", "", "only entries whose code starts with this prefix")
	cmd.Flags().DurationVar(&since, "since", 0, "only entries newer than this (e.g. 72h)")

	return cmd
}

func runHistoryList(ctx context.Context, w io.Writer, opts storage.ListOptions) error {
	journal, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer closeJournal(journal)

	money, err := newMoney()
	if err != nil {
		return err
	}

	records, err := journal.ListCalculations(ctx, opts)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, err = fmt.Fprintln(w, cli.FormatInfo("Tarix bo'sh"))
		return err
	}

	table := cli.NewTable("ID", "Vaqt", "Kod", "Nomi", "Narx", viewmodel.LabelTotal).
		Align(4, cli.AlignRight).
		Align(5, cli.AlignRight)
	for _, r := range records {
		table.AddRow(
			r.ID,
			cli.FormatSubtle(r.CreatedAt.Local().Format(historyTimeLayout)),
			r.Request.Code,
			format.Truncate(format.CleanText(r.DisplayName), descriptionWidth/2),
			money.Format(r.Request.Price)+" "+r.Request.Currency,
			money.Format(r.Result.TotalUZS)+" "+viewmodel.Currency,
		)
	}
	_, err = fmt.Fprintln(w, table.Render())
	return err
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the breakdown of a past calculation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func runHistoryShow(ctx context.Context, w io.Writer, id string) error {
	journal, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer closeJournal(journal)

	money, err := newMoney()
	if err != nil {
		return err
	}

	record, err := journal.GetCalculation(ctx, id)
	if err != nil {
		return err
	}

	title := record.Request.Code
	if name := format.CleanText(record.DisplayName); name != "" {
		title += "  " + name
	}
	fmt.Fprintln(w, cli.FormatTitle(title))

	req := record.Request
	details := strings.Join([]string{
		"Vaqt:      " + record.CreatedAt.Local().Format(historyTimeLayout),
		"Narx:      " + money.Format(req.Price) + " " + req.Currency,
		"Mamlakat:  " + req.CountryOrigin,
		"Og'irlik:  " + money.Format(req.Weight) + " kg",
	}, "\n")
	fmt.Fprintln(w, cli.RenderRecordBox(record.ID, details))

	view := viewmodel.NewBreakdownView(&record.Result, money)
	_, err = fmt.Fprintln(w, components.RenderBreakdown(view, theme(), breakdownWidth))
	return err
}

func historyPruneCmd() *cobra.Command {
	var (
		olderThan time.Duration
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old calculations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			return runHistoryPrune(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), time.Now().Add(-olderThan), yes)
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "delete entries older than this")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func runHistoryPrune(ctx context.Context, w io.Writer, in io.Reader, cutoff time.Time, yes bool) error {
	journal, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer closeJournal(journal)

	if !yes {
		question := "Delete calculations made before " + cutoff.Local().Format(historyTimeLayout) + "?"
		ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(in), w, question)
		if err != nil {
			return err
		}
		if !ok {
			_, err = fmt.Fprintln(w, cli.FormatInfo("Nothing deleted"))
			return err
		}
	}

	n, err := journal.DeleteCalculationsBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, cli.FormatSuccess(strconv.FormatInt(n, 10)+" calculations deleted"))
	return err
}
