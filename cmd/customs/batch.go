package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/customs/internal/cli"
	"github.com/Veraticus/customs/internal/submission"
	"github.com/spf13/cobra"
)

func batchCmd() *cobra.Command {
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "batch <file.yaml|->",
		Short: "Calculate every item of a YAML batch file",
		Long: `Calculate customs payments for every item listed in a YAML file and
print a summary with the grand total. Items are sent one at a time. Fields
missing from an item are taken from the file's defaults section.

Pressing Ctrl+C stops after the current item and still prints the summary
of what finished.`,
		Example: `  customs batch shipment.yaml
  cat shipment.yaml | customs batch -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), args[0], !noProgress)
		},
	}

	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "do not draw a progress bar")

	return cmd
}

func runBatch(ctx context.Context, w io.Writer, stdin io.Reader, path string, progress bool) error {
	file, err := readBatch(stdin, path)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	money, err := newMoney()
	if err != nil {
		return err
	}

	journal := recordingJournal(ctx)
	defer closeJournal(journal)

	var opts []submission.PipelineOption
	if journal != nil {
		opts = append(opts, submission.WithRecorder(journal))
	}
	pipeline := submission.NewPipeline(client, opts...)

	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx = interrupts.HandleInterrupts(ctx)

	runner := cli.NewBatchRunner(pipeline, os.Stderr,
		cli.WithProgress(progress),
		cli.WithInterruptHandler(interrupts),
	)
	results, runErr := runner.Run(ctx, file)

	if err := cli.WriteBatchSummary(w, results, money); err != nil {
		return err
	}

	switch {
	case runErr != nil && interrupts.WasInterrupted():
		return nil
	case runErr != nil:
		return runErr
	}

	if summary := cli.Summarize(results); summary.Failed > 0 {
		return fmt.Errorf("%d of %d calculations failed", summary.Failed, len(results))
	}
	return nil
}

func readBatch(stdin io.Reader, path string) (*cli.BatchFile, error) {
	if path == "-" {
		return cli.LoadBatch(stdin)
	}

	f, err := os.Open(path) // #nosec G304 -- user-supplied batch file
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close batch file", "path", path, "error", closeErr)
		}
	}()

	return cli.LoadBatch(f)
}
