// Package main runs the calculator TUI against the in-process stub backend.
package main

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Veraticus/customs/internal/api"
	"github.com/Veraticus/customs/internal/search"
	"github.com/Veraticus/customs/internal/stubapi"
	"github.com/Veraticus/customs/internal/tui"
	"github.com/spf13/cobra"
)

func main() {
	var (
		searchDelay time.Duration
		failSearch  bool
		keepStale   bool
	)

	cmd := &cobra.Command{
		Use:   "tui-demo",
		Short: "Run the calculator against canned data",
		Long: `Run the calculator TUI against a stub backend serving a small classification
catalogue and fixed rates. --search-delay makes search answers slow enough to
watch the debounce and the stale-response guard at work.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend := stubapi.New()
			backend.SetSearchDelay(searchDelay)
			backend.SetSearchFailure(failSearch)

			server := httptest.NewServer(backend.Handler())
			defer server.Close()

			client, err := api.NewClient(server.URL + stubapi.Prefix)
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), client,
				tui.WithSize(120, 40),
				tui.WithSearch(search.DefaultDebounce, search.DefaultMinQueryLength, api.DefaultSearchLimit, !keepStale),
			)
		},
	}

	cmd.Flags().DurationVar(&searchDelay, "search-delay", 0, "delay every search answer by this much")
	cmd.Flags().BoolVar(&failSearch, "fail-search", false, "make every search fail")
	cmd.Flags().BoolVar(&keepStale, "keep-stale", false, "show late answers to superseded searches")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
