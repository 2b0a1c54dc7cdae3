package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/customs/internal/cli"
	"github.com/Veraticus/customs/internal/common"
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/search"
	"github.com/spf13/cobra"
)

const descriptionWidth = 60

func searchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search TN VED classification codes",
		Long:  `Search classification codes by code prefix or by words of the description.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (default: search.limit)")

	return cmd
}

func runSearch(ctx context.Context, w io.Writer, query string, limit int) error {
	if limit <= 0 {
		limit = appConfig.Search.Limit
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	items, err := client.SearchClassifications(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return common.NewUserError(search.MessageSearchFailed, err)
	}
	if len(items) == 0 {
		_, err = fmt.Fprintln(w, cli.FormatWarning(search.MessageNoResults))
		return err
	}

	table := cli.NewTable("#", "Kod", "Nomi").Align(0, cli.AlignRight)
	for i, item := range items {
		name := search.PlaceholderNoDescription
		if item.HasDescription() {
			name = format.Truncate(format.CleanText(item.Description), descriptionWidth)
		}
		table.AddRow(strconv.Itoa(i+1), item.Code, name)
	}
	_, err = fmt.Fprintln(w, table.Render())
	return err
}
