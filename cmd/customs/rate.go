package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/Veraticus/customs/internal/cli"
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/tradezone"
	"github.com/spf13/cobra"
)

func rateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate [CODE]",
		Short: "Show the Central Bank rate of one currency",
		Long:  `Show today's Central Bank rate of a currency against the sum (USD by default).`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := "USD"
			if len(args) == 1 {
				code = tradezone.Normalize(args[0])
			}
			return runRate(cmd.Context(), cmd.OutOrStdout(), code)
		},
	}
}

func runRate(ctx context.Context, w io.Writer, code string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	money, err := newMoney()
	if err != nil {
		return err
	}

	rate, err := client.CurrencyRate(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to get %s rate: %w", code, err)
	}

	line := fmt.Sprintf("1 %s = %s so'm", rate.Code, money.Format(rate.PerUnit()))
	if rate.Date != "" {
		line += fmt.Sprintf("  (%s)", rate.Date)
	}
	_, err = fmt.Fprintln(w, line)
	return err
}

func ratesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "List all Central Bank currency rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRates(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runRates(ctx context.Context, w io.Writer) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	money, err := newMoney()
	if err != nil {
		return err
	}

	currencies, err := client.Currencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rates: %w", err)
	}

	table := cli.NewTable("Valyuta", "Nomi", "Nominal", "Kurs", "O'zgarish").
		Align(2, cli.AlignRight).
		Align(3, cli.AlignRight).
		Align(4, cli.AlignRight)
	for _, c := range currencies {
		nominal := max(c.Nominal, 1)
		table.AddRow(c.Code, c.Name, strconv.Itoa(nominal), money.Format(c.RateUZS), signed(money, c.Diff))
	}
	_, err = fmt.Fprintln(w, table.Render())
	return err
}

func signed(money format.Money, v float64) string {
	if v > 0 {
		return "+" + money.Format(v)
	}
	return money.Format(v)
}
