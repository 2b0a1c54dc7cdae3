package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/customs/internal/cli"
	"github.com/Veraticus/customs/internal/tradezone"
	"github.com/spf13/cobra"
)

func countriesCmd() *cobra.Command {
	var check string

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List origin countries and their trade regime",
		Long: `List the origin countries known to the calculator together with the
trade regime that applies to them. With --check, ask the backend whether
one country has a free-trade agreement.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if check != "" {
				return runCheckFreeTrade(cmd.Context(), cmd.OutOrStdout(), check)
			}
			return runCountries(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&check, "check", "", "check the free-trade status of one country code")

	return cmd
}

func runCountries(ctx context.Context, w io.Writer) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	countries, err := client.Countries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list countries: %w", err)
	}

	table := cli.NewTable("Kod", "Mamlakat", "Rejim")
	for _, c := range countries {
		if !c.IsActive {
			continue
		}
		regime := "standart"
		if advice := tradezone.Classify(c.Code); advice.Message != "" {
			regime = advice.Message
		}
		table.AddRow(c.Code, c.DisplayName(), regime)
	}
	_, err = fmt.Fprintln(w, table.Render())
	return err
}

func runCheckFreeTrade(ctx context.Context, w io.Writer, code string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	code = tradezone.Normalize(code)
	status, err := client.CheckFreeTrade(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", code, err)
	}

	if !status.IsFreeTrade {
		_, err = fmt.Fprintln(w, cli.FormatInfo(code+": erkin savdo kelishuvi yo'q, standart tarif qo'llanadi"))
		return err
	}

	msg := code + ": " + tradezone.MessageFreeTrade
	if status.AgreementName != "" {
		msg += " (" + status.AgreementName + ")"
	}
	if status.RequiresCertificate != nil && !*status.RequiresCertificate {
		msg += ", sertifikat talab qilinmaydi"
	}
	_, err = fmt.Fprintln(w, cli.FormatSuccess(msg))
	return err
}
