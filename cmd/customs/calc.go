package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/customs/internal/api"
	"github.com/Veraticus/customs/internal/cli"
	"github.com/Veraticus/customs/internal/common"
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/selection"
	"github.com/Veraticus/customs/internal/submission"
	"github.com/Veraticus/customs/internal/tradezone"
	"github.com/Veraticus/customs/internal/tui/components"
	"github.com/Veraticus/customs/internal/tui/viewmodel"
	"github.com/spf13/cobra"
)

func calcCmd() *cobra.Command {
	var (
		form   submission.Form
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate customs payments for one item",
		Long: `Calculate the customs value, duty, VAT and fees for one item and
print the breakdown. Values are validated the same way as in the
interactive calculator.`,
		Example: `  customs calc --code 8471300000 --price 1000 --country CN
  customs calc --code 8703 --price 15000 --engine-volume 1998 --vehicle-age 3 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalc(cmd.Context(), cmd.OutOrStdout(), form, asJSON)
		},
	}

	cmd.Flags().StringVar(&form.Code, "code", "", "TN VED classification code (required)")
	cmd.Flags().StringVar(&form.Price, "price", "", "invoice price of the goods (required)")
	cmd.Flags().StringVar(&form.Currency, "currency", submission.DefaultCurrency, "invoice currency")
	cmd.Flags().StringVar(&form.Weight, "weight", "1", "weight in kilograms")
	cmd.Flags().StringVar(&form.Country, "country", tradezone.UnknownCountry, "country of origin")
	cmd.Flags().StringVar(&form.Delivery, "delivery", "", "delivery cost")
	cmd.Flags().StringVar(&form.Insurance, "insurance", "", "insurance cost")
	cmd.Flags().StringVar(&form.EngineVolume, "engine-volume", "", "engine volume in cm³ (vehicles)")
	cmd.Flags().StringVar(&form.Quantity, "quantity", "", "number of units")
	cmd.Flags().StringVar(&form.VehicleAge, "vehicle-age", "", "vehicle age in years")
	cmd.Flags().BoolVar(&form.HasCertificate, "certificate", false, "an ST-1 origin certificate is available")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw result as JSON")

	return cmd
}

func runCalc(ctx context.Context, w io.Writer, form submission.Form, asJSON bool) error {
	// A rejected form never reaches the backend, not even for the name lookup.
	req, err := submission.Validate(form)
	if err != nil {
		var verr *submission.ValidationError
		if errors.As(err, &verr) {
			return common.NewUserError(verr.Message, err)
		}
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

	sel := selection.New()
	opts := []submission.PipelineOption{submission.WithNamer(sel)}
	if journal != nil {
		opts = append(opts, submission.WithRecorder(journal))
	}
	pipeline := submission.NewPipeline(client, opts...)

	if advice := tradezone.Classify(form.Country); advice.Message != "" && !asJSON {
		if advice.Status == tradezone.StatusUnknownCountry {
			fmt.Fprintln(w, cli.FormatWarning(advice.Message))
		} else {
			fmt.Fprintln(w, cli.FormatInfo(advice.Message))
		}
	}

	rememberName(ctx, client, sel, req.Code)

	outcome := pipeline.Compute(ctx, req)
	if !outcome.OK() {
		return common.NewUserError(outcome.ErrorMessage, outcome.Err)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome.Result)
	}

	title := outcome.Request.Code
	if name := sel.NameFor(outcome.Request.Code); name != "" {
		title += "  " + name
	}
	fmt.Fprintln(w, cli.FormatTitle(title))
	view := viewmodel.NewBreakdownView(outcome.Result, money)
	_, err = fmt.Fprintln(w, components.RenderBreakdown(view, theme(), breakdownWidth))
	return err
}

// rememberName looks up the cleaned description of code so the journal entry
// and the printed title carry it. Failures only cost the name.
func rememberName(ctx context.Context, searcher *api.Client, sel *selection.State, code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}
	items, err := searcher.SearchClassifications(ctx, code, api.DefaultSearchLimit)
	if err != nil {
		common.LogDebug("Classification lookup failed", common.Fields{"code": code, "error": err})
		return
	}
	item, ok := exactMatch(items, code)
	if !ok {
		return
	}
	if err := sel.Set(item.Code, format.CleanText(item.Description)); err != nil {
		common.LogDebug("Classification name not kept", common.Fields{"code": item.Code, "error": err})
	}
}

func exactMatch(items []model.Classification, code string) (model.Classification, bool) {
	for _, item := range items {
		if item.Code == code || item.FullCode == code {
			return item, true
		}
	}
	return model.Classification{}, false
}
