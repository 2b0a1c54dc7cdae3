package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/submission"
	"github.com/Veraticus/customs/internal/tui/viewmodel"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrEmptyBatch is returned for a batch file without items.
var ErrEmptyBatch = errors.New("batch file has no items")

// BatchItem is one calculation in a batch file. Values are kept as text and
// parsed the same way as typed form input.
type BatchItem struct {
	Name         string `yaml:"name"`
	Code         string `yaml:"code"`
	Price        string `yaml:"price"`
	Currency     string `yaml:"currency"`
	Weight       string `yaml:"weight"`
	Country      string `yaml:"country"`
	Delivery     string `yaml:"delivery"`
	Insurance    string `yaml:"insurance"`
	EngineVolume string `yaml:"engine_volume"`
	Quantity     string `yaml:"quantity"`
	VehicleAge   string `yaml:"vehicle_age"`
	Certificate  *bool  `yaml:"certificate"`
}

// BatchFile is the YAML document read by the batch command. Defaults fill
// fields an item leaves empty.
type BatchFile struct {
	Defaults BatchItem   `yaml:"defaults"`
	Items    []BatchItem `yaml:"items"`
}

// LoadBatch decodes a batch file. Unknown keys are rejected.
func LoadBatch(r io.Reader) (*BatchFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file BatchFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBatch
		}
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	if len(file.Items) == 0 {
		return nil, ErrEmptyBatch
	}
	return &file, nil
}

// Label names item i for output.
func (f *BatchFile) Label(i int) string {
	if name := strings.TrimSpace(f.Items[i].Name); name != "" {
		return name
	}
	return "#" + strconv.Itoa(i+1)
}

// Form returns item i merged with the defaults.
func (f *BatchFile) Form(i int) submission.Form {
	item, def := f.Items[i], f.Defaults
	pick := func(v, fallback string) string {
		if strings.TrimSpace(v) != "" {
			return v
		}
		return fallback
	}

	certificate := def.Certificate
	if item.Certificate != nil {
		certificate = item.Certificate
	}

	return submission.Form{
		Code:           pick(item.Code, def.Code),
		Price:          pick(item.Price, def.Price),
		Currency:       pick(item.Currency, def.Currency),
		Weight:         pick(item.Weight, def.Weight),
		Country:        pick(item.Country, def.Country),
		Delivery:       pick(item.Delivery, def.Delivery),
		Insurance:      pick(item.Insurance, def.Insurance),
		EngineVolume:   pick(item.EngineVolume, def.EngineVolume),
		Quantity:       pick(item.Quantity, def.Quantity),
		VehicleAge:     pick(item.VehicleAge, def.VehicleAge),
		HasCertificate: certificate != nil && *certificate,
	}
}

// BatchResult is the outcome of one batch item.
type BatchResult struct {
	Label   string
	Code    string
	Outcome submission.Outcome
}

// BatchRunner submits every item of a batch file in turn.
type BatchRunner struct {
	pipeline  *submission.Pipeline
	writer    io.Writer
	interrupt *InterruptHandler
	progress  bool
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithProgress draws a progress bar on the runner's writer.
func WithProgress(enabled bool) BatchOption {
	return func(r *BatchRunner) {
		r.progress = enabled
	}
}

// WithInterruptHandler reports progress to h so an interrupt can say how far
// the batch got.
func WithInterruptHandler(h *InterruptHandler) BatchOption {
	return func(r *BatchRunner) {
		r.interrupt = h
	}
}

// NewBatchRunner creates a runner writing progress to w.
func NewBatchRunner(p *submission.Pipeline, w io.Writer, opts ...BatchOption) *BatchRunner {
	r := &BatchRunner{pipeline: p, writer: w}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run submits the items one at a time. When ctx is canceled it stops and
// returns the results so far together with the context error.
func (r *BatchRunner) Run(ctx context.Context, file *BatchFile) ([]BatchResult, error) {
	total := len(file.Items)
	bar := r.newProgressBar(total)

	results := make([]BatchResult, 0, total)
	for i := range file.Items {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		form := file.Form(i)
		out := r.pipeline.Submit(ctx, form)
		if out.Kind == submission.KindFailed && ctx.Err() != nil {
			return results, ctx.Err()
		}
		results = append(results, BatchResult{Label: file.Label(i), Code: strings.TrimSpace(form.Code), Outcome: out})

		if r.interrupt != nil {
			r.interrupt.SetProgress(len(results), total)
		}
		if bar != nil {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	if bar != nil {
		if err := bar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
	}
	return results, nil
}

func (r *BatchRunner) newProgressBar(total int) *progressbar.ProgressBar {
	if !r.progress || r.writer == nil {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Hisoblanmoqda...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(r.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// BatchSummary totals a batch.
type BatchSummary struct {
	TotalUZS  decimal.Decimal
	Succeeded int
	Failed    int
}

// Summarize adds up the successful results. Totals are summed as decimals so
// many so'm amounts do not pick up float noise.
func Summarize(results []BatchResult) BatchSummary {
	s := BatchSummary{TotalUZS: decimal.Zero}
	for _, res := range results {
		if !res.Outcome.OK() {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.TotalUZS = s.TotalUZS.Add(decimal.NewFromFloat(res.Outcome.Result.TotalUZS))
	}
	return s
}

// WriteBatchSummary prints one row per result and the grand total.
func WriteBatchSummary(w io.Writer, results []BatchResult, money format.Money) error {
	table := NewTable("", "Kod", "Rejim", viewmodel.LabelTotal, "Holat").Align(3, AlignRight)
	for _, res := range results {
		out := res.Outcome
		if !out.OK() {
			table.AddRow(res.Label, res.Code, "", "", formatOutcome(false, format.CleanText(out.ErrorMessage)))
			continue
		}
		table.AddRow(
			res.Label,
			res.Code,
			viewmodel.BadgeFor(out.Result.DutyRateType).Label,
			money.Format(out.Result.TotalUZS)+" "+viewmodel.Currency,
			formatOutcome(true, ""),
		)
	}

	summary := Summarize(results)
	total := summary.TotalUZS.InexactFloat64()
	footer := fmt.Sprintf("%s: %s %s  (%d ok, %d xato)",
		viewmodel.LabelTotal, money.Format(total), viewmodel.Currency, summary.Succeeded, summary.Failed)

	_, err := fmt.Fprintf(w, "%s\n\n%s\n", table.Render(), totalStyle.Render(footer))
	return err
}
