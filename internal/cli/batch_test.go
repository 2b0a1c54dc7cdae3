package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Veraticus/customs/internal/api"
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/stubapi"
	"github.com/Veraticus/customs/internal/submission"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const batchYAML = `
defaults:
  currency: USD
  country: CN
items:
  - name: noutbuk
    code: "8471300000"
    price: 1000
  - name: kofe
    code: "0901210000"
    price: 250.50
    country: KZ
    certificate: true
  - code: "8"
    price: 10
  - name: avtomobil
    code: "8703231990"
    price: 15000
    engine_volume: 1600
    certificate: false
`

func newPipeline(t *testing.T) (*submission.Pipeline, *stubapi.Backend) {
	t.Helper()
	backend := stubapi.New()
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL + stubapi.Prefix)
	require.NoError(t, err)
	return submission.NewPipeline(client), backend
}

func TestLoadBatch(t *testing.T) {
	file, err := LoadBatch(strings.NewReader(batchYAML))
	require.NoError(t, err)
	require.Len(t, file.Items, 4)

	assert.Equal(t, "noutbuk", file.Label(0))
	assert.Equal(t, "#3", file.Label(2))

	first := file.Form(0)
	assert.Equal(t, "8471300000", first.Code)
	assert.Equal(t, "1000", first.Price)
	assert.Equal(t, "USD", first.Currency)
	assert.Equal(t, "CN", first.Country)
	assert.False(t, first.HasCertificate)

	second := file.Form(1)
	assert.Equal(t, "250.50", second.Price)
	assert.Equal(t, "KZ", second.Country)
	assert.True(t, second.HasCertificate)

	assert.Equal(t, "1600", file.Form(3).EngineVolume)
}

func TestLoadBatch_Errors(t *testing.T) {
	tests := []struct {
		want  error
		name  string
		input string
	}{
		{name: "empty document", input: "", want: ErrEmptyBatch},
		{name: "no items", input: "defaults:\n  currency: EUR\n", want: ErrEmptyBatch},
		{name: "unknown key", input: "items:\n  - code: \"8471\"\n    prise: 10\n"},
		{name: "not yaml", input: "items: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBatch(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestBatchFile_DefaultCertificate(t *testing.T) {
	file, err := LoadBatch(strings.NewReader(`
defaults:
  certificate: true
items:
  - code: "0901210000"
    price: 10
  - code: "0901210000"
    price: 10
    certificate: false
`))
	require.NoError(t, err)

	assert.True(t, file.Form(0).HasCertificate)
	assert.False(t, file.Form(1).HasCertificate)
}

func TestBatchRunner_Run(t *testing.T) {
	pipeline, backend := newPipeline(t)
	file, err := LoadBatch(strings.NewReader(batchYAML))
	require.NoError(t, err)

	var progress bytes.Buffer
	handler := NewInterruptHandler(&bytes.Buffer{})
	runner := NewBatchRunner(pipeline, &progress, WithProgress(true), WithInterruptHandler(handler))

	results, err := runner.Run(context.Background(), file)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.True(t, results[0].Outcome.OK())
	assert.Equal(t, model.DutyStandard, results[0].Outcome.Result.DutyRateType)
	assert.Equal(t, model.DutyCISWithCertificate, results[1].Outcome.Result.DutyRateType)

	assert.Equal(t, submission.KindInvalid, results[2].Outcome.Kind)
	assert.Equal(t, submission.MessageCodeRequired, results[2].Outcome.ErrorMessage)
	assert.Equal(t, "8", results[2].Code)

	assert.True(t, results[3].Outcome.OK())
	assert.Len(t, backend.Calculations(), 3, "invalid items are never sent")
	assert.NotEmpty(t, progress.String())
	assert.False(t, handler.WasInterrupted())
}

func TestBatchRunner_StopsWhenCanceled(t *testing.T) {
	pipeline, backend := newPipeline(t)
	file, err := LoadBatch(strings.NewReader(batchYAML))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewBatchRunner(pipeline, nil).Run(ctx, file)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.Empty(t, backend.Calculations())
}

func TestSummarize(t *testing.T) {
	results := []BatchResult{
		{Outcome: submission.Outcome{Kind: submission.KindSuccess, Result: &model.CalculationResult{TotalUZS: 0.1}}},
		{Outcome: submission.Outcome{Kind: submission.KindSuccess, Result: &model.CalculationResult{TotalUZS: 0.2}}},
		{Outcome: submission.Outcome{Kind: submission.KindFailed, ErrorMessage: submission.MessageConnectionFailed}},
	}

	s := Summarize(results)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.True(t, s.TotalUZS.Equal(decimal.RequireFromString("0.3")), s.TotalUZS.String())
}

func TestWriteBatchSummary(t *testing.T) {
	results := []BatchResult{
		{Label: "noutbuk", Code: "8471300000", Outcome: submission.Outcome{
			Kind:   submission.KindSuccess,
			Result: &model.CalculationResult{DutyRateType: model.DutyFreeTrade, TotalUZS: 1500000},
		}},
		{Label: "#2", Code: "8", Outcome: submission.Outcome{
			Kind: submission.KindInvalid, ErrorMessage: submission.MessageCodeRequired,
		}},
	}

	var out bytes.Buffer
	require.NoError(t, WriteBatchSummary(&out, results, format.NewMoney(language.English)))

	text := ansi.Strip(out.String())
	assert.Contains(t, text, "noutbuk")
	assert.Contains(t, text, "Erkin savdo (0%)")
	assert.Contains(t, text, "1,500,000 so'm")
	assert.Contains(t, text, submission.MessageCodeRequired)
	assert.Contains(t, text, "(1 ok, 1 xato)")
}
