package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Veraticus/customs/internal/api"
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/search"
	"github.com/Veraticus/customs/internal/submission"
	"github.com/Veraticus/customs/internal/testutil"
	tuitesting "github.com/Veraticus/customs/internal/tui/testing"
	"github.com/Veraticus/customs/internal/tui/viewmodel"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var laptops = []model.Classification{
	{Code: "8471300000", Description: "Portativ hisoblash mashinalari"},
	{Code: "8471410000", Description: "Boshqa raqamli hisoblash mashinalari"},
}

type fakeBackend struct {
	*testutil.FakeSearcher
	result   *model.CalculationResult
	calcErr  error
	rate     *model.CurrencyRate
	rateErr  error
	requests []model.CalculationRequest
	mu       sync.Mutex
}

func newFakeBackend() *fakeBackend {
	fee, duty := 0.2, 10.0
	searcher := testutil.NewFakeSearcher()
	searcher.Reply("8471", laptops...)
	return &fakeBackend{
		FakeSearcher: searcher,
		rate:         &model.CurrencyRate{Code: "USD", Rate: 12650.5, Nominal: 1},
		result: &model.CalculationResult{
			DutyRateType:    model.DutyStandard,
			CustomsValueUZS: 12650500,
			CustomsValueUSD: 1000,
			Payments: []model.Payment{
				{Name: "Customs Fee", NameUZ: "Bojxona yig'imi", Rate: &fee, RateType: model.RateTypePercent, Amount: 25301},
				{Name: "Import Duty", NameUZ: "Import boji", Rate: &duty, RateType: model.RateTypePercent, Amount: 1265050},
			},
			TotalUZS:   1290351,
			TotalUSD:   102,
			DataSource: "stub",
		},
	}
}

func (b *fakeBackend) Calculate(_ context.Context, req model.CalculationRequest) (*model.CalculationResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
	if b.calcErr != nil {
		return nil, b.calcErr
	}
	return b.result, nil
}

func (b *fakeBackend) CurrencyRate(_ context.Context, _ string) (*model.CurrencyRate, error) {
	return b.rate, b.rateErr
}

func (b *fakeBackend) Requests() []model.CalculationRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.CalculationRequest(nil), b.requests...)
}

type harness struct {
	driver    *tuitesting.Driver
	backend   *fakeBackend
	scheduler *testutil.ManualScheduler
}

func newHarness(t *testing.T, backend *fakeBackend, opts ...Option) *harness {
	t.Helper()

	h := &harness{backend: backend, scheduler: testutil.NewManualScheduler()}

	cfg := defaultConfig()
	base := []Option{
		WithScheduler(h.scheduler),
		WithMoney(format.NewMoney(language.English)),
		WithSize(100, 80),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		withNotify(func(msg tea.Msg) { h.driver.Notify(msg) }),
	}
	for _, opt := range append(base, opts...) {
		opt(&cfg)
	}

	h.driver = tuitesting.NewDriver(newModel(context.Background(), backend, cfg))
	return h
}

func (h *harness) model() Model {
	return h.driver.Model().(Model)
}

// flush lets the debounce period elapse and delivers the results.
func (h *harness) flush() int {
	n := h.scheduler.Flush()
	h.driver.Pump()
	return n
}

func (h *harness) showResults(t *testing.T) {
	t.Helper()
	h.driver.Type("8471")
	require.Equal(t, 1, h.flush())
	require.True(t, h.model().snapshot.Panel.Visible)
}

func TestModel_TypingDebouncesSearch(t *testing.T) {
	h := newHarness(t, newFakeBackend())

	h.driver.Type("8471")

	assert.Equal(t, 3, h.scheduler.Scheduled(), "single characters are never scheduled")
	assert.Equal(t, 1, h.scheduler.Pending())
	assert.Empty(t, h.backend.Queries())

	assert.Equal(t, 1, h.flush())
	assert.Equal(t, []string{"8471"}, h.backend.Queries())

	panel := h.model().snapshot.Panel
	assert.True(t, panel.Visible)
	assert.Equal(t, search.StatusResults, panel.Status)
	assert.Len(t, panel.Items, 2)

	view := h.driver.PlainView()
	assert.True(t, tuitesting.ContainsInOrder(view, "8471300000", "8471410000"))
}

func TestModel_NoResultsMessage(t *testing.T) {
	h := newHarness(t, newFakeBackend())

	h.driver.Type("zz")
	h.flush()

	assert.Contains(t, tuitesting.NormalizeWhitespace(h.driver.PlainView()), search.MessageNoResults)
}

func TestModel_SearchFailureShowsError(t *testing.T) {
	backend := newFakeBackend()
	backend.Fail("84", errors.New("boom"))
	h := newHarness(t, backend)

	h.driver.Type("84")
	h.flush()

	assert.Equal(t, search.StatusError, h.model().snapshot.Panel.Status)
	assert.Contains(t, h.driver.PlainView(), search.MessageSearchFailed)
	assert.Empty(t, h.model().errorMsg, "search failures stay inside the panel")
}

func TestModel_EnterSelectsHighlightedResult(t *testing.T) {
	h := newHarness(t, newFakeBackend())
	h.showResults(t)

	h.driver.Send(tuitesting.KeyDown())
	h.driver.Send(tuitesting.KeyEnter())

	m := h.model()
	assert.Equal(t, "8471410000", m.form.Value(viewmodel.FieldCode))
	assert.Equal(t, "8471410000", m.selection.Code())
	assert.Equal(t, "Boshqa raqamli hisoblash mashinalari", m.snapshot.Label)
	assert.False(t, m.snapshot.Panel.Visible)
	assert.Equal(t, 0, h.scheduler.Pending(), "writing the code back does not search again")
	assert.Empty(t, h.backend.Requests(), "enter on an open list does not submit")
	assert.Contains(t, h.driver.PlainView(), "Boshqa raqamli hisoblash mashinalari")
}

func TestModel_SelectedLabelIsCleaned(t *testing.T) {
	backend := newFakeBackend()
	backend.Reply("9999", model.Classification{Code: "9999000000", Description: "<b>Boshqa</b>\x1b]0;title\x07 tovarlar"})
	h := newHarness(t, backend)

	h.driver.Type("9999")
	require.Equal(t, 1, h.flush())
	h.driver.Send(tuitesting.KeyEnter())

	m := h.model()
	assert.Equal(t, "9999000000", m.selection.Code())
	assert.Equal(t, "Boshqa tovarlar", m.snapshot.Label)
	assert.Equal(t, "Boshqa tovarlar", m.selection.DisplayName())

	view := h.driver.View()
	assert.Contains(t, view, "Boshqa tovarlar")
	assert.NotContains(t, view, "<b>")
	assert.NotContains(t, view, "\x1b]0;")
}

func TestModel_SubmitFailureDetailIsCleaned(t *testing.T) {
	backend := newFakeBackend()
	backend.calcErr = &api.APIError{StatusCode: 404, Detail: "<i>Kod</i> topilmadi\x1b]0;title\x07", Decodable: true}
	h := newHarness(t, backend)

	fillForm(h)
	h.driver.Send(tuitesting.KeyCtrlS())

	assert.Equal(t, "Kod topilmadi", h.model().errorMsg)
	view := h.driver.View()
	assert.Contains(t, view, "Kod topilmadi")
	assert.NotContains(t, view, "<i>")
	assert.NotContains(t, view, "\x1b]0;")
}

func TestModel_ShortQueryHidesPanel(t *testing.T) {
	h := newHarness(t, newFakeBackend())
	h.showResults(t)

	for range 3 {
		h.driver.Send(tuitesting.KeyBackspace())
	}

	assert.Equal(t, "8", h.model().form.Value(viewmodel.FieldCode))
	assert.False(t, h.model().snapshot.Panel.Visible)
	assert.Equal(t, 0, h.scheduler.Pending())
	assert.NotContains(t, h.driver.PlainView(), "8471300000")
}

func TestModel_LeavingCodeFieldHidesPanel(t *testing.T) {
	h := newHarness(t, newFakeBackend())
	h.showResults(t)

	h.driver.Send(tuitesting.KeyTab())

	assert.Equal(t, viewmodel.FieldPrice, h.model().form.Focused())
	assert.False(t, h.model().snapshot.Panel.Visible)

	h.driver.Send(tuitesting.KeyShiftTab())

	assert.Equal(t, viewmodel.FieldCode, h.model().form.Focused())
	assert.True(t, h.model().snapshot.Panel.Visible, "focus searches again without waiting")
	assert.Equal(t, []string{"8471", "8471"}, h.backend.Queries())
	assert.Equal(t, 0, h.scheduler.Pending())
}

func TestModel_EscClosesPanelThenClearsError(t *testing.T) {
	h := newHarness(t, newFakeBackend())
	h.showResults(t)

	h.driver.Send(tuitesting.KeyEsc())
	assert.False(t, h.model().snapshot.Panel.Visible)

	h.driver.Send(tuitesting.KeyCtrlS())
	require.Equal(t, submission.MessagePriceRequired, h.model().errorMsg)

	h.driver.Send(tuitesting.KeyEsc())
	assert.Empty(t, h.model().errorMsg)
}

func TestModel_InvalidSubmitSendsNothing(t *testing.T) {
	h := newHarness(t, newFakeBackend())

	h.driver.Send(tuitesting.KeyCtrlS())

	m := h.model()
	assert.Equal(t, viewmodel.StateError, m.state)
	assert.Equal(t, submission.MessageCodeRequired, m.errorMsg)
	assert.Empty(t, h.backend.Requests())
	assert.Contains(t, h.driver.PlainView(), submission.MessageCodeRequired)
}

func fillForm(h *harness) {
	h.driver.Type("8471")
	h.driver.Send(tuitesting.KeyTab())
	h.driver.Type("1000")
}

func TestModel_SubmitRendersBreakdown(t *testing.T) {
	h := newHarness(t, newFakeBackend())
	fillForm(h)

	h.driver.Send(tuitesting.KeyCtrlS())

	requests := h.backend.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "8471", requests[0].Code)
	assert.InDelta(t, 1000.0, requests[0].Price, 0.001)
	assert.Equal(t, "USD", requests[0].Currency)
	assert.Equal(t, "XX", requests[0].CountryOrigin)

	m := h.model()
	assert.Equal(t, viewmodel.StateResult, m.state)
	require.NotNil(t, m.breakdown)
	assert.Equal(t, 0, m.results.YOffset)

	view := h.driver.PlainView()
	assert.True(t, tuitesting.ContainsInOrder(view,
		"Standart tarif",
		viewmodel.LabelCustomsValue,
		"12,650,500",
		viewmodel.LabelPayments,
		"Bojxona yig'imi",
		viewmodel.LabelTotal,
		"1,290,351",
	), view)
	assert.Contains(t, view, viewmodel.ButtonSubmit)
}

func TestModel_SubmitFailureShowsDetail(t *testing.T) {
	backend := newFakeBackend()
	backend.calcErr = &api.APIError{StatusCode: 404, Detail: "TN VED kodi topilmadi: 8471", Decodable: true}
	h := newHarness(t, backend)
	fillForm(h)

	h.driver.Send(tuitesting.KeyEnter())

	m := h.model()
	assert.Equal(t, viewmodel.StateError, m.state)
	assert.Nil(t, m.breakdown)
	assert.Contains(t, h.driver.PlainView(), "TN VED kodi topilmadi: 8471")
	assert.NotContains(t, h.driver.PlainView(), viewmodel.LabelTotal)
}

func TestModel_SubmitConnectionFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.calcErr = errors.New("dial tcp: connection refused")
	h := newHarness(t, backend)
	fillForm(h)

	h.driver.Send(tuitesting.KeyCtrlS())

	assert.Equal(t, submission.MessageConnectionFailed, h.model().errorMsg)
}

func TestModel_NewResultReplacesError(t *testing.T) {
	backend := newFakeBackend()
	backend.calcErr = errors.New("offline")
	h := newHarness(t, backend)
	fillForm(h)

	h.driver.Send(tuitesting.KeyCtrlS())
	require.NotEmpty(t, h.model().errorMsg)

	backend.mu.Lock()
	backend.calcErr = nil
	backend.mu.Unlock()
	h.driver.Send(tuitesting.KeyCtrlS())

	assert.Empty(t, h.model().errorMsg)
	assert.Equal(t, viewmodel.StateResult, h.model().state)
	assert.Len(t, backend.Requests(), 2)
}

func TestModel_HeaderShowsRate(t *testing.T) {
	h := newHarness(t, newFakeBackend())

	h.driver.Run(h.model().Init())

	assert.Equal(t, "1 USD = 12,650.5 so'm", h.model().header)
	assert.True(t, tuitesting.ContainsInOrder(h.driver.PlainView(), appTitle, "1 USD = 12,650.5 so'm"))
	assert.Equal(t, appTitle+" 1 USD = 12,650.5 so'm", tuitesting.NormalizeWhitespace(h.driver.Lines()[0]))
}

func TestModel_HeaderWithoutRate(t *testing.T) {
	backend := newFakeBackend()
	backend.rate, backend.rateErr = nil, errors.New("offline")
	h := newHarness(t, backend)

	h.driver.Run(h.model().Init())

	assert.Empty(t, h.model().header)
	assert.Contains(t, h.driver.PlainView(), appTitle)
}

func TestModel_CertificateForFreeTradeCountry(t *testing.T) {
	h := newHarness(t, newFakeBackend())
	for range 4 {
		h.driver.Send(tuitesting.KeyTab())
	}
	require.Equal(t, viewmodel.FieldCountry, h.model().form.Focused())
	assert.Contains(t, h.driver.PlainView(), "Noma'lum mamlakat uchun 2x")

	h.driver.Send(tuitesting.KeyBackspace())
	h.driver.Send(tuitesting.KeyBackspace())
	h.driver.Type("kz")

	assert.Equal(t, "KZ", h.model().form.Value(viewmodel.FieldCountry))
	assert.Contains(t, h.driver.PlainView(), "Erkin savdo zonasi")

	h.driver.Send(tuitesting.KeyTab())
	require.Equal(t, viewmodel.FieldCertificate, h.model().form.Focused())
	h.driver.Send(tuitesting.KeySpace())

	assert.True(t, h.model().form.Form().HasCertificate)
}

func TestModel_IgnoresOlderSnapshots(t *testing.T) {
	h := newHarness(t, newFakeBackend())
	h.showResults(t)
	current := h.model().snapshot

	h.driver.Send(searchUpdatedMsg{snapshot: search.Snapshot{Seq: current.Seq - 1}})

	assert.Equal(t, current.Seq, h.model().snapshot.Seq)
	assert.True(t, h.model().snapshot.Panel.Visible)
}

func TestModel_QuitAndHelp(t *testing.T) {
	h := newHarness(t, newFakeBackend())

	assert.Contains(t, h.driver.PlainView(), "toggle help")
	h.driver.Send(tea.KeyMsg{Type: tea.KeyF1})
	assert.False(t, h.model().showHelp)

	h.driver.Send(tuitesting.KeyCtrlC())
	assert.True(t, h.driver.Quit)
	assert.Empty(t, h.driver.View())
}
