package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/search"
	"github.com/Veraticus/customs/internal/selection"
	"github.com/Veraticus/customs/internal/submission"
	"github.com/Veraticus/customs/internal/tui/components"
	"github.com/Veraticus/customs/internal/tui/themes"
	"github.com/Veraticus/customs/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Backend is what the calculator screen needs from the API.
type Backend interface {
	search.Searcher
	submission.Calculator
	CurrencyRate(ctx context.Context, code string) (*model.CurrencyRate, error)
}

// Model holds the main TUI state.
type Model struct {
	ctx       context.Context
	backend   Backend
	search    *search.Controller
	pipeline  *submission.Pipeline
	selection *selection.State
	recorder  *Recorder
	breakdown *viewmodel.BreakdownView
	logger    *slog.Logger
	theme     themes.Theme
	config    Config
	keymap    KeyMap
	form      components.FormModel
	results   viewport.Model
	spinner   spinner.Model
	help      help.Model
	snapshot  search.Snapshot
	header    string
	errorMsg  string
	state     viewmodel.AppState
	width     int
	height    int
	showHelp  bool
	quitting  bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, backend Backend, cfg Config) Model {
	sel := selection.New()

	searchOpts := []search.Option{
		search.WithDebounce(cfg.Debounce),
		search.WithMinQueryLength(cfg.MinQueryLength),
		search.WithLimit(cfg.SearchLimit),
		search.WithStaleGuard(cfg.DiscardStale),
		search.WithLogger(cfg.Logger),
	}
	if cfg.notify != nil {
		notify := cfg.notify
		searchOpts = append(searchOpts, search.WithListener(func(s search.Snapshot) {
			notify(searchUpdatedMsg{snapshot: s})
		}))
	}

	pipelineOpts := []submission.PipelineOption{
		submission.WithNamer(sel),
		submission.WithPipelineLogger(cfg.Logger),
	}
	if cfg.Journal != nil {
		pipelineOpts = append(pipelineOpts, submission.WithRecorder(cfg.Journal))
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(cfg.Theme.Primary)

	m := Model{
		ctx:       ctx,
		backend:   backend,
		selection: sel,
		search:    search.New(backend, cfg.Scheduler, sel, searchOpts...),
		pipeline:  submission.NewPipeline(backend, pipelineOpts...),
		recorder:  NewRecorder(cfg.Record),
		logger:    cfg.Logger,
		config:    cfg,
		theme:     cfg.Theme,
		keymap:    DefaultKeyMap(),
		form:      components.NewFormModel(cfg.Theme),
		results:   viewport.New(cfg.Width, resultsHeight(cfg.Height)),
		spinner:   s,
		help:      help.New(),
		state:     viewmodel.StateReady,
		width:     cfg.Width,
		height:    cfg.Height,
		showHelp:  cfg.ShowHelp,
	}
	m.form, _ = m.form.Update(tea.WindowSizeMsg{Width: cfg.Width, Height: cfg.Height})
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadRate(m.ctx, m.backend), m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.recorder.RecordState(next, msg)
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form, _ = m.form.Update(msg)
		m.results.Width = msg.Width
		m.results.Height = resultsHeight(msg.Height)
		m.renderResults()
		return m, nil

	case components.FieldChangedMsg:
		if msg.Field == viewmodel.FieldCode {
			m.search.Input(m.ctx, msg.Value)
			m.applySnapshot(m.search.Snapshot())
		}
		return m, nil

	case components.FocusChangedMsg:
		return m.handleFocusChange(msg)

	case components.SubmitRequestedMsg:
		return m.submit()

	case searchUpdatedMsg:
		m.applySnapshot(msg.snapshot)
		return m, nil

	case calculationDoneMsg:
		m.handleOutcome(msg.outcome)
		return m, nil

	case rateLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("Failed to load exchange rate", "error", msg.err)
			return m, nil
		}
		if msg.rate != nil {
			m.header = viewmodel.HeaderRate(m.config.Money.Format(msg.rate.Rate))
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != viewmodel.StateCalculating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	onCode := m.form.Focused() == viewmodel.FieldCode
	listing := m.snapshot.Panel.Visible && m.snapshot.Panel.Status == search.StatusResults

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keymap.Dismiss):
		if m.snapshot.Panel.Visible {
			m.search.ClickOutside()
			m.applySnapshot(m.search.Snapshot())
		} else {
			m.errorMsg = ""
		}
		return m, nil

	case key.Matches(msg, m.keymap.NextField):
		cmd := m.form.FocusNext()
		return m, cmd

	case key.Matches(msg, m.keymap.PrevField):
		cmd := m.form.FocusPrev()
		return m, cmd

	case key.Matches(msg, m.keymap.Up):
		if onCode && listing {
			m.search.Move(-1)
			m.applySnapshot(m.search.Snapshot())
			return m, nil
		}
		cmd := m.form.FocusPrev()
		return m, cmd

	case key.Matches(msg, m.keymap.Down):
		if onCode && listing {
			m.search.Move(1)
			m.applySnapshot(m.search.Snapshot())
			return m, nil
		}
		cmd := m.form.FocusNext()
		return m, cmd

	case key.Matches(msg, m.keymap.Select):
		if onCode && listing {
			m.selectCurrent()
			return m, nil
		}
		return m.submit()

	case key.Matches(msg, m.keymap.Submit):
		return m.submit()

	case key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keymap.RefreshRate):
		return m, loadRate(m.ctx, m.backend)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) handleFocusChange(msg components.FocusChangedMsg) (Model, tea.Cmd) {
	if msg.From == viewmodel.FieldCode && msg.To != viewmodel.FieldCode {
		m.search.ClickOutside()
		m.applySnapshot(m.search.Snapshot())
	}
	if msg.To == viewmodel.FieldCode {
		return m, focusSearch(m.ctx, m.search, m.form.Value(viewmodel.FieldCode))
	}
	return m, nil
}

func (m *Model) selectCurrent() {
	item, err := m.search.SelectCurrent()
	if err != nil {
		if !errors.Is(err, search.ErrNoSuchItem) {
			m.logger.Warn("Failed to select classification", "error", err)
		}
		return
	}
	m.form.SetValue(viewmodel.FieldCode, item.Code)
	m.applySnapshot(m.search.Snapshot())
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.state == viewmodel.StateCalculating || m.pipeline.Busy() {
		return m, nil
	}

	req, err := submission.Validate(m.form.Form())
	if err != nil {
		var verr *submission.ValidationError
		if errors.As(err, &verr) {
			m.errorMsg = verr.Message
		} else {
			m.errorMsg = err.Error()
		}
		m.state = viewmodel.StateError
		m.breakdown = nil
		return m, nil
	}

	m.state = viewmodel.StateCalculating
	m.errorMsg = ""
	m.breakdown = nil
	m.renderResults()
	return m, tea.Batch(m.spinner.Tick, calculate(m.ctx, m.pipeline, req))
}

func (m *Model) handleOutcome(out submission.Outcome) {
	switch out.Kind {
	case submission.KindBusy:
		return
	case submission.KindSuccess:
		view := viewmodel.NewBreakdownView(out.Result, m.config.Money)
		m.breakdown = &view
		m.errorMsg = ""
		m.state = viewmodel.StateResult
	case submission.KindInvalid, submission.KindFailed:
		m.breakdown = nil
		m.errorMsg = out.ErrorMessage
		m.state = viewmodel.StateError
	}
	m.renderResults()
	m.results.GotoTop()
}

// applySnapshot keeps the newest search state; snapshots can arrive out of
// order from timer goroutines.
func (m *Model) applySnapshot(s search.Snapshot) {
	if s.Seq < m.snapshot.Seq {
		return
	}
	m.snapshot = s
}

func (m *Model) renderResults() {
	if m.breakdown == nil {
		m.results.SetContent("")
		return
	}
	m.results.SetContent(components.RenderBreakdown(*m.breakdown, m.theme, max(20, m.width-4)))
}

func resultsHeight(total int) int {
	return max(5, total/2)
}
