package tui

import (
	"context"

	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/search"
	"github.com/Veraticus/customs/internal/submission"
	tea "github.com/charmbracelet/bubbletea"
)

// focusSearch looks up the code field's value right away.
func focusSearch(ctx context.Context, ctrl *search.Controller, value string) tea.Cmd {
	return func() tea.Msg {
		ctrl.Focus(ctx, value)
		return searchUpdatedMsg{snapshot: ctrl.Snapshot()}
	}
}

// calculate runs one calculation.
func calculate(ctx context.Context, p *submission.Pipeline, req model.CalculationRequest) tea.Cmd {
	return func() tea.Msg {
		return calculationDoneMsg{outcome: p.Compute(ctx, req)}
	}
}

// loadRate fetches the dollar rate shown in the header.
func loadRate(ctx context.Context, backend Backend) tea.Cmd {
	return func() tea.Msg {
		rate, err := backend.CurrencyRate(ctx, "USD")
		return rateLoadedMsg{rate: rate, err: err}
	}
}
