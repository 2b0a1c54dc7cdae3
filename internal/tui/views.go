package tui

import (
	"strings"

	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/tui/components"
	"github.com/Veraticus/customs/internal/tui/viewmodel"
	"github.com/charmbracelet/lipgloss"
)

const appTitle = "Bojxona Kalkulyatori"

// View renders the calculator screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	av := m.appView()
	sections := []string{m.renderHeader(av), m.renderForm(av), m.renderSubmit(av)}

	if av.HasError() {
		sections = append(sections, m.theme.BorderedBox.
			Padding(0, 1).
			BorderForeground(m.theme.Error).
			Render(m.theme.StatusError.UnsetBold().Render(av.Error)))
	}
	if av.HasResult() {
		sections = append(sections, m.results.View())
	}
	if av.ShowHelp {
		sections = append(sections, m.renderHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// appView gathers everything drawn on screen into one view model.
func (m Model) appView() viewmodel.AppView {
	return viewmodel.AppView{
		Breakdown: m.breakdown,
		Header:    m.header,
		Error:     format.CleanText(m.errorMsg),
		CodeLabel: format.CleanText(m.snapshot.Label),
		Advice:    viewmodel.NewAdviceView(m.form.Advice()),
		Search:    viewmodel.NewSearchPanelView(m.snapshot.Panel, m.panelTextWidth()),
		Fields:    m.form.Fields(),
		State:     m.state,
		Width:     m.width,
		Height:    m.height,
		ShowHelp:  m.showHelp,
	}
}

func (m Model) renderHeader(av viewmodel.AppView) string {
	title := m.theme.Title.UnsetMarginBottom().Render(appTitle)
	if av.Header == "" {
		return title + "\n"
	}
	rate := m.theme.Label.Render(av.Header)
	gap := max(2, m.width-lipgloss.Width(title)-lipgloss.Width(rate))
	return title + strings.Repeat(" ", gap) + rate + "\n"
}

// renderForm draws the fields with the code label and results panel right
// under the code field and the trade-zone note under the country field.
func (m Model) renderForm(av viewmodel.AppView) string {
	var rows []string
	for _, f := range av.Fields {
		if f.ID == viewmodel.FieldSubmit {
			continue
		}
		rows = append(rows, components.RenderFields([]viewmodel.FieldView{f}, m.theme))

		switch f.ID {
		case viewmodel.FieldCode:
			if av.CodeLabel != "" {
				rows = append(rows, m.indent(m.theme.Italic.Render(av.CodeLabel)))
			}
			if panel := components.RenderSearchPanel(av.Search, m.theme, m.panelWidth()); panel != "" {
				rows = append(rows, m.indent(panel))
			}
		case viewmodel.FieldCountry:
			if av.Advice.Message != "" {
				rows = append(rows, m.indent(components.ToneStyle(m.theme, av.Advice.Tone).UnsetBold().Render(av.Advice.Message)))
			}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderSubmit(av viewmodel.AppView) string {
	focused := m.form.Focused() == viewmodel.FieldSubmit
	return "\n" + components.RenderSubmit(focused, av.IsBusy(), m.spinner.View(), m.theme) + "\n"
}

func (m Model) renderHelp() string {
	m.help.Width = m.width
	return m.theme.Label.Render(m.help.View(m.keymap))
}

func (m Model) indent(s string) string {
	return lipgloss.NewStyle().PaddingLeft(27).Render(s)
}

func (m Model) panelWidth() int {
	return max(30, m.width-30)
}

func (m Model) panelTextWidth() int {
	return max(10, m.panelWidth()-16)
}
