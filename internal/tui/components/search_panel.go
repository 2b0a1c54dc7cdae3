package components

import (
	"strings"

	"github.com/Veraticus/customs/internal/tui/themes"
	"github.com/Veraticus/customs/internal/tui/viewmodel"
	"github.com/charmbracelet/lipgloss"
)

// RenderSearchPanel draws the results dropdown. A hidden panel renders as
// an empty string.
func RenderSearchPanel(v viewmodel.SearchPanelView, theme themes.Theme, width int) string {
	if !v.Visible {
		return ""
	}

	var b strings.Builder
	if v.Message != "" {
		b.WriteString(ToneStyle(theme, v.Tone).UnsetBold().Render(v.Message))
	} else {
		for i, row := range v.Rows {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(renderSearchRow(row, theme))
		}
	}

	box := theme.RoundedBox.Padding(0, 1)
	if width > 0 {
		box = box.Width(width)
	}
	return box.Render(b.String())
}

func renderSearchRow(row viewmodel.SearchRow, theme themes.Theme) string {
	code := theme.Accent.Render(row.Code)
	desc := theme.Label.Render(row.Description)
	line := lipgloss.JoinHorizontal(lipgloss.Top, code, "  ", desc)

	if row.Selected {
		return theme.Highlighted.Render("▸ ") + line
	}
	return "  " + line
}
