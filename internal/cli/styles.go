// Package cli provides styled terminal output and the batch runner used by
// the one-shot commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette shared by the one-shot commands. The TUI has its own themes.
var (
	customsBlue = lipgloss.Color("#1E88E5")
	okTeal      = lipgloss.Color("#4ECDC4")
	cautionGold = lipgloss.Color("#FFE66D")
	failRed     = lipgloss.Color("#FF6B6B")
	noteTeal    = lipgloss.Color("#95E1D3")
	mutedGray   = lipgloss.Color("#666666")
	ruleGray    = lipgloss.Color("#333")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(customsBlue).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(okTeal)
	warningStyle = lipgloss.NewStyle().Foreground(cautionGold)
	errorStyle   = lipgloss.NewStyle().Foreground(failRed)
	infoStyle    = lipgloss.NewStyle().Foreground(noteTeal)
	subtleStyle  = lipgloss.NewStyle().Foreground(mutedGray)
	totalStyle   = lipgloss.NewStyle().Bold(true)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(customsBlue)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ruleGray).
			Padding(1, 2)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(ruleGray)

	// Cells are separated by their right padding.
	tableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons.
const (
	successIcon = "✓"
	errorIcon   = "✗"
	warningIcon = "⚠️"
	infoIcon    = "ℹ️"
	customsIcon = "🛃"
	recordIcon  = "📦"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return successStyle.Render(successIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return errorStyle.Render(errorIcon + " " + message)
}

// FormatWarning formats a warning, such as trade-zone advice, with icon.
func FormatWarning(message string) string {
	return warningStyle.Render(warningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return infoStyle.Render(infoIcon + " " + message)
}

// FormatSubtle dims secondary text such as timestamps.
func FormatSubtle(text string) string {
	return subtleStyle.Render(text)
}

// FormatTitle formats a heading, usually a classification code and its name.
func FormatTitle(title string) string {
	return titleStyle.Render(customsIcon + " " + title)
}

// RenderRecordBox draws the details of one stored calculation in a box.
func RenderRecordBox(id, details string) string {
	heading := titleStyle.UnsetMargins().Render(recordIcon + " " + id)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, details))
}

func formatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// formatOutcome is the status cell of a batch summary row.
func formatOutcome(ok bool, message string) string {
	if ok {
		return successStyle.Render(successIcon)
	}
	return errorStyle.Render(errorIcon + " " + message)
}
