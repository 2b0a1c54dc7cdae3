package components

import (
	"github.com/Veraticus/customs/internal/tui/themes"
	"github.com/Veraticus/customs/internal/tui/viewmodel"
	"github.com/charmbracelet/lipgloss"
)

// ToneStyle returns the text style for a tone.
func ToneStyle(theme themes.Theme, tone viewmodel.Tone) lipgloss.Style {
	switch tone {
	case viewmodel.ToneSuccess:
		return theme.StatusSuccess
	case viewmodel.ToneWarning:
		return theme.StatusWarning
	case viewmodel.ToneError:
		return theme.StatusError
	default:
		return theme.StatusInfo
	}
}

// BadgeStyle returns a filled pill style for a tone.
func BadgeStyle(theme themes.Theme, tone viewmodel.Tone) lipgloss.Style {
	bg := theme.Info
	switch tone {
	case viewmodel.ToneSuccess:
		bg = theme.Success
	case viewmodel.ToneWarning:
		bg = theme.Warning
	case viewmodel.ToneError:
		bg = theme.Error
	case viewmodel.ToneInfo:
	}
	return theme.Badge.Background(bg).Foreground(theme.Background)
}
