package viewmodel

import (
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/search"
)

// SearchRow is one selectable classification in the results panel.
type SearchRow struct {
	Code        string
	Description string
	Selected    bool
}

// SearchPanelView is the results dropdown under the code field.
type SearchPanelView struct {
	Message string
	Rows    []SearchRow
	Tone    Tone
	Visible bool
}

// NewSearchPanelView formats a panel, cutting descriptions to width cells.
func NewSearchPanelView(p search.Panel, width int) SearchPanelView {
	v := SearchPanelView{Visible: p.Visible, Message: p.Message(), Tone: ToneInfo}
	if p.Status == search.StatusError {
		v.Tone = ToneError
	}
	if p.Status != search.StatusResults {
		return v
	}

	for i, item := range p.Items {
		desc := format.CleanText(item.Description)
		if desc == "" {
			desc = search.PlaceholderNoDescription
		}
		v.Rows = append(v.Rows, SearchRow{
			Code:        format.CleanText(item.Code),
			Description: format.Truncate(desc, width),
			Selected:    i == p.Cursor,
		})
	}
	return v
}
