package components

import (
	"strings"

	"github.com/Veraticus/customs/internal/submission"
	"github.com/Veraticus/customs/internal/tradezone"
	"github.com/Veraticus/customs/internal/tui/themes"
	"github.com/Veraticus/customs/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const labelWidth = 26

var placeholders = map[viewmodel.FieldID]string{
	viewmodel.FieldCode:         "masalan 8471 yoki noutbuk",
	viewmodel.FieldPrice:        "0",
	viewmodel.FieldCurrency:     submission.DefaultCurrency,
	viewmodel.FieldWeight:       "1",
	viewmodel.FieldCountry:      tradezone.UnknownCountry,
	viewmodel.FieldDelivery:     "0",
	viewmodel.FieldInsurance:    "0",
	viewmodel.FieldEngineVolume: "faqat avtomobillar uchun",
	viewmodel.FieldQuantity:     "ixtiyoriy",
	viewmodel.FieldVehicleAge:   "ixtiyoriy",
}

var charLimits = map[viewmodel.FieldID]int{
	viewmodel.FieldCode:     64,
	viewmodel.FieldCurrency: 3,
	viewmodel.FieldCountry:  2,
}

// FormModel holds the calculator's input fields and the focus.
type FormModel struct {
	theme       themes.Theme
	inputs      [viewmodel.FieldCount]textinput.Model
	focus       viewmodel.FieldID
	certificate bool
	width       int
}

// NewFormModel creates an empty form with the code field focused.
func NewFormModel(theme themes.Theme) FormModel {
	m := FormModel{theme: theme}
	for i := range m.inputs {
		id := viewmodel.FieldID(i)
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[id]
		in.CharLimit = 32
		if limit, ok := charLimits[id]; ok {
			in.CharLimit = limit
		}
		m.inputs[i] = in
	}
	m.inputs[viewmodel.FieldCurrency].SetValue(submission.DefaultCurrency)
	m.inputs[viewmodel.FieldCountry].SetValue(tradezone.UnknownCountry)
	m.inputs[viewmodel.FieldCode].Focus()
	return m
}

// Focused returns the field that has focus.
func (m FormModel) Focused() viewmodel.FieldID {
	return m.focus
}

// Value returns the text of a field.
func (m FormModel) Value(id viewmodel.FieldID) string {
	if !hasInput(id) {
		return ""
	}
	return m.inputs[id].Value()
}

// SetValue replaces the text of a field.
func (m *FormModel) SetValue(id viewmodel.FieldID, value string) {
	if !hasInput(id) {
		return
	}
	m.inputs[id].SetValue(value)
	m.inputs[id].CursorEnd()
}

// Certificate reports whether the ST-1 box is ticked.
func (m FormModel) Certificate() bool {
	return m.certificate
}

// Advice returns the trade-zone advice for the entered country.
func (m FormModel) Advice() tradezone.Advice {
	return tradezone.Classify(m.Value(viewmodel.FieldCountry))
}

// Form returns the raw field values.
func (m FormModel) Form() submission.Form {
	return submission.Form{
		Code:           m.Value(viewmodel.FieldCode),
		Price:          m.Value(viewmodel.FieldPrice),
		Currency:       m.Value(viewmodel.FieldCurrency),
		Weight:         m.Value(viewmodel.FieldWeight),
		Country:        m.Value(viewmodel.FieldCountry),
		Delivery:       m.Value(viewmodel.FieldDelivery),
		Insurance:      m.Value(viewmodel.FieldInsurance),
		EngineVolume:   m.Value(viewmodel.FieldEngineVolume),
		Quantity:       m.Value(viewmodel.FieldQuantity),
		VehicleAge:     m.Value(viewmodel.FieldVehicleAge),
		HasCertificate: m.certificate,
	}
}

// FocusField moves focus to id and reports the move.
func (m *FormModel) FocusField(id viewmodel.FieldID) tea.Cmd {
	from := m.focus
	if hasInput(from) {
		m.inputs[from].Blur()
	}
	m.focus = id
	if hasInput(id) {
		m.inputs[id].Focus()
	}
	if from == id {
		return nil
	}
	return func() tea.Msg { return FocusChangedMsg{From: from, To: id} }
}

// FocusNext moves focus forward, skipping the certificate box while it is hidden.
func (m *FormModel) FocusNext() tea.Cmd {
	next := m.focus.Next()
	if next == viewmodel.FieldCertificate && !m.Advice().ShowCertificate {
		next = next.Next()
	}
	return m.FocusField(next)
}

// FocusPrev moves focus backward, skipping the certificate box while it is hidden.
func (m *FormModel) FocusPrev() tea.Cmd {
	prev := m.focus.Prev()
	if prev == viewmodel.FieldCertificate && !m.Advice().ShowCertificate {
		prev = prev.Prev()
	}
	return m.FocusField(prev)
}

// Update routes key presses to the focused field.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.inputs {
			m.inputs[i].Width = max(10, msg.Width-labelWidth-6)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case viewmodel.FieldCertificate:
			if msg.String() == " " || msg.String() == "x" {
				m.certificate = !m.certificate
			}
			return m, nil
		case viewmodel.FieldSubmit:
			if msg.String() == " " {
				return m, func() tea.Msg { return SubmitRequestedMsg{} }
			}
			return m, nil
		}

		id := m.focus
		before := m.inputs[id].Value()
		var cmd tea.Cmd
		m.inputs[id], cmd = m.inputs[id].Update(msg)
		if id == viewmodel.FieldCurrency || id == viewmodel.FieldCountry {
			m.inputs[id].SetValue(strings.ToUpper(m.inputs[id].Value()))
		}

		after := m.inputs[id].Value()
		if after == before {
			return m, cmd
		}
		changed := func() tea.Msg { return FieldChangedMsg{Field: id, Value: after} }
		return m, tea.Batch(cmd, changed)
	}

	return m, nil
}

// Fields returns the rows to draw.
func (m FormModel) Fields() []viewmodel.FieldView {
	showCert := m.Advice().ShowCertificate
	fields := make([]viewmodel.FieldView, 0, viewmodel.FieldCount)
	for i := 0; i < viewmodel.FieldCount; i++ {
		id := viewmodel.FieldID(i)
		f := viewmodel.FieldView{ID: id, Label: id.Label(), Focused: id == m.focus}
		switch id {
		case viewmodel.FieldCertificate:
			f.Hidden = !showCert
			f.Value = "[ ]"
			if m.certificate {
				f.Value = "[x]"
			}
		case viewmodel.FieldSubmit:
		default:
			f.Value = m.inputs[id].View()
		}
		fields = append(fields, f)
	}
	return fields
}

// RenderFields draws the form rows except the submit button.
func RenderFields(fields []viewmodel.FieldView, theme themes.Theme) string {
	rows := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Hidden || f.ID == viewmodel.FieldSubmit {
			continue
		}
		label := theme.Label.Width(labelWidth).Render(f.Label)
		if f.Focused {
			label = theme.Accent.Width(labelWidth).Render(f.Label)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, " ", f.Value))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderSubmit draws the submit button.
func RenderSubmit(focused, busy bool, spinner string, theme themes.Theme) string {
	text := viewmodel.ButtonSubmit
	if busy {
		text = spinner + " " + viewmodel.ButtonBusy
	}

	style := theme.Code
	if focused && !busy {
		style = theme.Selected.Padding(0, 1)
	}
	return style.Render(text)
}

func hasInput(id viewmodel.FieldID) bool {
	return id >= 0 && int(id) < viewmodel.FieldCount &&
		id != viewmodel.FieldCertificate && id != viewmodel.FieldSubmit
}
