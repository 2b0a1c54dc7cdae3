package components

import (
	"testing"

	"github.com/Veraticus/customs/internal/tui/themes"
	"github.com/Veraticus/customs/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestForm returns a form whose cursors never blink, so commands
// returned by Update finish immediately.
func newTestForm() FormModel {
	m := NewFormModel(themes.Default)
	for i := range m.inputs {
		m.inputs[i].Cursor.SetMode(cursor.CursorStatic)
	}
	return m
}

func typeInto(t *testing.T, m FormModel, text string) (FormModel, []tea.Msg) {
	t.Helper()

	var msgs []tea.Msg
	for _, r := range text {
		var cmd tea.Cmd
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		msgs = append(msgs, collect(cmd)...)
	}
	return m, msgs
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestFormModel_Defaults(t *testing.T) {
	m := newTestForm()

	assert.Equal(t, viewmodel.FieldCode, m.Focused())
	f := m.Form()
	assert.Equal(t, "USD", f.Currency)
	assert.Equal(t, "XX", f.Country)
	assert.False(t, f.HasCertificate)
}

func TestFormModel_TypingReportsChanges(t *testing.T) {
	m := newTestForm()

	m, msgs := typeInto(t, m, "84")
	assert.Equal(t, "84", m.Value(viewmodel.FieldCode))

	var changes []FieldChangedMsg
	for _, msg := range msgs {
		if c, ok := msg.(FieldChangedMsg); ok {
			changes = append(changes, c)
		}
	}
	assert.Equal(t, []FieldChangedMsg{
		{Field: viewmodel.FieldCode, Value: "8"},
		{Field: viewmodel.FieldCode, Value: "84"},
	}, changes)
}

func TestFormModel_CountryUppercasedAndCertificateShown(t *testing.T) {
	m := newTestForm()
	m.SetValue(viewmodel.FieldCountry, "")
	m.FocusField(viewmodel.FieldCountry)

	m, _ = typeInto(t, m, "kz")
	assert.Equal(t, "KZ", m.Value(viewmodel.FieldCountry))
	assert.True(t, m.Advice().ShowCertificate)

	m.FocusNext()
	require.Equal(t, viewmodel.FieldCertificate, m.Focused())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, m.Form().HasCertificate)

	var cert viewmodel.FieldView
	for _, f := range m.Fields() {
		if f.ID == viewmodel.FieldCertificate {
			cert = f
		}
	}
	assert.False(t, cert.Hidden)
	assert.Equal(t, "[x]", cert.Value)
}

func TestFormModel_FocusSkipsHiddenCertificate(t *testing.T) {
	m := newTestForm()
	m.SetValue(viewmodel.FieldCountry, "CN")
	m.FocusField(viewmodel.FieldCountry)

	m.FocusNext()
	assert.Equal(t, viewmodel.FieldDelivery, m.Focused())

	m.FocusPrev()
	assert.Equal(t, viewmodel.FieldCountry, m.Focused())
}

func TestFormModel_FocusChangeMessage(t *testing.T) {
	m := newTestForm()

	cmd := m.FocusField(viewmodel.FieldPrice)
	require.NotNil(t, cmd)
	assert.Equal(t, FocusChangedMsg{From: viewmodel.FieldCode, To: viewmodel.FieldPrice}, cmd())

	assert.Nil(t, m.FocusField(viewmodel.FieldPrice))
}

func TestFormModel_SpaceOnSubmitRequestsSubmit(t *testing.T) {
	m := newTestForm()
	m.FocusField(viewmodel.FieldSubmit)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)
	assert.Equal(t, SubmitRequestedMsg{}, cmd())
}
