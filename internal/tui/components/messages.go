package components

import "github.com/Veraticus/customs/internal/tui/viewmodel"

// FieldChangedMsg reports an edit of a form field.
type FieldChangedMsg struct {
	Value string
	Field viewmodel.FieldID
}

// FocusChangedMsg reports that focus moved between fields.
type FocusChangedMsg struct {
	From viewmodel.FieldID
	To   viewmodel.FieldID
}

// SubmitRequestedMsg asks the application to run the calculation.
type SubmitRequestedMsg struct{}
