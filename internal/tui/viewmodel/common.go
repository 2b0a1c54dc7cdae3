package viewmodel

// AppState represents the overall application state.
type AppState int

const (
	// StateReady indicates the form is waiting for input.
	StateReady AppState = iota
	// StateCalculating indicates a calculation request is in flight.
	StateCalculating
	// StateResult indicates a breakdown is on screen.
	StateResult
	// StateError indicates the last submission failed.
	StateError
)

// FieldID identifies a form field in tab order.
type FieldID int

// Form fields in tab order.
const (
	FieldCode FieldID = iota
	FieldPrice
	FieldCurrency
	FieldWeight
	FieldCountry
	FieldCertificate
	FieldDelivery
	FieldInsurance
	FieldEngineVolume
	FieldQuantity
	FieldVehicleAge
	FieldSubmit
	fieldCount
)

// FieldCount is the number of focusable fields.
const FieldCount = int(fieldCount)

// FieldView is one form row.
type FieldView struct {
	Label   string
	Value   string
	Hint    string
	ID      FieldID
	Focused bool
	Hidden  bool
}

// AdviceView is the trade-zone note under the country field.
type AdviceView struct {
	Message         string
	Tone            Tone
	ShowCertificate bool
}

// AppView represents the entire application view model.
type AppView struct {
	Breakdown     *BreakdownView
	Header        string
	Error         string
	CodeLabel     string
	StatusMessage string
	Advice        AdviceView
	Search        SearchPanelView
	Fields        []FieldView
	KeyBindings   []KeyBinding
	State         AppState
	Width         int
	Height        int
	ShowHelp      bool
}

// KeyBinding represents a keyboard shortcut.
type KeyBinding struct {
	Key         string
	Description string
	IsActive    bool
}

// IsBusy returns true while a calculation is running.
func (av AppView) IsBusy() bool {
	return av.State == StateCalculating
}

// HasError returns true if the last submission failed.
func (av AppView) HasError() bool {
	return av.Error != ""
}

// HasResult returns true if a breakdown should be drawn.
func (av AppView) HasResult() bool {
	return av.State == StateResult && av.Breakdown != nil
}

// GetActiveKeyBindings returns only the currently active key bindings.
func (av AppView) GetActiveKeyBindings() []KeyBinding {
	var active []KeyBinding
	for _, kb := range av.KeyBindings {
		if kb.IsActive {
			active = append(active, kb)
		}
	}
	return active
}
