package search

import "github.com/Veraticus/customs/internal/model"

// Messages shown in the results panel.
const (
	MessageNoResults         = "Natija topilmadi. Boshqa kod yoki kalit so'z bilan qidiring."
	MessageSearchFailed      = "Qidiruvda xatolik yuz berdi"
	PlaceholderNoDescription = "Nomi ko'rsatilmagan"
)

// Status is what the results panel is currently showing.
type Status int

// Panel statuses.
const (
	StatusIdle Status = iota
	StatusResults
	StatusEmpty
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusResults:
		return "results"
	case StatusEmpty:
		return "empty"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Panel is the view state of the classification results dropdown.
type Panel struct {
	Query   string
	Items   []model.Classification
	Status  Status
	Cursor  int
	Visible bool
}

// Message returns the text shown instead of a list, if any.
func (p Panel) Message() string {
	switch p.Status {
	case StatusEmpty:
		return MessageNoResults
	case StatusError:
		return MessageSearchFailed
	default:
		return ""
	}
}

// Current returns the highlighted item.
func (p Panel) Current() (model.Classification, bool) {
	if p.Status != StatusResults || p.Cursor < 0 || p.Cursor >= len(p.Items) {
		return model.Classification{}, false
	}
	return p.Items[p.Cursor], true
}

// Snapshot is the full visible state of the code field, its label and the panel.
// Seq increases with every change, so a consumer receiving snapshots from
// several goroutines can drop ones older than what it already has.
type Snapshot struct {
	Input string
	Label string
	Panel Panel
	Seq   uint64
}

func (s Snapshot) clone() Snapshot {
	s.Panel.Items = append([]model.Classification(nil), s.Panel.Items...)
	return s
}
