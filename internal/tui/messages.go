package tui

import (
	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/search"
	"github.com/Veraticus/customs/internal/submission"
)

// searchUpdatedMsg carries a new state of the code field's lookup.
type searchUpdatedMsg struct {
	snapshot search.Snapshot
}

// calculationDoneMsg carries the outcome of a submission.
type calculationDoneMsg struct {
	outcome submission.Outcome
}

// rateLoadedMsg carries the dollar rate for the header.
type rateLoadedMsg struct {
	err  error
	rate *model.CurrencyRate
}
