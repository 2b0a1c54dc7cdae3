// Package testutil provides fakes and fixtures shared by the package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/storage"
)

// SetupJournal creates a migrated in-memory journal that is closed when the
// test ends.
func SetupJournal(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	journal, err := storage.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to create test journal: %v", err)
	}
	t.Cleanup(func() {
		_ = journal.Close()
	})
	return journal
}

// RecordOption adjusts a record built by NewRecord.
type RecordOption func(*model.CalculationRecord)

// WithCode sets the classification code of the request.
func WithCode(code string) RecordOption {
	return func(r *model.CalculationRecord) {
		r.Request.Code = code
	}
}

// At sets when the calculation happened.
func At(ts time.Time) RecordOption {
	return func(r *model.CalculationRecord) {
		r.CreatedAt = ts
	}
}

// WithTotal sets the total of the result.
func WithTotal(total float64) RecordOption {
	return func(r *model.CalculationRecord) {
		r.Result.TotalUZS = total
	}
}

// NewRecord builds a valid record numbered n.
func NewRecord(n int, opts ...RecordOption) *model.CalculationRecord {
	rate := 10.0
	r := &model.CalculationRecord{
		ID:          fmt.Sprintf("calc-%03d", n),
		CreatedAt:   time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Hour),
		DisplayName: "Portativ hisoblash mashinalari",
		Request: model.CalculationRequest{
			Code:          "8471300000",
			Price:         1000,
			Currency:      "USD",
			Weight:        1,
			CountryOrigin: "CN",
		},
		Result: model.CalculationResult{
			DutyRateType:    model.DutyStandard,
			CustomsValueUZS: 12650500,
			CustomsValueUSD: 1000,
			Payments: []model.Payment{
				{Name: "Import Duty", NameUZ: "Import boji", Rate: &rate, RateType: model.RateTypePercent, Amount: 1265050},
			},
			TotalUZS: 1265050,
			TotalUSD: 100,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
