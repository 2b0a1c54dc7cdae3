package stubapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/customs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calculate(t *testing.T, b *Backend, req model.CalculationRequest) (int, model.CalculationResult) {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, Prefix+"/calculator/calculate", bytes.NewReader(body)))

	var result model.CalculationResult
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	}
	return rec.Code, result
}

func TestBackend_Search(t *testing.T) {
	b := New()

	assert.Len(t, b.search("8471", 10), 5)
	assert.Len(t, b.search("8471.30", 10), 1)
	assert.Equal(t, "0901210000", b.search("kofe", 10)[0].Code)
	assert.Empty(t, b.search("zzzz", 10))
}

func TestBackend_CalculateDutyTypes(t *testing.T) {
	tests := []struct {
		name     string
		country  string
		cert     bool
		wantType model.DutyRateType
		warnings int
	}{
		{"standard", "CN", false, model.DutyStandard, 0},
		{"cis with certificate", "KZ", true, model.DutyCISWithCertificate, 0},
		{"cis without certificate", "KZ", false, model.DutyStandard, 1},
		{"unknown country", "XX", false, model.DutyUnknownCountry, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, result := calculate(t, New(), model.CalculationRequest{
				Code: "8471300000", Price: 100, Currency: "USD", Weight: 1,
				CountryOrigin: tt.country, HasCertificate: tt.cert,
			})
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.wantType, result.DutyRateType)
			assert.Len(t, result.Warnings, tt.warnings)
		})
	}
}

func TestBackend_CalculateTotals(t *testing.T) {
	volume := 2000
	status, result := calculate(t, New(), model.CalculationRequest{
		Code: "8703231990", Price: 10000, Currency: "USD", Weight: 1200,
		CountryOrigin: "DE", EngineVolume: &volume,
	})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, result.Payments, 4)

	var sum float64
	for _, p := range result.Payments {
		sum += p.Amount
	}
	assert.InDelta(t, sum, result.TotalUZS, 0.05)
	assert.InDelta(t, 126505000, result.CustomsValueUZS, 0.01)
}

func TestBackend_CalculateErrors(t *testing.T) {
	b := New()

	status, _ := calculate(t, b, model.CalculationRequest{Code: "0000000000", Price: 1, Currency: "USD"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = calculate(t, b, model.CalculationRequest{Code: "8471", Price: 1, Currency: "GBP"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = calculate(t, b, model.CalculationRequest{Code: "8471", Price: 0, Currency: "USD"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	assert.Len(t, b.Calculations(), 3)
}
