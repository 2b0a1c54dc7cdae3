package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Veraticus/customs/internal/common"
	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/stubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubClient(t *testing.T) (*Client, *stubapi.Backend) {
	t.Helper()

	backend := stubapi.New()
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL + stubapi.Prefix)
	require.NoError(t, err)
	return client, backend
}

func newHandlerClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, WithTimeout(2*time.Second))
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	client, err := NewClient("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())

	client, err = NewClient("https://calc.example.uz/api/v1/")
	require.NoError(t, err)
	assert.Equal(t, "https://calc.example.uz/api/v1", client.BaseURL())

	_, err = NewClient("ftp://calc.example.uz")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestClient_SearchClassifications(t *testing.T) {
	client, backend := newStubClient(t)

	results, err := client.SearchClassifications(context.Background(), "8471", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "8471300000", results[0].Code)
	assert.Equal(t, []string{"8471"}, backend.SearchQueries())
}

func TestClient_SearchSendsQueryAndLimit(t *testing.T) {
	var gotQuery, gotLimit, gotPath string
	client := newHandlerClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`[{"code":"8471.30","description":"Laptop"}]`))
	})

	results, err := client.SearchClassifications(context.Background(), "kofe & choy", 0)
	require.NoError(t, err)
	assert.Equal(t, "/tnved/search", gotPath)
	assert.Equal(t, "kofe & choy", gotQuery)
	assert.Equal(t, "10", gotLimit)
	assert.Equal(t, []model.Classification{{Code: "8471.30", Description: "Laptop"}}, results)
}

func TestClient_SearchErrorStatus(t *testing.T) {
	client, backend := newStubClient(t)
	backend.SetSearchFailure(true)

	_, err := client.SearchClassifications(context.Background(), "8471", 10)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "search index unavailable", apiErr.Detail)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(url)
	require.NoError(t, err)

	_, err = client.SearchClassifications(context.Background(), "8471", 10)
	assert.ErrorIs(t, err, common.ErrAPIUnavailable)
}

func TestClient_InvalidJSON(t *testing.T) {
	client := newHandlerClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	})

	_, err := client.SearchClassifications(context.Background(), "8471", 10)
	assert.ErrorIs(t, err, common.ErrInvalidResponse)
}

func TestClient_CurrencyRate(t *testing.T) {
	client, _ := newStubClient(t)

	rate, err := client.CurrencyRate(context.Background(), "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", rate.Code)
	assert.InDelta(t, 12650.5, rate.Rate, 0.001)

	_, err = client.CurrencyRate(context.Background(), "XYZ")
	assert.True(t, IsNotFound(err))
}

func TestClient_Currencies(t *testing.T) {
	client, _ := newStubClient(t)

	rates, err := client.Currencies(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, rates)
	assert.Equal(t, "USD", rates[0].Code)
}

func TestClient_CountriesAndFreeTrade(t *testing.T) {
	client, _ := newStubClient(t)

	countries, err := client.Countries(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, countries)

	status, err := client.CheckFreeTrade(context.Background(), "kz")
	require.NoError(t, err)
	assert.True(t, status.IsFreeTrade)
	assert.Equal(t, "KZ", status.CountryCode)
	require.NotNil(t, status.RequiresCertificate)
	assert.True(t, *status.RequiresCertificate)

	status, err = client.CheckFreeTrade(context.Background(), "CN")
	require.NoError(t, err)
	assert.False(t, status.IsFreeTrade)
}

func TestClient_Calculate(t *testing.T) {
	client, backend := newStubClient(t)

	req := model.CalculationRequest{
		Code:          "8471300000",
		Price:         1000,
		Currency:      "USD",
		Weight:        2,
		CountryOrigin: "CN",
	}
	result, err := client.Calculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.DutyStandard, result.DutyRateType)
	assert.Len(t, result.Payments, 3)
	assert.Positive(t, result.TotalUZS)
	require.Len(t, backend.Calculations(), 1)
	assert.Equal(t, req, backend.Calculations()[0])
}

func TestClient_CalculatePostsJSON(t *testing.T) {
	var body map[string]any
	var contentType string
	client := newHandlerClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"duty_rate_type":"standard","payments":[],"total_uzs":1,"total_usd":0}`))
	})

	engine := 1600
	_, err := client.Calculate(context.Background(), model.CalculationRequest{
		Code: "8703", Price: 5, Currency: "USD", Weight: 1, CountryOrigin: "DE", EngineVolume: &engine,
	})
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "8703", body["code"])
	assert.Equal(t, "DE", body["country_origin"])
	assert.InDelta(t, 1600, body["engine_volume"], 0.001)
	assert.Equal(t, false, body["has_certificate"])
}

func TestClient_CalculateValidationError(t *testing.T) {
	client, _ := newStubClient(t)

	_, err := client.Calculate(context.Background(), model.CalculationRequest{Code: "8", Price: 0})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "String should have at least 2 characters, Input should be greater than 0", apiErr.Detail)
	assert.True(t, apiErr.Decodable)
}

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		want      string
		decodable bool
	}{
		{"string detail", `{"detail":"TN VED kodi topilmadi: 0000"}`, "TN VED kodi topilmadi: 0000", true},
		{"list of msg objects", `{"detail":[{"msg":"a","loc":["body","price"]},{"msg":"b"}]}`, "a, b", true},
		{"list of strings", `{"detail":["x","y"]}`, "x, y", true},
		{"list entry without msg", `{"detail":[{"type":"missing"}]}`, `{"type":"missing"}`, true},
		{"no detail", `{"error":"boom"}`, "", true},
		{"null detail", `{"detail":null}`, "", true},
		{"object detail", `{"detail":{"reason":"x"}}`, "", true},
		{"not json", `Internal Server Error`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDetail([]byte(tt.body))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.decodable, ok)
		})
	}
}
