// Package stubapi serves a canned calculator backend for demos and tests.
//
// The duty arithmetic here is a fixed illustration, not the tariff law: the
// real figures always come from the calculator service.
package stubapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/tradezone"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Prefix is the path the API is mounted under, matching the real service.
const Prefix = "/api/v1"

// Backend is an in-memory calculator API.
type Backend struct {
	rates           map[string]model.CurrencyRate
	classifications []model.Classification
	countries       []model.Country
	queries         []string
	calculations    []model.CalculationRequest
	searchDelay     time.Duration
	mu              sync.Mutex
	failSearch      bool
}

// New returns a backend seeded with demo data.
func New() *Backend {
	return &Backend{
		classifications: DemoClassifications(),
		countries:       DemoCountries(),
		rates: map[string]model.CurrencyRate{
			"USD": {Code: "USD", Name: "AQSH dollari", Rate: 12650.5, Nominal: 1, Date: "2026-10-16"},
			"EUR": {Code: "EUR", Name: "Yevro", Rate: 13720.1, Nominal: 1, Date: "2026-10-16"},
			"RUB": {Code: "RUB", Name: "Rossiya rubli", Rate: 156.3, Nominal: 1, Date: "2026-10-16"},
			"CNY": {Code: "CNY", Name: "Xitoy yuani", Rate: 1771.9, Nominal: 1, Date: "2026-10-16"},
		},
	}
}

// SetSearchDelay makes every search response wait d before answering.
func (b *Backend) SetSearchDelay(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.searchDelay = d
}

// SetSearchFailure makes the search endpoint answer 500 while enabled.
func (b *Backend) SetSearchFailure(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failSearch = fail
}

// SearchQueries returns the queries received so far.
func (b *Backend) SearchQueries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.queries...)
}

// Calculations returns the calculation requests received so far.
func (b *Backend) Calculations() []model.CalculationRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.CalculationRequest(nil), b.calculations...)
}

// Handler returns the HTTP handler with the API mounted under Prefix.
func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route(Prefix, func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/tnved/search", b.handleSearch)
		r.Get("/currency/rates", b.handleRates)
		r.Get("/currency/rate/{code}", b.handleRate)
		r.Get("/countries/list", b.handleCountries)
		r.Get("/countries/check-free-trade/{code}", b.handleCheckFreeTrade)
		r.Post("/calculator/calculate", b.handleCalculate)
	})

	return r
}

func (b *Backend) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	b.mu.Lock()
	b.queries = append(b.queries, query)
	delay, fail := b.searchDelay, b.failSearch
	b.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if fail {
		writeDetail(w, http.StatusInternalServerError, "search index unavailable")
		return
	}

	writeJSON(w, http.StatusOK, b.search(query, limit))
}

func (b *Backend) search(query string, limit int) []model.Classification {
	needle := strings.ToLower(query)
	results := make([]model.Classification, 0, limit)
	for _, c := range b.classifications {
		if len(results) == limit {
			break
		}
		if strings.HasPrefix(strings.ReplaceAll(c.Code, ".", ""), strings.ReplaceAll(needle, ".", "")) ||
			strings.Contains(strings.ToLower(c.Description), needle) {
			results = append(results, c)
		}
	}
	return results
}

func (b *Backend) handleRates(w http.ResponseWriter, _ *http.Request) {
	rates := make([]model.Currency, 0, len(b.rates))
	for _, code := range []string{"USD", "EUR", "RUB", "CNY"} {
		rate := b.rates[code]
		rates = append(rates, model.Currency{
			Code:    rate.Code,
			Name:    rate.Name,
			Nominal: rate.Nominal,
			RateUZS: rate.Rate,
			Date:    rate.Date,
		})
	}
	writeJSON(w, http.StatusOK, rates)
}

func (b *Backend) handleRate(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	rate, ok := b.rates[code]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Valyuta topilmadi: "+code)
		return
	}
	rate.RatePerUnit = rate.PerUnit()
	writeJSON(w, http.StatusOK, rate)
}

func (b *Backend) handleCountries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.countries)
}

func (b *Backend) handleCheckFreeTrade(w http.ResponseWriter, r *http.Request) {
	code := tradezone.Normalize(chi.URLParam(r, "code"))
	status := model.FreeTradeStatus{CountryCode: code, IsFreeTrade: tradezone.IsMember(code)}
	if status.IsFreeTrade {
		requires := true
		status.AgreementName = "MDH erkin savdo zonasi shartnomasi (2011)"
		status.RequiresCertificate = &requires
	}
	writeJSON(w, http.StatusOK, status)
}

func (b *Backend) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req model.CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "Invalid JSON body"}},
		})
		return
	}

	b.mu.Lock()
	b.calculations = append(b.calculations, req)
	b.mu.Unlock()

	var problems []map[string]string
	if len(req.Code) < 2 {
		problems = append(problems, map[string]string{"msg": "String should have at least 2 characters"})
	}
	if req.Price <= 0 {
		problems = append(problems, map[string]string{"msg": "Input should be greater than 0"})
	}
	if len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": problems})
		return
	}

	if len(b.search(req.Code, 1)) == 0 {
		writeDetail(w, http.StatusNotFound, "TN VED kodi topilmadi: "+req.Code)
		return
	}

	rate, ok := b.rates[strings.ToUpper(req.Currency)]
	if !ok && !strings.EqualFold(req.Currency, "UZS") {
		writeDetail(w, http.StatusNotFound, "Valyuta topilmadi: "+req.Currency)
		return
	}

	writeJSON(w, http.StatusOK, b.calculate(req, rate))
}

func (b *Backend) calculate(req model.CalculationRequest, rate model.CurrencyRate) model.CalculationResult {
	usd := b.rates["USD"].Rate
	toUZS := 1.0
	if rate.Code != "" {
		toUZS = rate.PerUnit()
	}

	customsValue := (req.Price + req.DeliveryCost + req.InsuranceCost) * toUZS

	dutyType := model.DutyStandard
	dutyRate := 10.0
	var warnings []string
	switch tradezone.Classify(req.CountryOrigin).Status {
	case tradezone.StatusFreeTrade:
		if req.HasCertificate {
			dutyType, dutyRate = model.DutyCISWithCertificate, 0
		} else {
			warnings = append(warnings, "ST-1 sertifikati bo'lmasa standart boj stavkasi qo'llanadi")
		}
	case tradezone.StatusUnknownCountry:
		dutyType, dutyRate = model.DutyUnknownCountry, 20
		warnings = append(warnings, "Kelib chiqish mamlakati noma'lum: boj stavkasi 2 barobar oshirildi")
	case tradezone.StatusNone:
	}

	fee := customsValue * 0.002
	duty := customsValue * dutyRate / 100
	vat := (customsValue + duty) * 12 / 100
	feeRate, vatRate := 0.2, 12.0

	payments := []model.Payment{
		{Name: "Customs Fee", NameUZ: "Bojxona yig'imi", Rate: &feeRate, RateType: model.RateTypePercent, Amount: round2(fee)},
		{Name: "Import Duty", NameUZ: "Import boji", Rate: &dutyRate, RateType: model.RateTypePercent, Amount: round2(duty)},
		{Name: "VAT (QQS)", NameUZ: "QQS", Rate: &vatRate, RateType: model.RateTypePercent, Amount: round2(vat)},
	}
	if req.EngineVolume != nil && *req.EngineVolume > 0 {
		perCC := 0.4
		payments = append(payments, model.Payment{
			Name: "Excise Tax", NameUZ: "Aksiz solig'i", Rate: &perCC, RateType: model.RateTypeFixed,
			Amount: round2(float64(*req.EngineVolume) * perCC * usd),
		})
	}

	total := 0.0
	for _, p := range payments {
		total += p.Amount
	}

	effective := 0.0
	if customsValue > 0 {
		effective = total / customsValue * 100
	}

	return model.CalculationResult{
		DutyRateType:         dutyType,
		CustomsValueUZS:      round2(customsValue),
		CustomsValueUSD:      round2(customsValue / usd),
		Payments:             payments,
		TotalUZS:             round2(total),
		TotalUSD:             round2(total / usd),
		EffectiveRatePercent: &effective,
		ExchangeRate:         &usd,
		Warnings:             warnings,
		DataSource:           "stub",
		SyncInfo:             "Namuna ma'lumotlar (demo rejimi)",
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write stub response", "error", err)
	}
}
