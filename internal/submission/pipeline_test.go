package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/customs/internal/api"
	"github.com/Veraticus/customs/internal/common"
	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalculator struct {
	result  *model.CalculationResult
	err     error
	started chan struct{}
	release chan struct{}
	calls   []model.CalculationRequest
	mu      sync.Mutex
}

func (f *fakeCalculator) Calculate(ctx context.Context, req model.CalculationRequest) (*model.CalculationResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

func (f *fakeCalculator) Calls() []model.CalculationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.CalculationRequest(nil), f.calls...)
}

type memoryRecorder struct {
	err     error
	records []*model.CalculationRecord
}

func (m *memoryRecorder) SaveCalculation(_ context.Context, record *model.CalculationRecord) error {
	m.records = append(m.records, record)
	return m.err
}

func TestPipeline_InvalidFormMakesNoRequest(t *testing.T) {
	calc := &fakeCalculator{}
	p := NewPipeline(calc)

	for _, f := range []Form{
		{Code: "8", Price: "100"},
		{Code: "8471", Price: "0"},
		{Code: "8471"},
	} {
		out := p.Submit(context.Background(), f)
		assert.Equal(t, KindInvalid, out.Kind)
		assert.NotEmpty(t, out.ErrorMessage)
	}

	assert.Empty(t, calc.Calls())
}

func TestPipeline_SubmitSuccess(t *testing.T) {
	result := &model.CalculationResult{DutyRateType: model.DutyStandard, TotalUZS: 1500}
	calc := &fakeCalculator{result: result}
	p := NewPipeline(calc)

	out := p.Submit(context.Background(), Form{Code: "8471300000", Price: "100", Country: "cn"})

	require.True(t, out.OK())
	assert.Same(t, result, out.Result)
	assert.Empty(t, out.ErrorMessage)
	require.Len(t, calc.Calls(), 1)
	assert.Equal(t, "CN", calc.Calls()[0].CountryOrigin)
	assert.False(t, p.Busy())
}

func TestPipeline_FailureMessages(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{
			name: "string detail",
			err:  &api.APIError{StatusCode: 404, Detail: "TN VED kodi topilmadi: 0000", Decodable: true},
			want: "TN VED kodi topilmadi: 0000",
		},
		{
			name: "joined list detail",
			err:  &api.APIError{StatusCode: 422, Detail: "a, b", Decodable: true},
			want: "a, b",
		},
		{
			name: "detail with markup and escapes",
			err:  &api.APIError{StatusCode: 404, Detail: "<i>Kod</i> topilmadi\x1b]0;title\x07", Decodable: true},
			want: "Kod topilmadi",
		},
		{
			name: "detail that is only markup",
			err:  &api.APIError{StatusCode: 422, Detail: "<br/>", Decodable: true},
			want: MessageCalculationFailed,
		},
		{
			name: "no detail",
			err:  &api.APIError{StatusCode: 500, Decodable: true},
			want: MessageCalculationFailed,
		},
		{
			name: "undecodable body",
			err:  &api.APIError{StatusCode: 502, Decodable: false},
			want: MessageConnectionFailed,
		},
		{
			name: "transport",
			err:  fmt.Errorf("%w: dial tcp: refused", common.ErrAPIUnavailable),
			want: MessageConnectionFailed,
		},
		{
			name: "bad success body",
			err:  fmt.Errorf("%w: unexpected EOF", common.ErrInvalidResponse),
			want: MessageConnectionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(&fakeCalculator{err: tt.err})

			out := p.Compute(context.Background(), model.CalculationRequest{Code: "8471", Price: 1})
			assert.Equal(t, KindFailed, out.Kind)
			assert.Equal(t, tt.want, out.ErrorMessage)
			assert.ErrorIs(t, out.Err, tt.err)
			assert.False(t, p.Busy())
		})
	}
}

func TestPipeline_BusyGuard(t *testing.T) {
	calc := &fakeCalculator{
		result:  &model.CalculationResult{},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	p := NewPipeline(calc)
	req := model.CalculationRequest{Code: "8471", Price: 1}

	done := make(chan Outcome)
	go func() {
		done <- p.Compute(context.Background(), req)
	}()

	select {
	case <-calc.started:
	case <-time.After(time.Second):
		t.Fatal("first calculation never started")
	}
	assert.True(t, p.Busy())

	second := p.Compute(context.Background(), req)
	assert.Equal(t, KindBusy, second.Kind)
	assert.ErrorIs(t, second.Err, ErrBusy)

	close(calc.release)
	first := <-done
	assert.True(t, first.OK())
	assert.Len(t, calc.Calls(), 1)
	assert.False(t, p.Busy())
}

func TestPipeline_RecordsSuccessfulCalculations(t *testing.T) {
	sel := selection.New()
	require.NoError(t, sel.Set("8471300000", "Noutbuklar"))

	rec := &memoryRecorder{}
	calc := &fakeCalculator{result: &model.CalculationResult{TotalUZS: 42}}
	p := NewPipeline(calc, WithRecorder(rec), WithNamer(sel))
	fixed := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	out := p.Submit(context.Background(), Form{Code: "8471300000", Price: "10"})
	require.True(t, out.OK())

	require.Len(t, rec.records, 1)
	got := rec.records[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, fixed, got.CreatedAt)
	assert.Equal(t, "Noutbuklar", got.DisplayName)
	assert.InDelta(t, 42, got.Result.TotalUZS, 0)

	calc.err, calc.result = errors.New("boom"), nil
	p.Submit(context.Background(), Form{Code: "8471300000", Price: "10"})
	assert.Len(t, rec.records, 1)
}

func TestPipeline_RecorderFailureDoesNotFailCalculation(t *testing.T) {
	rec := &memoryRecorder{err: errors.New("disk full")}
	p := NewPipeline(&fakeCalculator{result: &model.CalculationResult{}}, WithRecorder(rec))

	out := p.Compute(context.Background(), model.CalculationRequest{Code: "8471", Price: 1})
	assert.True(t, out.OK())
	assert.Len(t, rec.records, 1)
}
