package submission

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Veraticus/customs/internal/api"
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/model"
	"github.com/google/uuid"
)

// Messages shown when a calculation fails.
const (
	MessageCalculationFailed = "Hisoblashda xatolik yuz berdi"
	MessageConnectionFailed  = "Server bilan bog'lanishda xatolik"
)

// ErrBusy is returned when a calculation is already running.
var ErrBusy = errors.New("calculation already in progress")

// Calculator performs a calculation on the backend.
type Calculator interface {
	Calculate(ctx context.Context, req model.CalculationRequest) (*model.CalculationResult, error)
}

var _ Calculator = (*api.Client)(nil)

// Recorder keeps successful calculations.
type Recorder interface {
	SaveCalculation(ctx context.Context, record *model.CalculationRecord) error
}

// Namer resolves the display name of a classification code.
type Namer interface {
	NameFor(code string) string
}

// Kind classifies an Outcome.
type Kind int

// Outcome kinds.
const (
	KindSuccess Kind = iota
	KindInvalid
	KindFailed
	KindBusy
)

// Outcome is the result of one submission.
type Outcome struct {
	Err          error
	Result       *model.CalculationResult
	ErrorMessage string
	Request      model.CalculationRequest
	Kind         Kind
}

// OK reports whether the calculation succeeded.
func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}

// Pipeline sends calculations, at most one at a time.
type Pipeline struct {
	calculator Calculator
	recorder   Recorder
	namer      Namer
	logger     *slog.Logger
	now        func() time.Time
	busy       atomic.Bool
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithRecorder stores every successful calculation.
func WithRecorder(r Recorder) PipelineOption {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithNamer labels recorded calculations with the selected item's name.
func WithNamer(n Namer) PipelineOption {
	return func(p *Pipeline) {
		p.namer = n
	}
}

// WithPipelineLogger sets the logger.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a pipeline posting to calculator.
func NewPipeline(calculator Calculator, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		calculator: calculator,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Busy reports whether a calculation is running.
func (p *Pipeline) Busy() bool {
	return p.busy.Load()
}

// Submit validates the form and, if it passes, computes it.
func (p *Pipeline) Submit(ctx context.Context, f Form) Outcome {
	req, err := Validate(f)
	if err != nil {
		var verr *ValidationError
		msg := err.Error()
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		return Outcome{Kind: KindInvalid, Err: err, ErrorMessage: msg}
	}
	return p.Compute(ctx, req)
}

// Compute sends exactly one calculation request. While it runs, further
// calls return immediately with ErrBusy.
func (p *Pipeline) Compute(ctx context.Context, req model.CalculationRequest) Outcome {
	if !p.busy.CompareAndSwap(false, true) {
		return Outcome{Kind: KindBusy, Err: ErrBusy, Request: req}
	}
	defer p.busy.Store(false)

	result, err := p.calculator.Calculate(ctx, req)
	if err != nil {
		p.logger.Error("Calculation failed", "code", req.Code, "error", err)
		return Outcome{Kind: KindFailed, Err: err, ErrorMessage: FailureMessage(err), Request: req}
	}

	p.record(ctx, req, result)
	return Outcome{Kind: KindSuccess, Result: result, Request: req}
}

func (p *Pipeline) record(ctx context.Context, req model.CalculationRequest, result *model.CalculationResult) {
	if p.recorder == nil {
		return
	}

	record := &model.CalculationRecord{
		ID:        uuid.NewString(),
		CreatedAt: p.now().UTC(),
		Request:   req,
		Result:    *result,
	}
	if p.namer != nil {
		record.DisplayName = p.namer.NameFor(req.Code)
	}

	if err := p.recorder.SaveCalculation(ctx, record); err != nil {
		p.logger.Warn("Failed to record calculation", "id", record.ID, "error", err)
	}
}

// FailureMessage turns a calculation error into the text shown to the user.
// A backend detail is shown as is; an error body without one gets the
// generic message; anything that never produced a readable answer is a
// connection problem.
func FailureMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if !apiErr.Decodable {
			return MessageConnectionFailed
		}
		if detail := format.CleanText(apiErr.Detail); detail != "" {
			return detail
		}
		return MessageCalculationFailed
	}
	return MessageConnectionFailed
}
