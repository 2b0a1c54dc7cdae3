// Package search drives the classification lookup behind the code field:
// debounced queries, the results panel, and picking a result.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/customs/internal/api"
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/selection"
)

// Defaults for a Controller.
const (
	DefaultDebounce       = 300 * time.Millisecond
	DefaultMinQueryLength = 2
)

// ErrNoSuchItem is returned when selecting a row the panel does not show.
var ErrNoSuchItem = errors.New("no such search result")

// Searcher looks up classification codes.
type Searcher interface {
	SearchClassifications(ctx context.Context, query string, limit int) ([]model.Classification, error)
}

var _ Searcher = (*api.Client)(nil)

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce sets the quiet period after the last keystroke.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithMinQueryLength sets how many characters a query needs before it is sent.
func WithMinQueryLength(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.minLength = n
		}
	}
}

// WithLimit sets the number of results requested.
func WithLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithStaleGuard controls whether responses to superseded requests are
// dropped. When off, whichever response arrives last is shown.
func WithStaleGuard(on bool) Option {
	return func(c *Controller) {
		c.staleGuard = on
	}
}

// WithListener registers a callback receiving every state change. It is
// called without the controller lock held, possibly from a timer goroutine.
func WithListener(fn func(Snapshot)) Option {
	return func(c *Controller) {
		c.listener = fn
	}
}

// WithLogger sets the logger used for search failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the code field's search behaviour.
type Controller struct {
	searcher   Searcher
	scheduler  Scheduler
	selection  *selection.State
	pending    Handle
	listener   func(Snapshot)
	logger     *slog.Logger
	state      Snapshot
	debounce   time.Duration
	minLength  int
	limit      int
	generation uint64
	requestID  uint64
	mu         sync.Mutex
	staleGuard bool
}

// New creates a controller. A nil scheduler uses real timers.
func New(searcher Searcher, scheduler Scheduler, sel *selection.State, opts ...Option) *Controller {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	if sel == nil {
		sel = selection.New()
	}

	c := &Controller{
		searcher:   searcher,
		scheduler:  scheduler,
		selection:  sel,
		logger:     slog.Default(),
		debounce:   DefaultDebounce,
		minLength:  DefaultMinQueryLength,
		limit:      api.DefaultSearchLimit,
		staleGuard: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input handles an edit of the code field. Short queries hide the panel at
// once; anything else is searched after the debounce period, replacing any
// search still waiting.
func (c *Controller) Input(ctx context.Context, value string) {
	query := strings.TrimSpace(value)

	c.mu.Lock()
	c.state.Input = value
	c.state.Seq++
	c.cancelPendingLocked()
	c.generation++
	gen := c.generation

	if !c.searchable(query) {
		c.state.Panel = Panel{}
		// Responses still in flight belong to the old text.
		c.requestID++
		snap := c.changedLocked()
		c.mu.Unlock()
		c.publish(snap)
		return
	}

	c.pending = c.scheduler.Schedule(c.debounce, func() {
		c.fire(ctx, gen, query)
	})
	c.mu.Unlock()
}

// Focus handles the code field gaining focus. A searchable value is looked up
// immediately, without waiting for the debounce.
func (c *Controller) Focus(ctx context.Context, value string) {
	query := strings.TrimSpace(value)
	if !c.searchable(query) {
		return
	}
	c.run(ctx, query)
}

// ClickOutside hides the panel. Requests in flight are left alone and may
// show it again when they answer.
func (c *Controller) ClickOutside() {
	c.mu.Lock()
	if !c.state.Panel.Visible {
		c.mu.Unlock()
		return
	}
	c.state.Panel.Visible = false
	snap := c.changedLocked()
	c.mu.Unlock()
	c.publish(snap)
}

// Move shifts the highlighted row by delta, clamped to the list.
func (c *Controller) Move(delta int) {
	c.mu.Lock()
	p := &c.state.Panel
	if !p.Visible || p.Status != StatusResults || len(p.Items) == 0 {
		c.mu.Unlock()
		return
	}
	p.Cursor = max(0, min(len(p.Items)-1, p.Cursor+delta))
	snap := c.changedLocked()
	c.mu.Unlock()
	c.publish(snap)
}

// Select picks the result at index: it becomes the current selection, its
// code replaces the field text, its cleaned description becomes the label
// and the panel closes. A debounced search that
// is still waiting is not cancelled.
func (c *Controller) Select(index int) (model.Classification, error) {
	c.mu.Lock()
	p := c.state.Panel
	if !p.Visible || p.Status != StatusResults || index < 0 || index >= len(p.Items) {
		c.mu.Unlock()
		return model.Classification{}, ErrNoSuchItem
	}

	item := p.Items[index]
	label := format.CleanText(item.Description)
	if err := c.selection.Set(item.Code, label); err != nil {
		c.mu.Unlock()
		return model.Classification{}, err
	}

	c.state.Input = item.Code
	c.state.Label = label
	c.state.Panel.Visible = false
	snap := c.changedLocked()
	c.mu.Unlock()

	c.publish(snap)
	return item, nil
}

// SelectCurrent picks the highlighted result.
func (c *Controller) SelectCurrent() (model.Classification, error) {
	c.mu.Lock()
	cursor := c.state.Panel.Cursor
	c.mu.Unlock()
	return c.Select(cursor)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) changedLocked() Snapshot {
	c.state.Seq++
	return c.state.clone()
}

func (c *Controller) searchable(query string) bool {
	return utf8.RuneCountInString(query) >= c.minLength
}

func (c *Controller) cancelPendingLocked() {
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
}

func (c *Controller) fire(ctx context.Context, gen uint64, query string) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.mu.Unlock()

	c.run(ctx, query)
}

func (c *Controller) run(ctx context.Context, query string) {
	c.mu.Lock()
	c.requestID++
	id := c.requestID
	c.mu.Unlock()

	items, err := c.searcher.SearchClassifications(ctx, query, c.limit)

	c.mu.Lock()
	if c.staleGuard && id != c.requestID {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale search response", "query", query, "request_id", id)
		return
	}

	panel := Panel{Visible: true, Query: query}
	switch {
	case err != nil:
		panel.Status = StatusError
	case len(items) == 0:
		panel.Status = StatusEmpty
	default:
		panel.Status = StatusResults
		panel.Items = items
	}
	c.state.Panel = panel
	snap := c.changedLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("Classification search failed", "query", query, "error", err)
	}
	c.publish(snap)
}

func (c *Controller) publish(snap Snapshot) {
	if c.listener != nil {
		c.listener(snap)
	}
}
