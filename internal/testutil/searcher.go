package testutil

import (
	"context"
	"sync"

	"github.com/Veraticus/customs/internal/model"
)

// SearchCall is one recorded search.
type SearchCall struct {
	Query string
	Limit int
}

// SearchReply is a canned answer for a query.
type SearchReply struct {
	Err   error
	Items []model.Classification
}

// FakeSearcher answers classification searches from a table. Queries it has
// no reply for return no results. Gate, when set for a query, blocks that
// search until the channel is closed so tests can control completion order.
type FakeSearcher struct {
	replies map[string]SearchReply
	gates   map[string]chan struct{}
	calls   []SearchCall
	mu      sync.Mutex
}

// NewFakeSearcher returns a searcher with no canned replies.
func NewFakeSearcher() *FakeSearcher {
	return &FakeSearcher{
		replies: make(map[string]SearchReply),
		gates:   make(map[string]chan struct{}),
	}
}

// Reply sets the answer for query.
func (f *FakeSearcher) Reply(query string, items ...model.Classification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[query] = SearchReply{Items: items}
}

// Fail makes query return err.
func (f *FakeSearcher) Fail(query string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[query] = SearchReply{Err: err}
}

// Gate makes searches for query wait until the returned channel is closed.
func (f *FakeSearcher) Gate(query string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[query] = gate
	return gate
}

// Calls returns the searches made so far.
func (f *FakeSearcher) Calls() []SearchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SearchCall(nil), f.calls...)
}

// Queries returns just the query strings searched so far.
func (f *FakeSearcher) Queries() []string {
	calls := f.Calls()
	queries := make([]string, len(calls))
	for i, call := range calls {
		queries[i] = call.Query
	}
	return queries
}

// SearchClassifications implements search.Searcher.
func (f *FakeSearcher) SearchClassifications(ctx context.Context, query string, limit int) ([]model.Classification, error) {
	f.mu.Lock()
	f.calls = append(f.calls, SearchCall{Query: query, Limit: limit})
	reply := f.replies[query]
	gate := f.gates[query]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return reply.Items, reply.Err
}
