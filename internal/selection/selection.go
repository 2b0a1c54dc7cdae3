// Package selection holds the classification code the user picked from search results.
package selection

import (
	"errors"
	"strings"
	"sync"
)

// ErrEmptyCode is returned when a selection is attempted without a code.
var ErrEmptyCode = errors.New("selection code cannot be empty")

// Selection is the chosen classification code and its display name.
type Selection struct {
	Code        string
	DisplayName string
}

// State is a small mutable cell shared between the search controller and the
// submission pipeline. The zero value is ready to use and holds no selection.
type State struct {
	current Selection
	mu      sync.RWMutex
	set     bool
}

// New returns an empty selection state.
func New() *State {
	return &State{}
}

// Set records a selection. The display name may be empty; the code may not.
func (s *State) Set(code, displayName string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyCode
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Selection{Code: code, DisplayName: displayName}
	s.set = true
	return nil
}

// Get returns the current selection and whether one has been made.
func (s *State) Get() (Selection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.set
}

// Code returns the selected code, or "" before the first selection.
func (s *State) Code() string {
	sel, _ := s.Get()
	return sel.Code
}

// DisplayName returns the selected item's name, or "" when unknown.
func (s *State) DisplayName() string {
	sel, _ := s.Get()
	return sel.DisplayName
}

// NameFor returns the display name when code matches the current selection.
// Callers use it to label a code that may have been edited after selecting.
func (s *State) NameFor(code string) string {
	sel, ok := s.Get()
	if !ok || sel.Code != strings.TrimSpace(code) {
		return ""
	}
	return sel.DisplayName
}
