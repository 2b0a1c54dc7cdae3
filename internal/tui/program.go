package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Program runs the calculator screen.
type Program struct {
	program *tea.Program
	model   Model
}

// New creates the calculator TUI talking to backend.
func New(ctx context.Context, backend Backend, opts ...Option) (*Program, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Program{}
	// Search results arrive on timer goroutines and are handed to the
	// event loop from there.
	cfg.notify = func(msg tea.Msg) {
		if p.program != nil {
			p.program.Send(msg)
		}
	}

	p.model = newModel(ctx, backend, cfg)

	teaOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if cfg.MouseSupport {
		teaOpts = append(teaOpts, tea.WithMouseCellMotion())
	}
	p.program = tea.NewProgram(p.model, teaOpts...)

	return p, nil
}

// Start runs the program until the user quits.
func (p *Program) Start() error {
	defer p.model.recorder.Close()

	if _, err := p.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// Quit stops the program.
func (p *Program) Quit() {
	if p.program != nil {
		p.program.Quit()
	}
}

// Model returns the initial model for testing.
func (p *Program) Model() Model {
	return p.model
}
