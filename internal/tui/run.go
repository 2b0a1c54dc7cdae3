package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Run starts the calculator TUI and blocks until it exits.
func Run(ctx context.Context, backend Backend, opts ...Option) error {
	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set up terminal cleanup on any exit
	cleanupTerminal := func() {
		// Best-effort restore of the terminal state
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
		_, _ = os.Stdout.Write([]byte("\033[?1000l")) // Disable mouse
	}
	defer cleanupTerminal()

	program, err := New(ctx, backend, opts...)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := program.Start(); err != nil {
		return err
	}
	if dir := program.Model().recorder.Dir(); dir != "" {
		fmt.Fprintf(os.Stderr, "TUI frames recorded in %s\n", dir)
	}
	return nil
}
