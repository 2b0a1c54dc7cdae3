// Package testing provides test utilities for TUI components.
package testing

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultCommandTimeout bounds how long the driver waits for one command.
// Commands that take longer, such as cursor blinks and spinner ticks, are
// dropped.
const DefaultCommandTimeout = 50 * time.Millisecond

const maxDepth = 32

// Driver feeds messages to a Bubble Tea model without a terminal and runs
// the commands it returns, feeding their messages back in.
type Driver struct {
	model    tea.Model
	inbox    []tea.Msg
	Messages []tea.Msg
	Timeout  time.Duration
	mu       sync.Mutex
	Quit     bool
}

// NewDriver wraps model.
func NewDriver(model tea.Model) *Driver {
	return &Driver{model: model, Timeout: DefaultCommandTimeout}
}

// Model returns the current model.
func (d *Driver) Model() tea.Model {
	return d.model
}

// View renders the current model.
func (d *Driver) View() string {
	return d.model.View()
}

// PlainView renders the current model without escape codes.
func (d *Driver) PlainView() string {
	return StripANSI(d.View())
}

// Lines returns the plain view split by newlines.
func (d *Driver) Lines() []string {
	return strings.Split(d.PlainView(), "\n")
}

// Notify queues a message delivered from outside the event loop. It is
// safe to call from any goroutine; Pump delivers queued messages.
func (d *Driver) Notify(msg tea.Msg) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inbox = append(d.inbox, msg)
}

// Pump delivers every queued message.
func (d *Driver) Pump() {
	for {
		d.mu.Lock()
		queued := d.inbox
		d.inbox = nil
		d.mu.Unlock()

		if len(queued) == 0 {
			return
		}
		for _, msg := range queued {
			d.send(msg, 0)
		}
	}
}

// Send delivers msg, runs the resulting commands, then delivers queued messages.
func (d *Driver) Send(msg tea.Msg) {
	d.send(msg, 0)
	d.Pump()
}

// Type sends text one rune at a time.
func (d *Driver) Type(text string) {
	for _, r := range text {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Run executes cmd as if the event loop had received it.
func (d *Driver) Run(cmd tea.Cmd) {
	d.run(cmd, 0)
	d.Pump()
}

func (d *Driver) send(msg tea.Msg, depth int) {
	if msg == nil || depth > maxDepth {
		return
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		d.Quit = true
		return
	}

	d.Messages = append(d.Messages, msg)
	next, cmd := d.model.Update(msg)
	d.model = next
	d.run(cmd, depth+1)
}

func (d *Driver) run(cmd tea.Cmd, depth int) {
	if cmd == nil {
		return
	}

	msg, ok := d.execute(cmd)
	if !ok {
		return
	}
	if batch, isBatch := msg.(tea.BatchMsg); isBatch {
		for _, c := range batch {
			d.run(c, depth+1)
		}
		return
	}
	d.send(msg, depth)
}

func (d *Driver) execute(cmd tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() {
		done <- cmd()
	}()

	select {
	case msg := <-done:
		return msg, true
	case <-time.After(d.Timeout):
		return nil, false
	}
}
