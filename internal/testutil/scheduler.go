package testutil

import (
	"sync"
	"time"

	"github.com/Veraticus/customs/internal/search"
)

// ManualScheduler is a search.Scheduler whose calls run only when the test
// says so. It never starts goroutines, so debounce tests are deterministic.
type ManualScheduler struct {
	tasks []*ManualTask
	mu    sync.Mutex
}

// ManualTask is one scheduled call.
type ManualTask struct {
	fn        func()
	Delay     time.Duration
	cancelled bool
	ran       bool
}

var _ search.Scheduler = (*ManualScheduler)(nil)

// NewManualScheduler returns an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule records fn without running it.
func (s *ManualScheduler) Schedule(delay time.Duration, fn func()) search.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &ManualTask{fn: fn, Delay: delay}
	s.tasks = append(s.tasks, task)
	return &manualHandle{scheduler: s, task: task}
}

// Pending returns the number of calls that are neither cancelled nor run.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, task := range s.tasks {
		if !task.cancelled && !task.ran {
			n++
		}
	}
	return n
}

// Scheduled returns the number of calls ever scheduled.
func (s *ManualScheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Tasks returns every scheduled call in order, including cancelled ones.
func (s *ManualScheduler) Tasks() []*ManualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*ManualTask(nil), s.tasks...)
}

// Flush runs every pending call in scheduling order, as if the quiet period
// elapsed. It returns how many calls ran.
func (s *ManualScheduler) Flush() int {
	s.mu.Lock()
	var due []*ManualTask
	for _, task := range s.tasks {
		if !task.cancelled && !task.ran {
			task.ran = true
			due = append(due, task)
		}
	}
	s.mu.Unlock()

	for _, task := range due {
		task.fn()
	}
	return len(due)
}

// Fire runs a task even if it was cancelled, modelling a timer that had
// already fired when Cancel was called.
func (s *ManualScheduler) Fire(task *ManualTask) {
	s.mu.Lock()
	task.ran = true
	s.mu.Unlock()
	task.fn()
}

type manualHandle struct {
	scheduler *ManualScheduler
	task      *ManualTask
}

func (h *manualHandle) Cancel() bool {
	h.scheduler.mu.Lock()
	defer h.scheduler.mu.Unlock()

	if h.task.ran || h.task.cancelled {
		return false
	}
	h.task.cancelled = true
	return true
}
