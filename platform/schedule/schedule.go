// Package schedule provides a minimal one-shot delayed task facility. Tasks
// run at most once, on their own goroutine, and can be cancelled up until
// they fire. Cancelling after firing is a no-op.
package schedule

import (
	"sync"
	"time"
)

// Task is the unit of delayed work.
type Task func()

// Cancel prevents the execution of a scheduled Task if it has not started
// yet. It reports whether the call stopped the task.
type Cancel func() bool

// Scheduler runs a Task once after a delay.
type Scheduler interface {
	After(delay time.Duration, task Task) Cancel
}

type timerScheduler struct{}

// TimerScheduler returns a Scheduler backed by runtime timers.
func TimerScheduler() Scheduler {
	return &timerScheduler{}
}

func (s *timerScheduler) After(delay time.Duration, task Task) Cancel {
	t := time.AfterFunc(delay, task)

	return func() bool {
		return t.Stop()
	}
}

// Manual is a Scheduler for tests where time is advanced by hand. Tasks fire
// synchronously from Advance in scheduling order.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks map[uint64]*manualTask
}

type manualTask struct {
	at   time.Duration
	seq  uint64
	task Task
}

// NewManual returns an empty manual Scheduler.
func NewManual() *Manual {
	return &Manual{
		tasks: map[uint64]*manualTask{},
	}
}

func (m *Manual) After(delay time.Duration, task Task) Cancel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++

	id := m.seq
	m.tasks[id] = &manualTask{
		at:   m.now + delay,
		seq:  id,
		task: task,
	}

	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()

		if _, ok := m.tasks[id]; !ok {
			return false
		}

		delete(m.tasks, id)

		return true
	}
}

// Advance moves the clock forward and fires every task whose deadline has
// been reached, without holding the internal lock during execution.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()

	m.now += d

	due := []*manualTask{}

	for id, t := range m.tasks {
		if t.at <= m.now {
			due = append(due, t)
			delete(m.tasks, id)
		}
	}

	m.mu.Unlock()

	for i := 0; i < len(due); i++ {
		for j := i + 1; j < len(due); j++ {
			if due[j].seq < due[i].seq {
				due[i], due[j] = due[j], due[i]
			}
		}
	}

	for _, t := range due {
		t.task()
	}
}

// Pending returns the number of tasks which have not fired or been cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.tasks)
}
