// internal/timer/scheduler.go
package timer

import (
	"sort"
	"sync"
	"time"
)

// Handle refers to a scheduled callback. Cancel reports whether the callback
// was stopped before it fired.
type Handle interface {
	Cancel() bool
}

// Scheduler abstracts delayed execution so the forfeit and draft timers can be
// driven deterministically in tests.
type Scheduler interface {
	After(d time.Duration, fn func()) Handle
}

type realHandle struct {
	t *time.Timer
}

func (h *realHandle) Cancel() bool { return h.t.Stop() }

type realScheduler struct{}

// Real returns the wall-clock Scheduler backed by time.AfterFunc.
func Real() Scheduler { return realScheduler{} }

func (realScheduler) After(d time.Duration, fn func()) Handle {
	return &realHandle{t: time.AfterFunc(d, fn)}
}

// Manual is a test Scheduler. Time only moves when Advance is called; due
// callbacks run synchronously on the advancing goroutine, in scheduling order.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  int
	pending []*manualEntry
}

type manualEntry struct {
	id       int
	deadline time.Duration
	fn       func()
	owner    *Manual
	done     bool
}

func (e *manualEntry) Cancel() bool {
	e.owner.mu.Lock()
	defer e.owner.mu.Unlock()
	if e.done {
		return false
	}
	e.done = true
	return true
}

// NewManual returns a Manual scheduler starting at time zero.
func NewManual() *Manual { return &Manual{} }

func (m *Manual) After(d time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &manualEntry{id: m.nextID, deadline: m.now + d, fn: fn, owner: m}
	m.nextID++
	m.pending = append(m.pending, e)
	return e
}

// Advance moves the clock forward and fires every callback whose deadline has
// passed. Callbacks run outside the scheduler lock so they may schedule again.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due []*manualEntry
	var rest []*manualEntry
	for _, e := range m.pending {
		if e.done {
			continue
		}
		if e.deadline <= m.now {
			e.done = true
			due = append(due, e)
		} else {
			rest = append(rest, e)
		}
	}
	m.pending = rest
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].id < due[j].id
	})
	for _, e := range due {
		e.fn()
	}
}

// Pending reports how many callbacks are still scheduled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.pending {
		if !e.done {
			n++
		}
	}
	return n
}
