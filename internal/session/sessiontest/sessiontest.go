// Package sessiontest provides a manual clock and scheduler for driving a
// session.Controller deterministically in tests.
package sessiontest

import (
	"sync"
	"time"

	"github.com/xolan/tomato/internal/record"
	"github.com/xolan/tomato/internal/session"
)

// Clock is a settable session.Clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock frozen at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Scheduler records scheduled tasks; ticks fire only when the test asks.
type Scheduler struct {
	mu    sync.Mutex
	tasks []*Task
	// Clock, when set, is advanced by the task interval on every Tick.
	Clock *Clock
}

// Task is a task created by Scheduler.
type Task struct {
	mu        sync.Mutex
	interval  time.Duration
	fn        func()
	cancelled bool
}

// Cancel marks the task cancelled.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
}

// Cancelled reports whether Cancel was called.
func (t *Task) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Every implements session.Scheduler.
func (s *Scheduler) Every(interval time.Duration, fn func()) session.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Task{interval: interval, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Tasks returns every task scheduled so far, cancelled or not.
func (s *Scheduler) Tasks() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Active returns the number of tasks that have not been cancelled.
func (s *Scheduler) Active() int {
	n := 0
	for _, t := range s.Tasks() {
		if !t.Cancelled() {
			n++
		}
	}
	return n
}

// Tick fires every live task once, advancing Clock first when set.
func (s *Scheduler) Tick() {
	for _, t := range s.Tasks() {
		if t.Cancelled() {
			continue
		}
		if s.Clock != nil {
			s.Clock.Advance(t.interval)
		}
		t.fn()
	}
}

// TickN calls Tick n times.
func (s *Scheduler) TickN(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// FireStale invokes every task's callback, including cancelled ones, to
// simulate a tick that was already in flight when its task was cancelled.
func (s *Scheduler) FireStale() {
	for _, t := range s.Tasks() {
		t.fn()
	}
}

// Recorder collects completed records.
type Recorder struct {
	mu      sync.Mutex
	records []record.Record
}

// Record implements session.Recorder.
func (r *Recorder) Record(rec record.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// Records returns a copy of the collected records.
func (r *Recorder) Records() []record.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]record.Record, len(r.records))
	copy(out, r.records)
	return out
}

// Events collects observed events.
type Events struct {
	mu     sync.Mutex
	events []session.Event
}

// Observe implements session.Observer.
func (e *Events) Observe(ev session.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

// All returns a copy of the observed events.
func (e *Events) All() []session.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]session.Event, len(e.events))
	copy(out, e.events)
	return out
}

// Kinds returns the kinds of observed events, skipping ticks.
func (e *Events) Kinds() []session.EventKind {
	var kinds []session.EventKind
	for _, ev := range e.All() {
		if ev.Kind != session.EventTick {
			kinds = append(kinds, ev.Kind)
		}
	}
	return kinds
}
