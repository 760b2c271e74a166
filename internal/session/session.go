// Package session implements the focus-session countdown: a single owned
// state machine that ticks once per second while running and produces exactly
// one record.Record when the countdown reaches zero on its own.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xolan/tomato/internal/record"
)

const (
	// MinMinutes and MaxMinutes bound the duration a user may request.
	MinMinutes = 1
	MaxMinutes = 180
	// DefaultMinutes is offered when the user gives no duration.
	DefaultMinutes = 25

	// MinSeconds and MaxSeconds bound Start's argument.
	MinSeconds = 1
	MaxSeconds = MaxMinutes * 60

	// TickInterval is the countdown resolution.
	TickInterval = time.Second
)

// Transition errors. None of them change controller state.
var (
	ErrInvalidDuration = errors.New("duration out of range")
	ErrAlreadyActive   = errors.New("a session is already running")
	ErrNotRunning      = errors.New("no running session")
	ErrNotPaused       = errors.New("session is not paused")
	ErrIdle            = errors.New("no active session")
)

// ValidateMinutes checks a user-supplied duration before it reaches Start.
func ValidateMinutes(minutes int) error {
	if minutes < MinMinutes || minutes > MaxMinutes {
		return fmt.Errorf("%w: %d minutes (must be %d-%d)", ErrInvalidDuration, minutes, MinMinutes, MaxMinutes)
	}
	return nil
}

// Phase is the controller's discrete state.
type Phase int

const (
	Idle Phase = iota
	Running
	Paused
	Completed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Snapshot is a copy of the controller state.
// Remaining and Total are zero while Idle.
type Snapshot struct {
	Phase     Phase
	Remaining int // seconds left
	Total     int // seconds requested at Start
	StartedAt time.Time
}

// Active reports whether a session is running or paused.
func (s Snapshot) Active() bool {
	return s.Phase == Running || s.Phase == Paused
}

// Elapsed returns the counted-down seconds.
func (s Snapshot) Elapsed() int {
	return s.Total - s.Remaining
}

// Recorder receives the record of every naturally completed session.
type Recorder interface {
	Record(r record.Record)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(r record.Record)

func (f RecorderFunc) Record(r record.Record) { f(r) }

// Options configures a Controller. Nil fields get defaults.
type Options struct {
	Clock     Clock
	Scheduler Scheduler
	Recorder  Recorder
	// Observer is called while the controller lock is held. It must not block
	// and must not call back into the Controller.
	Observer Observer
	// Interval overrides TickInterval.
	Interval time.Duration
}

// Controller owns one countdown. It is safe for concurrent use; every
// control call and every tick is serialized on one mutex.
type Controller struct {
	mu        sync.Mutex
	clock     Clock
	scheduler Scheduler
	recorder  Recorder
	observer  Observer
	interval  time.Duration

	phase     Phase
	remaining int
	total     int
	startedAt time.Time
	current   *taskRef
}

// taskRef identifies one scheduled run so late ticks from a cancelled run
// can be recognized and dropped.
type taskRef struct {
	task Task
}

// New creates an idle controller.
func New(opts Options) *Controller {
	c := &Controller{
		clock:     opts.Clock,
		scheduler: opts.Scheduler,
		recorder:  opts.Recorder,
		observer:  opts.Observer,
		interval:  opts.Interval,
	}
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	if c.scheduler == nil {
		c.scheduler = TickerScheduler{}
	}
	if c.interval <= 0 {
		c.interval = TickInterval
	}
	return c
}

// Start begins a countdown of seconds. It fails with ErrAlreadyActive unless
// the controller is idle.
func (c *Controller) Start(seconds int) error {
	if seconds < MinSeconds || seconds > MaxSeconds {
		return fmt.Errorf("%w: %d seconds", ErrInvalidDuration, seconds)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Idle {
		return ErrAlreadyActive
	}

	c.remaining = seconds
	c.total = seconds
	c.startedAt = c.clock.Now()
	c.phase = Running
	c.schedule()
	c.emit(Event{Kind: EventStarted})
	return nil
}

// Pause stops the countdown and keeps the remaining time.
// Pausing a paused session reports ErrNotRunning and changes nothing.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Running {
		return ErrNotRunning
	}

	c.cancelTask()
	c.phase = Paused
	c.emit(Event{Kind: EventPaused})
	return nil
}

// Resume continues a paused countdown from the retained remaining time.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Paused {
		return ErrNotPaused
	}

	c.phase = Running
	c.schedule()
	c.emit(Event{Kind: EventResumed})
	return nil
}

// Stop abandons the active session without producing a record. When Stop
// returns, no tick of that session can take effect.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Running && c.phase != Paused {
		return ErrIdle
	}

	c.cancelTask()
	discarded := c.remaining
	c.reset()
	c.emit(Event{Kind: EventStopped, Discarded: discarded})
	return nil
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		Phase:     c.phase,
		Remaining: c.remaining,
		Total:     c.total,
		StartedAt: c.startedAt,
	}
}

// schedule starts a new repeating task. Caller holds c.mu.
func (c *Controller) schedule() {
	ref := &taskRef{}
	ref.task = c.scheduler.Every(c.interval, func() { c.tick(ref) })
	c.current = ref
}

// cancelTask cancels and forgets the current task. Caller holds c.mu.
func (c *Controller) cancelTask() {
	if c.current == nil {
		return
	}
	if c.current.task != nil {
		c.current.task.Cancel()
	}
	c.current = nil
}

func (c *Controller) tick(ref *taskRef) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Running || c.current != ref {
		return
	}

	if c.remaining > 0 {
		c.remaining--
	}
	c.emit(Event{Kind: EventTick})

	if c.remaining == 0 {
		c.complete()
	}
}

// complete runs the Running -> Completed -> Idle transition. Caller holds c.mu.
func (c *Controller) complete() {
	c.cancelTask()
	c.phase = Completed

	rec := record.New(c.startedAt, c.clock.Now())
	if c.recorder != nil {
		c.recorder.Record(rec)
	}
	c.emit(Event{Kind: EventCompleted, Record: &rec})

	c.reset()
}

func (c *Controller) reset() {
	c.phase = Idle
	c.remaining = 0
	c.total = 0
	c.startedAt = time.Time{}
}

func (c *Controller) emit(e Event) {
	if c.observer == nil {
		return
	}
	e.Snapshot = c.snapshot()
	e.At = c.clock.Now()
	c.observer.Observe(e)
}
