package session

import (
	"time"

	"github.com/xolan/tomato/internal/record"
)

// EventKind names a controller transition.
type EventKind int

const (
	EventStarted EventKind = iota
	EventTick
	EventPaused
	EventResumed
	EventStopped
	EventCompleted
)

var eventNames = map[EventKind]string{
	EventStarted:   "session_started",
	EventTick:      "tick",
	EventPaused:    "session_paused",
	EventResumed:   "session_resumed",
	EventStopped:   "session_stopped",
	EventCompleted: "session_completed",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is pushed to the Observer on every tick and transition.
type Event struct {
	Kind EventKind
	// Snapshot is the state right after the transition. For EventCompleted
	// it is taken in the Completed phase, before the return to Idle.
	Snapshot Snapshot
	At       time.Time
	// Record is set for EventCompleted.
	Record *record.Record
	// Discarded is the remaining seconds thrown away by EventStopped.
	Discarded int
}

// Observer receives controller events.
type Observer interface {
	Observe(e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(e Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// Observers fans each event out to every non-nil observer, in order.
type Observers []Observer

func (o Observers) Observe(e Event) {
	for _, obs := range o {
		if obs != nil {
			obs.Observe(e)
		}
	}
}
