package service

import (
	"sync/atomic"

	"github.com/xolan/tomato/internal/session"
)

// DefaultFeedSize is the buffer of an EventFeed created by NewServices.
const DefaultFeedSize = 64

// EventFeed is a session.Observer that forwards events to a buffered
// channel without ever blocking the controller. When the buffer is full,
// ticks are dropped; transitions evict the oldest queued event instead.
type EventFeed struct {
	ch      chan session.Event
	dropped atomic.Int64
}

// NewEventFeed creates a feed buffering size events.
func NewEventFeed(size int) *EventFeed {
	if size < 1 {
		size = 1
	}
	return &EventFeed{ch: make(chan session.Event, size)}
}

// Observe implements session.Observer.
func (f *EventFeed) Observe(e session.Event) {
	select {
	case f.ch <- e:
		return
	default:
	}

	if e.Kind == session.EventTick {
		f.dropped.Add(1)
		return
	}

	// Make room for a transition. The controller is the only sender, so
	// after one receive the send below cannot find the buffer full.
	select {
	case <-f.ch:
		f.dropped.Add(1)
	default:
	}
	select {
	case f.ch <- e:
	default:
		f.dropped.Add(1)
	}
}

// C returns the receive side of the feed.
func (f *EventFeed) C() <-chan session.Event {
	return f.ch
}

// Dropped returns how many events were discarded.
func (f *EventFeed) Dropped() int64 {
	return f.dropped.Load()
}
