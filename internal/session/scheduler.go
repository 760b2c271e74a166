package session

import (
	"sync"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock, optionally converted to Location.
type SystemClock struct {
	Location *time.Location
}

// Now returns time.Now() in the clock's location.
func (c SystemClock) Now() time.Time {
	if c.Location != nil {
		return time.Now().In(c.Location)
	}
	return time.Now()
}

// Task is a cancellable repeating task. Cancel is idempotent and must not
// block, since a task may cancel itself from inside its own callback.
type Task interface {
	Cancel()
}

// Scheduler starts repeating tasks.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
}

// TickerScheduler runs each task on its own goroutine driven by a time.Ticker.
type TickerScheduler struct{}

// Every calls fn every interval until the returned task is cancelled.
func (TickerScheduler) Every(interval time.Duration, fn func()) Task {
	t := &tickerTask{done: make(chan struct{})}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				select {
				case <-t.done:
					return
				default:
				}
				fn()
			}
		}
	}()

	return t
}

type tickerTask struct {
	once sync.Once
	done chan struct{}
}

func (t *tickerTask) Cancel() {
	t.once.Do(func() { close(t.done) })
}
