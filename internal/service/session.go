package service

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/xolan/tomato/internal/record"
	"github.com/xolan/tomato/internal/session"
	"github.com/xolan/tomato/internal/storage"
)

// SessionService drives the single focus-session controller and persists
// each completed session to the store.
type SessionService struct {
	controller     *session.Controller
	store          storage.Store
	feed           *EventFeed
	warn           io.Writer
	defaultMinutes int

	mu      sync.Mutex
	unsaved []record.Record
	lastErr error
}

// SessionOptions configures a SessionService.
type SessionOptions struct {
	Clock     session.Clock
	Scheduler session.Scheduler
	// Observer receives every event in addition to the feed.
	Observer session.Observer
	// Warn receives save failures. May be nil.
	Warn           io.Writer
	FeedSize       int
	DefaultMinutes int
}

// NewSessionService creates an idle session service writing to store.
func NewSessionService(store storage.Store, opts SessionOptions) *SessionService {
	if opts.FeedSize == 0 {
		opts.FeedSize = DefaultFeedSize
	}
	if opts.DefaultMinutes == 0 {
		opts.DefaultMinutes = session.DefaultMinutes
	}

	s := &SessionService{
		store:          store,
		feed:           NewEventFeed(opts.FeedSize),
		warn:           opts.Warn,
		defaultMinutes: opts.DefaultMinutes,
	}

	s.controller = session.New(session.Options{
		Clock:     opts.Clock,
		Scheduler: opts.Scheduler,
		Recorder:  session.RecorderFunc(s.save),
		Observer:  session.Observers{s.feed, opts.Observer},
	})
	return s
}

// DefaultMinutes is the duration used by StartDefault.
func (s *SessionService) DefaultMinutes() int {
	return s.defaultMinutes
}

// Start begins a session of the given whole minutes (1-180).
func (s *SessionService) Start(minutes int) (session.Snapshot, error) {
	if err := session.ValidateMinutes(minutes); err != nil {
		return s.controller.Snapshot(), err
	}
	if err := s.controller.Start(minutes * 60); err != nil {
		return s.controller.Snapshot(), err
	}
	return s.controller.Snapshot(), nil
}

// StartDefault begins a session of DefaultMinutes.
func (s *SessionService) StartDefault() (session.Snapshot, error) {
	return s.Start(s.defaultMinutes)
}

// Pause pauses the running session.
func (s *SessionService) Pause() (session.Snapshot, error) {
	err := s.controller.Pause()
	return s.controller.Snapshot(), err
}

// Resume continues a paused session.
func (s *SessionService) Resume() (session.Snapshot, error) {
	err := s.controller.Resume()
	return s.controller.Snapshot(), err
}

// Toggle pauses a running session or resumes a paused one.
func (s *SessionService) Toggle() (session.Snapshot, error) {
	switch s.controller.Snapshot().Phase {
	case session.Running:
		return s.Pause()
	case session.Paused:
		return s.Resume()
	}
	return s.controller.Snapshot(), session.ErrIdle
}

// Stop abandons the active session. Nothing is recorded.
func (s *SessionService) Stop() (session.Snapshot, error) {
	err := s.controller.Stop()
	return s.controller.Snapshot(), err
}

// Status returns the current controller state.
func (s *SessionService) Status() session.Snapshot {
	return s.controller.Snapshot()
}

// Events returns the event feed. Consumers should drain it continuously.
func (s *SessionService) Events() <-chan session.Event {
	return s.feed.C()
}

// Unsaved returns completed records the store refused, oldest first.
func (s *SessionService) Unsaved() []record.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]record.Record, len(s.unsaved))
	copy(out, s.unsaved)
	return out
}

// LastSaveError returns the most recent store failure, or nil.
func (s *SessionService) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close abandons any active session.
func (s *SessionService) Close() error {
	if err := s.controller.Stop(); err != nil && !errors.Is(err, session.ErrIdle) {
		return err
	}
	return nil
}

// save is the controller's recorder. It runs under the controller lock, so
// it only writes to the store and never calls back into the controller.
func (s *SessionService) save(r record.Record) {
	err := s.store.Append(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		s.lastErr = nil
		return
	}

	s.unsaved = append(s.unsaved, r)
	s.lastErr = fmt.Errorf("failed to save session record: %w", err)
	if s.warn != nil {
		_, _ = fmt.Fprintf(s.warn, "Warning: %v\n", s.lastErr)
		_, _ = fmt.Fprintf(s.warn, "Hint: The session is kept in memory until tomato exits; check that %s is writable\n", s.store.Path())
	}
}
