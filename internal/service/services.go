package service

import (
	"errors"
	"io"

	"github.com/xolan/tomato/internal/config"
	"github.com/xolan/tomato/internal/eventlog"
	"github.com/xolan/tomato/internal/osutil"
	"github.com/xolan/tomato/internal/session"
	"github.com/xolan/tomato/internal/storage"
)

// ErrUnsupported is returned for operations the configured backend lacks.
var ErrUnsupported = errors.New("not supported")

// Services holds all service instances used by the application
type Services struct {
	Session *SessionService
	History *HistoryService
	Config  *ConfigService

	store  storage.Store
	events *eventlog.Logger
}

// Paths locates the files the services use. An empty EventLog disables the
// event log.
type Paths struct {
	Storage  string
	Config   string
	EventLog string
}

// Options overrides runtime dependencies (useful for testing).
type Options struct {
	Clock     session.Clock
	Scheduler session.Scheduler
	Observer  session.Observer
	// Warn receives non-fatal problems. May be nil.
	Warn io.Writer
}

// NewServices creates a new Services instance with default paths
func NewServices(warn io.Writer) (*Services, error) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	storagePath, err := storage.DefaultPath(cfg.Storage)
	if err != nil {
		return nil, err
	}

	eventLogPath, err := osutil.AppFile(eventlog.FileName)
	if err != nil {
		return nil, err
	}

	paths := Paths{Storage: storagePath, Config: configPath, EventLog: eventLogPath}
	return NewServicesWithPaths(paths, cfg, Options{Warn: warn})
}

// NewServicesWithPaths creates a new Services instance with custom paths (useful for testing)
func NewServicesWithPaths(paths Paths, cfg config.Config, opts Options) (*Services, error) {
	store, err := storage.Open(cfg.Storage, paths.Storage)
	if err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		loc, err := cfg.Location()
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		clock = session.SystemClock{Location: loc}
	}

	observers := session.Observers{}
	if opts.Observer != nil {
		observers = append(observers, opts.Observer)
	}

	var events *eventlog.Logger
	if paths.EventLog != "" {
		events, err = eventlog.New(paths.EventLog, opts.Warn)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		observers = append(observers, events)
	}

	sessionService := NewSessionService(store, SessionOptions{
		Clock:          clock,
		Scheduler:      opts.Scheduler,
		Observer:       observers,
		Warn:           opts.Warn,
		DefaultMinutes: cfg.DefaultMinutes,
	})
	historyService := NewHistoryService(store, sessionService, clock, cfg.Storage, cfg.WindowDays)
	configService := NewConfigService(paths.Config, cfg)

	return &Services{
		Session: sessionService,
		History: historyService,
		Config:  configService,
		store:   store,
		events:  events,
	}, nil
}

// EventLog returns the lifecycle logger, or nil when disabled.
func (s *Services) EventLog() *eventlog.Logger {
	return s.events
}

// Close abandons any active session and releases the store.
func (s *Services) Close() error {
	sessionErr := s.Session.Close()
	storeErr := s.store.Close()
	return errors.Join(sessionErr, storeErr)
}
