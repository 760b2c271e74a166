package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xolan/tomato/internal/config"
	"github.com/xolan/tomato/internal/session"
	"github.com/xolan/tomato/internal/session/sessiontest"
)

func TestSessionService_StartValidatesMinutes(t *testing.T) {
	env := newTestEnv(t, config.DefaultConfig())

	for _, minutes := range []int{0, -1, 181} {
		if _, err := env.services.Session.Start(minutes); !errors.Is(err, session.ErrInvalidDuration) {
			t.Errorf("Start(%d) error = %v, expected ErrInvalidDuration", minutes, err)
		}
	}
	if env.services.Session.Status().Phase != session.Idle {
		t.Error("invalid start changed state")
	}

	snap, err := env.services.Session.Start(180)
	if err != nil {
		t.Fatalf("Start(180) returned unexpected error: %v", err)
	}
	if snap.Phase != session.Running || snap.Remaining != 180*60 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestSessionService_StartDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DefaultMinutes = 15
	env := newTestEnv(t, cfg)

	if env.services.Session.DefaultMinutes() != 15 {
		t.Errorf("DefaultMinutes() = %d", env.services.Session.DefaultMinutes())
	}
	snap, err := env.services.Session.StartDefault()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Total != 15*60 {
		t.Errorf("Total = %d, expected %d", snap.Total, 15*60)
	}
}

func TestSessionService_Controls(t *testing.T) {
	env := newTestEnv(t, config.DefaultConfig())
	svc := env.services.Session

	if _, err := svc.Pause(); !errors.Is(err, session.ErrNotRunning) {
		t.Errorf("Pause() while idle = %v", err)
	}
	if _, err := svc.Toggle(); !errors.Is(err, session.ErrIdle) {
		t.Errorf("Toggle() while idle = %v", err)
	}

	if _, err := svc.Start(1); err != nil {
		t.Fatal(err)
	}
	env.sched.TickN(20)

	snap, err := svc.Toggle()
	if err != nil || snap.Phase != session.Paused || snap.Remaining != 40 {
		t.Fatalf("Toggle() to pause = %+v, %v", snap, err)
	}
	env.sched.TickN(5)
	if svc.Status().Remaining != 40 {
		t.Error("paused session kept counting")
	}

	snap, err = svc.Toggle()
	if err != nil || snap.Phase != session.Running {
		t.Fatalf("Toggle() to resume = %+v, %v", snap, err)
	}

	snap, err = svc.Stop()
	if err != nil || snap.Phase != session.Idle {
		t.Fatalf("Stop() = %+v, %v", snap, err)
	}

	history := env.services.History.Load()
	if len(history.Records) != 0 {
		t.Errorf("stopped session produced %d records", len(history.Records))
	}
}

func TestSessionService_EventsFeed(t *testing.T) {
	env := newTestEnv(t, config.DefaultConfig())
	svc := env.services.Session

	if _, err := svc.Start(1); err != nil {
		t.Fatal(err)
	}
	env.sched.TickN(60)

	var kinds []session.EventKind
	for {
		select {
		case e := <-svc.Events():
			if e.Kind != session.EventTick {
				kinds = append(kinds, e.Kind)
			}
			continue
		default:
		}
		break
	}

	if len(kinds) != 2 || kinds[0] != session.EventStarted || kinds[1] != session.EventCompleted {
		t.Errorf("unexpected transitions %v", kinds)
	}
}

func TestSessionService_SaveFailureKeepsRecord(t *testing.T) {
	store := &failingStore{}
	warn := &bytes.Buffer{}
	clock := sessiontest.NewClock(time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC))
	sched := &sessiontest.Scheduler{Clock: clock}

	svc := NewSessionService(store, SessionOptions{Clock: clock, Scheduler: sched, Warn: warn})
	if _, err := svc.Start(1); err != nil {
		t.Fatal(err)
	}
	sched.TickN(60)

	if store.appends != 1 {
		t.Errorf("expected 1 append attempt, got %d", store.appends)
	}
	unsaved := svc.Unsaved()
	if len(unsaved) != 1 || unsaved[0].Duration != 1 {
		t.Fatalf("expected the record to be kept in memory, got %+v", unsaved)
	}
	if !errors.Is(svc.LastSaveError(), errStoreDown) {
		t.Errorf("LastSaveError() = %v", svc.LastSaveError())
	}
	if !strings.Contains(warn.String(), "Warning: failed to save session record") {
		t.Errorf("missing warning, got %q", warn.String())
	}
	if svc.Status().Phase != session.Idle {
		t.Error("controller did not return to idle after a failed save")
	}

	// History still shows the unsaved session.
	history := NewHistoryService(store, svc, clock, "json", 35)
	result := history.Load()
	if result.LoadErr == nil {
		t.Error("expected load error from failing store")
	}
	if len(result.Records) != 1 || result.Unsaved != 1 {
		t.Errorf("expected unsaved record in history, got %+v", result)
	}
}

func TestSessionService_Close(t *testing.T) {
	env := newTestEnv(t, config.DefaultConfig())

	if err := env.services.Session.Close(); err != nil {
		t.Errorf("Close() while idle returned %v", err)
	}
	if _, err := env.services.Session.Start(1); err != nil {
		t.Fatal(err)
	}
	if err := env.services.Session.Close(); err != nil {
		t.Errorf("Close() while running returned %v", err)
	}
	if env.services.Session.Status().Active() {
		t.Error("Close() left the session active")
	}
}
