package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/tomato/internal/cli"
	"github.com/xolan/tomato/internal/service"
	"github.com/xolan/tomato/internal/session"
	"github.com/xolan/tomato/internal/tui"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [minutes]",
	Short: "Run a focus session in the foreground",
	Long: `Run a focus session and count it down in the terminal.

The session lasts the given number of minutes (1-180), or default_minutes
from the config (25 unless changed). A record is saved only when the
countdown reaches zero.

Keys while the session runs (when attached to a terminal):
  p        Pause
  r        Resume
  space    Pause or resume
  s, q, x  Stop without recording
  Ctrl-C   Stop without recording

Without a terminal the countdown prints each transition; send SIGINT or
SIGTERM to stop it.

Examples:
  tomato start        Start a session of default_minutes
  tomato start 50     Start a 50 minute session`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeMinutes,
	Run: func(cmd *cobra.Command, args []string) {
		startSession(args)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}

// startSession starts a session and blocks until it completes or stops
func startSession(args []string) {
	services := openServices()
	if services == nil {
		return
	}
	defer closeServices(services)

	start := services.Session.StartDefault
	if len(args) == 1 {
		n, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid minutes '%s'\n", args[0])
			_, _ = fmt.Fprintf(deps.Stderr, "Hint: Give a whole number of minutes between %d and %d, e.g. 'tomato start 25'\n",
				session.MinMinutes, session.MaxMinutes)
			deps.Exit(1)
			return
		}
		start = func() (session.Snapshot, error) { return services.Session.Start(n) }
	}

	events := services.Session.Events()
	snap, err := start()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Cannot start session")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		if errors.Is(err, session.ErrInvalidDuration) {
			_, _ = fmt.Fprintf(deps.Stderr, "Hint: Sessions last between %d and %d minutes\n", session.MinMinutes, session.MaxMinutes)
		}
		deps.Exit(1)
		return
	}

	signals, stopSignals := deps.Interrupts()
	defer stopSignals()

	if isTerminal(deps.Stdin) && isTerminal(deps.Stdout) {
		runInteractive(services, signals)
		return
	}

	t := terminal{out: deps.Stdout}
	t.line("Focus for %s. Ctrl-C to stop", cli.FormatDuration(snap.Total/60))
	t.status(snap)
	runSession(services.Session, events, signals, t)
}

// runInline runs the countdown UI. Tests replace it.
var runInline = func(services *service.Services) (session.Event, bool, error) {
	return tui.RunInline(services, deps.Stdin, deps.Stdout)
}

// runInteractive shows the countdown UI until the session ends, then prints
// the outcome. Signals stop the session from outside the UI.
func runInteractive(services *service.Services, signals <-chan os.Signal) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-signals:
				_, _ = services.Session.Stop()
			case <-done:
				return
			}
		}
	}()

	final, ok, err := runInline(services)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to run the countdown")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}
	if ok {
		showEvent(final, terminal{out: deps.Stdout})
	}
}

// terminal prints transitions as plain lines.
type terminal struct {
	out io.Writer
}

func (t terminal) line(format string, a ...any) {
	_, _ = fmt.Fprintf(t.out, format+"\n", a...)
}

func (t terminal) status(s session.Snapshot) {
	t.line("%s", cli.StatusLine(s))
}

// runSession prints events until the session completes or stops. Signals only
// request a stop; the event feed reports it.
func runSession(s *service.SessionService, events <-chan session.Event, signals <-chan os.Signal, t terminal) {
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			if showEvent(e, t) {
				return
			}

		case <-signals:
			if _, err := s.Stop(); err != nil {
				// Already over; its final event is queued.
				drainEvents(events, t)
				return
			}
		}
	}
}

// drainEvents prints the events already queued in the feed.
func drainEvents(events <-chan session.Event, t terminal) {
	for {
		select {
		case e, ok := <-events:
			if !ok || showEvent(e, t) {
				return
			}
		default:
			return
		}
	}
}

// showEvent prints e and reports whether the session is over. Ticks are not
// printed.
func showEvent(e session.Event, t terminal) bool {
	switch e.Kind {
	case session.EventPaused, session.EventResumed:
		t.status(e.Snapshot)
	case session.EventCompleted:
		t.line("%s", cli.CompleteStatus)
		if e.Record != nil {
			t.line("Recorded %s session (%s)", cli.FormatDuration(e.Record.Duration), cli.FormatRecord(*e.Record))
		}
		return true
	case session.EventStopped:
		t.line("Session stopped with %s left; nothing recorded", cli.FormatClock(e.Discarded))
		return true
	}
	return false
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && deps.IsTerminal(int(f.Fd()))
}
