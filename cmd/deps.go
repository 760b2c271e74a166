package cmd

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/xolan/tomato/internal/service"
)

// Deps holds external dependencies for CLI commands, enabling testability.
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Exit   func(code int)

	// Services opens the application services; warnings go to warn.
	Services func(warn io.Writer) (*service.Services, error)

	// IsTerminal reports whether fd is a terminal.
	IsTerminal func(fd int) bool

	// Clipboard receives exported text for --clipboard.
	Clipboard func(text string) error

	// Interrupts delivers Ctrl-C and SIGTERM to foreground sessions.
	// The returned func stops delivery.
	Interrupts func() (<-chan os.Signal, func())
}

// DefaultDeps returns the default production dependencies.
func DefaultDeps() *Deps {
	return &Deps{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Stdin:      os.Stdin,
		Exit:       os.Exit,
		Services:   service.NewServices,
		IsTerminal: term.IsTerminal,
		Clipboard:  clipboard.WriteAll,
		Interrupts: notifyInterrupts,
	}
}

func notifyInterrupts() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	return ch, func() { signal.Stop(ch) }
}

// deps is the global dependencies instance used by commands.
// In production, this is DefaultDeps(). Tests can replace it.
var deps = DefaultDeps()

// SetDeps sets the global dependencies (for testing).
func SetDeps(d *Deps) {
	deps = d
}

// ResetDeps resets dependencies to defaults (for testing cleanup).
func ResetDeps() {
	deps = DefaultDeps()
}
