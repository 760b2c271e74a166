package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/xolan/tomato/internal/config"
	"github.com/xolan/tomato/internal/record"
	"github.com/xolan/tomato/internal/service"
	"github.com/xolan/tomato/internal/session/sessiontest"
	"github.com/xolan/tomato/internal/storage"
)

// testEnv wires commands to temp files, a fake clock and a manual scheduler.
type testEnv struct {
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	exitCode  int
	paths     service.Paths
	clock     *sessiontest.Clock
	sched     *sessiontest.Scheduler
	signals   chan os.Signal
	clipboard string
}

// testNow is Friday 2024-03-08 09:00 UTC.
var testNow = time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	clock := sessiontest.NewClock(testNow)
	env := &testEnv{
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		exitCode: -1,
		paths: service.Paths{
			Storage: filepath.Join(dir, storage.RecordsFile),
			Config:  filepath.Join(dir, config.ConfigFile),
		},
		clock:   clock,
		sched:   &sessiontest.Scheduler{Clock: clock},
		signals: make(chan os.Signal, 1),
	}

	SetDeps(&Deps{
		Stdout: env.stdout,
		Stderr: env.stderr,
		Stdin:  strings.NewReader(""),
		Exit:   func(code int) { env.exitCode = code },
		Services: func(warn io.Writer) (*service.Services, error) {
			cfg, err := config.LoadOrDefault(env.paths.Config)
			if err != nil {
				return nil, err
			}
			return service.NewServicesWithPaths(env.paths, cfg, service.Options{
				Clock:     env.clock,
				Scheduler: env.sched,
				Warn:      warn,
			})
		},
		IsTerminal: func(int) bool { return false },
		Clipboard: func(text string) error {
			env.clipboard = text
			return nil
		},
		Interrupts: func() (<-chan os.Signal, func()) {
			return env.signals, func() {}
		},
	})
	t.Cleanup(ResetDeps)

	return env
}

// seed appends one 25 minute record per start time.
func (env *testEnv) seed(t *testing.T, starts ...time.Time) {
	t.Helper()
	store := storage.NewJSONStore(env.paths.Storage)
	for _, start := range starts {
		if err := store.Append(record.New(start, start.Add(25*time.Minute))); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func (env *testEnv) writeConfig(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(env.paths.Config, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func (env *testEnv) records(t *testing.T) []record.Record {
	t.Helper()
	result, err := storage.NewJSONStore(env.paths.Storage).Load()
	if err != nil {
		t.Fatal(err)
	}
	return result.Records
}

// setFlags sets flags on c and restores their defaults after the test.
func setFlags(t *testing.T, c *cobra.Command, flags map[string]string) {
	t.Helper()
	for name, value := range flags {
		f := c.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("unknown flag --%s", name)
		}
		if err := c.Flags().Set(name, value); err != nil {
			t.Fatalf("--%s=%s: %v", name, value, err)
		}
		t.Cleanup(func() {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestShowToday_Empty(t *testing.T) {
	env := newTestEnv(t)

	showToday()

	out := env.stdout.String()
	for _, want := range []string{
		"Today (Fri, Mar 8, 2024)",
		"No sessions completed yet",
		"Start a 25m session with 'tomato start'",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if env.exitCode != -1 {
		t.Errorf("unexpected exit %d", env.exitCode)
	}
}

func TestShowToday_WithRecords(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, at(7, 10), at(8, 7), at(8, 8))

	showToday()

	out := env.stdout.String()
	if !strings.Contains(out, "2 sessions, 50m focused") {
		t.Errorf("expected today's totals, got:\n%s", out)
	}
	if !strings.Contains(out, "2024-03-08  07:00-07:25  25m") {
		t.Errorf("expected today's records listed, got:\n%s", out)
	}
	if strings.Contains(out, "2024-03-07") {
		t.Errorf("yesterday's record listed:\n%s", out)
	}
}

func TestShowToday_DefaultMinutesFromConfig(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "default_minutes = 50\n")

	showToday()

	if !strings.Contains(env.stdout.String(), "Start a 50m session") {
		t.Errorf("expected configured default in hint, got:\n%s", env.stdout.String())
	}
}

func TestShowToday_CorruptedRecords(t *testing.T) {
	env := newTestEnv(t)
	content := `[
  {"date": "2024-03-08", "startTime": "2024-03-08T07:00:00Z", "endTime": "2024-03-08T07:25:00Z", "duration": 25},
  "not a record"
]`
	if err := os.WriteFile(env.paths.Storage, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	showToday()

	if !strings.Contains(env.stderr.String(), "Warning: Found 1 corrupted record in storage") {
		t.Errorf("expected corruption warning, got:\n%s", env.stderr.String())
	}
	if !strings.Contains(env.stdout.String(), "1 session, 25m focused") {
		t.Errorf("expected the readable record to count, got:\n%s", env.stdout.String())
	}
}

func TestOpenServices_Failure(t *testing.T) {
	env := newTestEnv(t)
	deps.Services = func(io.Writer) (*service.Services, error) {
		return nil, errors.New("boom")
	}

	showToday()

	if env.exitCode != 1 {
		t.Errorf("expected exit 1, got %d", env.exitCode)
	}
	if !strings.Contains(env.stderr.String(), "Error: Failed to initialize tomato") {
		t.Errorf("unexpected stderr:\n%s", env.stderr.String())
	}
	if env.stdout.Len() != 0 {
		t.Errorf("expected no output, got:\n%s", env.stdout.String())
	}
}

func TestPrintHistoryWarnings(t *testing.T) {
	tests := []struct {
		name   string
		result service.HistoryResult
		want   []string
	}{
		{
			name:   "clean",
			result: service.HistoryResult{},
		},
		{
			name:   "load error",
			result: service.HistoryResult{LoadErr: errors.New("permission denied")},
			want:   []string{"Failed to read session history", "permission denied", "tomato restore"},
		},
		{
			name: "corrupted",
			result: service.HistoryResult{Warnings: []storage.ParseWarning{
				{Index: 2, Content: `"x"`, Error: "bad"},
				{Index: 4, Content: `{}`, Error: "worse"},
			}},
			want: []string{"Found 2 corrupted records", "Record 2", "Record 4"},
		},
		{
			name:   "unsaved",
			result: service.HistoryResult{Unsaved: 1},
			want:   []string{"1 session could not be saved"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			printHistoryWarnings(tt.result)

			got := env.stderr.String()
			if len(tt.want) == 0 && got != "" {
				t.Errorf("expected no warnings, got:\n%s", got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("expected %q in:\n%s", w, got)
				}
			}
		})
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2024-03-08")

	if rootCmd.Version != "1.2.3" {
		t.Errorf("Version = %q", rootCmd.Version)
	}
	tmpl := rootCmd.VersionTemplate()
	for _, want := range []string{"tomato version", "commit: abc123", "built: 2024-03-08"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("expected %q in version template %q", want, tmpl)
		}
	}
}

func TestRootCommand_Registered(t *testing.T) {
	want := []string{"start", "history", "export", "validate", "restore", "config", "tui", "completion"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
