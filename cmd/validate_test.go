package cmd

import (
	"os"
	"strings"
	"testing"
)

func TestValidateStorage_Healthy(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, at(7, 9), at(8, 7))

	validateStorage()

	out := env.stdout.String()
	for _, want := range []string{
		"Storage file: " + env.paths.Storage,
		"Total records:     2",
		"Valid records:     2",
		"Corrupted records: 0",
		"Status: ✓ Storage is healthy",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if env.stderr.Len() != 0 {
		t.Errorf("unexpected stderr: %s", env.stderr.String())
	}
}

func TestValidateStorage_MissingFile(t *testing.T) {
	env := newTestEnv(t)

	validateStorage()

	if !strings.Contains(env.stdout.String(), "Total records:     0") {
		t.Errorf("expected empty store, got:\n%s", env.stdout.String())
	}
	if env.exitCode != -1 {
		t.Errorf("unexpected exit %d", env.exitCode)
	}
}

func TestValidateStorage_Corrupted(t *testing.T) {
	env := newTestEnv(t)
	content := `[
  {"date": "2024-03-08", "startTime": "2024-03-08T07:00:00Z", "endTime": "2024-03-08T07:25:00Z", "duration": 25},
  {"date": "someday", "duration": 25},
  42
]`
	if err := os.WriteFile(env.paths.Storage, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	validateStorage()

	out := env.stdout.String()
	if !strings.Contains(out, "Valid records:     1") || !strings.Contains(out, "Corrupted records: 2") {
		t.Errorf("unexpected counts:\n%s", out)
	}
	if !strings.Contains(out, "Record 2:") || !strings.Contains(out, "Record 3: 42") {
		t.Errorf("expected corrupted record details:\n%s", out)
	}
	if !strings.Contains(env.stderr.String(), "Storage has 2 corrupted records") {
		t.Errorf("expected status on stderr, got: %s", env.stderr.String())
	}
}

func TestValidateStorage_NotAnArray(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(env.paths.Storage, []byte(`{"date": "2024-03-08"}`), 0644); err != nil {
		t.Fatal(err)
	}

	validateStorage()

	if env.exitCode != 1 {
		t.Errorf("expected exit 1, got %d", env.exitCode)
	}
	if !strings.Contains(env.stderr.String(), "Error: Failed to validate storage") {
		t.Errorf("unexpected stderr: %s", env.stderr.String())
	}
}
