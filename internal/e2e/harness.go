// Package e2e provides testing infrastructure for end-to-end CLI tests.
// It includes a test harness for running CLI commands, fixture management,
// and utilities for setting up isolated test environments.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/modlist/internal/cli"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Stderr contains the captured standard error.
	Stderr string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the inferred exit code (0 for success, 1 for error).
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness provides a test harness for running E2E CLI tests.
// It manages environment isolation, temp directories, and output capture.
type Harness struct {
	t       *testing.T
	homeDir string
	env     map[string]string
}

// overrideKeys are cleared by NewHarness so the caller's environment
// cannot leak into a test.
var overrideKeys = []string{
	"MODLIST_LIST_PATH",
	"MODLIST_LIST_EXCLUDE_NAMES",
	"MODLIST_LIST_EXCLUDE_FILES",
	"MODLIST_LIST_FILTERS",
	"MODLIST_LIST_PANIC_ON_ERROR",
	"MODLIST_LIST_ABORT_ON_EXCLUDED",
	"MODLIST_LIST_DOT",
	"MODLIST_OUTPUT_FORMAT",
	"MODLIST_OUTPUT_COLOR",
}

// NewHarness creates a new E2E test harness.
// It sets up an isolated HOME and MODLIST_HOME for testing and clears any
// MODLIST_* overrides inherited from the environment.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	homeDir := t.TempDir()

	h := &Harness{
		t:       t,
		homeDir: homeDir,
		env:     make(map[string]string),
	}

	h.SetEnv("HOME", homeDir)
	h.SetEnv("MODLIST_HOME", filepath.Join(homeDir, ".modlist"))
	for _, key := range overrideKeys {
		h.SetEnv(key, "")
	}

	return h
}

// SetEnv sets an environment variable for CLI commands run through this harness.
// The environment will be restored after the test completes.
func (h *Harness) SetEnv(key, value string) {
	h.t.Helper()
	h.env[key] = value
	h.t.Setenv(key, value)
}

// HomeDir returns the isolated home directory for this test harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// ConfigDir returns the MODLIST_HOME directory used by the harness.
func (h *Harness) ConfigDir() string {
	return h.env["MODLIST_HOME"]
}

// Run executes a CLI command with the given arguments and captures stdout
// and stderr.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	// Prepend "modlist" as the program name if not provided
	if len(args) == 0 || args[0] != "modlist" {
		args = append([]string{"modlist"}, args...)
	}

	oldStdout, oldStderr := os.Stdout, os.Stderr
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stdout pipe: %v", err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stderr pipe: %v", err)
	}
	os.Stdout, os.Stderr = stdoutW, stderrW

	// Drain both pipes while the command runs so large outputs cannot
	// fill the pipe buffer and block.
	stdout := drain(stdoutR)
	stderr := drain(stderrR)

	cmdErr := cli.Run(context.Background(), args)

	if err := stdoutW.Close(); err != nil {
		h.t.Fatalf("failed to close stdout pipe writer: %v", err)
	}
	if err := stderrW.Close(); err != nil {
		h.t.Fatalf("failed to close stderr pipe writer: %v", err)
	}
	os.Stdout, os.Stderr = oldStdout, oldStderr

	exitCode := 0
	if cmdErr != nil {
		exitCode = 1
	}

	return &Result{
		Stdout:   <-stdout,
		Stderr:   <-stderr,
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}

func drain(r *os.File) <-chan string {
	out := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		out <- buf.String()
	}()
	return out
}
