// Package execx runs external commands behind a swappable Runner port.
//
// Every component that shells out (package manager, mount tooling, export
// discovery) takes a Runner plus an explicit Config instead of reading
// process-wide flags, so tests can script command results without touching
// the host.
package execx

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Config carries run-wide execution settings threaded through every component
// that performs external calls.
type Config struct {
	// Verbose echoes each command line before it runs.
	Verbose bool
	// Quiet suppresses per-item progress output.
	Quiet bool
	// Log receives verbose command echoes. Defaults to os.Stderr when nil.
	Log io.Writer
}

// logWriter returns the configured log writer or os.Stderr.
func (c Config) logWriter() io.Writer {
	if c.Log != nil {
		return c.Log
	}
	return os.Stderr
}

// Runner executes external commands.
type Runner interface {
	// Output runs the command and returns its trimmed stdout.
	Output(name string, args ...string) (string, error)
	// Run runs the command, surfacing combined output in the error on failure.
	Run(name string, args ...string) error
}

// RealRunner implements Runner using os/exec.
type RealRunner struct {
	Cfg Config
}

// Output runs the command and returns its trimmed stdout.
func (r RealRunner) Output(name string, args ...string) (string, error) {
	r.echo(name, args)
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", commandError(name, args, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Run runs the command. On failure the combined output is folded into the
// returned error so the ledger can attribute a reason.
func (r RealRunner) Run(name string, args ...string) error {
	r.echo(name, args)
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed != "" {
			return fmt.Errorf("%s: %w: %s", commandLine(name, args), err, lastLine(trimmed))
		}
		return commandError(name, args, err)
	}
	return nil
}

// echo prints the command line when verbose mode is on.
func (r RealRunner) echo(name string, args []string) {
	if !r.Cfg.Verbose {
		return
	}
	_, _ = fmt.Fprintf(r.Cfg.logWriter(), "+ %s\n", commandLine(name, args))
}

// commandError wraps a command failure with the full command line.
func commandError(name string, args []string, err error) error {
	return fmt.Errorf("%s: %w", commandLine(name, args), err)
}

// commandLine renders the command and arguments as a single line.
func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// lastLine returns the final non-empty line of output. Package-manager
// failures bury the useful reason at the end of long transcripts.
func lastLine(out string) string {
	lines := strings.Split(out, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			return trimmed
		}
	}
	return out
}
