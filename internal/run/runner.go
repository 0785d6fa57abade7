package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// maxStderrBytes caps how much subprocess stderr is retained for
// diagnostics. External tools can be very chatty on failure; the first
// chunk is what matters.
const maxStderrBytes = 64 * 1024

// Command describes one external program invocation.
type Command struct {
	// Name is the program to execute, resolved via PATH if not absolute.
	Name string

	// Args are the command-line arguments, excluding the program name.
	Args []string

	// Stdout, when non-nil, receives the process's standard output.
	// When nil, standard output is discarded.
	Stdout io.Writer
}

// String renders the command the way an operator would type it.
// Arguments containing whitespace are quoted.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, arg := range c.Args {
		if strings.ContainsAny(arg, " \t") {
			parts = append(parts, fmt.Sprintf("%q", arg))
		} else {
			parts = append(parts, arg)
		}
	}
	return strings.Join(parts, " ")
}

// Runner executes external commands synchronously.
//
// The pipeline depends on this interface rather than os/exec directly so
// that its sequencing logic can be tested with a fake runner.
type Runner interface {
	// Run executes the command and blocks until it exits.
	//
	// A non-zero exit status is reported as a *ExitError carrying the
	// exit code and captured standard error text. Other failures
	// (program not found, context cancelled) are returned as-is.
	Run(ctx context.Context, cmd Command) error
}

// ExitError reports a command that ran and exited non-zero.
type ExitError struct {
	// Command is the invocation that failed.
	Command Command

	// Code is the process exit code.
	Code int

	// Stderr is the captured standard error text, trimmed, possibly
	// truncated to maxStderrBytes.
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("command %q exited with code %d", e.Command.String(), e.Code)
	}
	return fmt.Sprintf("command %q exited with code %d: %s", e.Command.String(), e.Code, e.Stderr)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Stdout = cmd.Stdout

	stderr := &cappedBuffer{limit: maxStderrBytes}
	c.Stderr = stderr

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{
				Command: cmd,
				Code:    exitErr.ExitCode(),
				Stderr:  strings.TrimSpace(stderr.String()),
			}
		}
		return fmt.Errorf("running %q: %w", cmd.String(), err)
	}
	return nil
}

// cappedBuffer is a bytes.Buffer that silently stops growing past limit.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remaining := b.limit - b.buf.Len()
	if remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	// Report full length so the subprocess never sees a write error.
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}
