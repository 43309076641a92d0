// Package runner invokes external generator commands synchronously.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/output"
)

// ExitCodeNotFound is reported when the program cannot be started because
// it does not exist, mirroring the shell convention.
const ExitCodeNotFound = 127

// Invocation describes one external command.
type Invocation struct {
	Program string
	Args    []string

	// Dir overrides the Runner's working directory.
	Dir string

	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string

	// AllowFailure downgrades a non-zero exit to a warning.
	AllowFailure bool
}

// String renders the command line for display.
func (i Invocation) String() string {
	if len(i.Args) == 0 {
		return i.Program
	}
	return i.Program + " " + strings.Join(i.Args, " ")
}

// Result is the outcome of a finished command.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner executes Invocations in a project directory.
type Runner struct {
	// Dir is the default working directory.
	Dir string

	// DryRun records invocations without starting them.
	DryRun bool

	recorded []Invocation
}

// New creates a Runner rooted at dir.
func New(dir string, dryRun bool) *Runner {
	return &Runner{Dir: dir, DryRun: dryRun}
}

// Recorded returns the invocations seen so far, in order.
func (r *Runner) Recorded() []Invocation {
	out := make([]Invocation, len(r.recorded))
	copy(out, r.recorded)
	return out
}

// Run executes inv and waits for it. Output is captured and, when verbose
// logging is on, streamed to the debug log. A non-zero exit returns an
// *errors.ExternalCommandFailedError unless inv.AllowFailure is set. No
// timeout is imposed beyond ctx.
func (r *Runner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	r.recorded = append(r.recorded, inv)

	if r.DryRun {
		output.Debug("dry run, not executing", "command", inv.String())
		return &Result{}, nil
	}

	output.Debug("running command", "command", inv.String(), "dir", r.dir(inv))

	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Dir = r.dir(inv)
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = io.MultiWriter(&stdout, output.DebugWriter(inv.Program))
	cmd.Stderr = io.MultiWriter(&stderr, output.DebugWriter(inv.Program))

	err := cmd.Run()
	result := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		result.ExitCode = ExitCodeNotFound
		result.Stderr = []byte(err.Error())
	default:
		return result, fmt.Errorf("%s: %w", inv.String(), err)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s: %w", inv.String(), ctxErr)
	}

	failure := &aerrors.ExternalCommandFailedError{
		Program:  inv.Program,
		Args:     inv.Args,
		ExitCode: result.ExitCode,
		Stderr:   strings.TrimSpace(string(result.Stderr)),
	}
	if inv.AllowFailure {
		output.Warn("command failed, continuing", "command", inv.String(), "exit", result.ExitCode)
		return result, nil
	}
	return result, failure
}

func (r *Runner) dir(inv Invocation) string {
	if inv.Dir != "" {
		return inv.Dir
	}
	return r.Dir
}
