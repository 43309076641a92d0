package output

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/term"
)

// IsTTY reports whether stderr is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// RunWithSpinner executes action while showing a spinner titled title.
// Without a terminal, or in verbose mode where command output is streamed to
// the log, the action runs directly. The spinner never imposes a deadline;
// only ctx cancellation stops the wait.
func RunWithSpinner(ctx context.Context, title string, action func() error) error {
	if !IsTTY() || IsVerbose() {
		return action()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- action()
	}()

	done := make(chan error, 1)
	spinnerErr := spinner.New().
		Title(title).
		Context(ctx).
		Action(func() {
			done <- <-errCh
		}).
		Run()

	if spinnerErr != nil {
		return fmt.Errorf("spinner error: %w", spinnerErr)
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
