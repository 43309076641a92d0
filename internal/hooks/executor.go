// Package hooks runs deferred finalize actions in registration order.
package hooks

import (
	"context"
	"fmt"

	"github.com/apptemplate/apptemplate/internal/output"
)

// Action is a deferred unit of work.
type Action func(ctx context.Context) error

// Hook is a registered Action with its position in the run.
type Hook struct {
	Index  int
	Name   string
	Action Action
}

// HookError identifies the hook that stopped a run.
type HookError struct {
	Index int
	Name  string
	Err   error
}

// Error implements the error interface.
func (e *HookError) Error() string {
	return fmt.Sprintf("hook %d (%s): %v", e.Index, e.Name, e.Err)
}

// Unwrap returns the hook's own error.
func (e *HookError) Unwrap() error {
	return e.Err
}

// Executor owns an ordered list of hooks for one run. It is not safe for
// concurrent use.
type Executor struct {
	hooks []Hook
	next  int
}

// NewExecutor creates an empty Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Register appends a hook.
func (e *Executor) Register(name string, action Action) {
	e.hooks = append(e.hooks, Hook{Index: e.next, Name: name, Action: action})
	e.next++
}

// Len returns the number of pending hooks.
func (e *Executor) Len() int {
	return len(e.hooks)
}

// Names returns the names of the pending hooks in order.
func (e *Executor) Names() []string {
	names := make([]string, len(e.hooks))
	for i, h := range e.hooks {
		names[i] = h.Name
	}
	return names
}

// RunAll runs and drains the pending hooks. It stops at the first failure,
// returned as a *HookError; later hooks are discarded without running.
// Cancellation of ctx is checked between hooks.
func (e *Executor) RunAll(ctx context.Context) error {
	pending := e.hooks
	e.hooks = nil

	for _, h := range pending {
		if err := ctx.Err(); err != nil {
			return &HookError{Index: h.Index, Name: h.Name, Err: err}
		}

		output.Debug("running hook", "index", h.Index, "name", h.Name)
		if err := h.Action(ctx); err != nil {
			return &HookError{Index: h.Index, Name: h.Name, Err: err}
		}
	}
	return nil
}
