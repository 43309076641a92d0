package pipeline

import (
	"fmt"
)

// StepError reports the plan step that stopped a run.
type StepError struct {
	// Plan is the name of the plan holding the step.
	Plan string

	// Step is the step's one-line summary.
	Step string

	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("plan %s: %s: %v", e.Plan, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
