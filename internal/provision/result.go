package provision

import "fmt"

const (
	cancelledMessageConstant       = "cancelled"
	successMessageTemplateConstant = "Repository '%s' created successfully!"
	stepFailureTemplateConstant    = "%s: %v"
	unexpectedFailureTemplate      = "unexpected failure during %s: %v"
	unknownStepFailureTemplate     = "step %s failed"
)

// Result is the terminal value of a provisioning run. Exactly one is produced per run.
type Result struct {
	RunID         string
	Success       bool
	Message       string
	FailedStep    Step
	Cancelled     bool
	ExecutedSteps []Step
	Warnings      []string
}

// StepFailure reports the fatal failure of a workflow step.
type StepFailure struct {
	Step  Step
	Cause error
}

// Error describes the failure close to the adapter's own detail.
func (failure StepFailure) Error() string {
	description, known := stepFailureDescriptions[failure.Step]
	if !known {
		description = fmt.Sprintf(unknownStepFailureTemplate, failure.Step)
	}
	if failure.Cause == nil {
		return description
	}
	return fmt.Sprintf(stepFailureTemplateConstant, description, failure.Cause)
}

// Unwrap exposes the adapter error.
func (failure StepFailure) Unwrap() error {
	return failure.Cause
}
