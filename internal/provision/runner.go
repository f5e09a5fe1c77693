package provision

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultCancelGracePeriod is how long Cancel waits for a cooperative stop before
	// terminating the in-flight command.
	DefaultCancelGracePeriod = 3 * time.Second

	runInProgressMessageConstant      = "a provisioning run is already in progress"
	workflowExecutorMissingMessage    = "runner requires a workflow executor"
	runStartedLogMessageConstant      = "Provisioning run started"
	cancelRequestedLogMessageConstant = "Provisioning cancellation requested"
	cancelEscalatedLogMessageConstant = "Provisioning run did not stop within the grace period; terminating"
	logFieldGracePeriodConstant       = "grace_period"
	logFieldTargetDirectoryConstant   = "target_directory"
)

const runnerSemaphoreWeightConstant int64 = 1

var (
	// ErrRunInProgress indicates Start was called while another run is active.
	ErrRunInProgress = errors.New(runInProgressMessageConstant)
	// ErrWorkflowExecutorNotConfigured indicates the runner was constructed without a workflow.
	ErrWorkflowExecutorNotConfigured = errors.New(workflowExecutorMissingMessage)
)

// WorkflowExecutor runs one provisioning workflow to completion.
type WorkflowExecutor interface {
	Run(executionContext context.Context, runID string, snapshot ConfigSnapshot, token *CancellationToken, sink ProgressSink) Result
}

// Runner executes workflows on a dedicated goroutine, one at a time.
type Runner struct {
	executor          WorkflowExecutor
	logger            *zap.Logger
	activeRun         *semaphore.Weighted
	cancelGracePeriod time.Duration
	runIDGenerator    func() string
}

// RunnerOption customizes Runner construction.
type RunnerOption func(*Runner)

// WithCancelGracePeriod overrides DefaultCancelGracePeriod. Non-positive values are ignored.
func WithCancelGracePeriod(gracePeriod time.Duration) RunnerOption {
	return func(runner *Runner) {
		if gracePeriod > 0 {
			runner.cancelGracePeriod = gracePeriod
		}
	}
}

// WithRunIDGenerator overrides the random run identifier source.
func WithRunIDGenerator(generator func() string) RunnerOption {
	return func(runner *Runner) {
		if generator != nil {
			runner.runIDGenerator = generator
		}
	}
}

// NewRunner constructs a Runner around executor.
func NewRunner(executor WorkflowExecutor, logger *zap.Logger, options ...RunnerOption) (*Runner, error) {
	if executor == nil {
		return nil, ErrWorkflowExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	runner := &Runner{
		executor:          executor,
		logger:            logger,
		activeRun:         semaphore.NewWeighted(runnerSemaphoreWeightConstant),
		cancelGracePeriod: DefaultCancelGracePeriod,
		runIDGenerator:    uuid.NewString,
	}
	for _, option := range options {
		if option != nil {
			option(runner)
		}
	}
	return runner, nil
}

// Start launches a run for a copy of snapshot. Progress and the terminal result are delivered
// to handler from a separate goroutine in publish order.
func (runner *Runner) Start(parentContext context.Context, snapshot ConfigSnapshot, handler ProgressHandler) (*RunHandle, error) {
	if !runner.activeRun.TryAcquire(runnerSemaphoreWeightConstant) {
		return nil, ErrRunInProgress
	}
	if parentContext == nil {
		parentContext = context.Background()
	}

	runID := runner.runIDGenerator()
	runSnapshot := snapshot.Clone()
	runContext, cancelRunContext := context.WithCancel(parentContext)
	handle := &RunHandle{
		runID:             runID,
		token:             NewCancellationToken(),
		cancelRunContext:  cancelRunContext,
		cancelGracePeriod: runner.cancelGracePeriod,
		logger:            runner.logger.With(zap.String(logFieldRunIDConstant, runID)),
		done:              make(chan struct{}),
	}
	sink := NewAsyncProgressSink(handler)

	handle.logger.Info(runStartedLogMessageConstant, zap.String(logFieldTargetDirectoryConstant, runSnapshot.TargetDirectory()))

	var workers errgroup.Group
	workers.Go(func() error {
		handle.result = runner.executor.Run(runContext, runID, runSnapshot, handle.token, sink)
		sink.Complete(handle.result)
		return nil
	})
	workers.Go(func() error {
		sink.Drain()
		return nil
	})

	go func() {
		_ = workers.Wait()
		cancelRunContext()
		runner.activeRun.Release(runnerSemaphoreWeightConstant)
		close(handle.done)
	}()

	return handle, nil
}

// RunHandle controls a started run.
type RunHandle struct {
	runID             string
	token             *CancellationToken
	cancelRunContext  context.CancelFunc
	cancelGracePeriod time.Duration
	logger            *zap.Logger
	done              chan struct{}
	result            Result
}

// RunID identifies the run in logs and results.
func (handle *RunHandle) RunID() string {
	return handle.runID
}

// Done is closed once the terminal result has been delivered.
func (handle *RunHandle) Done() <-chan struct{} {
	return handle.done
}

// Cancel requests a cooperative stop at the next step boundary. When the run has not
// finished within the grace period the run context is cancelled, which terminates the
// running git or gh process. Cancel returns once either has happened.
func (handle *RunHandle) Cancel() {
	handle.token.Cancel()
	handle.logger.Info(cancelRequestedLogMessageConstant)

	gracePeriodTimer := time.NewTimer(handle.cancelGracePeriod)
	defer gracePeriodTimer.Stop()

	select {
	case <-handle.done:
	case <-gracePeriodTimer.C:
		handle.logger.Warn(cancelEscalatedLogMessageConstant, zap.Duration(logFieldGracePeriodConstant, handle.cancelGracePeriod))
		handle.cancelRunContext()
	}
}

// Wait blocks until the run finishes and returns its terminal result.
func (handle *RunHandle) Wait() Result {
	<-handle.done
	return handle.result
}
