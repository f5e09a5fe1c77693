package provision

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/reposeed/internal/githubcli"
	"github.com/temirov/reposeed/internal/scaffold"
)

const (
	scaffoldProgressMessageConstant         = "Creating project scaffold..."
	hostedCreateProgressMessageConstant     = "Creating GitHub repository..."
	customGitignoreProgressTemplateConstant = "Creating custom .gitignore for %s..."
	nativeGitignoreProgressTemplateConstant = "Fetching .gitignore template for %s..."
	localInitProgressMessageConstant        = "Initializing git repository..."
	commitProgressMessageConstant           = "Adding and committing files..."
	remoteWireProgressTemplateConstant      = "Adding remote %s..."
	pushProgressMessageConstant             = "Pushing to GitHub..."
	topicsProgressMessageConstant           = "Setting repository topics..."
	topicsWarningTemplateConstant           = "Warning: failed to set topics: %v"
	gitignoreFetchWarningTemplateConstant   = "Warning: failed to fetch .gitignore template for %s: %v"
	gitignoreWriteWarningTemplateConstant   = "Warning: failed to write .gitignore template for %s: %v"
	stepStartedLogMessageConstant           = "Provisioning step started"
	stepFailedLogMessageConstant            = "Provisioning step failed"
	stepWarningLogMessageConstant           = "Provisioning step finished with a warning"
	runFinishedLogMessageConstant           = "Provisioning run finished"
	logFieldRunIDConstant                   = "run_id"
	logFieldStepConstant                    = "step"
	logFieldSuccessConstant                 = "success"
	logFieldCancelledConstant               = "cancelled"
	logFieldMessageConstant                 = "message"
	orchestratorDependencyMissingTemplate   = "orchestrator requires a %s"
	hostingClientDependencyNameConstant     = "hosting client"
	vcsClientDependencyNameConstant         = "version control client"
	scaffoldWriterDependencyNameConstant    = "scaffold writer"
)

// HostingClient is the subset of the hosting adapter the workflow drives.
type HostingClient interface {
	CreateRepository(executionContext context.Context, options githubcli.RepositoryCreateOptions) error
	FetchGitignoreSource(executionContext context.Context, templateName string) (string, error)
	SetTopics(executionContext context.Context, owner string, repositoryName string, topics []string) error
}

// VcsClient is the subset of the git adapter the workflow drives.
type VcsClient interface {
	IsRepository(directory string) bool
	Init(executionContext context.Context, directory string) error
	StageAndCommit(executionContext context.Context, directory string, message string) error
	AddOrUpdateRemote(executionContext context.Context, directory string, remoteName string, remoteURL string) error
	CurrentBranch(executionContext context.Context, directory string) string
	Push(executionContext context.Context, directory string, remoteName string, branch string) error
}

// ScaffoldWriter writes local project files.
type ScaffoldWriter interface {
	EnsureDirectory(directory string) error
	Write(directory string, options scaffold.Options) error
	WriteCustomGitignore(directory string, templateName string) error
	WriteGitignoreIfAbsent(directory string, content string) (bool, error)
}

// Orchestrator runs the provisioning state machine:
// scaffold, hosted-create, gitignore, local-init, commit, remote-wire, push, topics.
type Orchestrator struct {
	logger         *zap.Logger
	hostingClient  HostingClient
	vcsClient      VcsClient
	scaffoldWriter ScaffoldWriter
}

// NewOrchestrator constructs an Orchestrator. A nil logger disables logging.
func NewOrchestrator(logger *zap.Logger, hostingClient HostingClient, vcsClient VcsClient, scaffoldWriter ScaffoldWriter) (*Orchestrator, error) {
	switch {
	case hostingClient == nil:
		return nil, fmt.Errorf(orchestratorDependencyMissingTemplate, hostingClientDependencyNameConstant)
	case vcsClient == nil:
		return nil, fmt.Errorf(orchestratorDependencyMissingTemplate, vcsClientDependencyNameConstant)
	case scaffoldWriter == nil:
		return nil, fmt.Errorf(orchestratorDependencyMissingTemplate, scaffoldWriterDependencyNameConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		logger:         logger,
		hostingClient:  hostingClient,
		vcsClient:      vcsClient,
		scaffoldWriter: scaffoldWriter,
	}, nil
}

type workflowStep struct {
	step       Step
	bestEffort bool
	shouldRun  func(run *workflowRun) bool
	progress   func(run *workflowRun) string
	execute    func(run *workflowRun) error
}

type workflowRun struct {
	executionContext context.Context
	runID            string
	snapshot         ConfigSnapshot
	targetDirectory  string
	token            *CancellationToken
	sink             ProgressSink
	logger           *zap.Logger
	currentStep      Step
	executedSteps    []Step
	warnings         []string
}

// Run executes the workflow for snapshot and returns its terminal result. The same result
// is delivered to sink exactly once. The token is polled before every step; a nil token
// never cancels.
func (orchestrator *Orchestrator) Run(executionContext context.Context, runID string, snapshot ConfigSnapshot, token *CancellationToken, sink ProgressSink) (result Result) {
	if token == nil {
		token = NewCancellationToken()
	}
	if sink == nil {
		sink = discardingProgressSink{}
	}
	resolvedSnapshot := snapshot.Clone().withDefaults()
	run := &workflowRun{
		executionContext: executionContext,
		runID:            runID,
		snapshot:         resolvedSnapshot,
		targetDirectory:  resolvedSnapshot.TargetDirectory(),
		token:            token,
		sink:             sink,
		logger:           orchestrator.logger.With(zap.String(logFieldRunIDConstant, runID)),
		currentStep:      StepScaffold,
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			result = run.failed(StepFailure{Step: run.currentStep, Cause: fmt.Errorf(unexpectedFailureTemplate, run.currentStep, recovered)})
		}
		run.logger.Info(
			runFinishedLogMessageConstant,
			zap.Bool(logFieldSuccessConstant, result.Success),
			zap.Bool(logFieldCancelledConstant, result.Cancelled),
			zap.String(logFieldMessageConstant, result.Message),
		)
		sink.Complete(result)
	}()

	return orchestrator.execute(run)
}

func (orchestrator *Orchestrator) execute(run *workflowRun) Result {
	if run.stopRequested() {
		return run.cancelled()
	}
	if ensureError := orchestrator.scaffoldWriter.EnsureDirectory(run.targetDirectory); ensureError != nil {
		return run.failed(StepFailure{Step: StepScaffold, Cause: ensureError})
	}

	for _, definition := range orchestrator.steps() {
		if run.stopRequested() {
			return run.cancelled()
		}
		run.currentStep = definition.step
		if !definition.shouldRun(run) {
			continue
		}

		run.logger.Debug(stepStartedLogMessageConstant, zap.String(logFieldStepConstant, string(definition.step)))
		run.publish(definition.progress(run), false)
		run.executedSteps = append(run.executedSteps, definition.step)

		stepError := definition.execute(run)
		if stepError == nil {
			continue
		}
		if run.executionContext.Err() != nil {
			return run.cancelled()
		}
		if definition.bestEffort {
			continue
		}
		return run.failed(StepFailure{Step: definition.step, Cause: stepError})
	}

	return run.succeeded()
}

func (orchestrator *Orchestrator) steps() []workflowStep {
	return []workflowStep{
		{
			step:      StepScaffold,
			shouldRun: func(run *workflowRun) bool { return run.snapshot.CreateScaffold },
			progress:  constantProgress(scaffoldProgressMessageConstant),
			execute:   orchestrator.createScaffold,
		},
		{
			step:      StepHostedCreate,
			shouldRun: always,
			progress:  constantProgress(hostedCreateProgressMessageConstant),
			execute:   orchestrator.createHostedRepository,
		},
		{
			step:      StepGitignore,
			shouldRun: func(run *workflowRun) bool { return len(run.snapshot.GitignoreTemplate) > 0 },
			progress:  gitignoreProgress,
			execute:   orchestrator.resolveGitignore,
		},
		{
			step:      StepLocalInit,
			shouldRun: func(run *workflowRun) bool { return !orchestrator.vcsClient.IsRepository(run.targetDirectory) },
			progress:  constantProgress(localInitProgressMessageConstant),
			execute:   orchestrator.initializeRepository,
		},
		{
			step:      StepCommit,
			shouldRun: always,
			progress:  constantProgress(commitProgressMessageConstant),
			execute:   orchestrator.commit,
		},
		{
			step:      StepRemoteWire,
			shouldRun: always,
			progress:  remoteWireProgress,
			execute:   orchestrator.wireRemote,
		},
		{
			step:      StepPush,
			shouldRun: always,
			progress:  constantProgress(pushProgressMessageConstant),
			execute:   orchestrator.push,
		},
		{
			step:       StepTopics,
			bestEffort: true,
			shouldRun:  func(run *workflowRun) bool { return len(run.snapshot.Topics) > 0 },
			progress:   constantProgress(topicsProgressMessageConstant),
			execute:    orchestrator.setTopics,
		},
	}
}

func (orchestrator *Orchestrator) createScaffold(run *workflowRun) error {
	return orchestrator.scaffoldWriter.Write(run.targetDirectory, scaffold.Options{
		ProjectName:        run.snapshot.RepoName,
		ReadmeContent:      run.snapshot.ReadmeContent,
		CreateEditorconfig: run.snapshot.CreateEditorconfig,
	})
}

func (orchestrator *Orchestrator) createHostedRepository(run *workflowRun) error {
	options := githubcli.RepositoryCreateOptions{
		Name:        run.snapshot.RepoName,
		Visibility:  run.snapshot.Visibility,
		Description: run.snapshot.Description,
		License:     run.snapshot.License,
	}
	if scaffold.IsNativeTemplate(run.snapshot.GitignoreTemplate) {
		options.GitignoreTemplate = run.snapshot.GitignoreTemplate
	}
	return orchestrator.hostingClient.CreateRepository(run.executionContext, options)
}

func (orchestrator *Orchestrator) resolveGitignore(run *workflowRun) error {
	templateName := run.snapshot.GitignoreTemplate
	if !scaffold.IsNativeTemplate(templateName) {
		return orchestrator.scaffoldWriter.WriteCustomGitignore(run.targetDirectory, templateName)
	}

	source, fetchError := orchestrator.hostingClient.FetchGitignoreSource(run.executionContext, templateName)
	if fetchError != nil {
		if run.executionContext.Err() != nil {
			return fetchError
		}
		run.warn(fmt.Sprintf(gitignoreFetchWarningTemplateConstant, templateName, fetchError))
		return nil
	}
	if _, writeError := orchestrator.scaffoldWriter.WriteGitignoreIfAbsent(run.targetDirectory, source); writeError != nil {
		run.warn(fmt.Sprintf(gitignoreWriteWarningTemplateConstant, templateName, writeError))
	}
	return nil
}

func (orchestrator *Orchestrator) initializeRepository(run *workflowRun) error {
	return orchestrator.vcsClient.Init(run.executionContext, run.targetDirectory)
}

func (orchestrator *Orchestrator) commit(run *workflowRun) error {
	return orchestrator.vcsClient.StageAndCommit(run.executionContext, run.targetDirectory, run.snapshot.CommitMessage)
}

func (orchestrator *Orchestrator) wireRemote(run *workflowRun) error {
	remoteURL, formatError := run.snapshot.RemoteURL()
	if formatError != nil {
		return formatError
	}
	return orchestrator.vcsClient.AddOrUpdateRemote(run.executionContext, run.targetDirectory, run.snapshot.RemoteName, remoteURL)
}

func (orchestrator *Orchestrator) push(run *workflowRun) error {
	branch := orchestrator.vcsClient.CurrentBranch(run.executionContext, run.targetDirectory)
	return orchestrator.vcsClient.Push(run.executionContext, run.targetDirectory, run.snapshot.RemoteName, branch)
}

func (orchestrator *Orchestrator) setTopics(run *workflowRun) error {
	topicsError := orchestrator.hostingClient.SetTopics(run.executionContext, run.snapshot.Username, run.snapshot.RepoName, run.snapshot.Topics)
	if topicsError != nil && run.executionContext.Err() == nil {
		run.warn(fmt.Sprintf(topicsWarningTemplateConstant, topicsError))
	}
	return topicsError
}

func (run *workflowRun) stopRequested() bool {
	return run.token.IsCancelled() || run.executionContext.Err() != nil
}

func (run *workflowRun) publish(message string, warning bool) {
	run.sink.Publish(ProgressEvent{RunID: run.runID, Step: run.currentStep, Message: message, Warning: warning})
}

func (run *workflowRun) warn(message string) {
	run.logger.Warn(stepWarningLogMessageConstant, zap.String(logFieldStepConstant, string(run.currentStep)), zap.String(logFieldMessageConstant, message))
	run.warnings = append(run.warnings, message)
	run.publish(message, true)
}

func (run *workflowRun) succeeded() Result {
	return Result{
		RunID:         run.runID,
		Success:       true,
		Message:       fmt.Sprintf(successMessageTemplateConstant, run.snapshot.RepoName),
		ExecutedSteps: run.executedSteps,
		Warnings:      run.warnings,
	}
}

func (run *workflowRun) cancelled() Result {
	return Result{
		RunID:         run.runID,
		Message:       cancelledMessageConstant,
		Cancelled:     true,
		ExecutedSteps: run.executedSteps,
		Warnings:      run.warnings,
	}
}

func (run *workflowRun) failed(failure StepFailure) Result {
	run.logger.Warn(stepFailedLogMessageConstant, zap.String(logFieldStepConstant, string(failure.Step)), zap.Error(failure))
	return Result{
		RunID:         run.runID,
		Message:       failure.Error(),
		FailedStep:    failure.Step,
		ExecutedSteps: run.executedSteps,
		Warnings:      run.warnings,
	}
}

func always(*workflowRun) bool {
	return true
}

func constantProgress(message string) func(*workflowRun) string {
	return func(*workflowRun) string { return message }
}

func gitignoreProgress(run *workflowRun) string {
	templateName := run.snapshot.GitignoreTemplate
	if scaffold.IsNativeTemplate(templateName) {
		return fmt.Sprintf(nativeGitignoreProgressTemplateConstant, templateName)
	}
	return fmt.Sprintf(customGitignoreProgressTemplateConstant, templateName)
}

func remoteWireProgress(run *workflowRun) string {
	return fmt.Sprintf(remoteWireProgressTemplateConstant, run.snapshot.RemoteName)
}
