package provision

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/reposeed/internal/dependencies"
	"github.com/temirov/reposeed/internal/filesystem"
	"github.com/temirov/reposeed/internal/githubcli"
	"github.com/temirov/reposeed/internal/gitrepo"
	"github.com/temirov/reposeed/internal/prompt"
	"github.com/temirov/reposeed/internal/scaffold"
	"github.com/temirov/reposeed/internal/ui"
	"github.com/temirov/reposeed/internal/utils"
	"github.com/temirov/reposeed/internal/utils/flags"
	pathutils "github.com/temirov/reposeed/internal/utils/path"
)

const (
	commandUseConstant              = "create [repository-name]"
	commandShortDescriptionConstant = "Create a GitHub repository together with a pushed local project"
	commandLongDescriptionConstant  = "create scaffolds a local project, creates the hosted repository with gh, commits and pushes the project, and applies repository topics."

	flagNameConstant                               = "name"
	flagNameShorthandConstant                      = "n"
	flagNameUsageConstant                          = "Repository name"
	flagOwnerConstant                              = "owner"
	flagOwnerUsageConstant                         = "Repository owner (defaults to the authenticated gh account)"
	flagFolderConstant                             = "folder"
	flagFolderUsageConstant                        = "Local folder name (defaults to the repository name)"
	flagLocationConstant                           = "location"
	flagLocationUsageConstant                      = "Directory that will contain the project folder"
	flagVisibilityConstant                         = "visibility"
	flagVisibilityUsageConstant                    = "Repository visibility"
	flagDescriptionConstant                        = "description"
	flagDescriptionUsageConstant                   = "Repository description"
	flagGitignoreConstant                          = "gitignore"
	flagGitignoreUsageConstant                     = "Gitignore template name (see the templates command)"
	flagLicenseConstant                            = "license"
	flagLicenseUsageConstant                       = "License template passed to gh repo create"
	flagTopicsConstant                             = "topics"
	flagTopicsUsageConstant                        = "Comma separated repository topics"
	flagRemoteTypeConstant                         = "remote-type"
	flagRemoteTypeUsageConstant                    = "Remote URL protocol"
	flagReadmeFileConstant                         = "readme-file"
	flagReadmeFileUsageConstant                    = "File whose content replaces the generated README.md"
	flagManifestConstant                           = "manifest"
	flagManifestUsageConstant                      = "YAML project manifest supplying values for unset flags"
	flagCommitMessageConstant                      = "commit-message"
	flagCommitMessageUsageConstant                 = "Message of the initial commit"
	flagScaffoldConstant                           = "scaffold"
	flagScaffoldUsageConstant                      = "Create the project scaffold"
	flagEditorconfigConstant                       = "editorconfig"
	flagEditorconfigUsageConstant                  = "Include .editorconfig in the scaffold"
	flagOpenConstant                               = "open"
	flagOpenUsageConstant                          = "Open the repository in a browser after a successful run"
	readmeReadErrorTemplateConstant                = "unable to read README file %s: %w"
	confirmationPromptConstant                     = "Proceed? [y/N] "
	abortedMessageConstant                         = "Aborted; nothing was created"
	cancellingMessageConstant                      = "Cancelling after the current step..."
	summaryRepositoryTemplate                      = "Repository: %s/%s (%s)"
	summaryDirectoryTemplate                       = "Directory:  %s"
	summaryRemoteTemplate                          = "Remote:     %s %s"
	summaryGitignoreTemplate                       = "Gitignore:  %s"
	summaryTopicsTemplate                          = "Topics:     %s"
	existingRepositoryTemplate                     = "%s is already a git repository; git init will be skipped"
	existingRemoteTemplate                         = "Remote %s currently points to %s and will be updated"
	openBrowserWarningTemplate                     = "Warning: unable to open the repository in a browser: %v"
	topicsSummarySeparator                         = ", "
	configurationFileLogMessageConstant            = "create configuration loaded"
	configurationFileLogFieldConstant              = "config_file"
	configurationEmbeddedOnlyLogFieldConstant      = "embedded_defaults_only"
	configurationEnvironmentPrefixLogFieldConstant = "environment_prefix"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// RunOutcomeError reports a run that ended in the Failed or Cancelled state.
type RunOutcomeError struct {
	Result Result
}

// Error returns the run's terminal message.
func (outcomeError RunOutcomeError) Error() string {
	return outcomeError.Result.Message
}

// Reported is true because the create command has already printed the terminal message.
func (outcomeError RunOutcomeError) Reported() bool {
	return true
}

// CommandBuilder assembles the create command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	Executor                     dependencies.CommandExecutor
	FileSystem                   filesystem.FileSystem
	HomeExpander                 *pathutils.HomeExpander
	Prompter                     prompt.ConfirmationPrompter
	RunIDGenerator               func() string
}

type createOptions struct {
	snapshot    ConfigSnapshot
	assumeYes   bool
	openBrowser bool
}

// Build constructs the create command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configuration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	flagSet := command.Flags()
	flags.BindRepositoryFlags(command, flags.RepositoryFlagValues{}, flags.RepositoryFlagDefinitions{
		Owner: flags.RepositoryFlagDefinition{Name: flagOwnerConstant, Usage: flagOwnerUsageConstant, Enabled: true},
		Name:  flags.RepositoryFlagDefinition{Name: flagNameConstant, Shorthand: flagNameShorthandConstant, Usage: flagNameUsageConstant, Enabled: true},
	})
	flagSet.String(flagFolderConstant, "", flagFolderUsageConstant)
	flagSet.String(flagLocationConstant, configuration.Location, flagLocationUsageConstant)
	flags.AddChoiceFlag(flagSet, flagVisibilityConstant, configuration.Visibility, []string{string(githubcli.VisibilityPublic), string(githubcli.VisibilityPrivate)}, flagVisibilityUsageConstant)
	flagSet.String(flagDescriptionConstant, "", flagDescriptionUsageConstant)
	flagSet.String(flagGitignoreConstant, configuration.Gitignore, flagGitignoreUsageConstant)
	flagSet.String(flagLicenseConstant, configuration.License, flagLicenseUsageConstant)
	flagSet.String(flagTopicsConstant, "", flagTopicsUsageConstant)
	flags.AddChoiceFlag(flagSet, flagRemoteTypeConstant, configuration.RemoteType, []string{string(gitrepo.RemoteProtocolHTTPS), string(gitrepo.RemoteProtocolSSH)}, flagRemoteTypeUsageConstant)
	flagSet.String(flags.RemoteFlagName, configuration.RemoteName, flags.RemoteFlagUsage)
	flagSet.String(flagReadmeFileConstant, "", flagReadmeFileUsageConstant)
	flagSet.String(flagManifestConstant, "", flagManifestUsageConstant)
	flagSet.String(flagCommitMessageConstant, configuration.CommitMessage, flagCommitMessageUsageConstant)
	flags.AddToggleFlag(flagSet, nil, flagScaffoldConstant, configuration.Scaffold, flagScaffoldUsageConstant)
	flags.AddToggleFlag(flagSet, nil, flagEditorconfigConstant, configuration.Editorconfig, flagEditorconfigUsageConstant)
	flags.AddToggleFlag(flagSet, nil, flagOpenConstant, configuration.OpenBrowser, flagOpenUsageConstant)
	flags.BindAssumeYesFlag(command, configuration.AssumeYes)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	logger := builder.resolveLogger()
	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	output := utils.NewFlushingWriter(command.OutOrStdout())
	printer := ui.NewProgressPrinter(output, ui.ColorSupported())
	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}
	if configurationSource, found := utils.NewCommandContextAccessor().ConfigurationSource(executionContext); found {
		logger.Debug(
			configurationFileLogMessageConstant,
			zap.String(configurationFileLogFieldConstant, configurationSource.FilePath),
			zap.Bool(configurationEmbeddedOnlyLogFieldConstant, configurationSource.EmbeddedOnly()),
			zap.String(configurationEnvironmentPrefixLogFieldConstant, configurationSource.EnvironmentPrefix),
		)
	}

	options, optionsError := builder.parseOptions(command, arguments, configuration, fileSystem)
	if optionsError != nil {
		return optionsError
	}
	snapshot := options.snapshot

	executor, executorError := dependencies.ResolveCommandExecutor(builder.Executor, logger, builder.resolveHumanReadableLogging())
	if executorError != nil {
		return executorError
	}
	gitManager, managerError := gitrepo.NewRepositoryManager(executor, fileSystem)
	if managerError != nil {
		return managerError
	}
	githubClient, clientError := dependencies.NewGitHubClient(executor, configuration.TemplateCacheSize, configuration.TemplateFetchTimeout)
	if clientError != nil {
		return clientError
	}

	preparedLocation, locationError := PrepareLocation(snapshot.RepoLocation, fileSystem, builder.HomeExpander)
	if locationError != nil {
		return locationError
	}
	snapshot.RepoLocation = preparedLocation

	identity, preflightError := RunPreflight(executionContext, githubClient, gitManager)
	if preflightError != nil {
		return preflightError
	}
	if len(strings.TrimSpace(snapshot.Username)) == 0 {
		snapshot.Username = identity.Login
	}
	if len(strings.TrimSpace(snapshot.FolderName)) == 0 {
		snapshot.FolderName = snapshot.RepoName
	}
	snapshot = snapshot.withDefaults()

	if validationError := Validate(snapshot, fileSystem); validationError != nil {
		return validationError
	}

	builder.printSummary(executionContext, printer, snapshot, gitManager)
	if !options.assumeYes {
		confirmed, confirmError := builder.resolvePrompter(command, output).Confirm(confirmationPromptConstant)
		if confirmError != nil {
			return confirmError
		}
		if !confirmed {
			printer.Notice(abortedMessageConstant)
			return nil
		}
	}

	orchestrator, orchestratorError := NewOrchestrator(logger, githubClient, gitManager, scaffold.NewWriter(fileSystem))
	if orchestratorError != nil {
		return orchestratorError
	}
	runnerOptions := []RunnerOption{WithCancelGracePeriod(configuration.CancelGracePeriod)}
	if builder.RunIDGenerator != nil {
		runnerOptions = append(runnerOptions, WithRunIDGenerator(builder.RunIDGenerator))
	}
	runner, runnerError := NewRunner(orchestrator, logger, runnerOptions...)
	if runnerError != nil {
		return runnerError
	}

	handle, startError := runner.Start(executionContext, snapshot, ProgressHandlerFuncs{
		OnProgress: func(event ProgressEvent) {
			if event.Warning {
				printer.Warning(event.Message)
				return
			}
			printer.Progress(event.Message)
		},
		OnResult: func(result Result) {
			if result.Success {
				printer.Success(result.Message)
				return
			}
			printer.Failure(result.Message)
		},
	})
	if startError != nil {
		return startError
	}

	stopWatching := watchInterrupts(handle, printer, subscribeTerminationSignals)
	result := handle.Wait()
	stopWatching()

	if !result.Success {
		return RunOutcomeError{Result: result}
	}
	if options.openBrowser {
		if openError := githubClient.OpenInBrowser(executionContext, snapshot.Username, snapshot.RepoName); openError != nil {
			printer.Warning(fmt.Sprintf(openBrowserWarningTemplate, openError))
		}
	}
	return nil
}

// parseOptions layers configuration, the optional manifest and explicitly set flags, in
// that order of increasing precedence.
func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string, configuration CommandConfiguration, fileSystem filesystem.FileSystem) (createOptions, error) {
	flagSet := command.Flags()
	snapshot := configuration.Snapshot()

	manifestPath, _ := flagSet.GetString(flagManifestConstant)
	if trimmedManifestPath := strings.TrimSpace(manifestPath); len(trimmedManifestPath) > 0 {
		manifest, manifestError := LoadManifest(trimmedManifestPath, fileSystem)
		if manifestError != nil {
			return createOptions{}, manifestError
		}
		snapshot = manifest.Apply(snapshot)
	}

	if len(arguments) > 0 {
		snapshot.RepoName = strings.TrimSpace(arguments[0])
	}

	stringOverrides := map[string]*string{
		flagNameConstant:          &snapshot.RepoName,
		flagOwnerConstant:         &snapshot.Username,
		flagFolderConstant:        &snapshot.FolderName,
		flagLocationConstant:      &snapshot.RepoLocation,
		flagDescriptionConstant:   &snapshot.Description,
		flagGitignoreConstant:     &snapshot.GitignoreTemplate,
		flagLicenseConstant:       &snapshot.License,
		flags.RemoteFlagName:      &snapshot.RemoteName,
		flagCommitMessageConstant: &snapshot.CommitMessage,
	}
	for flagName, target := range stringOverrides {
		if !flagSet.Changed(flagName) {
			continue
		}
		flagValue, _ := flagSet.GetString(flagName)
		*target = strings.TrimSpace(flagValue)
	}

	if flagSet.Changed(flagVisibilityConstant) {
		visibilityValue, _ := flagSet.GetString(flagVisibilityConstant)
		snapshot.Visibility = githubcli.Visibility(visibilityValue)
	}
	if flagSet.Changed(flagRemoteTypeConstant) {
		remoteTypeValue, _ := flagSet.GetString(flagRemoteTypeConstant)
		snapshot.RemoteType = normalizeRemoteType(remoteTypeValue)
	}
	if flagSet.Changed(flagTopicsConstant) {
		topicsValue, _ := flagSet.GetString(flagTopicsConstant)
		snapshot.Topics = ParseTopics(topicsValue)
	}
	if flagSet.Changed(flagScaffoldConstant) {
		snapshot.CreateScaffold, _ = flagSet.GetBool(flagScaffoldConstant)
	}
	if flagSet.Changed(flagEditorconfigConstant) {
		snapshot.CreateEditorconfig, _ = flagSet.GetBool(flagEditorconfigConstant)
	}

	readmePath, _ := flagSet.GetString(flagReadmeFileConstant)
	if trimmedReadmePath := strings.TrimSpace(readmePath); len(trimmedReadmePath) > 0 {
		readmeContent, readError := fileSystem.ReadFile(trimmedReadmePath)
		if readError != nil {
			return createOptions{}, fmt.Errorf(readmeReadErrorTemplateConstant, trimmedReadmePath, readError)
		}
		snapshot.ReadmeContent = string(readmeContent)
	}

	assumeYes, _ := flagSet.GetBool(flags.AssumeYesFlagName)
	openBrowser, _ := flagSet.GetBool(flagOpenConstant)

	return createOptions{snapshot: snapshot, assumeYes: assumeYes, openBrowser: openBrowser}, nil
}

func (builder *CommandBuilder) printSummary(executionContext context.Context, printer *ui.ProgressPrinter, snapshot ConfigSnapshot, gitManager *gitrepo.RepositoryManager) {
	printer.Notice(fmt.Sprintf(summaryRepositoryTemplate, snapshot.Username, snapshot.RepoName, snapshot.Visibility))
	printer.Notice(fmt.Sprintf(summaryDirectoryTemplate, snapshot.TargetDirectory()))
	if remoteURL, remoteError := snapshot.RemoteURL(); remoteError == nil {
		printer.Notice(fmt.Sprintf(summaryRemoteTemplate, snapshot.RemoteName, remoteURL))
	}
	if len(snapshot.GitignoreTemplate) > 0 {
		printer.Notice(fmt.Sprintf(summaryGitignoreTemplate, snapshot.GitignoreTemplate))
	}
	if len(snapshot.Topics) > 0 {
		printer.Notice(fmt.Sprintf(summaryTopicsTemplate, strings.Join(snapshot.Topics, topicsSummarySeparator)))
	}

	targetDirectory := snapshot.TargetDirectory()
	if !gitManager.IsRepository(targetDirectory) {
		return
	}
	printer.Notice(fmt.Sprintf(existingRepositoryTemplate, targetDirectory))
	existingRemote, lookupError := gitManager.RemoteURL(executionContext, targetDirectory, snapshot.RemoteName)
	if lookupError != nil {
		return
	}
	existingDescription := existingRemote
	if parsedRemote, parseError := gitrepo.ParseRemoteURL(existingRemote); parseError == nil {
		existingDescription = parsedRemote.Slug()
	}
	printer.Notice(fmt.Sprintf(existingRemoteTemplate, snapshot.RemoteName, existingDescription))
}

// watchInterrupts turns SIGINT and SIGTERM into a cooperative cancellation of handle.
// The returned function stops watching.
type cancellableRun interface {
	Cancel()
	Done() <-chan struct{}
}

// signalSubscriber routes termination signals to interrupts and returns the function
// that restores default signal handling.
type signalSubscriber func(interrupts chan<- os.Signal) func()

func subscribeTerminationSignals(interrupts chan<- os.Signal) func() {
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	return func() {
		signal.Stop(interrupts)
	}
}

// watchInterrupts cancels run on the first signal and then restores default handling,
// so a second Ctrl-C terminates the process during the grace period.
func watchInterrupts(run cancellableRun, printer *ui.ProgressPrinter, subscribe signalSubscriber) func() {
	interrupts := make(chan os.Signal, 1)
	var releaseOnce sync.Once
	unsubscribe := subscribe(interrupts)
	release := func() {
		releaseOnce.Do(unsubscribe)
	}
	stopped := make(chan struct{})

	go func() {
		select {
		case <-interrupts:
			release()
			printer.Notice(cancellingMessageConstant)
			run.Cancel()
		case <-run.Done():
		case <-stopped:
		}
	}()

	return func() {
		release()
		close(stopped)
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveHumanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command, output io.Writer) prompt.ConfirmationPrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	return prompt.NewIOConfirmationPrompter(command.InOrStdin(), output)
}
