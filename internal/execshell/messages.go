package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	versionFlagConstant                 = "--version"
	gitInitSubcommandNameConstant       = "init"
	gitAddSubcommandNameConstant        = "add"
	gitCommitSubcommandNameConstant     = "commit"
	gitMessageFlagConstant              = "-m"
	gitRemoteSubcommandNameConstant     = "remote"
	gitRemoteAddSubcommandNameConstant  = "add"
	gitRemoteSetURLSubcommandConstant   = "set-url"
	gitRemoteGetURLSubcommandConstant   = "get-url"
	gitPushSubcommandNameConstant       = "push"
	gitSymbolicRefSubcommandNameConstant = "symbolic-ref"
	gitUpstreamFlagConstant             = "-u"
)

const (
	gitVersionStartTemplateConstant             = "Checking git availability"
	gitVersionSuccessTemplateConstant           = "git is available"
	gitVersionFailureTemplateConstant           = "git is not available (exit code %d%s)"
	gitVersionExecutionFailureTemplateConstant  = "git is not available: %s"
	gitInitStartTemplateConstant                = "Initializing git repository in %s"
	gitInitSuccessTemplateConstant              = "Initialized git repository in %s"
	gitInitFailureTemplateConstant              = "Failed to initialize git repository in %s (exit code %d%s)"
	gitInitExecutionFailureTemplateConstant     = "Unable to initialize git repository in %s: %s"
	gitAddStartTemplateConstant                 = "Staging %s in %s"
	gitAddSuccessTemplateConstant               = "Staged %s in %s"
	gitAddFailureTemplateConstant               = "Failed to stage %s in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant      = "Unable to stage %s in %s: %s"
	gitCommitStartTemplateConstant              = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant            = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant            = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant   = "Unable to create commit in %s with message %q: %s"
	gitRemoteAddStartTemplateConstant           = "Adding %s remote for %s pointing to %s"
	gitRemoteAddSuccessTemplateConstant         = "Added %s remote for %s pointing to %s"
	gitRemoteAddFailureTemplateConstant         = "Failed to add %s remote for %s pointing to %s (exit code %d%s)"
	gitRemoteAddExecutionFailureTemplateConstant = "Unable to add %s remote for %s pointing to %s: %s"
	gitRemoteUpdateStartTemplateConstant        = "Updating %s remote for %s to %s"
	gitRemoteUpdateSuccessTemplateConstant      = "%s remote for %s now points to %s"
	gitRemoteUpdateFailureTemplateConstant      = "Failed to update %s remote for %s to %s (exit code %d%s)"
	gitRemoteUpdateExecutionFailureTemplateConstant = "Unable to update %s remote for %s to %s: %s"
	gitRemoteLookupStartTemplateConstant        = "Checking %s remote for %s"
	gitRemoteLookupSuccessTemplateConstant      = "%s remote for %s points to %s"
	gitRemoteLookupFailureTemplateConstant      = "Failed to read %s remote for %s (exit code %d%s)"
	gitRemoteLookupExecutionFailureTemplateConstant = "Unable to read %s remote for %s: %s"
	gitPushStartTemplateConstant                = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant              = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant              = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant     = "Unable to push %s to %s from %s: %s"
	gitCurrentBranchStartTemplateConstant       = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant     = "Current branch in %s is %s"
	gitCurrentBranchFailureTemplateConstant     = "Failed to identify current branch in %s (exit code %d%s)"
	gitCurrentBranchExecutionFailureTemplateConstant = "Unable to identify current branch in %s: %s"
)

const (
	githubRepoSubcommandNameConstant       = "repo"
	githubRepoCreateSubcommandNameConstant = "create"
	githubRepoViewSubcommandNameConstant   = "view"
	githubAPICommandNameConstant           = "api"
	githubMethodFlagConstant               = "-X"
	githubUserEndpointConstant             = "user"
	githubTemplatesEndpointConstant        = "gitignore/templates"
	githubTemplatesEndpointPrefixConstant  = "gitignore/templates/"
	githubPrivateFlagConstant              = "--private"
	githubPrivateVisibilityLabelConstant   = "private"
	githubPublicVisibilityLabelConstant    = "public"
)

const (
	githubVersionStartTemplateConstant              = "Checking GitHub CLI availability"
	githubVersionSuccessTemplateConstant            = "GitHub CLI is available"
	githubVersionFailureTemplateConstant            = "GitHub CLI is not available (exit code %d%s)"
	githubVersionExecutionFailureTemplateConstant   = "GitHub CLI is not available: %s"
	githubRepoCreateStartTemplateConstant           = "Creating %s repository %s"
	githubRepoCreateSuccessTemplateConstant         = "Created %s repository %s"
	githubRepoCreateFailureTemplateConstant         = "Failed to create %s repository %s (exit code %d%s)"
	githubRepoCreateExecutionFailureTemplateConstant = "Unable to create %s repository %s: %s"
	githubRepoViewStartTemplateConstant             = "Opening %s"
	githubRepoViewSuccessTemplateConstant           = "Opened %s"
	githubRepoViewFailureTemplateConstant           = "Failed to open %s (exit code %d%s)"
	githubRepoViewExecutionFailureTemplateConstant  = "Unable to open %s: %s"
	githubIdentityStartTemplateConstant             = "Resolving authenticated GitHub user"
	githubIdentitySuccessTemplateConstant           = "Resolved authenticated GitHub user"
	githubIdentityFailureTemplateConstant           = "Failed to resolve authenticated GitHub user (exit code %d%s)"
	githubIdentityExecutionFailureTemplateConstant  = "Unable to resolve authenticated GitHub user: %s"
	githubTemplatesStartTemplateConstant            = "Listing gitignore templates"
	githubTemplatesSuccessTemplateConstant          = "Listed gitignore templates"
	githubTemplatesFailureTemplateConstant          = "Failed to list gitignore templates (exit code %d%s)"
	githubTemplatesExecutionFailureTemplateConstant = "Unable to list gitignore templates: %s"
	githubTemplateStartTemplateConstant             = "Fetching gitignore template %s"
	githubTemplateSuccessTemplateConstant           = "Fetched gitignore template %s"
	githubTemplateFailureTemplateConstant           = "Failed to fetch gitignore template %s (exit code %d%s)"
	githubTemplateExecutionFailureTemplateConstant  = "Unable to fetch gitignore template %s: %s"
	githubAPIStartTemplateConstant                  = "Calling GitHub API %s %s"
	githubAPISuccessTemplateConstant                = "Called GitHub API %s %s"
	githubAPIFailureTemplateConstant                = "GitHub API %s %s failed (exit code %d%s)"
	githubAPIExecutionFailureTemplateConstant       = "Unable to call GitHub API %s %s: %s"
	githubAPIDefaultMethodConstant                  = "GET"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

// stagedTemplates groups the four lifecycle templates of one command shape.
type stagedTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// render formats the template for stage. Failure templates receive the exit code and
// standard error suffix after the leading values, execution failure templates the cause.
func (formatter CommandMessageFormatter) render(templates stagedTemplates, stage messageStage, result ExecutionResult, failure error, values ...any) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, values...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, values...)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, append(values, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))...)
	default:
		return fmt.Sprintf(templates.executionFailure, append(values, formatter.describeFailure(failure))...)
	}
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandGitHub:
		return formatter.describeGitHubMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	switch strings.TrimSpace(arguments[0]) {
	case versionFlagConstant:
		return formatter.render(stagedTemplates{
			start:            gitVersionStartTemplateConstant,
			success:          gitVersionSuccessTemplateConstant,
			failure:          gitVersionFailureTemplateConstant,
			executionFailure: gitVersionExecutionFailureTemplateConstant,
		}, stage, result, failure)
	case gitInitSubcommandNameConstant:
		return formatter.render(stagedTemplates{
			start:            gitInitStartTemplateConstant,
			success:          gitInitSuccessTemplateConstant,
			failure:          gitInitFailureTemplateConstant,
			executionFailure: gitInitExecutionFailureTemplateConstant,
		}, stage, result, failure, workingDirectory)
	case gitAddSubcommandNameConstant:
		pathspec := formatter.ensureValue(strings.Join(arguments[1:], commandArgumentsJoinSeparatorConstant))
		return formatter.render(stagedTemplates{
			start:            gitAddStartTemplateConstant,
			success:          gitAddSuccessTemplateConstant,
			failure:          gitAddFailureTemplateConstant,
			executionFailure: gitAddExecutionFailureTemplateConstant,
		}, stage, result, failure, pathspec, workingDirectory)
	case gitCommitSubcommandNameConstant:
		return formatter.render(stagedTemplates{
			start:            gitCommitStartTemplateConstant,
			success:          gitCommitSuccessTemplateConstant,
			failure:          gitCommitFailureTemplateConstant,
			executionFailure: gitCommitExecutionFailureTemplateConstant,
		}, stage, result, failure, workingDirectory, findFlagValue(arguments, gitMessageFlagConstant))
	case gitRemoteSubcommandNameConstant:
		return formatter.describeGitRemoteMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		remoteName, branchName := formatter.extractPushTarget(arguments)
		return formatter.render(stagedTemplates{
			start:            gitPushStartTemplateConstant,
			success:          gitPushSuccessTemplateConstant,
			failure:          gitPushFailureTemplateConstant,
			executionFailure: gitPushExecutionFailureTemplateConstant,
		}, stage, result, failure, branchName, remoteName, workingDirectory)
	case gitSymbolicRefSubcommandNameConstant:
		if stage == messageStageSuccess {
			return fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, workingDirectory, formatter.ensureValue(strings.TrimSpace(result.StandardOutput)))
		}
		return formatter.render(stagedTemplates{
			start:            gitCurrentBranchStartTemplateConstant,
			failure:          gitCurrentBranchFailureTemplateConstant,
			executionFailure: gitCurrentBranchExecutionFailureTemplateConstant,
		}, stage, result, failure, workingDirectory)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
	remoteURL := formatter.ensureValue(formatter.argumentAtIndex(arguments, 3))

	switch formatter.argumentAtIndex(arguments, 1) {
	case gitRemoteAddSubcommandNameConstant:
		return formatter.render(stagedTemplates{
			start:            gitRemoteAddStartTemplateConstant,
			success:          gitRemoteAddSuccessTemplateConstant,
			failure:          gitRemoteAddFailureTemplateConstant,
			executionFailure: gitRemoteAddExecutionFailureTemplateConstant,
		}, stage, result, failure, remoteName, workingDirectory, remoteURL)
	case gitRemoteSetURLSubcommandConstant:
		return formatter.render(stagedTemplates{
			start:            gitRemoteUpdateStartTemplateConstant,
			success:          gitRemoteUpdateSuccessTemplateConstant,
			failure:          gitRemoteUpdateFailureTemplateConstant,
			executionFailure: gitRemoteUpdateExecutionFailureTemplateConstant,
		}, stage, result, failure, remoteName, workingDirectory, remoteURL)
	case gitRemoteGetURLSubcommandConstant:
		if stage == messageStageSuccess {
			return fmt.Sprintf(gitRemoteLookupSuccessTemplateConstant, remoteName, workingDirectory, formatter.ensureValue(strings.TrimSpace(result.StandardOutput)))
		}
		return formatter.render(stagedTemplates{
			start:            gitRemoteLookupStartTemplateConstant,
			failure:          gitRemoteLookupFailureTemplateConstant,
			executionFailure: gitRemoteLookupExecutionFailureTemplateConstant,
		}, stage, result, failure, remoteName, workingDirectory)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch strings.TrimSpace(arguments[0]) {
	case versionFlagConstant:
		return formatter.render(stagedTemplates{
			start:            githubVersionStartTemplateConstant,
			success:          githubVersionSuccessTemplateConstant,
			failure:          githubVersionFailureTemplateConstant,
			executionFailure: githubVersionExecutionFailureTemplateConstant,
		}, stage, result, failure)
	case githubRepoSubcommandNameConstant:
		return formatter.describeGitHubRepoCommand(command, result, failure, stage)
	case githubAPICommandNameConstant:
		return formatter.describeGitHubAPICommand(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubRepoCommand(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	repository := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))

	switch formatter.argumentAtIndex(arguments, 1) {
	case githubRepoCreateSubcommandNameConstant:
		visibility := githubPublicVisibilityLabelConstant
		if containsArgument(arguments, githubPrivateFlagConstant) {
			visibility = githubPrivateVisibilityLabelConstant
		}
		return formatter.render(stagedTemplates{
			start:            githubRepoCreateStartTemplateConstant,
			success:          githubRepoCreateSuccessTemplateConstant,
			failure:          githubRepoCreateFailureTemplateConstant,
			executionFailure: githubRepoCreateExecutionFailureTemplateConstant,
		}, stage, result, failure, visibility, repository)
	case githubRepoViewSubcommandNameConstant:
		return formatter.render(stagedTemplates{
			start:            githubRepoViewStartTemplateConstant,
			success:          githubRepoViewSuccessTemplateConstant,
			failure:          githubRepoViewFailureTemplateConstant,
			executionFailure: githubRepoViewExecutionFailureTemplateConstant,
		}, stage, result, failure, repository)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubAPICommand(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	method := findFlagValue(arguments, githubMethodFlagConstant)
	endpoint := formatter.extractEndpoint(arguments[1:])

	if len(method) == 0 {
		switch {
		case endpoint == githubUserEndpointConstant:
			return formatter.render(stagedTemplates{
				start:            githubIdentityStartTemplateConstant,
				success:          githubIdentitySuccessTemplateConstant,
				failure:          githubIdentityFailureTemplateConstant,
				executionFailure: githubIdentityExecutionFailureTemplateConstant,
			}, stage, result, failure)
		case endpoint == githubTemplatesEndpointConstant:
			return formatter.render(stagedTemplates{
				start:            githubTemplatesStartTemplateConstant,
				success:          githubTemplatesSuccessTemplateConstant,
				failure:          githubTemplatesFailureTemplateConstant,
				executionFailure: githubTemplatesExecutionFailureTemplateConstant,
			}, stage, result, failure)
		case strings.HasPrefix(endpoint, githubTemplatesEndpointPrefixConstant):
			templateName := strings.TrimPrefix(endpoint, githubTemplatesEndpointPrefixConstant)
			return formatter.render(stagedTemplates{
				start:            githubTemplateStartTemplateConstant,
				success:          githubTemplateSuccessTemplateConstant,
				failure:          githubTemplateFailureTemplateConstant,
				executionFailure: githubTemplateExecutionFailureTemplateConstant,
			}, stage, result, failure, templateName)
		}
		method = githubAPIDefaultMethodConstant
	}

	return formatter.render(stagedTemplates{
		start:            githubAPIStartTemplateConstant,
		success:          githubAPISuccessTemplateConstant,
		failure:          githubAPIFailureTemplateConstant,
		executionFailure: githubAPIExecutionFailureTemplateConstant,
	}, stage, result, failure, method, formatter.ensureValue(endpoint))
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[index])
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedValue
}

// extractPushTarget reads "push [-u] <remote> <branch>".
func (formatter CommandMessageFormatter) extractPushTarget(arguments []string) (string, string) {
	positional := make([]string, 0, 2)
	for _, argument := range arguments[1:] {
		if argument == gitUpstreamFlagConstant || strings.HasPrefix(argument, "-") {
			continue
		}
		positional = append(positional, argument)
	}
	return formatter.ensureValue(formatter.argumentAtIndex(positional, 0)), formatter.ensureValue(formatter.argumentAtIndex(positional, 1))
}

// extractEndpoint returns the first positional argument of a gh api invocation.
func (formatter CommandMessageFormatter) extractEndpoint(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		argument := strings.TrimSpace(arguments[index])
		if strings.HasPrefix(argument, "-") {
			index++
			continue
		}
		return argument
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments)-1; index++ {
		if arguments[index] == flag {
			return arguments[index+1]
		}
	}
	return emptyStringConstant
}
