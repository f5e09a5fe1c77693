package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testMessagesWorkingDirectoryConstant = "/workspace/demo"
	testMessagesRemoteURLConstant        = "https://github.com/octocat/demo.git"
)

func TestCommandMessageFormatterDescribesProvisioningCommands(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}

	testCases := []struct {
		name            string
		command         ShellCommand
		build           func(command ShellCommand) string
		expectedMessage string
	}{
		{
			name:            "git_init_start",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"init"}, WorkingDirectory: testMessagesWorkingDirectoryConstant}},
			build:           formatter.BuildStartedMessage,
			expectedMessage: "Initializing git repository in /workspace/demo",
		},
		{
			name:            "git_commit_success",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"commit", "-m", "Initial commit"}, WorkingDirectory: testMessagesWorkingDirectoryConstant}},
			build:           formatter.BuildSuccessMessage,
			expectedMessage: "Created commit in /workspace/demo with message \"Initial commit\"",
		},
		{
			name:            "git_remote_add_start",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"remote", "add", "origin", testMessagesRemoteURLConstant}, WorkingDirectory: testMessagesWorkingDirectoryConstant}},
			build:           formatter.BuildStartedMessage,
			expectedMessage: "Adding origin remote for /workspace/demo pointing to " + testMessagesRemoteURLConstant,
		},
		{
			name:            "git_push_start",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"push", "-u", "origin", "main"}, WorkingDirectory: testMessagesWorkingDirectoryConstant}},
			build:           formatter.BuildStartedMessage,
			expectedMessage: "Pushing main to origin from /workspace/demo",
		},
		{
			name:            "gh_repo_create_private",
			command:         ShellCommand{Name: CommandGitHub, Details: CommandDetails{Arguments: []string{"repo", "create", "demo", "--private"}}},
			build:           formatter.BuildStartedMessage,
			expectedMessage: "Creating private repository demo",
		},
		{
			name:            "gh_template_fetch",
			command:         ShellCommand{Name: CommandGitHub, Details: CommandDetails{Arguments: []string{"api", "gitignore/templates/Python"}}},
			build:           formatter.BuildStartedMessage,
			expectedMessage: "Fetching gitignore template Python",
		},
		{
			name:            "gh_topics_patch",
			command:         ShellCommand{Name: CommandGitHub, Details: CommandDetails{Arguments: []string{"api", "-X", "PATCH", "repos/octocat/demo", "-F", "topics=[]"}}},
			build:           formatter.BuildSuccessMessage,
			expectedMessage: "Called GitHub API PATCH repos/octocat/demo",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedMessage, testCase.build(testCase.command))
		})
	}
}

func TestCommandMessageFormatterFailureIncludesStandardError(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"push", "-u", "origin", "main"},
			WorkingDirectory: testMessagesWorkingDirectoryConstant,
		},
	}

	failureMessage := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal: rejected\n"})
	require.Equal(testInstance, "Failed to push main to origin from /workspace/demo (exit code 128: fatal: rejected)", failureMessage)

	executionFailureMessage := formatter.BuildExecutionFailureMessage(command, errors.New("signal: killed"))
	require.Equal(testInstance, "Unable to push main to origin from /workspace/demo: signal: killed", executionFailureMessage)
}

func TestCommandMessageFormatterFallsBackToGenericLabel(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandName("ssh-agent"), Details: CommandDetails{Arguments: []string{"-s"}}}

	require.Equal(testInstance, "Running ssh-agent -s", formatter.BuildStartedMessage(command))
}
