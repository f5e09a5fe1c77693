package account_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/reposeed/internal/account"
	"github.com/temirov/reposeed/internal/execshell"
	"github.com/temirov/reposeed/internal/githubcli"
)

type stubIdentityResolver struct {
	identity     githubcli.Identity
	resolveError error
}

func (resolver stubIdentityResolver) ResolveIdentity(context.Context) (githubcli.Identity, error) {
	return resolver.identity, resolver.resolveError
}

type stubCommandExecutor struct {
	githubOutput string
}

func (executor stubCommandExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func (executor stubCommandExecutor) ExecuteGitHubCLI(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{StandardOutput: executor.githubOutput}, nil
}

func TestWhoAmICommand(testInstance *testing.T) {
	testCases := []struct {
		name           string
		builder        account.CommandBuilder
		expectedOutput string
		expectedError  error
	}{
		{
			name:           "login_and_name",
			builder:        account.CommandBuilder{Resolver: stubIdentityResolver{identity: githubcli.Identity{Login: "octocat", Name: "The Octocat"}}},
			expectedOutput: "octocat (The Octocat)\n",
		},
		{
			name:           "login_only",
			builder:        account.CommandBuilder{Resolver: stubIdentityResolver{identity: githubcli.Identity{Login: "octocat"}}},
			expectedOutput: "octocat\n",
		},
		{
			name:          "not_authenticated",
			builder:       account.CommandBuilder{Resolver: stubIdentityResolver{resolveError: errors.New("HTTP 401")}},
			expectedError: account.ErrNotAuthenticated,
		},
		{
			name:           "default_resolver_uses_executor",
			builder:        account.CommandBuilder{Executor: stubCommandExecutor{githubOutput: `{"login":"hubot"}`}},
			expectedOutput: "hubot\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			command, buildError := testCase.builder.Build()
			require.NoError(testInstance, buildError)

			output := &bytes.Buffer{}
			command.SetOut(output)
			command.SetErr(&bytes.Buffer{})
			command.SetArgs([]string{})

			executionError := command.Execute()
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, executionError, testCase.expectedError)
				return
			}
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, testCase.expectedOutput, output.String())
		})
	}
}
