package provision_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/reposeed/internal/githubcli"
	"github.com/temirov/reposeed/internal/provision"
)

type stubHostingPreflight struct {
	versionError  error
	identity      githubcli.Identity
	identityError error
	identityCalls int
}

func (stub *stubHostingPreflight) Version(context.Context) error {
	return stub.versionError
}

func (stub *stubHostingPreflight) ResolveIdentity(context.Context) (githubcli.Identity, error) {
	stub.identityCalls++
	return stub.identity, stub.identityError
}

type stubVcsPreflight struct {
	versionError error
}

func (stub stubVcsPreflight) Version(context.Context) error {
	return stub.versionError
}

func TestRunPreflight(testInstance *testing.T) {
	missingBinary := errors.New("executable file not found in $PATH")

	testCases := []struct {
		name                  string
		hosting               *stubHostingPreflight
		vcs                   stubVcsPreflight
		expectedCheck         provision.PreflightCheck
		expectedMessage       string
		expectedIdentityCalls int
	}{
		{
			name:                  "all checks pass",
			hosting:               &stubHostingPreflight{identity: githubcli.Identity{Login: testOwnerConstant}},
			expectedIdentityCalls: 1,
		},
		{
			name:            "gh missing",
			hosting:         &stubHostingPreflight{versionError: missingBinary},
			expectedCheck:   provision.PreflightCheckHostingTool,
			expectedMessage: "GitHub CLI (gh) is not installed or not available",
		},
		{
			name:            "git missing",
			hosting:         &stubHostingPreflight{},
			vcs:             stubVcsPreflight{versionError: missingBinary},
			expectedCheck:   provision.PreflightCheckVcsTool,
			expectedMessage: "Git is not installed or not available",
		},
		{
			name:                  "gh not authenticated",
			hosting:               &stubHostingPreflight{identityError: errors.New("exit status 4")},
			expectedCheck:         provision.PreflightCheckAuthentication,
			expectedMessage:       "GitHub CLI is not authenticated. Run 'gh auth login' first",
			expectedIdentityCalls: 1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			identity, preflightError := provision.RunPreflight(context.Background(), testCase.hosting, testCase.vcs)
			require.Equal(testInstance, testCase.expectedIdentityCalls, testCase.hosting.identityCalls)

			if len(testCase.expectedCheck) == 0 {
				require.NoError(testInstance, preflightError)
				require.Equal(testInstance, testOwnerConstant, identity.Login)
				return
			}

			var failedCheck provision.PreflightError
			require.ErrorAs(testInstance, preflightError, &failedCheck)
			require.Equal(testInstance, testCase.expectedCheck, failedCheck.Check)
			require.Equal(testInstance, testCase.expectedMessage, failedCheck.Message)
			require.NotNil(testInstance, errors.Unwrap(preflightError))
		})
	}
}
