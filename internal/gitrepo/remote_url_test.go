package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/reposeed/internal/gitrepo"
)

func TestFormatRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name          string
		remote        gitrepo.RemoteURL
		expectedURL   string
		expectedError any
	}{
		{
			name:        "https",
			remote:      gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Host: gitrepo.DefaultHost, Owner: "octocat", Repository: "demo-project"},
			expectedURL: "https://github.com/octocat/demo-project.git",
		},
		{
			name:        "ssh",
			remote:      gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: gitrepo.DefaultHost, Owner: "octocat", Repository: "demo-project"},
			expectedURL: "git@github.com:octocat/demo-project.git",
		},
		{
			name:          "missing_owner",
			remote:        gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: gitrepo.DefaultHost, Repository: "demo-project"},
			expectedError: gitrepo.RemoteURLParseError{},
		},
		{
			name:          "unsupported_protocol",
			remote:        gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocol("ftp"), Host: gitrepo.DefaultHost, Owner: "octocat", Repository: "demo-project"},
			expectedError: gitrepo.UnsupportedProtocolError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			formattedURL, formatError := gitrepo.FormatRemoteURL(testCase.remote)
			if testCase.expectedError != nil {
				require.Error(testInstance, formatError)
				require.IsType(testInstance, testCase.expectedError, formatError)
				return
			}
			require.NoError(testInstance, formatError)
			require.Equal(testInstance, testCase.expectedURL, formattedURL)
		})
	}
}

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectedRemote gitrepo.RemoteURL
		expectError    bool
	}{
		{
			name:           "scp_style_ssh",
			input:          "git@github.com:octocat/demo.git",
			expectedRemote: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Owner: "octocat", Repository: "demo"},
		},
		{
			name:           "ssh_scheme",
			input:          "ssh://git@github.com/octocat/demo.git",
			expectedRemote: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Owner: "octocat", Repository: "demo"},
		},
		{
			name:           "https_without_suffix",
			input:          "https://github.com/octocat/demo",
			expectedRemote: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Host: "github.com", Owner: "octocat", Repository: "demo"},
		},
		{
			name:        "empty",
			input:       "  ",
			expectError: true,
		},
		{
			name:        "nested_path",
			input:       "https://gitlab.com/group/sub/demo.git",
			expectError: true,
		},
		{
			name:        "local_path",
			input:       "/srv/git/demo.git",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedRemote, parseError := gitrepo.ParseRemoteURL(testCase.input)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedRemote, parsedRemote)
			require.Equal(testInstance, "octocat/demo", parsedRemote.Slug())
		})
	}
}

func TestParseRemoteProtocol(testInstance *testing.T) {
	protocol, parseError := gitrepo.ParseRemoteProtocol(" SSH ")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, gitrepo.RemoteProtocolSSH, protocol)

	_, unsupportedError := gitrepo.ParseRemoteProtocol("git")
	require.IsType(testInstance, gitrepo.UnsupportedProtocolError{}, unsupportedError)
}
