package githubauth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/reposeed/internal/githubauth"
)

func mapLookup(environment map[string]string) githubauth.EnvironmentLookup {
	return func(key string) (string, bool) {
		value, exists := environment[key]
		return value, exists
	}
}

func TestResolveToken(testInstance *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		expectedToken string
		expectedFound bool
	}{
		{
			name:          "gh token preferred",
			environment:   map[string]string{"GH_TOKEN": "gh-value", "GITHUB_TOKEN": "github-value"},
			expectedToken: "gh-value",
			expectedFound: true,
		},
		{
			name:          "blank values skipped",
			environment:   map[string]string{"GH_TOKEN": "  ", "GITHUB_API_TOKEN": " api-value "},
			expectedToken: "api-value",
			expectedFound: true,
		},
		{
			name:        "nothing set",
			environment: map[string]string{"HOME": "/home/octocat"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			token, found := githubauth.ResolveToken(mapLookup(testCase.environment))
			require.Equal(testInstance, testCase.expectedFound, found)
			require.Equal(testInstance, testCase.expectedToken, token)
		})
	}
}

func TestResolveTokenReadsProcessEnvironment(testInstance *testing.T) {
	testInstance.Setenv("GH_TOKEN", "")
	testInstance.Setenv("GITHUB_TOKEN", "")
	testInstance.Setenv("GITHUB_API_TOKEN", "process-value")

	token, found := githubauth.ResolveToken(nil)
	require.True(testInstance, found)
	require.Equal(testInstance, "process-value", token)
}
