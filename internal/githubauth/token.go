// Package githubauth locates a GitHub token in the environment so gh can be run
// non-interactively in CI.
package githubauth

import (
	"os"
	"strings"
)

// Environment variable names consulted for a GitHub token, in order of preference.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// EnvironmentLookup resolves one environment variable, like os.LookupEnv.
type EnvironmentLookup func(key string) (string, bool)

// ResolveToken returns the first non-blank token among GH_TOKEN, GITHUB_TOKEN and
// GITHUB_API_TOKEN. A nil lookup reads the process environment.
func ResolveToken(lookupEnvironment EnvironmentLookup) (string, bool) {
	if lookupEnvironment == nil {
		lookupEnvironment = os.LookupEnv
	}
	for _, key := range tokenPreference {
		value, exists := lookupEnvironment(key)
		if !exists {
			continue
		}
		if trimmedValue := strings.TrimSpace(value); len(trimmedValue) > 0 {
			return trimmedValue, true
		}
	}
	return "", false
}
