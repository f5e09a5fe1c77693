package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/reposeed/internal/catalog"
)

type stubTemplateLister struct {
	listed       []string
	refreshed    []string
	refreshError error
	refreshCalls int
	listCalls    int
}

func (lister *stubTemplateLister) ListGitignoreTemplates(context.Context) []string {
	lister.listCalls++
	return lister.listed
}

func (lister *stubTemplateLister) RefreshGitignoreTemplates(context.Context) ([]string, error) {
	lister.refreshCalls++
	return lister.refreshed, lister.refreshError
}

func TestMerge(testInstance *testing.T) {
	testCases := []struct {
		name     string
		native   []string
		custom   []string
		expected []string
	}{
		{
			name:     "sorted_without_case",
			native:   []string{"Python", "Go", "node"},
			custom:   []string{"Rust", "C++"},
			expected: []string{"C++", "Go", "node", "Python", "Rust"},
		},
		{
			name:     "duplicates_keep_native_spelling",
			native:   []string{"Go"},
			custom:   []string{"go", "GO"},
			expected: []string{"Go"},
		},
		{
			name:     "blank_entries_dropped",
			native:   []string{" ", ""},
			custom:   []string{" Dart "},
			expected: []string{"Dart"},
		},
		{
			name:     "empty_native_catalog",
			native:   nil,
			custom:   []string{"Swift", "Kotlin"},
			expected: []string{"Kotlin", "Swift"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, catalog.Merge(testCase.native, testCase.custom))
		})
	}
}

func TestTemplatesCommandPrintsMergedCatalog(testInstance *testing.T) {
	lister := &stubTemplateLister{listed: []string{"Python", "Go"}}
	builder := catalog.CommandBuilder{Lister: lister}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output := &bytes.Buffer{}
	command.SetOut(output)
	command.SetArgs([]string{})
	require.NoError(testInstance, command.Execute())

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	require.Contains(testInstance, lines, "Python")
	require.Contains(testInstance, lines, "Go")
	require.Contains(testInstance, lines, "TypeScript")
	require.Equal(testInstance, 1, lister.listCalls)
	require.Zero(testInstance, lister.refreshCalls)

	goOccurrences := 0
	for _, line := range lines {
		if strings.EqualFold(line, "Go") {
			goOccurrences++
		}
	}
	require.Equal(testInstance, 1, goOccurrences)
}

func TestTemplatesCommandRefreshPropagatesFailure(testInstance *testing.T) {
	refreshFailure := errors.New("gh api failed")
	lister := &stubTemplateLister{refreshError: refreshFailure}
	builder := catalog.CommandBuilder{Lister: lister}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"--refresh"})

	require.ErrorIs(testInstance, command.Execute(), refreshFailure)
	require.Equal(testInstance, 1, lister.refreshCalls)
	require.Zero(testInstance, lister.listCalls)
}
