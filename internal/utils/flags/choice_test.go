package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "VisibilityDefaultPublic",
			defaultChoice:  "public",
			choices:        []string{"public", "private"},
			description:    "Repository visibility",
			expectedOutput: "`<PUBLIC|private>` Repository visibility",
		},
		{
			name:           "RemoteTypeDefaultSSH",
			defaultChoice:  "ssh",
			choices:        []string{"https", "ssh"},
			description:    "Remote URL protocol",
			expectedOutput: "`<https|SSH>` Remote URL protocol",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "private",
			choices:        []string{"public", "private"},
			description:    "",
			expectedOutput: "`<public|PRIVATE>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "https",
			choices:        []string{"https", "HTTPS", "ssh", "ssh"},
			description:    "Remote URL protocol",
			expectedOutput: "`<HTTPS|ssh>` Remote URL protocol",
		},
		{
			name:           "WhitespaceTrimmed",
			defaultChoice:  " public ",
			choices:        []string{" public ", " private "},
			description:    "Repository visibility",
			expectedOutput: "`<PUBLIC|private>` Repository visibility",
		},
		{
			name:           "UnknownDefaultHighlightsNothing",
			defaultChoice:  "internal",
			choices:        []string{"public", "private"},
			description:    "Repository visibility",
			expectedOutput: "`<public|private>` Repository visibility",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(t, testCase.expectedOutput, actual)
		})
	}
}

func TestAddChoiceFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedValue string
		expectError   bool
	}{
		{name: "DefaultRetained", arguments: []string{}, expectedValue: "public"},
		{name: "LowercasedValue", arguments: []string{"--visibility", "PRIVATE"}, expectedValue: "private"},
		{name: "TrimmedValue", arguments: []string{"--visibility= private "}, expectedValue: "private"},
		{name: "UnsupportedValue", arguments: []string{"--visibility", "internal"}, expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}
			AddChoiceFlag(command.Flags(), "visibility", "public", []string{"public", "private"}, "Repository visibility")

			parseError := command.ParseFlags(testCase.arguments)
			if testCase.expectError {
				require.Error(t, parseError)
				require.Contains(t, parseError.Error(), "expected one of public|private")
				return
			}
			require.NoError(t, parseError)

			visibilityValue, lookupError := command.Flags().GetString("visibility")
			require.NoError(t, lookupError)
			require.Equal(t, testCase.expectedValue, visibilityValue)
		})
	}
}

func TestAddChoiceFlagUsageHighlightsDefault(t *testing.T) {
	command := &cobra.Command{}
	AddChoiceFlag(command.Flags(), "remote-type", "ssh", []string{"https", "ssh"}, "Remote URL protocol")

	require.Equal(t, "`<https|SSH>` Remote URL protocol", command.Flags().Lookup("remote-type").Usage)
}
