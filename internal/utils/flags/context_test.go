package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestBindRepositoryFlagsUsesDefaultsAndParsesValues(testInstance *testing.T) {
	command := &cobra.Command{}

	values := BindRepositoryFlags(command, RepositoryFlagValues{Owner: "octocat"}, RepositoryFlagDefinitions{
		Owner: RepositoryFlagDefinition{Name: "owner", Usage: "Repository owner", Enabled: true},
		Name:  RepositoryFlagDefinition{Name: "name", Shorthand: "n", Usage: "Repository name", Enabled: true},
	})

	require.NotNil(testInstance, values)
	require.Equal(testInstance, "octocat", values.Owner)
	require.Empty(testInstance, values.Name)

	require.NoError(testInstance, command.ParseFlags([]string{"--owner", "hubot", "-n", "demo"}))
	require.Equal(testInstance, "hubot", values.Owner)
	require.Equal(testInstance, "demo", values.Name)
}

func TestBindRepositoryFlagsSkipsDisabledDefinitions(testInstance *testing.T) {
	command := &cobra.Command{}

	BindRepositoryFlags(command, RepositoryFlagValues{}, RepositoryFlagDefinitions{
		Owner: RepositoryFlagDefinition{Name: "owner", Enabled: false},
		Name:  RepositoryFlagDefinition{Name: "name", Enabled: true},
	})

	require.Nil(testInstance, command.Flags().Lookup("owner"))
	require.NotNil(testInstance, command.Flags().Lookup("name"))
}

func TestBindAssumeYesFlag(testInstance *testing.T) {
	command := &cobra.Command{}

	assumeYes := BindAssumeYesFlag(command, false)
	require.False(testInstance, *assumeYes)

	require.NoError(testInstance, command.ParseFlags([]string{"-y"}))
	require.True(testInstance, *assumeYes)
}
