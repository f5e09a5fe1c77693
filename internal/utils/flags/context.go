// Package flags binds the shared reposeed flags to Cobra commands.
package flags

import "github.com/spf13/cobra"

const (
	// AssumeYesFlagName skips confirmation prompts.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand is the single-letter form of AssumeYesFlagName.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes AssumeYesFlagName.
	AssumeYesFlagUsage = "Skip the confirmation prompt"
	// RemoteFlagName selects the git remote wired to the hosted repository.
	RemoteFlagName = "remote-name"
	// RemoteFlagUsage describes RemoteFlagName.
	RemoteFlagUsage = "Name of the git remote pointing at the hosted repository"
)

// RepositoryFlagDefinition configures one repository identity flag.
type RepositoryFlagDefinition struct {
	Name      string
	Shorthand string
	Usage     string
	Enabled   bool
}

// RepositoryFlagDefinitions groups the repository identity flags.
type RepositoryFlagDefinitions struct {
	Owner RepositoryFlagDefinition
	Name  RepositoryFlagDefinition
}

// RepositoryFlagValues receives the parsed repository identity.
type RepositoryFlagValues struct {
	Owner string
	Name  string
}

// BindRepositoryFlags attaches the enabled repository identity flags to command.
func BindRepositoryFlags(command *cobra.Command, defaults RepositoryFlagValues, definitions RepositoryFlagDefinitions) *RepositoryFlagValues {
	values := defaults
	if command == nil {
		return &values
	}

	flagSet := command.Flags()
	bindString := func(target *string, definition RepositoryFlagDefinition, defaultValue string) {
		if !definition.Enabled || len(definition.Name) == 0 || flagSet.Lookup(definition.Name) != nil {
			return
		}
		flagSet.StringVarP(target, definition.Name, definition.Shorthand, defaultValue, definition.Usage)
	}
	bindString(&values.Owner, definitions.Owner, defaults.Owner)
	bindString(&values.Name, definitions.Name, defaults.Name)

	return &values
}

// BindAssumeYesFlag attaches --yes/-y to command.
func BindAssumeYesFlag(command *cobra.Command, defaultValue bool) *bool {
	assumeYes := defaultValue
	if command == nil {
		return &assumeYes
	}
	if command.Flags().Lookup(AssumeYesFlagName) == nil {
		command.Flags().BoolVarP(&assumeYes, AssumeYesFlagName, AssumeYesFlagShorthand, defaultValue, AssumeYesFlagUsage)
	}
	return &assumeYes
}
