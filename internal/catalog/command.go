package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/reposeed/internal/dependencies"
	"github.com/temirov/reposeed/internal/provision"
	"github.com/temirov/reposeed/internal/scaffold"
)

const (
	commandUseConstant              = "templates"
	commandShortDescriptionConstant = "List the gitignore templates accepted by create"
	commandLongDescriptionConstant  = "templates prints the gitignore templates GitHub provides merged with the templates reposeed generates itself, one per line."
	flagRefreshConstant             = "refresh"
	flagRefreshUsageConstant        = "Fail instead of falling back when GitHub cannot be reached"
	templateLineTemplateConstant    = "%s\n"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// TemplateLister exposes the native template catalog.
type TemplateLister interface {
	ListGitignoreTemplates(executionContext context.Context) []string
	RefreshGitignoreTemplates(executionContext context.Context) ([]string, error)
}

// CommandBuilder assembles the templates command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() provision.CommandConfiguration
	Executor                     dependencies.CommandExecutor
	Lister                       TemplateLister
}

// Build constructs the templates command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	command.Flags().Bool(flagRefreshConstant, false, flagRefreshUsageConstant)
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	lister, listerError := builder.resolveLister()
	if listerError != nil {
		return listerError
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}

	refresh, _ := command.Flags().GetBool(flagRefreshConstant)
	var nativeTemplates []string
	if refresh {
		refreshedTemplates, refreshError := lister.RefreshGitignoreTemplates(executionContext)
		if refreshError != nil {
			return refreshError
		}
		nativeTemplates = refreshedTemplates
	} else {
		nativeTemplates = lister.ListGitignoreTemplates(executionContext)
	}

	return writeTemplates(command.OutOrStdout(), Merge(nativeTemplates, scaffold.CustomTemplates))
}

func writeTemplates(writer io.Writer, templateNames []string) error {
	for _, templateName := range templateNames {
		if _, writeError := fmt.Fprintf(writer, templateLineTemplateConstant, templateName); writeError != nil {
			return writeError
		}
	}
	return nil
}

func (builder *CommandBuilder) resolveLister() (TemplateLister, error) {
	if builder.Lister != nil {
		return builder.Lister, nil
	}

	configuration := provision.DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider().Sanitize()
	}
	logger := zap.NewNop()
	if builder.LoggerProvider != nil {
		if providedLogger := builder.LoggerProvider(); providedLogger != nil {
			logger = providedLogger
		}
	}
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	executor, executorError := dependencies.ResolveCommandExecutor(builder.Executor, logger, humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}
	githubClient, clientError := dependencies.NewGitHubClient(executor, configuration.TemplateCacheSize, configuration.TemplateFetchTimeout)
	if clientError != nil {
		return nil, clientError
	}
	return githubClient, nil
}
