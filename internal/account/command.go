// Package account reports the GitHub account reposeed provisions repositories for.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/reposeed/internal/dependencies"
	"github.com/temirov/reposeed/internal/githubcli"
	"github.com/temirov/reposeed/internal/provision"
)

const (
	commandUseConstant               = "whoami"
	commandShortDescriptionConstant  = "Show the GitHub account repositories will be created under"
	commandLongDescriptionConstant   = "whoami asks the GitHub CLI for the authenticated account. Repositories created without --owner belong to this account."
	identityLineTemplateConstant     = "%s\n"
	identityWithNameTemplateConstant = "%s (%s)\n"
	notAuthenticatedMessageConstant  = "GitHub CLI is not authenticated. Run 'gh auth login' first"
	notAuthenticatedTemplateConstant = "%w: %v"
)

// ErrNotAuthenticated indicates gh has no usable authenticated account.
var ErrNotAuthenticated = errors.New(notAuthenticatedMessageConstant)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// IdentityResolver exposes the authenticated account lookup.
type IdentityResolver interface {
	ResolveIdentity(executionContext context.Context) (githubcli.Identity, error)
}

// CommandBuilder assembles the whoami command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() provision.CommandConfiguration
	Executor                     dependencies.CommandExecutor
	Resolver                     IdentityResolver
}

// Build constructs the whoami command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	resolver, resolverError := builder.resolveIdentityResolver()
	if resolverError != nil {
		return resolverError
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}

	identity, identityError := resolver.ResolveIdentity(executionContext)
	if identityError != nil {
		return fmt.Errorf(notAuthenticatedTemplateConstant, ErrNotAuthenticated, identityError)
	}

	if trimmedName := strings.TrimSpace(identity.Name); len(trimmedName) > 0 {
		_, writeError := fmt.Fprintf(command.OutOrStdout(), identityWithNameTemplateConstant, identity.Login, trimmedName)
		return writeError
	}
	_, writeError := fmt.Fprintf(command.OutOrStdout(), identityLineTemplateConstant, identity.Login)
	return writeError
}

func (builder *CommandBuilder) resolveIdentityResolver() (IdentityResolver, error) {
	if builder.Resolver != nil {
		return builder.Resolver, nil
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
