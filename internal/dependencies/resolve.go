// Package dependencies constructs the default adapters shared by reposeed commands when
// a command builder was not handed explicit implementations.
package dependencies

import (
	"time"

	"go.uber.org/zap"

	"github.com/temirov/reposeed/internal/execshell"
	"github.com/temirov/reposeed/internal/filesystem"
	"github.com/temirov/reposeed/internal/githubauth"
	"github.com/temirov/reposeed/internal/githubcli"
	"github.com/temirov/reposeed/internal/gitrepo"
	"github.com/temirov/reposeed/internal/ui"
)

// CommandExecutor runs git and gh.
type CommandExecutor interface {
	gitrepo.GitCommandExecutor
	githubcli.GitHubCommandExecutor
}

// ResolveFileSystem returns the provided file system or an OS-backed default.
func ResolveFileSystem(existing filesystem.FileSystem) filesystem.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveCommandExecutor returns the provided executor or constructs a shell-backed default.
// Console log formats get a human-readable command event logger.
func ResolveCommandExecutor(existing CommandExecutor, logger *zap.Logger, humanReadableLogging bool) (CommandExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	options := []execshell.ShellExecutorOption{execshell.WithHumanReadableLogging(humanReadableLogging)}
	if humanReadableLogging {
		options = append(options, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)))
	}
	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), options...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// NewGitHubClient constructs a gh client with a fresh template cache. A token found in
// the environment is forwarded to gh.
func NewGitHubClient(executor githubcli.GitHubCommandExecutor, templateCacheSize int, templateFetchTimeout time.Duration) (*githubcli.Client, error) {
	templateCache, cacheError := githubcli.NewTemplateCache(templateCacheSize)
	if cacheError != nil {
		return nil, cacheError
	}
	options := []githubcli.ClientOption{
		githubcli.WithTemplateCache(templateCache),
		githubcli.WithTemplateFetchTimeout(templateFetchTimeout),
	}
	if token, found := githubauth.ResolveToken(nil); found {
		options = append(options, githubcli.WithAuthenticationToken(token))
	}
	return githubcli.NewClient(executor, options...)
}
