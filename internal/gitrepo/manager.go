package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/reposeed/internal/execshell"
	"github.com/temirov/reposeed/internal/filesystem"
)

const (
	// DefaultBranchName is pushed when the current branch cannot be determined.
	DefaultBranchName = "main"

	gitVersionFlagConstant                  = "--version"
	gitInitSubcommandConstant               = "init"
	gitAddSubcommandConstant                = "add"
	gitAddAllPathspecConstant               = "."
	gitCommitSubcommandConstant             = "commit"
	gitMessageFlagConstant                  = "-m"
	gitRemoteSubcommandConstant             = "remote"
	gitRemoteAddSubcommandConstant          = "add"
	gitRemoteSetURLSubcommandConstant       = "set-url"
	gitRemoteGetURLSubcommandConstant       = "get-url"
	gitPushSubcommandConstant               = "push"
	gitUpstreamFlagConstant                 = "-u"
	gitSymbolicRefSubcommandConstant        = "symbolic-ref"
	gitShortFlagConstant                    = "--short"
	gitHeadReferenceConstant                = "HEAD"
	gitMetadataDirectoryNameConstant        = ".git"
	remoteAlreadyExistsMarkerConstant       = "already exists"
	requiredValueMessageConstant            = "value required"
	executorNotConfiguredMessageConstant    = "git executor not configured"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	versionOperationNameConstant            = OperationName("CheckVersion")
	initOperationNameConstant               = OperationName("InitRepository")
	stageOperationNameConstant              = OperationName("StageChanges")
	commitOperationNameConstant             = OperationName("Commit")
	addRemoteOperationNameConstant          = OperationName("AddRemote")
	updateRemoteOperationNameConstant       = OperationName("UpdateRemote")
	remoteLookupOperationNameConstant       = OperationName("LookupRemote")
	pushOperationNameConstant               = OperationName("Push")
)

// OperationName identifies a git operation performed by RepositoryManager.
type OperationName string

// GitCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitCommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

var (
	// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
	ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// OperationError wraps git failures with the operation that produced them.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// RepositoryManager runs the git commands needed to turn a directory into a pushed repository.
type RepositoryManager struct {
	executor   GitCommandExecutor
	fileSystem filesystem.FileSystem
}

// NewRepositoryManager constructs a RepositoryManager. A nil file system defaults to the OS.
func NewRepositoryManager(executor GitCommandExecutor, fileSystem filesystem.FileSystem) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	return &RepositoryManager{executor: executor, fileSystem: fileSystem}, nil
}

// Version confirms the git executable is installed.
func (manager *RepositoryManager) Version(executionContext context.Context) error {
	if _, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{Arguments: []string{gitVersionFlagConstant}}); executionError != nil {
		return OperationError{Operation: versionOperationNameConstant, Cause: executionError}
	}
	return nil
}

// IsRepository reports whether directory already holds git metadata.
func (manager *RepositoryManager) IsRepository(directory string) bool {
	return filesystem.Exists(manager.fileSystem, filepath.Join(directory, gitMetadataDirectoryNameConstant))
}

// Init runs git init inside directory.
func (manager *RepositoryManager) Init(executionContext context.Context, directory string) error {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitInitSubcommandConstant},
		WorkingDirectory: directory,
	}
	if _, executionError := manager.executor.ExecuteGit(executionContext, commandDetails); executionError != nil {
		return OperationError{Operation: initOperationNameConstant, Cause: executionError}
	}
	return nil
}

// StageAndCommit stages the whole working tree and records a commit with message.
func (manager *RepositoryManager) StageAndCommit(executionContext context.Context, directory string, message string) error {
	stageDetails := execshell.CommandDetails{
		Arguments:        []string{gitAddSubcommandConstant, gitAddAllPathspecConstant},
		WorkingDirectory: directory,
	}
	if _, stageError := manager.executor.ExecuteGit(executionContext, stageDetails); stageError != nil {
		return OperationError{Operation: stageOperationNameConstant, Cause: stageError}
	}

	commitDetails := execshell.CommandDetails{
		Arguments:        []string{gitCommitSubcommandConstant, gitMessageFlagConstant, message},
		WorkingDirectory: directory,
	}
	if _, commitError := manager.executor.ExecuteGit(executionContext, commitDetails); commitError != nil {
		return OperationError{Operation: commitOperationNameConstant, Cause: commitError}
	}
	return nil
}

// AddOrUpdateRemote adds remoteName pointing at remoteURL. When git reports that the
// remote already exists the URL of the existing remote is updated instead.
func (manager *RepositoryManager) AddOrUpdateRemote(executionContext context.Context, directory string, remoteName string, remoteURL string) error {
	addDetails := execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, remoteName, remoteURL},
		WorkingDirectory: directory,
	}
	_, addError := manager.executor.ExecuteGit(executionContext, addDetails)
	if addError == nil {
		return nil
	}
	if !isRemoteAlreadyExists(addError) {
		return OperationError{Operation: addRemoteOperationNameConstant, Cause: addError}
	}

	updateDetails := execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteSetURLSubcommandConstant, remoteName, remoteURL},
		WorkingDirectory: directory,
	}
	if _, updateError := manager.executor.ExecuteGit(executionContext, updateDetails); updateError != nil {
		return OperationError{Operation: updateRemoteOperationNameConstant, Cause: updateError}
	}
	return nil
}

// RemoteURL reads the URL configured for remoteName.
func (manager *RepositoryManager) RemoteURL(executionContext context.Context, directory string, remoteName string) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, remoteName},
		WorkingDirectory: directory,
	}
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return "", OperationError{Operation: remoteLookupOperationNameConstant, Cause: executionError}
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// Push pushes branch to remoteName and records upstream tracking.
func (manager *RepositoryManager) Push(executionContext context.Context, directory string, remoteName string, branch string) error {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, gitUpstreamFlagConstant, remoteName, branch},
		WorkingDirectory: directory,
	}
	if _, executionError := manager.executor.ExecuteGit(executionContext, commandDetails); executionError != nil {
		return OperationError{Operation: pushOperationNameConstant, Cause: executionError}
	}
	return nil
}

// CurrentBranch returns the checked out branch, or DefaultBranchName when it cannot be determined.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, directory string) string {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitSymbolicRefSubcommandConstant, gitShortFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: directory,
	}
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return DefaultBranchName
	}
	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if len(branchName) == 0 {
		return DefaultBranchName
	}
	return branchName
}

func isRemoteAlreadyExists(executionError error) bool {
	var failedError execshell.CommandFailedError
	if !errors.As(executionError, &failedError) {
		return false
	}
	return strings.Contains(strings.ToLower(failedError.Result.StandardError), remoteAlreadyExistsMarkerConstant)
}
