package provision

import (
	"context"
	"fmt"

	"github.com/temirov/reposeed/internal/githubcli"
)

const (
	preflightErrorTemplateConstant = "%s: %v"
	hostingToolUnavailableMessage  = "GitHub CLI (gh) is not installed or not available"
	vcsToolUnavailableMessage      = "Git is not installed or not available"
	hostingNotAuthenticatedMessage = "GitHub CLI is not authenticated. Run 'gh auth login' first"
)

// PreflightCheck names one environment check performed before a run.
type PreflightCheck string

// Preflight checks in execution order.
const (
	PreflightCheckHostingTool    PreflightCheck = PreflightCheck("hosting-tool")
	PreflightCheckVcsTool        PreflightCheck = PreflightCheck("vcs-tool")
	PreflightCheckAuthentication PreflightCheck = PreflightCheck("authentication")
)

// PreflightError reports a failed environment check.
type PreflightError struct {
	Check   PreflightCheck
	Message string
	Cause   error
}

// Error describes the failed check.
func (preflightError PreflightError) Error() string {
	if preflightError.Cause == nil {
		return preflightError.Message
	}
	return fmt.Sprintf(preflightErrorTemplateConstant, preflightError.Message, preflightError.Cause)
}

// Unwrap exposes the underlying cause.
func (preflightError PreflightError) Unwrap() error {
	return preflightError.Cause
}

// HostingPreflightClient exposes the hosting checks performed before a run.
type HostingPreflightClient interface {
	Version(executionContext context.Context) error
	ResolveIdentity(executionContext context.Context) (githubcli.Identity, error)
}

// VcsPreflightClient exposes the git checks performed before a run.
type VcsPreflightClient interface {
	Version(executionContext context.Context) error
}

// RunPreflight confirms gh and git are usable and returns the authenticated identity.
func RunPreflight(executionContext context.Context, hostingClient HostingPreflightClient, vcsClient VcsPreflightClient) (githubcli.Identity, error) {
	if versionError := hostingClient.Version(executionContext); versionError != nil {
		return githubcli.Identity{}, PreflightError{Check: PreflightCheckHostingTool, Message: hostingToolUnavailableMessage, Cause: versionError}
	}
	if versionError := vcsClient.Version(executionContext); versionError != nil {
		return githubcli.Identity{}, PreflightError{Check: PreflightCheckVcsTool, Message: vcsToolUnavailableMessage, Cause: versionError}
	}
	identity, identityError := hostingClient.ResolveIdentity(executionContext)
	if identityError != nil {
		return githubcli.Identity{}, PreflightError{Check: PreflightCheckAuthentication, Message: hostingNotAuthenticatedMessage, Cause: identityError}
	}
	return identity, nil
}
