package provision

import (
	"path/filepath"
	"strings"

	"github.com/temirov/reposeed/internal/githubcli"
	"github.com/temirov/reposeed/internal/gitrepo"
)

const (
	// DefaultRemoteName is the remote wired to the hosted repository.
	DefaultRemoteName = "origin"
	// DefaultCommitMessage is used for the first commit of a new project.
	DefaultCommitMessage = "Initial commit"
)

// ConfigSnapshot holds every input of one provisioning run. A running workflow only ever
// sees its own copy, taken with Clone at start.
type ConfigSnapshot struct {
	RepoName           string
	FolderName         string
	RepoLocation       string
	Visibility         githubcli.Visibility
	Description        string
	GitignoreTemplate  string
	License            string
	Topics             []string
	RemoteType         gitrepo.RemoteProtocol
	CreateScaffold     bool
	CreateEditorconfig bool
	ReadmeContent      string
	Username           string
	RemoteName         string
	Host               string
	CommitMessage      string
}

// Clone returns a deep copy of the snapshot.
func (snapshot ConfigSnapshot) Clone() ConfigSnapshot {
	cloned := snapshot
	if snapshot.Topics != nil {
		cloned.Topics = append([]string(nil), snapshot.Topics...)
	}
	return cloned
}

// TargetDirectory returns the directory the project is materialized in.
func (snapshot ConfigSnapshot) TargetDirectory() string {
	folderName := strings.TrimSpace(snapshot.FolderName)
	if len(folderName) == 0 {
		return snapshot.RepoLocation
	}
	return filepath.Join(snapshot.RepoLocation, folderName)
}

// RemoteURL formats the URL of the hosted repository for the configured protocol.
func (snapshot ConfigSnapshot) RemoteURL() (string, error) {
	return gitrepo.FormatRemoteURL(gitrepo.RemoteURL{
		Protocol:   snapshot.RemoteType,
		Host:       snapshot.Host,
		Owner:      snapshot.Username,
		Repository: snapshot.RepoName,
	})
}

func (snapshot ConfigSnapshot) withDefaults() ConfigSnapshot {
	resolved := snapshot
	if len(strings.TrimSpace(resolved.RemoteName)) == 0 {
		resolved.RemoteName = DefaultRemoteName
	}
	if len(strings.TrimSpace(resolved.Host)) == 0 {
		resolved.Host = gitrepo.DefaultHost
	}
	if len(strings.TrimSpace(resolved.CommitMessage)) == 0 {
		resolved.CommitMessage = DefaultCommitMessage
	}
	if len(resolved.RemoteType) == 0 {
		resolved.RemoteType = gitrepo.RemoteProtocolHTTPS
	}
	return resolved
}
