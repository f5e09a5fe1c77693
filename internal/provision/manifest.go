package provision

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/reposeed/internal/filesystem"
	"github.com/temirov/reposeed/internal/githubcli"
)

const (
	manifestReadErrorTemplate   = "unable to read project manifest %s: %w"
	manifestDecodeErrorTemplate = "unable to decode project manifest %s: %w"
)

// Manifest describes a project in YAML. Unset fields leave the corresponding snapshot
// value untouched.
type Manifest struct {
	RepoName           string   `yaml:"repo_name"`
	FolderName         string   `yaml:"folder_name"`
	Location           string   `yaml:"location"`
	Visibility         string   `yaml:"visibility"`
	Description        string   `yaml:"description"`
	Gitignore          string   `yaml:"gitignore"`
	License            string   `yaml:"license"`
	Topics             []string `yaml:"topics"`
	RemoteType         string   `yaml:"remote_type"`
	RemoteName         string   `yaml:"remote_name"`
	Host               string   `yaml:"host"`
	CommitMessage      string   `yaml:"commit_message"`
	Owner              string   `yaml:"owner"`
	Readme             string   `yaml:"readme"`
	CreateScaffold     *bool    `yaml:"scaffold"`
	CreateEditorconfig *bool    `yaml:"editorconfig"`
}

// LoadManifest reads and decodes the manifest at path. Unknown keys are rejected.
func LoadManifest(path string, fileSystem filesystem.FileSystem) (Manifest, error) {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	content, readError := fileSystem.ReadFile(path)
	if readError != nil {
		return Manifest{}, fmt.Errorf(manifestReadErrorTemplate, path, readError)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	var manifest Manifest
	if decodeError := decoder.Decode(&manifest); decodeError != nil {
		return Manifest{}, fmt.Errorf(manifestDecodeErrorTemplate, path, decodeError)
	}
	return manifest, nil
}

// Apply overlays the manifest's set fields on snapshot.
func (manifest Manifest) Apply(snapshot ConfigSnapshot) ConfigSnapshot {
	applied := snapshot.Clone()
	overlayString(&applied.RepoName, manifest.RepoName)
	overlayString(&applied.FolderName, manifest.FolderName)
	overlayString(&applied.RepoLocation, manifest.Location)
	overlayString(&applied.Description, manifest.Description)
	overlayString(&applied.GitignoreTemplate, manifest.Gitignore)
	overlayString(&applied.License, manifest.License)
	overlayString(&applied.RemoteName, manifest.RemoteName)
	overlayString(&applied.Host, manifest.Host)
	overlayString(&applied.CommitMessage, manifest.CommitMessage)
	overlayString(&applied.Username, manifest.Owner)
	if len(strings.TrimSpace(manifest.Readme)) > 0 {
		applied.ReadmeContent = manifest.Readme
	}
	if visibility := strings.ToLower(strings.TrimSpace(manifest.Visibility)); len(visibility) > 0 {
		applied.Visibility = githubcli.Visibility(visibility)
	}
	if len(strings.TrimSpace(manifest.RemoteType)) > 0 {
		applied.RemoteType = normalizeRemoteType(manifest.RemoteType)
	}
	if manifest.Topics != nil {
		applied.Topics = append([]string(nil), manifest.Topics...)
	}
	if manifest.CreateScaffold != nil {
		applied.CreateScaffold = *manifest.CreateScaffold
	}
	if manifest.CreateEditorconfig != nil {
		applied.CreateEditorconfig = *manifest.CreateEditorconfig
	}
	return applied
}

func overlayString(target *string, value string) {
	if trimmedValue := strings.TrimSpace(value); len(trimmedValue) > 0 {
		*target = trimmedValue
	}
}
