package provision

import (
	"strings"
	"time"

	"github.com/temirov/reposeed/internal/githubcli"
	"github.com/temirov/reposeed/internal/gitrepo"
)

const (
	configurationKeyLocation             = "location"
	configurationKeyVisibility           = "visibility"
	configurationKeyRemoteType           = "remote_type"
	configurationKeyRemoteName           = "remote_name"
	configurationKeyHost                 = "host"
	configurationKeyCommitMessage        = "commit_message"
	configurationKeyScaffold             = "scaffold"
	configurationKeyEditorconfig         = "editorconfig"
	configurationKeyGitignore            = "gitignore"
	configurationKeyLicense              = "license"
	configurationKeyAssumeYes            = "assume_yes"
	configurationKeyOpenBrowser          = "open_browser"
	configurationKeyCancelGracePeriod    = "cancel_grace_period"
	configurationKeyTemplateFetchTimeout = "template_fetch_timeout"
	configurationKeyTemplateCacheSize    = "template_cache_size"
	configurationKeySeparator            = "."
	defaultLocationConstant              = "."
	defaultTemplateFetchTimeout          = 5 * time.Second
	defaultTemplateCacheSize             = 512
)

// CommandConfiguration captures the persisted defaults of the create command.
type CommandConfiguration struct {
	Location             string        `mapstructure:"location"`
	Visibility           string        `mapstructure:"visibility"`
	RemoteType           string        `mapstructure:"remote_type"`
	RemoteName           string        `mapstructure:"remote_name"`
	Host                 string        `mapstructure:"host"`
	CommitMessage        string        `mapstructure:"commit_message"`
	Scaffold             bool          `mapstructure:"scaffold"`
	Editorconfig         bool          `mapstructure:"editorconfig"`
	Gitignore            string        `mapstructure:"gitignore"`
	License              string        `mapstructure:"license"`
	AssumeYes            bool          `mapstructure:"assume_yes"`
	OpenBrowser          bool          `mapstructure:"open_browser"`
	CancelGracePeriod    time.Duration `mapstructure:"cancel_grace_period"`
	TemplateFetchTimeout time.Duration `mapstructure:"template_fetch_timeout"`
	TemplateCacheSize    int           `mapstructure:"template_cache_size"`
}

// DefaultCommandConfiguration returns the baseline create command configuration.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Location:             defaultLocationConstant,
		Visibility:           string(githubcli.VisibilityPublic),
		RemoteType:           string(gitrepo.RemoteProtocolHTTPS),
		RemoteName:           DefaultRemoteName,
		Host:                 gitrepo.DefaultHost,
		CommitMessage:        DefaultCommitMessage,
		Scaffold:             true,
		Editorconfig:         true,
		CancelGracePeriod:    DefaultCancelGracePeriod,
		TemplateFetchTimeout: defaultTemplateFetchTimeout,
		TemplateCacheSize:    defaultTemplateCacheSize,
	}
}

// DefaultConfigurationValues exposes the defaults as configuration keys under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	keyPrefix := strings.TrimSpace(prefix)
	if len(keyPrefix) > 0 {
		keyPrefix += configurationKeySeparator
	}
	return map[string]any{
		keyPrefix + configurationKeyLocation:             defaults.Location,
		keyPrefix + configurationKeyVisibility:           defaults.Visibility,
		keyPrefix + configurationKeyRemoteType:           defaults.RemoteType,
		keyPrefix + configurationKeyRemoteName:           defaults.RemoteName,
		keyPrefix + configurationKeyHost:                 defaults.Host,
		keyPrefix + configurationKeyCommitMessage:        defaults.CommitMessage,
		keyPrefix + configurationKeyScaffold:             defaults.Scaffold,
		keyPrefix + configurationKeyEditorconfig:         defaults.Editorconfig,
		keyPrefix + configurationKeyGitignore:            defaults.Gitignore,
		keyPrefix + configurationKeyLicense:              defaults.License,
		keyPrefix + configurationKeyAssumeYes:            defaults.AssumeYes,
		keyPrefix + configurationKeyOpenBrowser:          defaults.OpenBrowser,
		keyPrefix + configurationKeyCancelGracePeriod:    defaults.CancelGracePeriod.String(),
		keyPrefix + configurationKeyTemplateFetchTimeout: defaults.TemplateFetchTimeout.String(),
		keyPrefix + configurationKeyTemplateCacheSize:    defaults.TemplateCacheSize,
	}
}

// Sanitize trims values and restores defaults for blank or non-positive settings.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Location = valueOrDefault(configuration.Location, defaults.Location)
	sanitized.Visibility = strings.ToLower(valueOrDefault(configuration.Visibility, defaults.Visibility))
	sanitized.RemoteType = string(normalizeRemoteType(valueOrDefault(configuration.RemoteType, defaults.RemoteType)))
	sanitized.RemoteName = valueOrDefault(configuration.RemoteName, defaults.RemoteName)
	sanitized.Host = valueOrDefault(configuration.Host, defaults.Host)
	sanitized.CommitMessage = valueOrDefault(configuration.CommitMessage, defaults.CommitMessage)
	sanitized.Gitignore = strings.TrimSpace(configuration.Gitignore)
	sanitized.License = strings.TrimSpace(configuration.License)
	if sanitized.CancelGracePeriod <= 0 {
		sanitized.CancelGracePeriod = defaults.CancelGracePeriod
	}
	if sanitized.TemplateFetchTimeout <= 0 {
		sanitized.TemplateFetchTimeout = defaults.TemplateFetchTimeout
	}
	if sanitized.TemplateCacheSize <= 0 {
		sanitized.TemplateCacheSize = defaults.TemplateCacheSize
	}
	return sanitized
}

// Snapshot converts the configuration into the starting point of a ConfigSnapshot.
func (configuration CommandConfiguration) Snapshot() ConfigSnapshot {
	return ConfigSnapshot{
		RepoLocation:       configuration.Location,
		Visibility:         githubcli.Visibility(configuration.Visibility),
		GitignoreTemplate:  configuration.Gitignore,
		License:            configuration.License,
		RemoteType:         gitrepo.RemoteProtocol(configuration.RemoteType),
		CreateScaffold:     configuration.Scaffold,
		CreateEditorconfig: configuration.Editorconfig,
		RemoteName:         configuration.RemoteName,
		Host:               configuration.Host,
		CommitMessage:      configuration.CommitMessage,
	}
}

func valueOrDefault(value string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}

// normalizeRemoteType canonicalizes supported protocols and keeps anything else for Validate to report.
func normalizeRemoteType(value string) gitrepo.RemoteProtocol {
	if protocol, parseError := gitrepo.ParseRemoteProtocol(value); parseError == nil {
		return protocol
	}
	return gitrepo.RemoteProtocol(strings.ToLower(strings.TrimSpace(value)))
}
