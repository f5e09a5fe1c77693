package provision

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/temirov/reposeed/internal/filesystem"
	"github.com/temirov/reposeed/internal/githubcli"
	"github.com/temirov/reposeed/internal/gitrepo"
)

const (
	validationErrorTemplateConstant = "%s: %s"

	fieldRepoLocationConstant = "repo_location"
	fieldFolderNameConstant   = "folder_name"
	fieldRepoNameConstant     = "repo_name"
	fieldDescriptionConstant  = "description"
	fieldTopicsConstant       = "topics"
	fieldVisibilityConstant   = "visibility"
	fieldRemoteTypeConstant   = "remote_type"
	fieldUsernameConstant     = "username"

	maximumRepoNameLengthConstant    = 100
	maximumDescriptionLengthConstant = 500
	maximumTopicCountConstant        = 20
	maximumTopicLengthConstant       = 35

	locationRequiredMessage         = "Repository location is required"
	locationNotAbsoluteTemplate     = "Repository location must be an absolute path: %s"
	locationNotDirectoryTemplate    = "Repository location is not a directory: %s"
	locationNotWritableTemplate     = "Repository location is not writable: %s"
	folderRequiredMessage           = "Folder name is required"
	folderSpacesMessage             = "Folder name cannot start or end with spaces"
	folderInvalidCharactersTemplate = "Folder name contains invalid characters: %s"
	folderReservedTemplate          = "Folder name '%s' is a reserved name on Windows and cannot be used"
	repoNameRequiredMessage         = "Repository name is required"
	repoNameDotsMessage             = "Repository name cannot be '.' or '..'"
	repoNameTooLongMessage          = "Repository name cannot exceed 100 characters"
	repoNameCharactersMessage       = "Repository name can only contain alphanumeric characters (a-z, A-Z, 0-9), hyphens (-), underscores (_), and dots (.)"
	repoNameGitSuffixMessage        = "Repository name cannot end with '.git'"
	repoNameLeadingMessage          = "Repository name cannot start with a dot (.) or hyphen (-)"
	repoNameTrailingDotMessage      = "Repository name cannot end with a dot (.)"
	descriptionTooLongMessage       = "Description cannot exceed 500 characters"
	descriptionCharactersMessage    = "Description contains invalid characters (newlines or null bytes)"
	topicCountMessage               = "Maximum 20 topics allowed"
	topicTooLongTemplate            = "Topic '%s' exceeds maximum length of 35 characters"
	topicCharactersTemplate         = "Topic '%s' contains invalid characters. Topics can only contain alphanumeric characters and hyphens, and must start with a letter or number"
	visibilityUnsupportedTemplate   = "Visibility must be public or private, got %q"
	remoteTypeUnsupportedTemplate   = "Remote type must be https or ssh, got %q"
	usernameRequiredMessage         = "Repository owner is required; authenticate with 'gh auth login' or pass --owner"
	invalidCharacterListSeparator   = ", "
	invalidFolderCharactersConstant = "<>:\"|?*\\"
	gitSuffixConstant               = ".git"
)

var (
	repoNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	topicPattern    = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)

	reservedFolderNames = map[string]struct{}{
		"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
		"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
		"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
	}
)

// ValidationError reports an input rejected before the workflow starts.
type ValidationError struct {
	Field   string
	Message string
}

// Error describes the rejected field.
func (validationError ValidationError) Error() string {
	return fmt.Sprintf(validationErrorTemplateConstant, validationError.Field, validationError.Message)
}

// Validate checks snapshot and returns the first violated rule as a ValidationError.
func Validate(snapshot ConfigSnapshot, fileSystem filesystem.FileSystem) error {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	validators := []func() error{
		func() error { return validateLocation(snapshot.RepoLocation, fileSystem) },
		func() error { return validateFolderName(snapshot.FolderName) },
		func() error { return validateRepoName(snapshot.RepoName) },
		func() error { return validateDescription(snapshot.Description) },
		func() error { return validateTopics(snapshot.Topics) },
		func() error { return validateVisibility(snapshot.Visibility) },
		func() error { return validateRemoteType(snapshot.RemoteType) },
		func() error { return validateUsername(snapshot.Username) },
	}
	for _, validator := range validators {
		if validationError := validator(); validationError != nil {
			return validationError
		}
	}
	return nil
}

func validateLocation(location string, fileSystem filesystem.FileSystem) error {
	if len(strings.TrimSpace(location)) == 0 {
		return ValidationError{Field: fieldRepoLocationConstant, Message: locationRequiredMessage}
	}
	if !filepath.IsAbs(location) {
		return ValidationError{Field: fieldRepoLocationConstant, Message: fmt.Sprintf(locationNotAbsoluteTemplate, location)}
	}
	if !filesystem.IsDirectory(fileSystem, location) {
		return ValidationError{Field: fieldRepoLocationConstant, Message: fmt.Sprintf(locationNotDirectoryTemplate, location)}
	}
	if !filesystem.IsWritable(fileSystem, location) {
		return ValidationError{Field: fieldRepoLocationConstant, Message: fmt.Sprintf(locationNotWritableTemplate, location)}
	}
	return nil
}

func validateFolderName(folderName string) error {
	if len(strings.TrimSpace(folderName)) == 0 {
		return ValidationError{Field: fieldFolderNameConstant, Message: folderRequiredMessage}
	}
	if folderName != strings.TrimSpace(folderName) {
		return ValidationError{Field: fieldFolderNameConstant, Message: folderSpacesMessage}
	}

	invalidCharacters := make([]string, 0)
	seenCharacters := map[rune]struct{}{}
	for _, character := range folderName {
		if !strings.ContainsRune(invalidFolderCharactersConstant, character) && !unicode.IsControl(character) {
			continue
		}
		if _, seen := seenCharacters[character]; seen {
			continue
		}
		seenCharacters[character] = struct{}{}
		invalidCharacters = append(invalidCharacters, fmt.Sprintf("%q", character))
	}
	if len(invalidCharacters) > 0 {
		return ValidationError{
			Field:   fieldFolderNameConstant,
			Message: fmt.Sprintf(folderInvalidCharactersTemplate, strings.Join(invalidCharacters, invalidCharacterListSeparator)),
		}
	}

	if _, reserved := reservedFolderNames[strings.ToUpper(folderName)]; reserved {
		return ValidationError{Field: fieldFolderNameConstant, Message: fmt.Sprintf(folderReservedTemplate, folderName)}
	}
	return nil
}

func validateRepoName(repoName string) error {
	switch {
	case len(repoName) == 0:
		return ValidationError{Field: fieldRepoNameConstant, Message: repoNameRequiredMessage}
	case repoName == "." || repoName == "..":
		return ValidationError{Field: fieldRepoNameConstant, Message: repoNameDotsMessage}
	case len(repoName) > maximumRepoNameLengthConstant:
		return ValidationError{Field: fieldRepoNameConstant, Message: repoNameTooLongMessage}
	case !repoNamePattern.MatchString(repoName):
		return ValidationError{Field: fieldRepoNameConstant, Message: repoNameCharactersMessage}
	case strings.HasSuffix(repoName, gitSuffixConstant):
		return ValidationError{Field: fieldRepoNameConstant, Message: repoNameGitSuffixMessage}
	case strings.HasPrefix(repoName, ".") || strings.HasPrefix(repoName, "-"):
		return ValidationError{Field: fieldRepoNameConstant, Message: repoNameLeadingMessage}
	case strings.HasSuffix(repoName, "."):
		return ValidationError{Field: fieldRepoNameConstant, Message: repoNameTrailingDotMessage}
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > maximumDescriptionLengthConstant {
		return ValidationError{Field: fieldDescriptionConstant, Message: descriptionTooLongMessage}
	}
	if strings.ContainsAny(description, "\n\r\x00") {
		return ValidationError{Field: fieldDescriptionConstant, Message: descriptionCharactersMessage}
	}
	return nil
}

func validateTopics(topics []string) error {
	if len(topics) > maximumTopicCountConstant {
		return ValidationError{Field: fieldTopicsConstant, Message: topicCountMessage}
	}
	for _, topic := range topics {
		if utf8.RuneCountInString(topic) > maximumTopicLengthConstant {
			return ValidationError{Field: fieldTopicsConstant, Message: fmt.Sprintf(topicTooLongTemplate, topic)}
		}
		if !topicPattern.MatchString(topic) {
			return ValidationError{Field: fieldTopicsConstant, Message: fmt.Sprintf(topicCharactersTemplate, topic)}
		}
	}
	return nil
}

func validateVisibility(visibility githubcli.Visibility) error {
	if visibility == githubcli.VisibilityPublic || visibility == githubcli.VisibilityPrivate {
		return nil
	}
	return ValidationError{Field: fieldVisibilityConstant, Message: fmt.Sprintf(visibilityUnsupportedTemplate, visibility)}
}

func validateRemoteType(remoteType gitrepo.RemoteProtocol) error {
	if remoteType == gitrepo.RemoteProtocolHTTPS || remoteType == gitrepo.RemoteProtocolSSH {
		return nil
	}
	return ValidationError{Field: fieldRemoteTypeConstant, Message: fmt.Sprintf(remoteTypeUnsupportedTemplate, remoteType)}
}

func validateUsername(username string) error {
	if len(strings.TrimSpace(username)) == 0 {
		return ValidationError{Field: fieldUsernameConstant, Message: usernameRequiredMessage}
	}
	return nil
}

// ParseTopics splits a comma separated topic list, dropping blank entries.
func ParseTopics(rawTopics string) []string {
	topics := make([]string, 0)
	for _, topic := range strings.Split(rawTopics, ",") {
		trimmedTopic := strings.TrimSpace(topic)
		if len(trimmedTopic) > 0 {
			topics = append(topics, trimmedTopic)
		}
	}
	return topics
}
