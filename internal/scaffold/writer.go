package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/reposeed/internal/filesystem"
)

const (
	readmeFileNameConstant             = "README.md"
	gitignoreFileNameConstant          = ".gitignore"
	defaultReadmeTemplateConstant      = "# %s\n\nProject initialized with reposeed.\n"
	templatesDirectoryConstant         = "templates"
	directoryCreationErrorTemplate     = "unable to create directory %s: %w"
	fileWriteErrorTemplate             = "unable to write %s: %w"
	templateReadErrorTemplate          = "unable to read scaffold template %s: %w"
	targetNotDirectoryErrorTemplate    = "%s exists and is not a directory"
	directoryRequiredMessageConstant   = "target directory required"
	projectNameRequiredMessageConstant = "project name required"
)

//go:embed templates/*
var embeddedTemplates embed.FS

var (
	// ErrDirectoryRequired indicates an empty target directory was supplied.
	ErrDirectoryRequired = errors.New(directoryRequiredMessageConstant)
	// ErrProjectNameRequired indicates Write was called without a project name.
	ErrProjectNameRequired = errors.New(projectNameRequiredMessageConstant)
)

// Directories lists the directories every scaffold contains, relative to the target.
var Directories = []string{"src", "tests", "docs", ".github"}

type scaffoldFile struct {
	relativePath string
	templateName string
	optional     bool
}

var scaffoldFiles = []scaffoldFile{
	{relativePath: filepath.Join("docs", "index.md"), templateName: "docs_index.md"},
	{relativePath: filepath.Join("tests", "test_placeholder.txt"), templateName: "test_placeholder.txt"},
	{relativePath: "CHANGELOG.md", templateName: "CHANGELOG.md"},
	{relativePath: "CONTRIBUTING.md", templateName: "CONTRIBUTING.md"},
	{relativePath: "CODE_OF_CONDUCT.md", templateName: "CODE_OF_CONDUCT.md"},
	{relativePath: "SECURITY.md", templateName: "SECURITY.md"},
	{relativePath: filepath.Join(".github", "ISSUE_TEMPLATE.md"), templateName: "issue_template.md"},
	{relativePath: filepath.Join(".github", "PULL_REQUEST_TEMPLATE.md"), templateName: "pull_request_template.md"},
	{relativePath: ".editorconfig", templateName: "editorconfig", optional: true},
	{relativePath: ".gitattributes", templateName: "gitattributes"},
}

// Options controls the content of a scaffold.
type Options struct {
	ProjectName        string
	ReadmeContent      string
	CreateEditorconfig bool
}

// Writer materializes the starter project layout.
type Writer struct {
	fileSystem filesystem.FileSystem
}

// NewWriter constructs a Writer. A nil file system defaults to the OS.
func NewWriter(fileSystem filesystem.FileSystem) *Writer {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	return &Writer{fileSystem: fileSystem}
}

// EnsureDirectory creates directory when it is missing.
func (writer *Writer) EnsureDirectory(directory string) error {
	if len(strings.TrimSpace(directory)) == 0 {
		return ErrDirectoryRequired
	}
	if filesystem.Exists(writer.fileSystem, directory) {
		if !filesystem.IsDirectory(writer.fileSystem, directory) {
			return fmt.Errorf(targetNotDirectoryErrorTemplate, directory)
		}
		return nil
	}
	if mkdirError := writer.fileSystem.MkdirAll(directory, filesystem.DirectoryPermissions); mkdirError != nil {
		return fmt.Errorf(directoryCreationErrorTemplate, directory, mkdirError)
	}
	return nil
}

// Write creates the scaffold inside directory. Existing scaffold files are overwritten.
func (writer *Writer) Write(directory string, options Options) error {
	if len(strings.TrimSpace(options.ProjectName)) == 0 {
		return ErrProjectNameRequired
	}
	if ensureError := writer.EnsureDirectory(directory); ensureError != nil {
		return ensureError
	}

	for _, relativeDirectory := range Directories {
		absoluteDirectory := filepath.Join(directory, relativeDirectory)
		if mkdirError := writer.fileSystem.MkdirAll(absoluteDirectory, filesystem.DirectoryPermissions); mkdirError != nil {
			return fmt.Errorf(directoryCreationErrorTemplate, absoluteDirectory, mkdirError)
		}
	}

	if writeError := writer.writeFile(directory, readmeFileNameConstant, []byte(readmeContent(options))); writeError != nil {
		return writeError
	}

	for _, file := range scaffoldFiles {
		if file.optional && !options.CreateEditorconfig {
			continue
		}
		templateContent, readError := embeddedTemplates.ReadFile(templatesDirectoryConstant + "/" + file.templateName)
		if readError != nil {
			return fmt.Errorf(templateReadErrorTemplate, file.templateName, readError)
		}
		if writeError := writer.writeFile(directory, file.relativePath, templateContent); writeError != nil {
			return writeError
		}
	}
	return nil
}

// WriteCustomGitignore writes the commented starter .gitignore for templateName.
func (writer *Writer) WriteCustomGitignore(directory string, templateName string) error {
	return writer.writeFile(directory, gitignoreFileNameConstant, []byte(CustomGitignoreContent(templateName)))
}

// WriteGitignoreIfAbsent writes content to .gitignore unless the file exists or content is empty.
// It reports whether a file was written.
func (writer *Writer) WriteGitignoreIfAbsent(directory string, content string) (bool, error) {
	if len(content) == 0 {
		return false, nil
	}
	if filesystem.Exists(writer.fileSystem, filepath.Join(directory, gitignoreFileNameConstant)) {
		return false, nil
	}
	if writeError := writer.writeFile(directory, gitignoreFileNameConstant, []byte(content)); writeError != nil {
		return false, writeError
	}
	return true, nil
}

func (writer *Writer) writeFile(directory string, relativePath string, content []byte) error {
	if len(strings.TrimSpace(directory)) == 0 {
		return ErrDirectoryRequired
	}
	absolutePath := filepath.Join(directory, relativePath)
	if writeError := writer.fileSystem.WriteFile(absolutePath, content, filesystem.FilePermissions); writeError != nil {
		return fmt.Errorf(fileWriteErrorTemplate, absolutePath, writeError)
	}
	return nil
}

func readmeContent(options Options) string {
	if len(options.ReadmeContent) > 0 {
		return options.ReadmeContent
	}
	return fmt.Sprintf(defaultReadmeTemplateConstant, options.ProjectName)
}
