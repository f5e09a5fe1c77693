package provision

import (
	"fmt"
	"strings"

	"github.com/temirov/reposeed/internal/filesystem"
	pathutils "github.com/temirov/reposeed/internal/utils/path"
)

const (
	locationResolveErrorTemplate = "unable to resolve repository location %s: %w"
	locationCreateErrorTemplate  = "Cannot create repository location: %v"
)

// PrepareLocation expands a leading ~, converts location to an absolute path and creates
// the directory when it does not exist yet.
func PrepareLocation(location string, fileSystem filesystem.FileSystem, homeExpander *pathutils.HomeExpander) (string, error) {
	trimmedLocation := strings.TrimSpace(location)
	if len(trimmedLocation) == 0 {
		return "", ValidationError{Field: fieldRepoLocationConstant, Message: locationRequiredMessage}
	}
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}

	absoluteLocation, absoluteError := fileSystem.Abs(homeExpander.Expand(trimmedLocation))
	if absoluteError != nil {
		return "", fmt.Errorf(locationResolveErrorTemplate, trimmedLocation, absoluteError)
	}
	if filesystem.Exists(fileSystem, absoluteLocation) {
		return absoluteLocation, nil
	}
	if mkdirError := fileSystem.MkdirAll(absoluteLocation, filesystem.DirectoryPermissions); mkdirError != nil {
		return "", ValidationError{Field: fieldRepoLocationConstant, Message: fmt.Sprintf(locationCreateErrorTemplate, mkdirError)}
	}
	return absoluteLocation, nil
}
