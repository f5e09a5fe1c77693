package provision_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/reposeed/internal/filesystem"
	"github.com/temirov/reposeed/internal/provision"
	pathutils "github.com/temirov/reposeed/internal/utils/path"
)

type mkdirFailingFileSystem struct {
	filesystem.OSFileSystem
}

func (mkdirFailingFileSystem) MkdirAll(path string, permissions os.FileMode) error {
	return errors.New("read-only file system")
}

func TestPrepareLocation(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	homeExpander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return homeDirectory, nil
	})
	existingDirectory := testInstance.TempDir()

	testCases := []struct {
		name             string
		location         string
		expectedLocation string
	}{
		{
			name:             "existing absolute directory",
			location:         existingDirectory,
			expectedLocation: existingDirectory,
		},
		{
			name:             "surrounding whitespace",
			location:         "  " + existingDirectory + "  ",
			expectedLocation: existingDirectory,
		},
		{
			name:             "home shortcut is expanded and created",
			location:         "~/projects",
			expectedLocation: filepath.Join(homeDirectory, "projects"),
		},
		{
			name:             "missing nested directory is created",
			location:         filepath.Join(existingDirectory, "a", "b"),
			expectedLocation: filepath.Join(existingDirectory, "a", "b"),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			preparedLocation, prepareError := provision.PrepareLocation(testCase.location, filesystem.OSFileSystem{}, homeExpander)
			require.NoError(testInstance, prepareError)
			require.Equal(testInstance, testCase.expectedLocation, preparedLocation)
			require.DirExists(testInstance, preparedLocation)
		})
	}
}

func TestPrepareLocationRejectsBlankLocation(testInstance *testing.T) {
	_, prepareError := provision.PrepareLocation("   ", filesystem.OSFileSystem{}, nil)

	var validationError provision.ValidationError
	require.ErrorAs(testInstance, prepareError, &validationError)
	require.Equal(testInstance, "repo_location", validationError.Field)
}

func TestPrepareLocationReportsCreationFailure(testInstance *testing.T) {
	missingLocation := filepath.Join(testInstance.TempDir(), "missing")

	_, prepareError := provision.PrepareLocation(missingLocation, mkdirFailingFileSystem{}, nil)

	var validationError provision.ValidationError
	require.ErrorAs(testInstance, prepareError, &validationError)
	require.Equal(testInstance, "repo_location", validationError.Field)
	require.Contains(testInstance, validationError.Message, "Cannot create repository location")
	require.NoDirExists(testInstance, missingLocation)
}
