//go:build unix

package execshell

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOSCommandRunnerDetachesProcessGroup(testInstance *testing.T) {
	runner := &OSCommandRunner{TerminationWaitDelay: time.Second}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:            []string{"status"},
			WorkingDirectory:     testInstance.TempDir(),
			EnvironmentVariables: map[string]string{"GH_TOKEN": "token"},
		},
	}

	executable := runner.buildExecutable(context.Background(), command)
	require.NotNil(testInstance, executable.SysProcAttr)
	require.True(testInstance, executable.SysProcAttr.Setpgid)
	require.NotNil(testInstance, executable.Cancel)
	require.Equal(testInstance, time.Second, executable.WaitDelay)
	require.Equal(testInstance, command.Details.WorkingDirectory, executable.Dir)
	require.Contains(testInstance, executable.Env, "GH_TOKEN=token")
}
