// Package execshell runs the git and gh executables on behalf of reposeed.
//
// ShellExecutor logs every invocation, reports non-zero exits as
// CommandFailedError and start failures as CommandExecutionError, and notifies
// an optional CommandEventObserver. OSCommandRunner is the os/exec backed
// CommandRunner; tests substitute recording runners.
package execshell
