// Package provision implements the create workflow.
//
// A ConfigSnapshot describes one project. Orchestrator drives it through
// scaffold, hosted-create, gitignore, local-init, commit, remote-wire, push and
// topics; Runner executes the orchestrator on a background goroutine, streams
// ProgressEvent values in order and delivers exactly one Result. Cancellation is
// cooperative: a CancellationToken is checked between steps, and the step in
// flight is only interrupted once the grace period expires.
package provision
