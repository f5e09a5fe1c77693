// Package cli builds the reposeed command-line interface: the Cobra command tree,
// layered configuration (embedded defaults, config file, REPOSEED_* environment) and
// the zap logger shared by every command.
package cli
