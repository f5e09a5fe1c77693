// Package utils holds the CLI plumbing shared by every reposeed command.
//
// ConfigurationLoader layers embedded defaults, an optional config file and
// REPOSEED_* environment variables through Viper and reports the resulting
// ConfigurationSource, which CommandContextAccessor carries to subcommands.
// LoggerFactory builds the zap logger, and FlushingWriter keeps interactive
// output ordered.
package utils
