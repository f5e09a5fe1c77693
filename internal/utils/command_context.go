package utils

import "context"

type invocationContextKey struct {
	name string
}

var configurationSourceContextKey = invocationContextKey{name: "configuration_source"}

// CommandContextAccessor stores per-invocation values on Cobra command contexts so
// subcommands can report where their settings came from.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationSource attaches the resolved configuration source.
func (accessor CommandContextAccessor) WithConfigurationSource(parentContext context.Context, source ConfigurationSource) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationSourceContextKey, source)
}

// ConfigurationSource returns the source recorded by WithConfigurationSource.
func (accessor CommandContextAccessor) ConfigurationSource(executionContext context.Context) (ConfigurationSource, bool) {
	if executionContext == nil {
		return ConfigurationSource{}, false
	}
	source, found := executionContext.Value(configurationSourceContextKey).(ConfigurationSource)
	return source, found
}
