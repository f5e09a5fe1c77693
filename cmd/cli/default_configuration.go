package cli

import (
	_ "embed"

	"github.com/temirov/reposeed/internal/provision"
	"github.com/temirov/reposeed/internal/utils"
)

//go:embed default_config.yaml
var defaultConfigurationDocument []byte

// embeddedDefaultConfiguration returns a copy of default_config.yaml and its format.
func embeddedDefaultConfiguration() ([]byte, string) {
	return append([]byte(nil), defaultConfigurationDocument...), configurationTypeConstant
}

// defaultConfigurationValues mirrors default_config.yaml as viper keys so REPOSEED_*
// overrides resolve even when a user file omits a section.
func defaultConfigurationValues() map[string]any {
	values := provision.DefaultConfigurationValues(createConfigurationKeyConstant)
	values[commonLogLevelConfigKeyConstant] = string(utils.LogLevelInfo)
	values[commonLogFormatConfigKeyConstant] = string(utils.LogFormatConsole)
	return values
}
