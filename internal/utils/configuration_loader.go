package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	configurationKeySeparatorConstant               = "."
	environmentKeySeparatorConstant                 = "_"
	homeDirectoryPrefixConstant                     = "~"
	configurationListSeparatorConstant              = ","
	searchPathsSourceDescriptionConstant            = "search paths"
	configurationReadErrorTemplateConstant          = "failed to read configuration from %s: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationErrorTemplateConstant      = "failed to merge embedded configuration: %w"
	configurationPathExpansionErrorTemplateConstant = "failed to expand configuration path %q: %w"
)

// ConfigurationSource reports where the resolved settings came from.
type ConfigurationSource struct {
	FilePath          string
	EnvironmentPrefix string
}

// EmbeddedOnly reports whether no configuration file contributed settings.
func (source ConfigurationSource) EmbeddedOnly() bool {
	return len(source.FilePath) == 0
}

// ConfigurationLoader layers embedded defaults, a YAML file and REPOSEED_* style
// environment variables into a mapstructure-tagged target.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// NewConfigurationLoader creates a loader that searches searchPaths for configurationName.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       append([]string{}, searchPaths...),
	}
}

// SetEmbeddedConfiguration records the lowest-precedence configuration layer.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}
	loader.embeddedConfiguration = append([]byte(nil), configurationData...)
	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)
}

// LoadConfiguration decodes the layered configuration into targetConfiguration. An explicit
// configurationFilePath replaces the search paths and may start with "~".
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (ConfigurationSource, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)

	if mergeError := loader.mergeEmbeddedConfiguration(viperInstance); mergeError != nil {
		return ConfigurationSource{}, mergeError
	}
	viperInstance.SetConfigType(loader.configurationType)

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(configurationKeySeparatorConstant, environmentKeySeparatorConstant))
	viperInstance.AutomaticEnv()

	sourceDescription := searchPathsSourceDescriptionConstant
	trimmedFilePath := strings.TrimSpace(configurationFilePath)
	if len(trimmedFilePath) > 0 {
		expandedFilePath, expansionError := expandHomeDirectory(trimmedFilePath)
		if expansionError != nil {
			return ConfigurationSource{}, fmt.Errorf(configurationPathExpansionErrorTemplateConstant, trimmedFilePath, expansionError)
		}
		viperInstance.SetConfigFile(expandedFilePath)
		sourceDescription = expandedFilePath
	} else {
		for _, searchPath := range loader.searchPaths {
			viperInstance.AddConfigPath(searchPath)
		}
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(readError, &notFoundError) {
			return ConfigurationSource{}, fmt.Errorf(configurationReadErrorTemplateConstant, sourceDescription, readError)
		}
	}

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(configurationListSeparatorConstant),
	))
	if unmarshalError := viperInstance.Unmarshal(targetConfiguration, decodeHook); unmarshalError != nil {
		return ConfigurationSource{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return ConfigurationSource{
		FilePath:          viperInstance.ConfigFileUsed(),
		EnvironmentPrefix: loader.environmentPrefix,
	}, nil
}

func (loader *ConfigurationLoader) mergeEmbeddedConfiguration(viperInstance *viper.Viper) error {
	if len(loader.embeddedConfiguration) == 0 {
		return nil
	}
	embeddedType := loader.configurationType
	if len(loader.embeddedConfigurationType) > 0 {
		embeddedType = loader.embeddedConfigurationType
	}
	viperInstance.SetConfigType(embeddedType)
	if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration)); mergeError != nil {
		return fmt.Errorf(embeddedConfigurationErrorTemplateConstant, mergeError)
	}
	return nil
}

func expandHomeDirectory(path string) (string, error) {
	if path != homeDirectoryPrefixConstant && !strings.HasPrefix(path, homeDirectoryPrefixConstant+string(filepath.Separator)) {
		return path, nil
	}
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return "", homeError
	}
	return filepath.Join(homeDirectory, strings.TrimPrefix(path, homeDirectoryPrefixConstant)), nil
}
