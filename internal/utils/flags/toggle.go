package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueLiteral                = "true"
	toggleFalseLiteral               = "false"
	toggleFlagTypeConstant           = "bool"
	toggleLongPrefixConstant         = "--"
	toggleAssignmentLiteral          = "="
	toggleParseErrorTemplate         = "invalid toggle value %q, expected yes or no"
	toggleUsageTemplate              = "`%s` %s"
	toggleEnabledPlaceholderLiteral  = "<YES|no>"
	toggleDisabledPlaceholderLiteral = "<yes|NO>"
)

var (
	toggleLiterals = map[string]bool{
		toggleTrueLiteral:  true,
		"yes":              true,
		"y":                true,
		"on":               true,
		"1":                true,
		toggleFalseLiteral: false,
		"no":               false,
		"n":                false,
		"off":              false,
		"0":                false,
	}

	registeredTogglesMutex sync.RWMutex
	registeredToggles      = map[string]struct{}{}
)

// AddToggleFlag registers a boolean flag such as --scaffold that also accepts yes/no,
// on/off and 1/0. A bare flag means true.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}
	if target == nil {
		target = new(bool)
	}
	*target = defaultValue

	flagSet.Var((*toggleFlagValue)(target), name, formatToggleUsage(usage, defaultValue))
	flagSet.Lookup(name).NoOptDefVal = toggleTrueLiteral

	registeredTogglesMutex.Lock()
	registeredToggles[name] = struct{}{}
	registeredTogglesMutex.Unlock()
}

// NormalizeToggleArguments joins "--scaffold no" into "--scaffold=no" for registered
// toggles. The following argument is joined only when it is a toggle literal, so
// positional arguments after a bare toggle are preserved. Arguments after "--" are untouched.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == toggleLongPrefixConstant {
			return append(normalized, arguments[index:]...)
		}
		if index+1 < len(arguments) && isBareToggle(current) {
			if _, literal := lookupToggleLiteral(arguments[index+1]); literal {
				normalized = append(normalized, current+toggleAssignmentLiteral+arguments[index+1])
				index++
				continue
			}
		}
		normalized = append(normalized, current)
	}
	return normalized
}

type toggleFlagValue bool

func (value *toggleFlagValue) Set(rawValue string) error {
	parsedValue, literal := lookupToggleLiteral(rawValue)
	if !literal {
		return fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}
	*value = toggleFlagValue(parsedValue)
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || !bool(*value) {
		return toggleFalseLiteral
	}
	return toggleTrueLiteral
}

// Type reports "bool" so pflag's GetBool reads toggles.
func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeConstant
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleDisabledPlaceholderLiteral
	if defaultValue {
		placeholder = toggleEnabledPlaceholderLiteral
	}
	return strings.TrimSpace(fmt.Sprintf(toggleUsageTemplate, placeholder, strings.TrimSpace(description)))
}

func lookupToggleLiteral(rawValue string) (bool, bool) {
	trimmedValue := strings.TrimSpace(rawValue)
	if len(trimmedValue) == 0 {
		return true, true
	}
	parsedValue, literal := toggleLiterals[strings.ToLower(trimmedValue)]
	return parsedValue, literal
}

func isBareToggle(argument string) bool {
	if !strings.HasPrefix(argument, toggleLongPrefixConstant) || strings.Contains(argument, toggleAssignmentLiteral) {
		return false
	}
	registeredTogglesMutex.RLock()
	defer registeredTogglesMutex.RUnlock()
	_, registered := registeredToggles[strings.TrimPrefix(argument, toggleLongPrefixConstant)]
	return registered
}
