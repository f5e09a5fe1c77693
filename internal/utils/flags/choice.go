package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choiceSeparatorLiteral    = "|"
	choiceUsageEmptyTemplate  = "`<%s>`"
	choiceUsageFullTemplate   = "`<%s>` %s"
	choiceParseErrorTemplate  = "invalid value %q, expected one of %s"
	choiceFlagTypeConstant    = "string"
	choiceDefaultEmptyLiteral = ""
)

// AddChoiceFlag registers a string flag restricted to choices. Values are trimmed and
// lowercased, so "--visibility PRIVATE" reads back as "private".
func AddChoiceFlag(flagSet *pflag.FlagSet, name string, defaultChoice string, choices []string, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}
	allowedChoices := normalizeChoices(choices)
	flagSet.Var(&choiceFlagValue{current: normalizeChoice(defaultChoice), choices: allowedChoices}, name, FormatChoiceUsage(defaultChoice, allowedChoices, usage))
}

// FormatChoiceUsage renders usage text with the default option capitalized, e.g. "`<PUBLIC|private>` Repository visibility".
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := normalizeChoice(defaultChoice)
	displayChoices := normalizeChoices(choices)
	for index, choice := range displayChoices {
		if choice == normalizedDefault {
			displayChoices[index] = strings.ToUpper(choice)
		}
	}
	placeholder := strings.Join(displayChoices, choiceSeparatorLiteral)
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, trimmedDescription)
}

type choiceFlagValue struct {
	current string
	choices []string
}

func (value *choiceFlagValue) Set(rawValue string) error {
	normalizedValue := normalizeChoice(rawValue)
	for _, choice := range value.choices {
		if choice == normalizedValue {
			value.current = normalizedValue
			return nil
		}
	}
	return fmt.Errorf(choiceParseErrorTemplate, rawValue, strings.Join(value.choices, choiceSeparatorLiteral))
}

func (value *choiceFlagValue) String() string {
	if value == nil {
		return choiceDefaultEmptyLiteral
	}
	return value.current
}

// Type reports "string" so pflag's GetString reads choice flags.
func (value *choiceFlagValue) Type() string {
	return choiceFlagTypeConstant
}

func normalizeChoice(choice string) string {
	return strings.ToLower(strings.TrimSpace(choice))
}

func normalizeChoices(choices []string) []string {
	normalized := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		normalizedChoice := normalizeChoice(choice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, duplicate := seen[normalizedChoice]; duplicate {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		normalized = append(normalized, normalizedChoice)
	}
	return normalized
}
