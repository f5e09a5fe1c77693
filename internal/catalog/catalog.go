// Package catalog lists the gitignore templates a create run accepts: the templates
// GitHub serves natively plus the ones reposeed synthesizes itself.
package catalog

import (
	"slices"
	"strings"
)

// Merge combines native and custom template names, dropping blanks and case-insensitive
// duplicates, sorted without regard to case. The first spelling of a duplicate wins.
func Merge(native []string, custom []string) []string {
	seen := make(map[string]struct{}, len(native)+len(custom))
	merged := make([]string, 0, len(native)+len(custom))
	for _, templateName := range slices.Concat(native, custom) {
		trimmedName := strings.TrimSpace(templateName)
		if len(trimmedName) == 0 {
			continue
		}
		normalizedName := strings.ToLower(trimmedName)
		if _, duplicate := seen[normalizedName]; duplicate {
			continue
		}
		seen[normalizedName] = struct{}{}
		merged = append(merged, trimmedName)
	}
	slices.SortStableFunc(merged, func(left string, right string) int {
		return strings.Compare(strings.ToLower(left), strings.ToLower(right))
	})
	return merged
}
