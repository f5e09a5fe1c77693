// Package pathutils normalizes user supplied project locations.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const homeShortcutConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// HomeExpander replaces a leading ~ in a location with the user's home directory. The
// home directory is looked up once.
type HomeExpander struct {
	lookupHome   HomeDirectoryProvider
	lookupOnce   sync.Once
	homeLocation string
}

// NewHomeExpander constructs a HomeExpander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom home lookup.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{lookupHome: provider}
}

// Expand resolves "~" and "~/rest" (or the platform separator variant). Other inputs,
// including "~user", are returned unchanged, as is everything when the home directory
// is unknown.
func (expander *HomeExpander) Expand(location string) string {
	if expander == nil || !strings.HasPrefix(location, homeShortcutConstant) {
		return location
	}

	remainder := strings.TrimPrefix(location, homeShortcutConstant)
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		return location
	}

	homeLocation := expander.home()
	if len(homeLocation) == 0 {
		return location
	}
	return filepath.Join(homeLocation, remainder)
}

func (expander *HomeExpander) home() string {
	expander.lookupOnce.Do(func() {
		resolvedHome, lookupError := expander.lookupHome()
		if lookupError == nil {
			expander.homeLocation = resolvedHome
		}
	})
	return expander.homeLocation
}
