package featureflags

import (
	"os"
	"strings"
)

// Enabled returns true if a feature flag is switched on via environment
// variable. Flags are read as FLAG_<NAME>=true/1/yes/on (case-insensitive).
// The availability websocket stream is the only flagged feature today.
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
