// ABOUTME: Environment variable expansion in path-like config fields
// ABOUTME: Replaces ${VAR} patterns with os.Getenv values; renderer commands are left untouched

package config

import (
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// ResolveEnvVars expands ${VAR} patterns in the path fields of Settings.
// Command fields are not expanded: the shell does that with the
// PI_OVERLAY_* variables in place.
func ResolveEnvVars(s *Settings) {
	s.AssetsDir = expandEnv(s.AssetsDir)
	s.Shell = expandEnv(s.Shell)
	s.LogFile = expandEnv(s.LogFile)
}

// expandEnv replaces ${VAR} with os.Getenv(VAR). Unset vars become "".
func expandEnv(s string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func hasEnvRef(s string) bool {
	return envVarPattern.MatchString(s)
}
