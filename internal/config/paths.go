// ABOUTME: Standard filesystem paths for overlay configuration
// ABOUTME: Resolves ~/.pi-go/ for global and .pi-go/ for project-local files

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".pi-go"
	projectDirName = ".pi-go"
	configFileName = "overlay.yaml"
)

// GlobalDir returns the user-global config directory (~/.pi-go/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory (.pi-go/ in projectRoot).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// GlobalConfigFile returns the path to the global overlay config.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), configFileName)
}

// ProjectConfigFile returns the path to the project-local overlay config.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), configFileName)
}

// ConfigFiles returns every config path Load consults, lowest precedence first.
func ConfigFiles(projectRoot string) []string {
	return []string{GlobalConfigFile(), ProjectConfigFile(projectRoot)}
}

// EnsureDir creates a directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o700)
}
