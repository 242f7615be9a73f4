// Package env resolves the workspace root from the process environment.
package env

import (
	"os"
	"path/filepath"
)

// RootEnvVar is the environment variable that points at the workspace root.
const RootEnvVar = "WORKSPACE"

// Root returns the workspace root: $WORKSPACE if set, otherwise $HOME/zz.
func Root() (string, error) {
	if root := os.Getenv(RootEnvVar); root != "" {
		return root, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "zz"), nil
}
