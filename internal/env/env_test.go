package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootFromEnv(t *testing.T) {
	t.Setenv(RootEnvVar, "/tmp/zz-ws")

	root, err := Root()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/zz-ws", root)
}

func TestRootDefaultsToHomeZZ(t *testing.T) {
	t.Setenv(RootEnvVar, "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	root, err := Root()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "zz"), root)
}
