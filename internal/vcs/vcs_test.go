package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newLocalRemote creates a throwaway local git repository with one commit
// and one tag, so tests never need network access.
func newLocalRemote(t *testing.T) (dir, tag string) {
	t.Helper()
	dir = t.TempDir()

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
	}

	run("init", "-q")
	run("config", "user.email", "zz@example.com")
	run("config", "user.name", "zz")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hi"), 0o644))
	run("add", "README")
	run("commit", "-q", "-m", "initial")
	run("tag", "v1.0.0")

	return dir, "v1.0.0"
}

func TestGitVCS_Latest(t *testing.T) {
	remote, _ := newLocalRemote(t)
	g := NewGitVCS()
	ctx := context.Background()

	hash, err := g.Latest(ctx, remote)
	require.NoError(t, err)
	require.Len(t, hash, 40)
}

func TestGitVCS_Sync(t *testing.T) {
	remote, tag := newLocalRemote(t)
	g := NewGitVCS()
	ctx := context.Background()

	dest := filepath.Join(t.TempDir(), "checkout")
	require.NoError(t, g.Sync(ctx, remote, tag, dest))

	_, err := exec.Command("git", "-C", dest, "rev-parse", "HEAD").Output()
	require.NoError(t, err)
}
