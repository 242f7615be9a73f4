// Package vcs wraps the external version-control client invoked by the
// source-acquisition front end (checkout/get). The build engine itself
// never calls this package; it only relies on the output contract described
// in the workspace layout (a package's source tree landing at
// $ROOT/src/<package>).
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// VCS defines the operations the source-acquisition front end needs from a
// version-control client.
type VCS interface {
	// Sync ensures the local repo at dir exists and is checked out at ref.
	// ref can be a branch, tag, or commit hash. If dir doesn't contain a
	// repo yet, it is initialized first.
	Sync(ctx context.Context, remote, ref, dir string) error

	// Latest returns the remote's current HEAD commit hash.
	Latest(ctx context.Context, remote string) (string, error)
}

// gitVCS implements VCS using the git command-line client found on PATH.
type gitVCS struct {
	git string
}

// NewGitVCS creates a VCS backed by the git CLI.
func NewGitVCS() VCS {
	return &gitVCS{git: "git"}
}

func (g *gitVCS) ensureInit(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); os.IsNotExist(err) {
		return g.run(ctx, dir, "init")
	}
	return nil
}

func (g *gitVCS) Sync(ctx context.Context, remote, ref, dir string) error {
	if err := g.ensureInit(ctx, dir); err != nil {
		return err
	}
	if err := g.fetch(ctx, remote, dir, ref); err != nil {
		return err
	}
	return g.checkout(ctx, dir, "FETCH_HEAD")
}

func (g *gitVCS) fetch(ctx context.Context, remote, dir, ref string) error {
	if err := g.run(ctx, dir, "fetch", "--depth", "1", remote, ref); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	return nil
}

func (g *gitVCS) checkout(ctx context.Context, dir, ref string) error {
	if err := g.run(ctx, dir, "checkout", ref); err != nil {
		return fmt.Errorf("checkout %s: %w", ref, err)
	}
	return nil
}

func (g *gitVCS) Latest(ctx context.Context, remote string) (string, error) {
	output, err := g.output(ctx, "", "ls-remote", remote, "HEAD")
	if err != nil {
		return "", fmt.Errorf("get remote HEAD: %w", err)
	}

	output = strings.TrimSpace(output)
	if output == "" {
		return "", fmt.Errorf("no HEAD found in remote %s", remote)
	}

	// format: <hash>\tHEAD
	parts := strings.Split(output, "\t")
	if len(parts) < 1 {
		return "", fmt.Errorf("invalid ls-remote output")
	}
	return parts[0], nil
}

func (g *gitVCS) run(ctx context.Context, dir string, args ...string) error {
	_, err := g.output(ctx, dir, args...)
	return err
}

func (g *gitVCS) output(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.git, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s", msg)
		}
		return "", err
	}
	return stdout.String(), nil
}
