// Package target implements the incremental build-graph node at the heart
// of the build engine: an optional output path, an ordered list of
// dependencies (resolved eagerly or by name against an owning context), and
// an optional build closure that runs when the node's output is stale.
package target

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Owner is the subset of a build context a Target needs: resolving a
// dependency named by reference, and contributing to compile-flag discovery.
type Owner interface {
	// Resolve looks up a named target, per the resolver described by the
	// build context (own registry, then imports in order).
	Resolve(name string) (*Target, error)
	// Identity uniquely identifies the owning context, used to deduplicate
	// include-path contributions during compile-flag discovery.
	Identity() string
	// SourceDir is the owning context's source directory.
	SourceDir() string
}

// BuildFunc mutates the filesystem to (re)produce self.Path(). changed is
// the subset of deps whose mtime is newer than self's previous mtime.
type BuildFunc func(self *Target, changed []*Target) error

// Dep is either a concrete Target node or a string reference resolved
// against the owning context at build time.
type Dep struct {
	node *Target
	ref  string
}

// DepNode wraps an already-constructed Target as a dependency.
func DepNode(t *Target) Dep { return Dep{node: t} }

// DepRef names a dependency to be resolved against the owning context.
func DepRef(name string) Dep { return Dep{ref: name} }

// Resolve returns the concrete Target this dependency names.
func (d Dep) Resolve(owner Owner) (*Target, error) {
	if d.node != nil {
		return d.node, nil
	}
	if owner == nil {
		return nil, fmt.Errorf("target: reference %q has no owning context to resolve against", d.ref)
	}
	return owner.Resolve(d.ref)
}

// Target is a node in the build graph.
type Target struct {
	Owner    Owner
	Dirname  string
	Basename string
	Depends  []Dep
	Build    BuildFunc

	// Cflags are include/define flags this specific target contributes to
	// dependents during compile-flag discovery (e.g. a native prerequisite's
	// pkg-config output). Ldflags analogously contribute link-time flags.
	Cflags  []string
	Ldflags []string

	// Always forces Build to run on every Make regardless of staleness. It
	// exists for nodes like the generated bootstrap sources, whose logical
	// inputs (argument lists, mount tables) aren't file-backed and so can
	// never be detected as "changed" by mtime comparison alone.
	Always bool

	once    sync.Once
	makeErr error
}

// Path joins Dirname and Basename, or "" if neither is set.
func (t *Target) Path() string {
	if t.Dirname == "" && t.Basename == "" {
		return ""
	}
	return filepath.Join(t.Dirname, t.Basename)
}

// Mtime returns the modification time of Path(), or the zero Time — the
// sentinel "-infinity" — if there is no path or the file does not exist.
func (t *Target) Mtime() time.Time {
	path := t.Path()
	if path == "" {
		return time.Time{}
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// Make performs the post-order DAG walk described by the incremental
// rebuild algorithm: dependencies are made first, and Build runs only if the
// node is stale (its output is missing, or older than its newest
// dependency), or force is set, and a Build closure is attached. Make is
// idempotent per Target for the lifetime of the process — a node reachable
// from more than one path is only ever built once per invocation.
func (t *Target) Make(force bool) error {
	t.once.Do(func() {
		t.makeErr = t.make(force)
	})
	return t.makeErr
}

func (t *Target) make(force bool) error {
	selfMtime := t.Mtime()
	var maxDepMtime time.Time
	var changed []*Target

	for _, dep := range t.Depends {
		d, err := dep.Resolve(t.Owner)
		if err != nil {
			return err
		}
		if err := d.Make(force); err != nil {
			return err
		}
		dm := d.Mtime()
		if dm.After(selfMtime) {
			changed = append(changed, d)
		}
		if dm.After(maxDepMtime) {
			maxDepMtime = dm
		}
	}

	if t.Build == nil {
		return nil
	}
	if !force && !t.Always && !selfMtime.IsZero() && !selfMtime.Before(maxDepMtime) {
		return nil
	}

	if t.Dirname != "" {
		if err := os.MkdirAll(t.Dirname, 0o755); err != nil {
			return err
		}
	}
	if err := t.Build(t, changed); err != nil {
		return err
	}
	// A Build that wrote no file (an archive with no members) leaves
	// nothing to touch.
	if path := t.Path(); path != "" {
		now := time.Now()
		if err := os.Chtimes(path, now, now); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Walk performs an explicit DFS over the dependency graph reachable from
// roots, visiting each resolved Target exactly once (deduplicated by
// pointer identity), and calls visit for each before descending into its
// dependencies. It is used to implement the compile-flag discovery pattern,
// which must accumulate state across the whole reachable graph without
// recursing through a prototype chain.
func Walk(owner Owner, roots []Dep, visit func(*Target) error) error {
	seen := make(map[*Target]bool)
	var walk func(deps []Dep, resolveAgainst Owner) error
	walk = func(deps []Dep, resolveAgainst Owner) error {
		for _, dep := range deps {
			d, err := dep.Resolve(resolveAgainst)
			if err != nil {
				return err
			}
			if seen[d] {
				continue
			}
			seen[d] = true
			if err := visit(d); err != nil {
				return err
			}
			if err := walk(d.Depends, d.Owner); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(roots, owner)
}
