// Package workspace computes the canonical directory layout for a package
// rooted under a workspace: src/obj/lib/bin/tmp, plus the shared global bin.
package workspace

import "path/filepath"

// Layout resolves per-package directories beneath a single workspace root.
type Layout struct {
	Root string
}

// New returns a Layout rooted at root.
func New(root string) Layout {
	return Layout{Root: root}
}

// SrcDir is the source tree for pkg: $ROOT/src/<pkg>.
func (l Layout) SrcDir(pkg string) string {
	return filepath.Join(l.Root, "src", pkg)
}

// NativeDir is the native-prerequisite staging area beneath the source tree.
func (l Layout) NativeDir(pkg string) string {
	return filepath.Join(l.SrcDir(pkg), "native")
}

// ObjDir holds pkg's compiled object files (.o, .lo).
func (l Layout) ObjDir(pkg string) string {
	return filepath.Join(l.Root, "obj", pkg)
}

// LibDir holds pkg's archive and native libraries.
func (l Layout) LibDir(pkg string) string {
	return filepath.Join(l.Root, "lib", pkg)
}

// TmpDir holds pkg's generated bootstrap sources.
func (l Layout) TmpDir(pkg string) string {
	return filepath.Join(l.Root, "tmp", pkg)
}

// BinDir holds pkg's built executables.
func (l Layout) BinDir(pkg string) string {
	return filepath.Join(l.Root, "bin", pkg)
}

// GlobalBinDir is the workspace-wide executable directory that install
// populates with symlinks.
func (l Layout) GlobalBinDir() string {
	return filepath.Join(l.Root, "bin")
}
