// Package native turns the call-expression literals a package.lua's native
// field names (e.g. native.pkgconfig("z")) into real target.Target nodes,
// the idiomatic-Go stand-in for what the literal grammar's closures would be
// in a scripting-language implementation: a Go-side registry of real
// closures, injected by the command-line driver, consulted by the build
// context when it materializes a package's native prerequisites.
package native

import "github.com/wakarni/zz/internal/target"

// Context is the subset of a build context a Factory needs: where the
// package's sources live, and where its native staging area is.
type Context interface {
	SourceDir() string
	StagingDir() string
}

// Factory builds the target(s) that produce libL.a for native prerequisite
// L, given the call's arguments. Per spec.md §4.6 the returned target may
// carry Cflags/Ldflags so dependents inherit them automatically.
type Factory func(ctx Context, args []string) (*target.Target, error)

// Registry maps a factory's dotted name (as it appears in package.lua, e.g.
// "native.pkgconfig") to its Go implementation.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register installs a factory under name, overwriting any previous one.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Lookup returns the factory registered under name, if any.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Default returns a registry pre-populated with the built-in factories:
// pkg-config lookups, and the Autotools and CMake build-system wrappers.
func Default() *Registry {
	r := NewRegistry()
	r.Register("native.pkgconfig", PkgConfig)
	r.Register("native.autotools", Autotools)
	r.Register("native.cmake", CMake)
	return r
}
