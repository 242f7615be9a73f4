package engine

import (
	"fmt"

	"github.com/wakarni/zz/internal/descriptor"
	"github.com/wakarni/zz/internal/target"
)

// Context is the per-package build context (§3's C(P)): the descriptor,
// derived workspace directories, and the named-target registry. It is the
// target.Owner every target node constructed for this package points back
// to for reference resolution and compile-flag discovery.
type Context struct {
	engine     *Engine
	pkg        string
	descriptor *descriptor.Descriptor

	srcDir, nativeDir, objDir, libDir, tmpDir, binDir string

	registry map[string]*target.Target

	moduleCache map[string]moduleTargets

	nativeTargets []*target.Target
	nativeBuilt   bool

	library    *target.Target
	libraryErr error
	libraryHas bool

	link    linkSet
	linkErr error
	linkHas bool

	appTargets map[string]*target.Target
}

func newContext(e *Engine, pkg string) (*Context, error) {
	srcDir := e.Layout.SrcDir(pkg)
	d, err := descriptor.Load(pkg, srcDir)
	if err != nil {
		return nil, err
	}
	return buildContext(e, pkg, srcDir, d), nil
}

func newContextFromDir(e *Engine, dir string) (*Context, error) {
	srcDir, err := descriptor.FindCurrent(dir)
	if err != nil {
		return nil, err
	}
	d, err := descriptor.Load("current", srcDir)
	if err != nil {
		return nil, err
	}
	if c, ok := e.contexts[d.Package]; ok {
		return c, nil
	}
	c := buildContext(e, d.Package, srcDir, d)
	e.contexts[d.Package] = c
	return c, nil
}

func buildContext(e *Engine, pkg, srcDir string, d *descriptor.Descriptor) *Context {
	return &Context{
		engine:      e,
		pkg:         pkg,
		descriptor:  d,
		srcDir:      srcDir,
		nativeDir:   e.Layout.NativeDir(pkg),
		objDir:      e.Layout.ObjDir(pkg),
		libDir:      e.Layout.LibDir(pkg),
		tmpDir:      e.Layout.TmpDir(pkg),
		binDir:      e.Layout.BinDir(pkg),
		registry:    map[string]*target.Target{},
		moduleCache: map[string]moduleTargets{},
		appTargets:  map[string]*target.Target{},
	}
}

// Identity implements target.Owner: the package identifier uniquely
// identifies a context for compile-flag include-path deduplication.
func (c *Context) Identity() string { return c.pkg }

// SourceDir implements target.Owner.
func (c *Context) SourceDir() string { return c.srcDir }

// StagingDir implements native.Context: where this package's native
// prerequisites are built and installed.
func (c *Context) StagingDir() string { return c.nativeDir }

// Set registers t under name in this context's named-target registry. Per
// §3 the registry is write-once per name; re-registering the same name with
// a different target is a logic error and fatal.
func (c *Context) Set(name string, t *target.Target) error {
	if existing, ok := c.registry[name]; ok {
		if existing == t {
			return nil
		}
		return fmt.Errorf("engine: %s: target %q already registered", c.pkg, name)
	}
	c.registry[name] = t
	return nil
}

// Get looks up name in this context's own registry only (no import
// fallback); used internally and by Resolve.
func (c *Context) Get(name string) (*target.Target, bool) {
	t, ok := c.registry[name]
	return t, ok
}

// Resolve implements target.Owner and §4.3's resolution order: the
// context's own registry, then each import's registry in declared order.
// Resolution does not recurse past direct imports.
func (c *Context) Resolve(name string) (*target.Target, error) {
	if t, ok := c.Get(name); ok {
		return t, nil
	}
	for _, imp := range c.descriptor.Imports {
		impCtx, err := c.engine.Context(imp)
		if err != nil {
			return nil, err
		}
		// Materializing native/library targets is what actually populates
		// an import's registry; a reference may name one before anything
		// else has asked that import to build itself.
		if _, err := impCtx.NativeTargets(); err != nil {
			return nil, err
		}
		if _, err := impCtx.LibraryTarget(); err != nil {
			return nil, err
		}
		if t, ok := impCtx.Get(name); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("engine: %s: unresolved target reference %q", c.pkg, name)
}
