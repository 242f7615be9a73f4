package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wakarni/zz/internal/mangle"
	"github.com/wakarni/zz/internal/target"
)

// moduleTargets is the (script-object, optional C-object) pair §4.4
// produces for a single module name.
type moduleTargets struct {
	lo *target.Target
	o  *target.Target // nil when the module has no C half
}

// sourceFile returns a plain source-only target.Target for path: no
// Depends, no Build — make() still recurses through it but it never
// produces anything, matching the "source-only input" tie-break described
// by §4.1. owner is attributed so the compile-flag DFS can credit its
// source directory as an include path.
func sourceFile(owner target.Owner, path string) *target.Target {
	return &target.Target{Owner: owner, Dirname: filepath.Dir(path), Basename: filepath.Base(path)}
}

// ModuleTargets returns the memoized module_targets(M) pair for name,
// building it on first reference. The "package" name is a synthetic export
// every descriptor carries implicitly (§3) and has no backing source file;
// it resolves to an empty pair rather than failing the required-source
// check §4.4 applies to real modules.
func (c *Context) ModuleTargets(name string) (moduleTargets, error) {
	if mt, ok := c.moduleCache[name]; ok {
		return mt, nil
	}
	if name == "package" {
		mt := moduleTargets{}
		c.moduleCache[name] = mt
		return mt, nil
	}
	mt, err := c.buildModuleTargets(name)
	if err != nil {
		return moduleTargets{}, err
	}
	c.moduleCache[name] = mt
	return mt, nil
}

func (c *Context) buildModuleTargets(name string) (moduleTargets, error) {
	scriptSrc := filepath.Join(c.srcDir, name+".lua")
	if _, err := os.Stat(scriptSrc); err != nil {
		return moduleTargets{}, fmt.Errorf("engine: %s: module %q: missing required source %s", c.pkg, name, scriptSrc)
	}

	loPath := filepath.Join(c.objDir, name+".lo")
	symbol := mangle.Symbol(c.pkg, name)
	lo := &target.Target{
		Owner:    c,
		Dirname:  filepath.Dir(loPath),
		Basename: filepath.Base(loPath),
		Depends:  []target.Dep{target.DepNode(sourceFile(c, scriptSrc))},
		Build: func(self *target.Target, changed []*target.Target) error {
			return c.engine.Toolchain.CompileScript(scriptSrc, self.Path(), symbol)
		},
	}

	var o *target.Target
	cSrc := filepath.Join(c.srcDir, name+".c")
	if _, err := os.Stat(cSrc); err == nil {
		oPath := filepath.Join(c.objDir, name+".o")
		deps := []target.Dep{target.DepNode(sourceFile(c, cSrc))}
		hSrc := filepath.Join(c.srcDir, name+".h")
		if _, err := os.Stat(hSrc); err == nil {
			deps = append(deps, target.DepNode(sourceFile(c, hSrc)))
		}
		for _, ref := range c.descriptor.Depends[name] {
			deps = append(deps, target.DepRef(ref))
		}
		o = &target.Target{
			Owner:    c,
			Dirname:  filepath.Dir(oPath),
			Basename: filepath.Base(oPath),
			Depends:  deps,
			Build: func(self *target.Target, changed []*target.Target) error {
				cflags, err := collectCflags(self)
				if err != nil {
					return err
				}
				return c.engine.Toolchain.CompileC(cSrc, self.Path(), cflags)
			},
		}
	}

	return moduleTargets{lo: lo, o: o}, nil
}

// collectCflags implements the "walk the dependency graph collecting
// cflags" pattern of §9: an explicit DFS (target.Walk, visiting each target
// once) that adds each owning context's source directory as an include path
// once per context identity, carrying the accumulator as a plain slice
// rather than through any dynamic introspection.
func collectCflags(root *target.Target) ([]string, error) {
	var flags []string
	seenCtx := map[string]bool{}
	err := target.Walk(root.Owner, root.Depends, func(t *target.Target) error {
		if t.Owner != nil {
			id := t.Owner.Identity()
			if !seenCtx[id] {
				seenCtx[id] = true
				flags = append(flags, "-I"+t.Owner.SourceDir())
			}
		}
		flags = append(flags, t.Cflags...)
		return nil
	})
	return flags, err
}
