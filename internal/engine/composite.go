package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wakarni/zz/internal/descriptor"
	"github.com/wakarni/zz/internal/mangle"
	"github.com/wakarni/zz/internal/target"
)

// NativeTargets materializes and memoizes D.native's factories (§4.6),
// registering each top-level target under "lib<L>.a" so it can be resolved
// as a target reference, e.g. from a module's depends entry.
func (c *Context) NativeTargets() ([]*target.Target, error) {
	if c.nativeBuilt {
		return c.nativeTargets, nil
	}
	names := make([]string, 0, len(c.descriptor.Native))
	for l := range c.descriptor.Native {
		names = append(names, l)
	}
	sort.Strings(names)

	targets := make([]*target.Target, 0, len(names))
	for _, l := range names {
		call := c.descriptor.Native[l]
		factory, ok := c.engine.Native.Lookup(call.Factory)
		if !ok {
			return nil, fmt.Errorf("engine: %s: unknown native factory %q for %q", c.pkg, call.Factory, l)
		}
		t, err := factory(c, call.Args)
		if err != nil {
			return nil, fmt.Errorf("engine: %s: native %q: %w", c.pkg, l, err)
		}
		t.Owner = c
		name := "lib" + l + ".a"
		if err := c.Set(name, t); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	c.nativeTargets = targets
	c.nativeBuilt = true
	return targets, nil
}

func isRealExport(name string) bool { return name != "package" }

// LibraryTarget builds and memoizes the per-package archive (§4.5).
func (c *Context) LibraryTarget() (*target.Target, error) {
	if c.libraryHas {
		return c.library, c.libraryErr
	}
	c.libraryHas = true
	c.library, c.libraryErr = c.buildLibraryTarget()
	return c.library, c.libraryErr
}

func (c *Context) buildLibraryTarget() (*target.Target, error) {
	archiveName := "lib" + c.descriptor.Libname + ".a"
	archivePath := filepath.Join(c.libDir, archiveName)

	var deps []target.Dep
	for _, m := range c.descriptor.Exports {
		if !isRealExport(m) {
			continue
		}
		mt, err := c.ModuleTargets(m)
		if err != nil {
			return nil, err
		}
		deps = append(deps, target.DepNode(mt.lo))
		if mt.o != nil {
			deps = append(deps, target.DepNode(mt.o))
		}
	}

	lib := &target.Target{
		Owner:    c,
		Dirname:  filepath.Dir(archivePath),
		Basename: filepath.Base(archivePath),
		Depends:  deps,
		Build: func(self *target.Target, changed []*target.Target) error {
			members := make([]string, 0, len(changed))
			for _, d := range changed {
				if p := d.Path(); p != "" {
					members = append(members, p)
				}
			}
			return c.engine.Toolchain.Archive(self.Path(), members)
		},
	}
	if err := c.Set(archiveName, lib); err != nil {
		return nil, err
	}
	return lib, nil
}

// linkSet is the concatenation §4.7 describes: every reachable context's
// library followed by its native targets, plus the matching ldflags, in
// the same import-walk order. Both halves share one DFS since they use the
// identical cycle-safe visitation order.
type linkSet struct {
	targets []*target.Target
	ldflags []string
}

// LinkSet returns the memoized link set rooted at this context.
func (c *Context) LinkSet() (linkSet, error) {
	if c.linkHas {
		return c.link, c.linkErr
	}
	c.linkHas = true
	c.link, c.linkErr = c.buildLinkSet()
	return c.link, c.linkErr
}

func (c *Context) buildLinkSet() (linkSet, error) {
	var ls linkSet
	visited := map[string]bool{}
	var walk func(ctx *Context) error
	walk = func(ctx *Context) error {
		if visited[ctx.pkg] {
			return nil
		}
		visited[ctx.pkg] = true

		lib, err := ctx.LibraryTarget()
		if err != nil {
			return err
		}
		natives, err := ctx.NativeTargets()
		if err != nil {
			return err
		}
		ls.targets = append(ls.targets, lib)
		ls.targets = append(ls.targets, natives...)
		ls.ldflags = append(ls.ldflags, ctx.descriptor.LDFlags...)
		ls.ldflags = append(ls.ldflags, lib.Ldflags...)
		for _, n := range natives {
			ls.ldflags = append(ls.ldflags, n.Ldflags...)
		}

		for _, imp := range ctx.descriptor.Imports {
			impCtx, err := ctx.engine.Context(imp)
			if err != nil {
				return err
			}
			if err := walk(impCtx); err != nil {
				return err
			}
		}
		return nil
	}
	err := walk(c)
	return ls, err
}

// libPaths returns the on-disk archive paths among targets, skipping any
// target with no Path (a native prerequisite contributing only flags) and
// any whose archive was never produced (a library target with no real
// exported module hands the archiver no members, so no file is written —
// see buildLibraryTarget) rather than handing the linker a path that does
// not exist.
func libPaths(targets []*target.Target) []string {
	paths := make([]string, 0, len(targets))
	for _, t := range targets {
		p := t.Path()
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

// mountsPrelude emits the virtual-filesystem mount statements §4.8
// describes, sorted by mount point for deterministic byte-identical output
// across builds (package.lua's table form does not itself guarantee an
// iteration order worth preserving).
func mountsPrelude(c *Context) string {
	if len(c.descriptor.Mounts) == 0 {
		return ""
	}
	points := make([]string, 0, len(c.descriptor.Mounts))
	for p := range c.descriptor.Mounts {
		points = append(points, p)
	}
	sort.Strings(points)

	var b strings.Builder
	for _, point := range points {
		src := filepath.Join(c.srcDir, c.descriptor.Mounts[point])
		fmt.Fprintf(&b, "zz_mount(%q, %q)\n", point, src)
	}
	return b.String()
}

// bootstrap generates and compiles the pair of files §4.8 describes for one
// output flavor: a verbatim copy of the core package's C template, and a
// synthesized script beginning with the package/core-package header,
// followed by the core package's script template, followed by fragment.
// Both generated files and their compiled objects always rebuild (Always),
// the deliberate exception to incremental rebuild §9 calls out: their real
// inputs (argument lists, mount tables) aren't file-backed.
func (c *Context) bootstrap(name, fragment string) (cObj, scriptObj *target.Target, err error) {
	core := c
	if c.pkg != descriptor.CorePackage {
		core, err = c.engine.Context(descriptor.CorePackage)
		if err != nil {
			return nil, nil, err
		}
	}
	tplC := filepath.Join(core.srcDir, "_main.tpl.c")
	tplLua := filepath.Join(core.srcDir, "_main.tpl.lua")

	genC := &target.Target{
		Owner:    c,
		Dirname:  c.tmpDir,
		Basename: name + ".c",
		Always:   true,
		Build: func(self *target.Target, changed []*target.Target) error {
			data, err := os.ReadFile(tplC)
			if err != nil {
				return fmt.Errorf("engine: %s: reading bootstrap template: %w", c.pkg, err)
			}
			return os.WriteFile(self.Path(), data, 0o644)
		},
	}
	genLua := &target.Target{
		Owner:    c,
		Dirname:  c.tmpDir,
		Basename: name + ".lua",
		Always:   true,
		Build: func(self *target.Target, changed []*target.Target) error {
			tplData, err := os.ReadFile(tplLua)
			if err != nil {
				return fmt.Errorf("engine: %s: reading bootstrap template: %w", c.pkg, err)
			}
			var b strings.Builder
			fmt.Fprintf(&b, "ZZ_PACKAGE = %q\n", c.pkg)
			fmt.Fprintf(&b, "ZZ_CORE_PACKAGE = %q\n", descriptor.CorePackage)
			b.Write(tplData)
			b.WriteString(fragment)
			return os.WriteFile(self.Path(), []byte(b.String()), 0o644)
		},
	}

	cObj = &target.Target{
		Owner:    c,
		Dirname:  c.tmpDir,
		Basename: name + ".o",
		Depends:  []target.Dep{target.DepNode(genC)},
		Always:   true,
		Build: func(self *target.Target, changed []*target.Target) error {
			return c.engine.Toolchain.CompileC(genC.Path(), self.Path(), nil)
		},
	}
	scriptObj = &target.Target{
		Owner:    c,
		Dirname:  c.tmpDir,
		Basename: name + ".lo",
		Depends:  []target.Dep{target.DepNode(genLua)},
		Always:   true,
		Build: func(self *target.Target, changed []*target.Target) error {
			return c.engine.Toolchain.CompileScript(genLua.Path(), self.Path(), "_main")
		},
	}
	return cObj, scriptObj, nil
}

// AppTarget builds and memoizes the application executable for appname
// (§4.9).
func (c *Context) AppTarget(appname string) (*target.Target, error) {
	if t, ok := c.appTargets[appname]; ok {
		return t, nil
	}
	t, err := c.buildAppTarget(appname)
	if err != nil {
		return nil, err
	}
	c.appTargets[appname] = t
	return t, nil
}

func (c *Context) buildAppTarget(appname string) (*target.Target, error) {
	var extra moduleTargets
	needsOwnModule := !contains(c.descriptor.Exports, appname)
	if needsOwnModule {
		var err error
		extra, err = c.ModuleTargets(appname)
		if err != nil {
			return nil, err
		}
	}

	ls, err := c.LinkSet()
	if err != nil {
		return nil, err
	}

	symbol := mangle.Symbol(c.pkg, appname)
	frag := mountsPrelude(c) + fmt.Sprintf("zz_run_module(%q)\n", symbol)
	cObj, scriptObj, err := c.bootstrap(appname+"_main", frag)
	if err != nil {
		return nil, err
	}

	var deps []target.Dep
	for _, t := range ls.targets {
		deps = append(deps, target.DepNode(t))
	}
	if needsOwnModule {
		deps = append(deps, target.DepNode(extra.lo))
		if extra.o != nil {
			deps = append(deps, target.DepNode(extra.o))
		}
	}
	deps = append(deps, target.DepNode(cObj), target.DepNode(scriptObj))

	appPath := filepath.Join(c.binDir, appname)
	app := &target.Target{
		Owner:    c,
		Dirname:  filepath.Dir(appPath),
		Basename: filepath.Base(appPath),
		Depends:  deps,
		Build: func(self *target.Target, changed []*target.Target) error {
			objs := []string{cObj.Path(), scriptObj.Path()}
			if needsOwnModule {
				objs = append(objs, extra.lo.Path())
				if extra.o != nil {
					objs = append(objs, extra.o.Path())
				}
			}
			return c.engine.Toolchain.Link(self.Path(), objs, libPaths(ls.targets), ls.ldflags)
		},
	}
	return app, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
