package engine

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/wakarni/zz/internal/target"
)

// withCwd runs fn with the process working directory set to dir, restoring
// the prior directory on every exit path before any error re-surfaces, per
// §5's scoped working-directory discipline.
func withCwd(dir string, fn func() error) error {
	prev, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := os.Chdir(dir); err != nil {
		return err
	}
	defer os.Chdir(prev)
	return fn()
}

// Build drives the top-level build action (§4.10): when recursive, each
// import is built first, then this context's native targets, then its
// library, then (when apps) each declared application.
func (c *Context) Build(recursive, apps bool) error {
	if recursive {
		for _, imp := range c.descriptor.Imports {
			impCtx, err := c.engine.Context(imp)
			if err != nil {
				return err
			}
			if err := impCtx.Build(true, false); err != nil {
				return err
			}
		}
	}

	return withCwd(c.srcDir, func() error {
		c.engine.Log.Info("build", c.pkg)

		natives, err := c.NativeTargets()
		if err != nil {
			return err
		}
		for _, n := range natives {
			if err := n.Make(false); err != nil {
				return err
			}
		}

		lib, err := c.LibraryTarget()
		if err != nil {
			return err
		}
		if err := lib.Make(false); err != nil {
			return err
		}

		if apps {
			for _, app := range c.descriptor.Apps {
				appTarget, err := c.AppTarget(app)
				if err != nil {
					return err
				}
				if err := appTarget.Make(false); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Install builds recursively with apps, then symlinks every name in
// D.install into the workspace's global bin directory.
func (c *Context) Install() error {
	if err := c.Build(true, true); err != nil {
		return err
	}
	globalBin := c.engine.Layout.GlobalBinDir()
	if err := os.MkdirAll(globalBin, 0o755); err != nil {
		return err
	}
	for _, app := range c.descriptor.Install {
		appTarget, err := c.AppTarget(app)
		if err != nil {
			return err
		}
		linkPath := filepath.Join(globalBin, app)
		os.Remove(linkPath)
		c.engine.Log.Info("install", linkPath)
		if err := os.Symlink(appTarget.Path(), linkPath); err != nil {
			return err
		}
	}
	return nil
}

// Run implements §4.10's run(path): path must canonicalize to somewhere
// beneath this context's srcdir, or the action is a fatal error (§8
// scenario 6).
func (c *Context) Run(path string, args []string) error {
	real, err := c.realpathInSrcDir(path)
	if err != nil {
		return err
	}

	frag := mountsPrelude(c) + fmt.Sprintf("zz_run_script(%q)\n", real)
	cObj, scriptObj, err := c.bootstrap("_run", frag)
	if err != nil {
		return err
	}
	ls, err := c.LinkSet()
	if err != nil {
		return err
	}

	runPath := filepath.Join(c.tmpDir, "_run")
	runTarget := &target.Target{
		Owner:    c,
		Dirname:  filepath.Dir(runPath),
		Basename: filepath.Base(runPath),
		Depends:  append(depNodes(ls.targets), target.DepNode(cObj), target.DepNode(scriptObj)),
		Build: func(self *target.Target, changed []*target.Target) error {
			return c.engine.Toolchain.Link(self.Path(), []string{cObj.Path(), scriptObj.Path()}, libPaths(ls.targets), ls.ldflags)
		},
	}
	if err := runTarget.Make(false); err != nil {
		return err
	}
	return execForward(runPath, args)
}

// realpathInSrcDir canonicalizes path and rejects it unless it lies
// beneath c.srcDir.
func (c *Context) realpathInSrcDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("engine: run: %s: %w", path, err)
	}
	srcReal, err := filepath.EvalSymlinks(c.srcDir)
	if err != nil {
		srcReal = c.srcDir
	}
	rel, err := filepath.Rel(srcReal, real)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("engine: run: %s does not lie beneath %s", path, c.srcDir)
	}
	return real, nil
}

// Test implements §4.10's test(names): build recursively without apps,
// resolve each test name (defaulting to every *_test.* file under srcdir),
// build a _test executable, and exec it with the resolved paths.
func (c *Context) Test(names []string) error {
	if err := c.Build(true, false); err != nil {
		return err
	}

	resolved, err := c.resolveTestNames(names)
	if err != nil {
		return err
	}

	frag := mountsPrelude(c) + "zz_run_tests()\n"
	cObj, scriptObj, err := c.bootstrap("_test", frag)
	if err != nil {
		return err
	}
	ls, err := c.LinkSet()
	if err != nil {
		return err
	}

	testPath := filepath.Join(c.tmpDir, "_test")
	testTarget := &target.Target{
		Owner:    c,
		Dirname:  filepath.Dir(testPath),
		Basename: filepath.Base(testPath),
		Depends:  append(depNodes(ls.targets), target.DepNode(cObj), target.DepNode(scriptObj)),
		Build: func(self *target.Target, changed []*target.Target) error {
			return c.engine.Toolchain.Link(self.Path(), []string{cObj.Path(), scriptObj.Path()}, libPaths(ls.targets), ls.ldflags)
		},
	}
	if err := testTarget.Make(false); err != nil {
		return err
	}
	return execForward(testPath, resolved)
}

func (c *Context) resolveTestNames(names []string) ([]string, error) {
	if len(names) == 0 {
		matches, err := filepath.Glob(filepath.Join(c.srcDir, "*_test.*"))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			base := filepath.Base(m)
			names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
		}
	}
	resolved := make([]string, 0, len(names))
	for _, n := range names {
		if !strings.HasSuffix(n, "_test") {
			n += "_test"
		}
		resolved = append(resolved, filepath.Join(c.srcDir, n+".lua"))
	}
	return resolved, nil
}

// Clean removes obj/lib/tmp for this package.
func (c *Context) Clean() error {
	for _, dir := range []string{c.objDir, c.libDir, c.tmpDir} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return nil
}

// Distclean is Clean plus removing bin, the native staging directory, and
// any global-bin symlink whose target lies beneath this package's bindir.
func (c *Context) Distclean() error {
	if err := c.Clean(); err != nil {
		return err
	}
	if err := os.RemoveAll(c.binDir); err != nil {
		return err
	}
	if err := os.RemoveAll(c.nativeDir); err != nil {
		return err
	}

	globalBin := c.engine.Layout.GlobalBinDir()
	entries, err := os.ReadDir(globalBin)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		linkPath := filepath.Join(globalBin, e.Name())
		info, err := os.Lstat(linkPath)
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			continue
		}
		dest, err := os.Readlink(linkPath)
		if err != nil {
			continue
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(globalBin, dest)
		}
		rel, err := filepath.Rel(c.binDir, dest)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			os.Remove(linkPath)
		}
	}
	return nil
}

func depNodes(targets []*target.Target) []target.Dep {
	deps := make([]target.Dep, 0, len(targets))
	for _, t := range targets {
		deps = append(deps, target.DepNode(t))
	}
	return deps
}

func execForward(path string, args []string) error {
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}
