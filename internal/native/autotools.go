package native

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/wakarni/zz/internal/target"
)

// Autotools drives a ./configure && make && make install sequence against
// ctx's source directory and stages the result beneath ctx's native staging
// area. The call's first argument is the archive file name to produce
// (e.g. "libz.a"); any remaining arguments are passed to configure.
func Autotools(ctx Context, args []string) (*target.Target, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("native: autotools requires an archive name as its first argument")
	}
	libName, configureArgs := args[0], args[1:]

	buildDir := filepath.Join(ctx.StagingDir(), "autotools", "build")
	installDir := filepath.Join(ctx.StagingDir(), "autotools", "install")
	libDir := filepath.Join(installDir, "lib")

	t := &target.Target{
		Dirname:  libDir,
		Basename: libName,
		Cflags:   []string{"-I" + filepath.Join(installDir, "include")},
		Ldflags:  []string{"-L" + libDir},
	}
	t.Build = func(self *target.Target, changed []*target.Target) error {
		if err := os.MkdirAll(buildDir, 0o755); err != nil {
			return err
		}
		configure := filepath.Join(ctx.SourceDir(), "configure")
		confArgs := append([]string{"--prefix=" + installDir}, configureArgs...)
		if err := runIn(buildDir, configure, confArgs...); err != nil {
			return err
		}
		if err := runIn(buildDir, "make"); err != nil {
			return err
		}
		return runIn(buildDir, "make", "install")
	}
	return t, nil
}

func runIn(dir, bin string, args ...string) error {
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
