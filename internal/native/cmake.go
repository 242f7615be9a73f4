package native

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wakarni/zz/internal/target"
)

// CMake drives a cmake -S/-B configure-build-install sequence against ctx's
// source directory. The call's first argument is the archive file name to
// produce (e.g. "libfoo.a"); any remaining arguments are passed to the
// configure step as additional -D defines.
func CMake(ctx Context, args []string) (*target.Target, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("native: cmake requires an archive name as its first argument")
	}
	libName, defines := args[0], args[1:]

	buildDir := filepath.Join(ctx.StagingDir(), "cmake", "build")
	installDir := filepath.Join(ctx.StagingDir(), "cmake", "install")
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
		configArgs := []string{
			"-S", ctx.SourceDir(),
			"-B", buildDir,
			"-DCMAKE_INSTALL_PREFIX=" + installDir,
		}
		for _, d := range defines {
			configArgs = append(configArgs, "-D"+d)
		}
		if err := runIn(buildDir, "cmake", configArgs...); err != nil {
			return err
		}
		if err := runIn(buildDir, "cmake", "--build", buildDir); err != nil {
			return err
		}
		return runIn(buildDir, "cmake", "--install", buildDir)
	}
	return t, nil
}
