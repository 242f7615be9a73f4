// Package toolchain invokes the external compilers, archiver, and linker
// the build engine drives as synchronous subprocess steps: the
// script-to-bytecode compiler, the C compiler, ar, and the linker.
package toolchain

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Toolchain names the external tools invoked during a build. Default fills
// every field with the conventional name found on PATH; tests and exotic
// platforms can set other names.
type Toolchain struct {
	ScriptCompiler string // compiles a .lua source into a bytecode object
	CC             string // C compiler / linker frontend
	Archiver       string // ar
}

// Default returns a Toolchain using the conventional tool names.
func Default() Toolchain {
	return Toolchain{
		ScriptCompiler: "zzc",
		CC:             "cc",
		Archiver:       "ar",
	}
}

func run(dir, bin string, args ...string) error {
	cmd := exec.Command(bin, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stderr bytes.Buffer
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s %s: %s", bin, strings.Join(args, " "), msg)
		}
		return fmt.Errorf("%s %s: %w", bin, strings.Join(args, " "), err)
	}
	return nil
}

// CompileScript compiles a script source into a bytecode object file,
// registering the compiled chunk under the mangled loader symbol.
func (tc Toolchain) CompileScript(src, out, symbol string) error {
	return run("", tc.ScriptCompiler, "-o", out, "-s", symbol, src)
}

// CompileC compiles a single C translation unit to an object file, with the
// given include/define flags collected by the compile-flag DFS.
func (tc Toolchain) CompileC(src, out string, cflags []string) error {
	args := append([]string{"-c", "-o", out}, cflags...)
	args = append(args, src)
	return run("", tc.CC, args...)
}

// Archive runs `ar rsc`, replacing only the changed members so untouched
// archive members are preserved across incremental builds.
func (tc Toolchain) Archive(archive string, members []string) error {
	if len(members) == 0 {
		return nil
	}
	args := append([]string{"rsc", archive}, members...)
	return run("", tc.Archiver, args...)
}

// Link produces an executable from a set of objects, static libraries, and
// raw link flags. Every archive member is forced into the image regardless
// of whether the linker thinks it is referenced, because the script runtime
// resolves loader symbols by name at run time rather than through the
// normal symbol-reference graph; symbols remain exported so the runtime can
// look modules up by their mangled name.
func (tc Toolchain) Link(out string, objects []string, libs []string, ldflags []string) error {
	args := []string{"-o", out}
	args = append(args, objects...)
	args = append(args, wholeArchiveFlags(libs)...)
	args = append(args, "-rdynamic")
	args = append(args, ldflags...)
	return run("", tc.CC, args...)
}

// wholeArchiveFlags wraps static libraries with the linker flag that forces
// every member object into the output image, platform-appropriately.
func wholeArchiveFlags(libs []string) []string {
	if len(libs) == 0 {
		return nil
	}
	if runtime.GOOS == "darwin" {
		args := make([]string, 0, len(libs))
		for _, lib := range libs {
			args = append(args, "-Wl,-force_load,"+lib)
		}
		return args
	}
	args := []string{"-Wl,--whole-archive"}
	args = append(args, libs...)
	args = append(args, "-Wl,--no-whole-archive")
	return args
}
