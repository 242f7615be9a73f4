package native

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/wakarni/zz/internal/target"
)

// PkgConfig resolves one or more system libraries via the pkg-config CLI
// and exposes the results as a target's Cflags/Ldflags. It has no Path and
// no Build step: pkg-config output isn't an artifact this build owns, so
// there is nothing to stage or to stay "up to date" against.
func PkgConfig(_ Context, args []string) (*target.Target, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("native: pkgconfig requires at least one library name")
	}
	cflags, err := pkgConfigOutput("--cflags", args)
	if err != nil {
		return nil, err
	}
	ldflags, err := pkgConfigOutput("--libs", args)
	if err != nil {
		return nil, err
	}
	return &target.Target{Cflags: cflags, Ldflags: ldflags}, nil
}

func pkgConfigOutput(flag string, libs []string) ([]string, error) {
	cmdArgs := append([]string{flag}, libs...)
	out, err := exec.Command("pkg-config", cmdArgs...).Output()
	if err != nil {
		return nil, fmt.Errorf("native: pkg-config %s %s: %w", flag, strings.Join(libs, " "), err)
	}
	return strings.Fields(string(out)), nil
}
