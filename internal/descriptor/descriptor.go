// Package descriptor loads and parses a package's package.lua declaration
// into the in-memory Descriptor record, filling the defaults spec.md §3
// requires (an implicit core import, an implicit "package" export).
package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
)

// CorePackage is the distinguished package implicitly imported by every
// other package, and that supplies the bootstrap templates.
const CorePackage = "zz/core"

// FileName is the literal descriptor file name every package source tree
// must contain.
const FileName = "package.lua"

// NativeCall is a literal call expression naming a native-prerequisite
// factory and its string arguments, e.g. native.pkgconfig("z"). It is not
// evaluated here — evaluating it against a registry of built-in factories is
// the build context's job (see internal/engine).
type NativeCall struct {
	Factory string
	Args    []string
}

// Descriptor is the parsed representation of a package.lua record.
type Descriptor struct {
	Package string
	Libname string
	Imports []string
	Native  map[string]NativeCall
	Exports []string
	Depends map[string][]string
	Mounts  map[string]string
	Apps    []string
	Install []string
	LDFlags []string
}

// applyDefaults fills in the defaults spec.md §3 requires.
func (d *Descriptor) applyDefaults() {
	if d.Libname == "" {
		d.Libname = filepath.Base(d.Package)
	}
	if d.Package != CorePackage && !contains(d.Imports, CorePackage) {
		d.Imports = append(d.Imports, CorePackage)
	}
	if !contains(d.Exports, "package") {
		d.Exports = append(d.Exports, "package")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Load reads and parses the package.lua for pkg, located at
// srcDir/package.lua. It is fatal (per spec.md §4.2) if the file is missing,
// malformed, or lacks a package field.
func Load(pkg, srcDir string) (*Descriptor, error) {
	path := filepath.Join(srcDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("descriptor: %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("descriptor: %s: %w", path, err)
	}
	if d.Package == "" {
		return nil, fmt.Errorf("descriptor: %s: missing required field %q", path, "package")
	}
	if pkg != "current" && d.Package != pkg {
		return nil, fmt.Errorf("descriptor: %s: declares package %q, expected %q", path, d.Package, pkg)
	}
	d.applyDefaults()
	return d, nil
}

// FindCurrent walks upward from dir until it finds a package.lua, per the
// "current" package sentinel of spec.md §4.2.
func FindCurrent(dir string) (srcDir string, err error) {
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("descriptor: no %s found above %s", FileName, dir)
		}
		dir = parent
	}
}
