// Package engine is the build driver: it owns the process-wide cache of
// build contexts and drives the build/install/run/test/clean actions the
// workspace layout's external contract describes. It is the idiomatic-Go
// replacement for a global module-level workspace path, quiet flag, and
// context cache — threaded explicitly through an Engine value created once
// at startup, rather than living as package-level state.
package engine

import (
	"fmt"

	"github.com/wakarni/zz/internal/native"
	"github.com/wakarni/zz/internal/toolchain"
	"github.com/wakarni/zz/internal/workspace"
)

// Engine is the top-level object the command-line driver creates once and
// threads through every action. Contexts hold a back-reference to it.
type Engine struct {
	Layout    workspace.Layout
	Toolchain toolchain.Toolchain
	Native    *native.Registry
	Log       *Logger

	contexts map[string]*Context
}

// New returns an Engine ready to build against layout. A nil registry or
// log falls back to the default native-factory set and a non-quiet logger.
func New(layout workspace.Layout, tc toolchain.Toolchain, registry *native.Registry, log *Logger) *Engine {
	if registry == nil {
		registry = native.Default()
	}
	if log == nil {
		log = NewLogger(false)
	}
	return &Engine{
		Layout:    layout,
		Toolchain: tc,
		Native:    registry,
		Log:       log,
		contexts:  map[string]*Context{},
	}
}

// Context returns the build context for pkg, creating and caching it on
// first reference. The cache is written only on a miss, mirroring the
// lazy sync.Once-guarded initialization the source front end uses when
// materializing a single repository on demand.
func (e *Engine) Context(pkg string) (*Context, error) {
	if c, ok := e.contexts[pkg]; ok {
		return c, nil
	}
	c, err := newContext(e, pkg)
	if err != nil {
		return nil, fmt.Errorf("engine: loading context for %s: %w", pkg, err)
	}
	e.contexts[pkg] = c
	return c, nil
}

// ContextFromDir walks upward from dir to find the nearest package.lua and
// returns the build context for the package it declares: the "current
// package" sentinel used by the command-line front end.
func (e *Engine) ContextFromDir(dir string) (*Context, error) {
	return newContextFromDir(e, dir)
}
