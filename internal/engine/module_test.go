package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakarni/zz/internal/target"
)

func TestModuleTargetsMissingScriptSourceIsFatal(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	writeCoreFixture(t, root)

	ctx, err := e.Context("zz/core")
	require.NoError(t, err)
	_, err = ctx.ModuleTargets("nonexistent")
	assert.Error(t, err)
}

func TestModuleTargetsScriptOnlyWhenNoCSource(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	writeCoreFixture(t, root)

	ctx, err := e.Context("zz/core")
	require.NoError(t, err)
	mt, err := ctx.ModuleTargets("util")
	require.NoError(t, err)
	assert.NotNil(t, mt.lo)
	assert.Nil(t, mt.o)
}

func TestModuleTargetsProducesCObjectWhenCSourceExists(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	srcDir := writeCoreFixture(t, root)
	writeFile(t, srcDir, "codec.lua", "-- codec\n")
	writeFile(t, srcDir, "codec.c", "/* codec */\n")

	ctx, err := e.Context("zz/core")
	require.NoError(t, err)
	mt, err := ctx.ModuleTargets("codec")
	require.NoError(t, err)
	assert.NotNil(t, mt.lo)
	require.NotNil(t, mt.o)

	require.NoError(t, mt.o.Make(false))
	assert.FileExists(t, mt.o.Path())
}

func TestModuleTargetsIsMemoizedPerName(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	writeCoreFixture(t, root)

	ctx, err := e.Context("zz/core")
	require.NoError(t, err)
	a, err := ctx.ModuleTargets("util")
	require.NoError(t, err)
	b, err := ctx.ModuleTargets("util")
	require.NoError(t, err)
	assert.Same(t, a.lo, b.lo)
}

func TestModuleTargetsPackageSyntheticExportHasNoBacking(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	writeCoreFixture(t, root)

	ctx, err := e.Context("zz/core")
	require.NoError(t, err)
	mt, err := ctx.ModuleTargets("package")
	require.NoError(t, err)
	assert.Nil(t, mt.lo)
	assert.Nil(t, mt.o)
}

func TestCollectCflagsPicksUpNativeTargetFlags(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	srcDir := writeCoreFixture(t, root)
	writeFile(t, srcDir, "codec.lua", "-- codec\n")
	writeFile(t, srcDir, "codec.c", "/* codec */\n")

	ctx, err := e.Context("zz/core")
	require.NoError(t, err)

	// A native target carrying a cflag, registered directly under "libz.a"
	// the way NativeTargets would register a real factory's result, wired
	// as codec's compile-time dependency via depends["codec"].
	zlib := &target.Target{Cflags: []string{"-iquote/opt/zlib/include"}}
	require.NoError(t, ctx.Set("libz.a", zlib))
	ctx.descriptor.Depends = map[string][]string{"codec": {"libz.a"}}

	mt, err := ctx.ModuleTargets("codec")
	require.NoError(t, err)
	require.NotNil(t, mt.o)

	flags, err := collectCflags(mt.o)
	require.NoError(t, err)
	assert.Contains(t, flags, "-iquote/opt/zlib/include")
}
