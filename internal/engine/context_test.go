package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakarni/zz/internal/target"
)

func TestContextRegistryIsWriteOnce(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	writeCoreFixture(t, root)

	ctx, err := e.Context("zz/core")
	require.NoError(t, err)

	a := &target.Target{}
	require.NoError(t, ctx.Set("libz.a", a))
	require.NoError(t, ctx.Set("libz.a", a)) // re-registering the same target is fine

	b := &target.Target{}
	assert.Error(t, ctx.Set("libz.a", b))
}

func TestContextResolveFallsBackToImport(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	writeCoreFixture(t, root)

	appSrc := writePackage(t, root, "host/app", `
package = "host/app"
imports = {"zz/core"}
`)
	_ = appSrc

	app, err := e.Context("host/app")
	require.NoError(t, err)

	// "libcore.a" is registered lazily the first time zz/core's library
	// target is materialized; resolving it from app should trigger that.
	resolved, err := app.Resolve("libcore.a")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "lib", "zz", "core", "libcore.a"), resolved.Path())
}

func TestContextResolveUnknownReferenceIsFatal(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	writeCoreFixture(t, root)

	ctx, err := e.Context("zz/core")
	require.NoError(t, err)
	_, err = ctx.Resolve("nonexistent")
	assert.Error(t, err)
}

func TestEngineContextIsCachedPerPackage(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	writeCoreFixture(t, root)

	a, err := e.Context("zz/core")
	require.NoError(t, err)
	b, err := e.Context("zz/core")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestContextFromDirWalksUpward(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	srcDir := writeCoreFixture(t, root)

	nested := filepath.Join(srcDir, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	ctx, err := e.ContextFromDir(nested)
	require.NoError(t, err)
	assert.Equal(t, "zz/core", ctx.pkg)
}
