package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wakarni/zz/internal/native"
	"github.com/wakarni/zz/internal/toolchain"
	"github.com/wakarni/zz/internal/workspace"
)

// The tests in this package drive real target.Target graphs against fake
// stand-ins for zzc/cc/ar: POSIX shell scripts that find the -o argument
// and write a placeholder file there, so the tests exercise the engine's
// graph construction, memoization, and incrementality rather than any real
// compiler's behavior.
const fakeZzcScript = `#!/bin/sh
out="$2"
printf 'compiled\n' > "$out"
`

const fakeCcScript = `#!/bin/sh
mode=link
out=""
prev=""
for arg in "$@"; do
	if [ "$prev" = "-o" ]; then out="$arg"; fi
	if [ "$arg" = "-c" ]; then mode=compile; fi
	prev="$arg"
done
if [ "$mode" = "link" ]; then
	printf '#!/bin/sh\nexit 0\n' > "$out"
	chmod +x "$out"
else
	printf '%s\n' "$mode" > "$out"
fi
`

const fakeArScript = `#!/bin/sh
shift
archive="$1"
shift
touch "$archive"
for m in "$@"; do
	cat "$m" >> "$archive" 2>/dev/null || true
done
`

func writeFakeTool(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func newTestEngine(t *testing.T, root string) *Engine {
	t.Helper()
	toolsDir := filepath.Join(root, "tools")
	require.NoError(t, os.MkdirAll(toolsDir, 0o755))
	tc := toolchain.Toolchain{
		ScriptCompiler: writeFakeTool(t, toolsDir, "zzc", fakeZzcScript),
		CC:             writeFakeTool(t, toolsDir, "cc", fakeCcScript),
		Archiver:       writeFakeTool(t, toolsDir, "ar", fakeArScript),
	}
	return New(workspace.New(root), tc, native.Default(), NewLogger(true))
}

// writePackage writes pkg's package.lua literal body verbatim and returns
// its source directory.
func writePackage(t *testing.T, root, pkg, body string) string {
	t.Helper()
	srcDir := workspace.New(root).SrcDir(pkg)
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "package.lua"), []byte(body), 0o644))
	return srcDir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// writeCoreFixture writes a minimal zz/core package: a single exported
// module "util" and opaque bootstrap templates. It returns the source dir.
func writeCoreFixture(t *testing.T, root string) string {
	t.Helper()
	srcDir := writePackage(t, root, "zz/core", `
package = "zz/core"
exports = {"util"}
`)
	writeFile(t, srcDir, "util.lua", "-- util module\n")
	writeFile(t, srcDir, "_main.tpl.c", "/* runtime template */\n")
	writeFile(t, srcDir, "_main.tpl.lua", "-- runtime template\n")
	return srcDir
}
