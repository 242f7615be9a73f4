package toolchain

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWholeArchiveFlagsLinux(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("platform-specific flag differs on darwin")
	}
	flags := wholeArchiveFlags([]string{"liba.a", "libb.a"})
	assert.Equal(t, []string{"-Wl,--whole-archive", "liba.a", "libb.a", "-Wl,--no-whole-archive"}, flags)
}

func TestWholeArchiveFlagsEmpty(t *testing.T) {
	assert.Empty(t, wholeArchiveFlags(nil))
}

func TestDefaultToolNames(t *testing.T) {
	tc := Default()
	assert.Equal(t, "zzc", tc.ScriptCompiler)
	assert.Equal(t, "cc", tc.CC)
	assert.Equal(t, "ar", tc.Archiver)
}
