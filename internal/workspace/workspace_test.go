package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutPaths(t *testing.T) {
	l := New("/ws")

	assert.Equal(t, "/ws/src/host/pkg", l.SrcDir("host/pkg"))
	assert.Equal(t, "/ws/src/host/pkg/native", l.NativeDir("host/pkg"))
	assert.Equal(t, "/ws/obj/host/pkg", l.ObjDir("host/pkg"))
	assert.Equal(t, "/ws/lib/host/pkg", l.LibDir("host/pkg"))
	assert.Equal(t, "/ws/tmp/host/pkg", l.TmpDir("host/pkg"))
	assert.Equal(t, "/ws/bin/host/pkg", l.BinDir("host/pkg"))
	assert.Equal(t, "/ws/bin", l.GlobalBinDir())
}
