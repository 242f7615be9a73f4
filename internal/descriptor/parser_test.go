package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinimal(t *testing.T) {
	d, err := Parse([]byte(`
package = "host/app"
libname = "app"
exports = {"util"}
`))
	require.NoError(t, err)
	assert.Equal(t, "host/app", d.Package)
	assert.Equal(t, "app", d.Libname)
	assert.Equal(t, []string{"util"}, d.Exports)
}

func TestParseFullDescriptor(t *testing.T) {
	d, err := Parse([]byte(`
package = "host/app"
imports = {"host/lib"}
exports = {"codec"}
apps = {"main"}
install = {"main"}
ldflags = {"-lm"}
depends = {
	codec = {"libz.a"}
}
mounts = {
	["/data"] = "assets"
}
native = {
	z = native.pkgconfig("z")
}
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"host/lib"}, d.Imports)
	assert.Equal(t, []string{"codec"}, d.Exports)
	assert.Equal(t, []string{"main"}, d.Apps)
	assert.Equal(t, []string{"main"}, d.Install)
	assert.Equal(t, []string{"-lm"}, d.LDFlags)
	assert.Equal(t, []string{"libz.a"}, d.Depends["codec"])
	assert.Equal(t, "assets", d.Mounts["/data"])
	require.Contains(t, d.Native, "z")
	assert.Equal(t, "native.pkgconfig", d.Native["z"].Factory)
	assert.Equal(t, []string{"z"}, d.Native["z"].Args)
}

func TestParseSkipsLuaComments(t *testing.T) {
	d, err := Parse([]byte(`
-- a leading comment
package = "host/app" -- trailing comment
libname = "app"
exports = {"util"} -- not "--broken"
`))
	require.NoError(t, err)
	assert.Equal(t, "host/app", d.Package)
	assert.Equal(t, "app", d.Libname)
	assert.Equal(t, []string{"util"}, d.Exports)
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte(`package = `))
	assert.Error(t, err)
}

func TestParseRejectsWrongFieldType(t *testing.T) {
	_, err := Parse([]byte(`exports = "util"`))
	assert.Error(t, err)
}
