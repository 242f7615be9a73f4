package pkgid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSCP(t *testing.T) {
	id, err := Parse("git@github.com:user/repo.git")
	require.NoError(t, err)
	assert.Equal(t, "github.com/user/repo", id.ID)
	assert.Equal(t, "git@github.com:user/repo.git", id.URL)
}

func TestParseHTTPS(t *testing.T) {
	id, err := Parse("https://github.com/user/repo.git")
	require.NoError(t, err)
	assert.Equal(t, "github.com/user/repo", id.ID)
	assert.Equal(t, "https://github.com/user/repo.git", id.URL)
}

func TestParseBare(t *testing.T) {
	id, err := Parse("github.com/user/repo")
	require.NoError(t, err)
	assert.Equal(t, "github.com/user/repo", id.ID)
	assert.Equal(t, "https://github.com/user/repo", id.URL)
}

func TestParseRoundTrip(t *testing.T) {
	for _, input := range []string{
		"git@example.com:a/b.git",
		"https://example.com/a/b",
		"example.com/a/b",
	} {
		first, err := Parse(input)
		require.NoError(t, err)
		second, err := Parse(first.URL)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse("not-a-package")
	assert.Error(t, err)
}
