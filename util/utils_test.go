package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPathReplacesVersion(t *testing.T) {
	assert.Equal(t, "./20211101.json", ExpandPath("./$version.json", "20211101"))
	assert.Equal(t, "out/fixed.json", ExpandPath("out/fixed.json", "20211101"))
}

func TestExpandPathExpandsHome(t *testing.T) {
	home, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "20211101.json"), ExpandPath("~/$version.json", "20211101"))
}

func TestPointerHelpers(t *testing.T) {
	s := StringPtr("draft")
	require.NotNil(t, s)
	assert.Equal(t, "draft", *s)

	i := IntPtr(4)
	require.NotNil(t, i)
	assert.Equal(t, 4, *i)
}
