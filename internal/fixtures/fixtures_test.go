package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"t1-person-basics.plant": "T1 Person Basics",
		"t10-order-items.plant":  "T10 Order Items",
		"demo.plant":             "DEMO",
		"x2-camelCase-API.plant": "X2 CamelCase API",
		"t3--double-dash.plant":  "T3  Double Dash",
	}
	for in, want := range tests {
		assert.Equal(t, want, Label(in), in)
	}
}

func TestLoad(t *testing.T) {
	list, err := Load("testdata")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "a0-empty", list[0].ID)
	assert.Equal(t, "", list[0].Content)

	f := list[1]
	assert.Equal(t, "t1-person-basics", f.ID)
	assert.Equal(t, "t1-person-basics.plant", f.FileName)
	assert.Equal(t, "T1 Person Basics", f.Label)
	assert.Contains(t, f.Content, "class Person")
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read fixtures dir")
}

func TestCatalogReload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b1-one.plant"), []byte("class One {}"), 0o644))

	c := NewCatalog(dir)
	list, err := c.List()
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a1-two.plant"), []byte("class Two {}"), 0o644))
	list, _ = c.List()
	assert.Len(t, list, 1, "cached until reload")

	n, err := c.Reload()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, ok, err := c.Get("a1-two")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A1 Two", f.Label)

	_, ok, err = c.Get("zzz")
	require.NoError(t, err)
	assert.False(t, ok)

	// a failed reload keeps the previous list
	require.NoError(t, os.RemoveAll(dir))
	_, err = c.Reload()
	require.Error(t, err)
	list, err = c.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
