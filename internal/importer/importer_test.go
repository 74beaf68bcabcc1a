package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBuiltinNamesMathAndThread(t *testing.T) {
	assert.True(t, IsBuiltin("math"))
	assert.True(t, IsBuiltin("thread"))
	assert.False(t, IsBuiltin("strings"))
}

func TestResolvePicksHighestVersionSubdirectory(t *testing.T) {
	dir := t.TempDir()
	writeLib(t, dir, "utils", "1.0.0", "let ancient = 1;")
	writeLib(t, dir, "utils", "2.1.0", "let current = 2;")
	writeLib(t, dir, "utils", "1.9.0", "let stale = 1;")

	im := New(dir)
	data, err := im.Resolve(context.Background(), "utils")
	assert.NoError(t, err)
	assert.Equal(t, "let current = 2;", string(data))
}

func TestResolveUnversionedLayout(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "plain")
	assert.NoError(t, os.MkdirAll(libDir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(libDir, "plain.vlang"), []byte("let v = 1;"), 0o644))

	im := New(dir)
	data, err := im.Resolve(context.Background(), "plain")
	assert.NoError(t, err)
	assert.Equal(t, "let v = 1;", string(data))
}

func TestResolveBuiltinReturnsNoData(t *testing.T) {
	im := New(t.TempDir())
	data, err := im.Resolve(context.Background(), "math")
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func writeLib(t *testing.T, root, name, version, content string) {
	t.Helper()
	dir := filepath.Join(root, name, version)
	assert.NoError(t, os.MkdirAll(dir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, name+".vlang"), []byte(content), 0o644))
}
