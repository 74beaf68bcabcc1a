package vlang

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunEvaluatesProgramAgainstPersistentScope(t *testing.T) {
	var out bytes.Buffer
	interp := New(WithStdout(&out))

	assert.Empty(t, interp.Run([]byte(`let x = 1;`)))
	assert.Empty(t, interp.Run([]byte(`println (x + 1);`)))
	assert.Equal(t, "2\n", out.String())
}

func TestRunCollectsRuntimeErrorsButKeepsEvaluating(t *testing.T) {
	var out bytes.Buffer
	interp := New(WithStdout(&out))

	errs := interp.Run([]byte(`println (missing); println (1);`))
	assert.Len(t, errs, 1)
	assert.Equal(t, "1\n", out.String())
}

func TestRunBindsMathImportAsNativeEnv(t *testing.T) {
	var out bytes.Buffer
	interp := New(WithStdout(&out))

	errs := interp.Run([]byte(`import math; env math { println (sin(0)); }`))
	assert.Empty(t, errs)
	assert.Equal(t, "0\n", out.String())
}

func TestRunResolvesLibraryImportFromLibraryDir(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "greet")
	assert.NoError(t, os.MkdirAll(libDir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(libDir, "greet.vlang"), []byte(`let greeting = 7;`), 0o644))

	var out bytes.Buffer
	interp := New(WithStdout(&out), WithLibraryDir(dir))

	errs := interp.Run([]byte(`import greet; env greet { println (greeting); }`))
	assert.Empty(t, errs)
	assert.Equal(t, "7\n", out.String())
}

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, "", cfg.LibraryDir)
}

func TestLoadConfigDecodesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vlang.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("libraryDir: /opt/libs\nbuiltins:\n  - extra\n"), 0o644))

	cfg, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "/opt/libs", cfg.LibraryDir)
	assert.Equal(t, []string{"extra"}, cfg.BuiltinRegistry)
}
