package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunTooManyArgsIsUsageError(t *testing.T) {
	assert.Equal(t, 2, run([]string{"a.vlang", "b.vlang"}))
}

func TestRunFileExecutesSourceSuccessfully(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.vlang")
	assert.NoError(t, os.WriteFile(path, []byte(`println (1 + 1);`), 0o644))

	assert.Equal(t, 0, run([]string{path}))
}

func TestRunFileMissingPathFails(t *testing.T) {
	assert.Equal(t, 1, run([]string{filepath.Join(t.TempDir(), "missing.vlang")}))
}
