package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/vlang/internal/vlang"
)

func TestREPLAccumulatesBindingsAcrossLines(t *testing.T) {
	var stdout bytes.Buffer
	interp := vlang.New(vlang.WithStdout(&stdout))

	var out bytes.Buffer
	session := New(interp, strings.NewReader("let x = 1;\nprintln (x + 1);\nexit()\n"), &out)

	assert.NoError(t, session.Run())
	assert.Equal(t, "2\n", stdout.String())
}

func TestREPLStopsAtExitCall(t *testing.T) {
	var stdout bytes.Buffer
	interp := vlang.New(vlang.WithStdout(&stdout))

	var out bytes.Buffer
	session := New(interp, strings.NewReader("exit()\nprintln (1);\n"), &out)

	assert.NoError(t, session.Run())
	assert.Equal(t, "", stdout.String())
}

func TestREPLReportsRunErrorsAndContinues(t *testing.T) {
	var stdout bytes.Buffer
	interp := vlang.New(vlang.WithStdout(&stdout))

	var out bytes.Buffer
	session := New(interp, strings.NewReader("println (missing);\nlet y = 2;\nprintln (y);\nexit()\n"), &out)

	assert.NoError(t, session.Run())
	assert.Contains(t, out.String(), "missing")
	assert.Equal(t, "2\n", stdout.String())
}
