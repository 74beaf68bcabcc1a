package eval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/vlang/internal/parser"
	"github.com/viant/vlang/internal/scanner"
	"github.com/viant/vlang/internal/value"
)

func run(t *testing.T, src string) string {
	t.Helper()
	toks, scanErrs := scanner.New([]byte(src)).ScanTokens()
	assert.False(t, scanErrs.HasErrors(), "scan errors: %v", scanErrs.Errors())
	program, parseErrs := parser.New(toks).Parse()
	assert.False(t, parseErrs.HasErrors(), "parse errors: %v", parseErrs.Errors())

	var out bytes.Buffer
	e := New(&out)
	root := value.New(nil)
	for _, n := range program {
		_, _, err := e.Eval(n, root)
		assert.NoError(t, err)
	}
	return out.String()
}

func TestEvalArithmeticPrecedence(t *testing.T) {
	out := run(t, `let x = 1 + 2 * 3; println (x);`)
	assert.Equal(t, "7\n", out)
}

func TestEvalMultiArityFunctions(t *testing.T) {
	out := run(t, `
func f(a) { return a + 1; }
func f(a, b) { return a + b; }
println (f(10));
println (f(10, 20));
`)
	assert.Equal(t, "11\n30\n", out)
}

func TestEvalDecenvAndEnvCall(t *testing.T) {
	out := run(t, `
decenv pt = { let x = 3; let y = 4; }
env pt { println (x * x + y * y); }
`)
	assert.Equal(t, "25\n", out)
}

func TestEvalListAppendAndLen(t *testing.T) {
	out := run(t, `
let xs = [1, 2, 3];
append(4);
append(5);
println (len());
`)
	assert.Equal(t, "5\n", out)
}

func TestEvalWhileLoopMutatesOuterScope(t *testing.T) {
	out := run(t, `
let i = 0;
while i < 3 {
    println (i);
    i = i + 1;
}
println (i);
`)
	assert.Equal(t, "0\n1\n2\n3\n", out)
}

func TestEvalIfElse(t *testing.T) {
	out := run(t, `if 2 > 1 { println ("yes"); } else { println ("no"); }`)
	assert.Equal(t, "yes\n", out)
}

func TestEvalForLoop(t *testing.T) {
	out := run(t, `for (let i = 0; i < 3; i = i + 1) { println (i); }`)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestEvalDivideByZeroIsRuntimeError(t *testing.T) {
	toks, _ := scanner.New([]byte(`let x = 1 / 0;`)).ScanTokens()
	program, _ := parser.New(toks).Parse()
	var out bytes.Buffer
	e := New(&out)
	root := value.New(nil)
	_, _, err := e.Eval(program[0], root)
	assert.Error(t, err)
}

func TestEvalIdentifierNotFound(t *testing.T) {
	toks, _ := scanner.New([]byte(`println (missing);`)).ScanTokens()
	program, _ := parser.New(toks).Parse()
	var out bytes.Buffer
	e := New(&out)
	root := value.New(nil)
	_, _, err := e.Eval(program[0], root)
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing"))
}

func TestEvalExpressionTernary(t *testing.T) {
	out := run(t, `let x = true ? { 1; } : { 2; }; println (x);`)
	assert.Equal(t, "1\n", out)
}

func TestEvalThreadSpawnRunsTargetAndCallback(t *testing.T) {
	toks, scanErrs := scanner.New([]byte(`
let shared = 41;
func target() { return shared + 1; }
func onDone(v) { println (v); }
`)).ScanTokens()
	assert.False(t, scanErrs.HasErrors(), "scan errors: %v", scanErrs.Errors())
	program, parseErrs := parser.New(toks).Parse()
	assert.False(t, parseErrs.HasErrors(), "parse errors: %v", parseErrs.Errors())

	var out bytes.Buffer
	e := New(&out)
	root := value.New(nil)
	root.Define("spawn", value.NativeVal(value.NThreadSpawn))
	for _, n := range program {
		_, _, err := e.Eval(n, root)
		assert.NoError(t, err)
	}

	callToks, scanErrs := scanner.New([]byte(`spawn("target", 0, "onDone");`)).ScanTokens()
	assert.False(t, scanErrs.HasErrors(), "scan errors: %v", scanErrs.Errors())
	callProgram, parseErrs := parser.New(callToks).Parse()
	assert.False(t, parseErrs.HasErrors(), "parse errors: %v", parseErrs.Errors())

	joinVal, _, err := e.Eval(callProgram[0], root)
	assert.NoError(t, err)
	assert.Equal(t, "42\n", out.String())

	assert.Equal(t, value.Env, joinVal.Kind)
	returned, ok := joinVal.EnvV.Retrieve("returned")
	assert.True(t, ok)
	assert.Equal(t, int64(42), returned.IntV)
}

func TestEvalListIndexPastEndYieldsNull(t *testing.T) {
	toks, _ := scanner.New([]byte(`let xs = [1, 2, 3]; println (xs[5]);`)).ScanTokens()
	program, _ := parser.New(toks).Parse()
	var out bytes.Buffer
	e := New(&out)
	root := value.New(nil)
	for _, n := range program[:1] {
		_, _, err := e.Eval(n, root)
		assert.NoError(t, err)
	}
	_, _, err := e.Eval(program[1], root)
	assert.NoError(t, err)
	assert.Equal(t, "null\n", out.String())
}
