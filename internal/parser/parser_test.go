package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/vlang/internal/ast"
	"github.com/viant/vlang/internal/scanner"
)

func parse(t *testing.T, src string) ([]*ast.Node, *Parser) {
	t.Helper()
	toks, scanErrs := scanner.New([]byte(src)).ScanTokens()
	assert.False(t, scanErrs.HasErrors(), "unexpected scan errors for %q", src)
	p := New(toks)
	program, errs := p.Parse()
	assert.False(t, errs.HasErrors(), "unexpected parse errors for %q: %v", src, errs.Errors())
	return program, p
}

func TestParseLetAndPrintln(t *testing.T) {
	program, _ := parse(t, `let x = 1 + 2 * 3; println (x);`)
	assert.Len(t, program, 2)
	assert.Equal(t, ast.NStatement, program[0].Kind)
	assert.Equal(t, ast.SLet, program[0].StmtKind)
	assert.Equal(t, "x", program[0].Name.Lexeme)
	assert.Equal(t, ast.NBinary, program[0].Inner.Kind)

	assert.Equal(t, ast.SPrintln, program[1].StmtKind)
	assert.Equal(t, ast.NGrouping, program[1].Inner.Kind)
}

func TestParseMultiArityFunctionDefAndCall(t *testing.T) {
	program, _ := parse(t, `
func f(a) { return a + 1; }
func f(a, b) { return a + b; }
println (f(10));
println (f(10, 20));
`)
	assert.Len(t, program, 4)
	assert.Equal(t, ast.NScope, program[0].Kind)
	assert.Equal(t, ast.KFunc, program[0].ScopeKind)
	assert.Len(t, program[0].Params, 1)
	assert.Len(t, program[1].Params, 2)

	call := program[2].Inner.Children[0]
	assert.Equal(t, ast.SCall, call.StmtKind)
	assert.Equal(t, "f", call.Name.Lexeme)
	assert.Len(t, call.Args, 1)
}

func TestParseDecenvAndEnvCall(t *testing.T) {
	program, _ := parse(t, `
decenv pt = { let x = 3; let y = 4; }
env pt { println (x * x + y * y); }
`)
	assert.Len(t, program, 2)
	assert.Equal(t, ast.KClos, program[0].ScopeKind)
	assert.Len(t, program[0].Children, 2)
	for _, stmt := range program[0].Children {
		assert.Equal(t, ast.SLet, stmt.StmtKind)
	}
	assert.Equal(t, ast.KClosCall, program[1].ScopeKind)
	assert.Equal(t, "pt", program[1].Name.Lexeme)
}

func TestParseListLiteralAndAppendCall(t *testing.T) {
	program, _ := parse(t, `let xs = [1, 2, 3]; append(4); println (len(xs));`)
	assert.Equal(t, ast.KListLiteral, program[0].Inner.ScopeKind)
	assert.Len(t, program[0].Inner.Children, 3)

	appendCall := program[1]
	assert.Equal(t, ast.SCall, appendCall.StmtKind)
	assert.Equal(t, "append", appendCall.Name.Lexeme)
}

func TestParseWhileLoop(t *testing.T) {
	program, _ := parse(t, `let i = 0; while i < 3 { println (i); i = i + 1; }`)
	loop := program[1]
	assert.Equal(t, ast.KWhile, loop.ScopeKind)
	assert.Equal(t, ast.NBinary, loop.Condition.Kind)
	assert.Len(t, loop.Children, 2)
	assert.Equal(t, ast.SIdentifier, loop.Children[1].StmtKind)
}

func TestParseForLoopHeader(t *testing.T) {
	program, _ := parse(t, `for (let i = 0; i < 3; i = i + 1) { println (i); }`)
	loop := program[0]
	assert.Equal(t, ast.KFor, loop.ScopeKind)
	assert.Equal(t, ast.NGrouping, loop.Condition.Kind)
	assert.Len(t, loop.Condition.Children, 3)
	assert.Equal(t, ast.SLet, loop.Condition.Children[0].StmtKind)
}

func TestParseIfElse(t *testing.T) {
	program, _ := parse(t, `if 2 > 1 { println ("yes"); } else { println ("no"); }`)
	node := program[0]
	assert.Equal(t, ast.NTernary, node.Kind)
	assert.Equal(t, ast.NBinary, node.Condition.Kind)
	assert.Equal(t, ast.KIf, node.TrueExpr.ScopeKind)
	assert.Equal(t, ast.KIf, node.FalseExpr.ScopeKind)
}

func TestParseElseIfChain(t *testing.T) {
	program, _ := parse(t, `
if 1 > 2 { println (1); } else if 2 > 3 { println (2); } else { println (3); }
`)
	node := program[0]
	assert.Equal(t, ast.NTernary, node.FalseExpr.Kind)
}

func TestParseExpressionLevelTernary(t *testing.T) {
	program, _ := parse(t, `let x = true ? { 1; } : { 2; };`)
	assert.Equal(t, ast.NTernary, program[0].Inner.Kind)
}

func TestParseImportDirectiveIsCollected(t *testing.T) {
	program, p := parse(t, `import math; println (1);`)
	assert.Len(t, program, 1, "import directive contributes no program node")
	assert.Equal(t, []string{"math"}, p.Imports())
}

func TestParseIndexAccess(t *testing.T) {
	program, _ := parse(t, `let xs = [1, 2, 3]; println (xs[0]);`)
	idx := program[1].Inner.Children[0]
	assert.Equal(t, ast.SIndex, idx.StmtKind)
	assert.Equal(t, "xs", idx.Name.Lexeme)
}

func TestParseUnterminatedParenIsRecoverableError(t *testing.T) {
	toks, _ := scanner.New([]byte(`let x = (1 + 2;`)).ScanTokens()
	_, errs := New(toks).Parse()
	assert.True(t, errs.HasErrors())
}
