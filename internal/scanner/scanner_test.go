package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/vlang/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanTokensBasicExpression(t *testing.T) {
	toks, errs := New([]byte("let x = 1 + 2 * 3 ;")).ScanTokens()
	assert.False(t, errs.HasErrors())
	assert.Equal(t, []token.Kind{
		token.Let, token.Identifier, token.Equal, token.Integer, token.Plus,
		token.Integer, token.Star, token.Integer, token.Semicolon, token.EOF,
	}, kinds(toks))
}

func TestScanTwoCharOperators(t *testing.T) {
	toks, errs := New([]byte(">= <= != == && ||")).ScanTokens()
	assert.False(t, errs.HasErrors())
	assert.Equal(t, []token.Kind{
		token.GreaterEqual, token.LessEqual, token.BangEqual, token.EqualEqual,
		token.And, token.Or, token.EOF,
	}, kinds(toks))
}

func TestScanLineComment(t *testing.T) {
	toks, errs := New([]byte("let x = 1; // trailing comment\nlet y = 2;")).ScanTokens()
	assert.False(t, errs.HasErrors())
	// the comment contributes no tokens; two statements remain plus EOF
	count := 0
	for _, k := range kinds(toks) {
		if k == token.Let {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestScanFloatAndInt(t *testing.T) {
	toks, errs := New([]byte("3.25 7")).ScanTokens()
	assert.False(t, errs.HasErrors())
	assert.True(t, toks[0].Literal.HasFloat)
	assert.InDelta(t, float32(3.25), toks[0].Literal.Float, 0.0001)
	assert.True(t, toks[1].Literal.HasInt)
	assert.Equal(t, int64(7), toks[1].Literal.Int)
}

func TestScanStringLiteral(t *testing.T) {
	toks, errs := New([]byte(`"hello world"`)).ScanTokens()
	assert.False(t, errs.HasErrors())
	assert.True(t, toks[0].Literal.HasStr)
	assert.Equal(t, "hello world", toks[0].Literal.Str)
}

func TestScanUnterminatedStringRecovers(t *testing.T) {
	toks, errs := New([]byte("\"unterminated\nlet x = 1;")).ScanTokens()
	assert.True(t, errs.HasErrors())
	// scanning must continue past the error and still find the next statement
	found := false
	for _, tk := range toks {
		if tk.Kind == token.Let {
			found = true
		}
	}
	assert.True(t, found)
}

func TestScanAlwaysEndsWithEOF(t *testing.T) {
	toks, _ := New([]byte("")).ScanTokens()
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}
