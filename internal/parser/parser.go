// Package parser implements the recursive-descent parser of spec.md
// §4.2: one method per precedence level, outermost (statement-shaped)
// levels calling down into innermost (expression) levels. Grounded on
// linager's general preference for plain, doc-commented structs with
// explicit error returns (inspector/golang/inspector.go) rather than a
// parser-combinator or generated-grammar library — a hand grammar has no
// pack analog, see SPEC_FULL.md §3.
package parser

import (
	"fmt"

	"github.com/viant/vlang/internal/ast"
	"github.com/viant/vlang/internal/langerr"
	"github.com/viant/vlang/internal/token"
	"github.com/viant/vlang/internal/value"
)

// leaderKeywords are the statement-leading keywords synchronize() looks
// for after a parse error (spec.md §4.2, §7).
var leaderKeywords = map[token.Kind]bool{
	token.Func: true, token.Let: true, token.For: true,
	token.While: true, token.If: true, token.Print: true, token.Return: true,
}

// Parser consumes a token stream and builds a forest of *ast.Node, plus
// the set of `import NAME` directives it encountered.
type Parser struct {
	tokens  []token.Token
	current int
	errs    *langerr.Collector
	imports map[string]bool
}

// New creates a Parser over tokens (already EOF-terminated).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, errs: &langerr.Collector{}, imports: map[string]bool{}}
}

// Parse drives the top-level loop: parse one declaration at a time,
// recovering via synchronize() after a parse error (spec.md §7).
func (p *Parser) Parse() ([]*ast.Node, *langerr.Collector) {
	var program []*ast.Node
	for !p.atEnd() {
		node, err := p.declaration()
		if err != nil {
			p.errs.Add(err.(*langerr.Error))
			p.synchronize()
			continue
		}
		if node != nil {
			program = append(program, node)
		}
	}
	return program, p.errs
}

// Imports returns the set of `import NAME` directives collected while
// parsing, in no particular order.
func (p *Parser) Imports() []string {
	names := make([]string, 0, len(p.imports))
	for name := range p.imports {
		names = append(names, name)
	}
	return names
}

// ---------------------------------------------------------------------
// token stream helpers
// ---------------------------------------------------------------------

func (p *Parser) peek() token.Token     { return p.tokens[p.current] }
func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }
func (p *Parser) atEnd() bool           { return p.peek().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.atEnd() {
		return kind == token.EOF
	}
	return p.peek().Kind == kind
}

func (p *Parser) checkNext(kind token.Kind) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, kindErr langerr.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, langerr.New(langerr.Parsing, kindErr, p.peek().Line, message)
}

// synchronize advances past the next statement boundary or a
// statement-leading keyword (spec.md §4.2/§7).
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.current > 0 && p.previous().Kind == token.Semicolon {
			return
		}
		if leaderKeywords[p.peek().Kind] {
			return
		}
		p.advance()
	}
}

// ---------------------------------------------------------------------
// declarations / statements (precedence levels 1-9)
// ---------------------------------------------------------------------

func (p *Parser) declaration() (*ast.Node, error) {
	if p.match(token.Import) {
		return p.importDirective()
	}
	if p.check(token.Identifier) && p.checkNext(token.Equal) {
		return p.assignment()
	}
	return p.funcDef()
}

func (p *Parser) importDirective() (*ast.Node, error) {
	name, err := p.consume(token.Identifier, langerr.InvalidIdentifier, "expected import name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, langerr.InvalidExpression, "expected ';' after import"); err != nil {
		return nil, err
	}
	p.imports[name.Lexeme] = true
	return nil, nil
}

func (p *Parser) assignment() (*ast.Node, error) {
	name := p.advance()
	p.advance() // '='
	line := name.Line
	inner, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, langerr.InvalidAssign, "expected ';' after assignment"); err != nil {
		return nil, err
	}
	return ast.NewStatement(line, ast.SIdentifier, &name, inner, nil), nil
}

// funcDef: `func NAME(p1, p2, …) { body }` → Scope(FUNC, NAME, params, body).
func (p *Parser) funcDef() (*ast.Node, error) {
	if !p.match(token.Func) {
		return p.whileLoop()
	}
	line := p.previous().Line
	name, err := p.consume(token.Identifier, langerr.InvalidIdentifier, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftParen, langerr.InvalidExpression, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			pname, err := p.consume(token.Identifier, langerr.InvalidIdentifier, "expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, pname)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(token.RightParen, langerr.InvalidExpression, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewScope(line, ast.KFunc, &name, nil, params, body), nil
}

// whileLoop: `while COND { body }` → Scope(WHILE, condition=COND, body).
func (p *Parser) whileLoop() (*ast.Node, error) {
	if !p.match(token.While) {
		return p.forLoop()
	}
	line := p.previous().Line
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewScope(line, ast.KWhile, nil, cond, nil, body), nil
}

// forLoop: `for ( init; cond; step ) { body }` → Scope(FOR, condition=Grouping[init,cond,step], body).
func (p *Parser) forLoop() (*ast.Node, error) {
	if !p.match(token.For) {
		return p.envCall()
	}
	line := p.previous().Line
	if _, err := p.consume(token.LeftParen, langerr.InvalidLoop, "expected '(' after for"); err != nil {
		return nil, err
	}

	var initNode *ast.Node
	if p.check(token.Semicolon) {
		p.advance()
	} else if p.check(token.Let) {
		n, err := p.letStatement()
		if err != nil {
			return nil, err
		}
		initNode = n
	} else {
		n, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.Semicolon, langerr.InvalidLoop, "expected ';' after for-init"); err != nil {
			return nil, err
		}
		initNode = n
	}

	condNode, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, langerr.InvalidLoop, "expected ';' after for-condition"); err != nil {
		return nil, err
	}

	// the step may be an assignment `NAME = expr` (no trailing ';')
	var stepNode *ast.Node
	if p.check(token.Identifier) && p.checkNext(token.Equal) {
		name := p.advance()
		p.advance() // '='
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		stepNode = ast.NewStatement(name.Line, ast.SIdentifier, &name, inner, nil)
	} else {
		stepNode, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RightParen, langerr.InvalidLoop, "expected ')' after for-step"); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	header := ast.NewGrouping(line, []*ast.Node{initNode, condNode, stepNode})
	return ast.NewScope(line, ast.KFor, nil, header, nil, body), nil
}

// envCall: `env NAME { body }` → Scope(CLOSCALL, NAME, body).
func (p *Parser) envCall() (*ast.Node, error) {
	if !p.match(token.Env) {
		return p.envDecl()
	}
	line := p.previous().Line
	name, err := p.consume(token.Identifier, langerr.InvalidEnvCall, "expected environment name")
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewScope(line, ast.KClosCall, &name, nil, nil, body), nil
}

// envDecl: `decenv NAME = { let … ; let … ; }` → Scope(CLOS, NAME, body of Statement(LET,…)).
func (p *Parser) envDecl() (*ast.Node, error) {
	if !p.match(token.Decenv) {
		return p.letDecl()
	}
	line := p.previous().Line
	name, err := p.consume(token.Identifier, langerr.InvalidEnv, "expected environment name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Equal, langerr.InvalidEnv, "expected '=' after environment name"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftBrace, langerr.InvalidEnv, "expected '{' to open environment body"); err != nil {
		return nil, err
	}
	var body []*ast.Node
	for !p.check(token.RightBrace) && !p.atEnd() {
		if !p.check(token.Let) {
			return nil, langerr.New(langerr.Parsing, langerr.InvalidEnv, p.peek().Line, "only 'let' declarations are allowed inside decenv")
		}
		stmt, err := p.letStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if _, err := p.consume(token.RightBrace, langerr.InvalidEnv, "expected '}' to close environment body"); err != nil {
		return nil, err
	}
	return ast.NewScope(line, ast.KClos, &name, nil, nil, body), nil
}

func (p *Parser) letDecl() (*ast.Node, error) {
	if !p.check(token.Let) {
		return p.printStmt()
	}
	return p.letStatement()
}

// letStatement: `let NAME = expr ;` → Statement(LET, NAME, inner=expr).
func (p *Parser) letStatement() (*ast.Node, error) {
	if _, err := p.consume(token.Let, langerr.InvalidIdentifier, "expected 'let'"); err != nil {
		return nil, err
	}
	line := p.previous().Line
	name, err := p.consume(token.Identifier, langerr.InvalidIdentifier, "expected variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Equal, langerr.InvalidAssign, "expected '=' after variable name"); err != nil {
		return nil, err
	}
	inner, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, langerr.InvalidAssign, "expected ';' after let"); err != nil {
		return nil, err
	}
	return ast.NewStatement(line, ast.SLet, &name, inner, nil), nil
}

// printStmt: `print (…)` / `println (…)`, requiring a Grouping operand.
func (p *Parser) printStmt() (*ast.Node, error) {
	var kind ast.StmtKind
	switch {
	case p.match(token.Print):
		kind = ast.SPrint
	case p.match(token.Println):
		kind = ast.SPrintln
	default:
		return p.returnStmt()
	}
	line := p.previous().Line
	if _, err := p.consume(token.LeftParen, langerr.InvalidPrint, "print/println requires a parenthesized operand"); err != nil {
		return nil, err
	}
	children, err := p.exprList(token.RightParen)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, langerr.InvalidPrint, "expected ')' after print operand"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, langerr.InvalidPrint, "expected ';' after print"); err != nil {
		return nil, err
	}
	group := ast.NewGrouping(line, children)
	return ast.NewStatement(line, kind, nil, group, nil), nil
}

// returnStmt: `return expr ;` → Statement(RETURN, inner=expr).
func (p *Parser) returnStmt() (*ast.Node, error) {
	if !p.match(token.Return) {
		return p.ifStmt()
	}
	line := p.previous().Line
	inner, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, langerr.InvalidExpression, "expected ';' after return"); err != nil {
		return nil, err
	}
	return ast.NewStatement(line, ast.SReturn, nil, inner, nil), nil
}

// ifStmt: `if COND { then } [else { else } | else if …]` → Ternary.
func (p *Parser) ifStmt() (*ast.Node, error) {
	if !p.match(token.If) {
		node, err := p.ternaryExpr()
		if err != nil {
			return nil, err
		}
		// a bare expression used as a statement (e.g. a call for its
		// side effect) carries its own terminating ';' (spec.md §4.2 item 17)
		if p.check(token.Semicolon) {
			p.advance()
		}
		return node, nil
	}
	line := p.previous().Line
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	thenBody, err := p.block()
	if err != nil {
		return nil, err
	}
	thenScope := ast.NewScope(line, ast.KIf, nil, nil, nil, thenBody)

	var falseBranch *ast.Node
	if p.match(token.Else) {
		if p.check(token.If) {
			falseBranch, err = p.ifStmt()
			if err != nil {
				return nil, err
			}
		} else {
			elseBody, err := p.block()
			if err != nil {
				return nil, err
			}
			falseBranch = ast.NewScope(line, ast.KIf, nil, nil, nil, elseBody)
		}
	}
	return ast.NewTernary(line, cond, thenScope, falseBranch), nil
}

// ---------------------------------------------------------------------
// expression levels (precedence levels 10-17)
// ---------------------------------------------------------------------

// expression is the shared entry point for "an expression" wherever the
// statement levels above need one (let initializer, print/return
// operand, while/for conditions).
func (p *Parser) expression() (*ast.Node, error) {
	return p.ternaryExpr()
}

// ternaryExpr: `expr ? { … } : { … }` and `expr : { … } ? { … }` (spec.md §4.2 item 10).
func (p *Parser) ternaryExpr() (*ast.Node, error) {
	cond, err := p.booleanChain()
	if err != nil {
		return nil, err
	}
	line := cond.Line

	switch {
	case p.match(token.Question):
		trueBranch, err := p.ternaryBranch(line)
		if err != nil {
			return nil, err
		}
		var falseBranch *ast.Node
		if p.match(token.Colon) {
			falseBranch, err = p.ternaryBranch(line)
			if err != nil {
				return nil, err
			}
		}
		return ast.NewTernary(line, cond, trueBranch, falseBranch), nil
	case p.match(token.Colon):
		falseBranch, err := p.ternaryBranch(line)
		if err != nil {
			return nil, err
		}
		var trueBranch *ast.Node
		if p.match(token.Question) {
			trueBranch, err = p.ternaryBranch(line)
			if err != nil {
				return nil, err
			}
		}
		return ast.NewTernary(line, cond, trueBranch, falseBranch), nil
	default:
		return cond, nil
	}
}

func (p *Parser) ternaryBranch(line int) (*ast.Node, error) {
	if _, err := p.consume(token.LeftBrace, langerr.InvalidTernary, "ternary branch must be brace-delimited"); err != nil {
		return nil, err
	}
	body, err := p.blockBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightBrace, langerr.InvalidTernary, "expected '}' to close ternary branch"); err != nil {
		return nil, err
	}
	return ast.NewScope(line, ast.KIf, nil, nil, nil, body), nil
}

// booleanChain: left-associative `and`/`or` (spec.md §4.2 item 11).
func (p *Parser) booleanChain() (*ast.Node, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.And, token.Or) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op.Line, op, left, right)
	}
	return left, nil
}

func (p *Parser) equality() (*ast.Node, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(token.EqualEqual, token.BangEqual) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op.Line, op, left, right)
	}
	return left, nil
}

func (p *Parser) comparison() (*ast.Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op.Line, op, left, right)
	}
	return left, nil
}

func (p *Parser) term() (*ast.Node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(token.Plus, token.Minus) {
		op := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op.Line, op, left, right)
	}
	return left, nil
}

func (p *Parser) factor() (*ast.Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(token.Star, token.Slash, token.Percent) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op.Line, op, left, right)
	}
	return left, nil
}

func (p *Parser) unary() (*ast.Node, error) {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(op.Line, op, operand), nil
	}
	return p.primary()
}

func (p *Parser) primary() (*ast.Node, error) {
	line := p.peek().Line

	switch {
	case p.match(token.False):
		return ast.NewLiteral(line, value.BoolVal(false)), nil
	case p.match(token.True):
		return ast.NewLiteral(line, value.BoolVal(true)), nil
	case p.match(token.Nil):
		return ast.NewLiteral(line, value.NoneVal), nil
	case p.match(token.Integer):
		return ast.NewLiteral(line, value.IntVal(p.previous().Literal.Int)), nil
	case p.match(token.Float):
		return ast.NewLiteral(line, value.FloatVal(p.previous().Literal.Float)), nil
	case p.match(token.String):
		return ast.NewLiteral(line, value.Str(p.previous().Literal.Str)), nil
	case p.match(token.LeftSquare):
		elems, err := p.exprList(token.RightSquare)
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightSquare, langerr.InvalidExpression, "expected ']' to close list literal"); err != nil {
			return nil, err
		}
		return ast.NewScope(line, ast.KListLiteral, nil, nil, nil, elems), nil
	case p.match(token.Identifier):
		return p.identifierExpr(line)
	case p.match(token.LeftParen):
		children, err := p.exprList(token.RightParen)
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, langerr.UnterminatedParenthesis, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return ast.NewGrouping(line, children), nil
	}

	return nil, langerr.New(langerr.Parsing, langerr.InvalidExpression, line,
		fmt.Sprintf("unexpected token %s", p.peek().Kind))
}

// identifierExpr handles a bare identifier read, a call `NAME(args)`, or
// an index access `NAME[expr]`.
func (p *Parser) identifierExpr(line int) (*ast.Node, error) {
	name := p.previous()

	if p.match(token.LeftParen) {
		var args []*ast.Node
		if !p.check(token.RightParen) {
			for {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(token.Comma) {
					break
				}
			}
		}
		if _, err := p.consume(token.RightParen, langerr.InvalidExpression, "expected ')' after arguments, or missing comma between them"); err != nil {
			return nil, err
		}
		return ast.NewStatement(line, ast.SCall, &name, nil, args), nil
	}

	if p.match(token.LeftSquare) {
		idx, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightSquare, langerr.InvalidIndex, "expected ']' after index"); err != nil {
			return nil, err
		}
		return ast.NewStatement(line, ast.SIndex, &name, idx, nil), nil
	}

	return ast.NewStatement(line, ast.SIdentifier, &name, nil, nil), nil
}

// exprList parses zero or more comma-separated expressions up to (but
// not consuming) the given terminator kind.
func (p *Parser) exprList(terminator token.Kind) ([]*ast.Node, error) {
	var list []*ast.Node
	if p.check(terminator) {
		return list, nil
	}
	for {
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		if !p.match(token.Comma) {
			break
		}
	}
	return list, nil
}

// block consumes `{ ... }` and returns the body statements.
func (p *Parser) block() ([]*ast.Node, error) {
	if _, err := p.consume(token.LeftBrace, langerr.InvalidExpression, "expected '{' to open block"); err != nil {
		return nil, err
	}
	body, err := p.blockBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightBrace, langerr.InvalidExpression, "expected '}' to close block"); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) blockBody() ([]*ast.Node, error) {
	var body []*ast.Node
	for !p.check(token.RightBrace) && !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	return body, nil
}
