// Package eval walks the AST depth-first against a value.Scope chain
// (spec.md §4.3/§4.4). Grounded on analyzer/node.go's single-type
// dispatch switch (walk(n *sitter.Node, ...) switching on n.Type()),
// generalized from a static analysis pass into a tree-walking evaluator.
package eval

import (
	"fmt"
	"io"
	"math"

	"github.com/viant/vlang/internal/ast"
	"github.com/viant/vlang/internal/builtin"
	"github.com/viant/vlang/internal/ctrl"
	"github.com/viant/vlang/internal/langerr"
	"github.com/viant/vlang/internal/token"
	"github.com/viant/vlang/internal/value"
	"github.com/viant/vlang/internal/vthread"
)

// Evaluator walks Nodes against Scopes, writing print/println output to
// Stdout.
type Evaluator struct {
	Stdout io.Writer
}

// New creates an Evaluator writing to stdout.
func New(stdout io.Writer) *Evaluator {
	return &Evaluator{Stdout: stdout}
}

// Eval dispatches on n.Kind (spec.md §3). The returned ctrl.Signal
// reports whether an enclosing block should stop and propagate the
// value upward as an early return.
func (e *Evaluator) Eval(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	if n == nil {
		return value.NoneVal, ctrl.None, nil
	}
	switch n.Kind {
	case ast.NLiteral:
		return n.Literal, ctrl.None, nil
	case ast.NUnary:
		return e.evalUnary(n, scope)
	case ast.NBinary:
		return e.evalBinary(n, scope)
	case ast.NGrouping:
		// Grouping evaluates only its first child (spec.md §4.2 item
		// "Grouping"), so parenthesized expressions behave as a single value.
		if len(n.Children) == 0 {
			return value.NoneVal, ctrl.None, nil
		}
		return e.Eval(n.Children[0], scope)
	case ast.NTernary:
		return e.evalTernary(n, scope)
	case ast.NStatement:
		return e.evalStatement(n, scope)
	case ast.NScope:
		return e.evalScope(n, scope)
	}
	return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.InvalidExpression, n.Line, "unknown node kind")
}

// evalBody runs each statement of body in order, stopping at the first
// RETURN signal and propagating it (spec.md §9).
func (e *Evaluator) evalBody(body []*ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	result := value.NoneVal
	for _, stmt := range body {
		v, sig, err := e.Eval(stmt, scope)
		if err != nil {
			return value.Value{}, ctrl.None, err
		}
		result = v
		if sig.Returning {
			return result, sig, nil
		}
	}
	return result, ctrl.None, nil
}

// ---------------------------------------------------------------------
// unary / binary / ternary
// ---------------------------------------------------------------------

func (e *Evaluator) evalUnary(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	operand, _, err := e.Eval(n.Right, scope)
	if err != nil {
		return value.Value{}, ctrl.None, err
	}
	switch n.Operator.Kind {
	case token.Bang:
		return value.BoolVal(!operand.Truthy()), ctrl.None, nil
	case token.Minus:
		switch operand.Kind {
		case value.Int:
			return value.IntVal(-operand.IntV), ctrl.None, nil
		case value.Float:
			return value.FloatVal(-operand.FloatV), ctrl.None, nil
		}
	}
	return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.InvalidUnary, n.Line,
		fmt.Sprintf("operator %s not defined for %s", n.Operator.Kind, operand.Kind))
}

func (e *Evaluator) evalBinary(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	// and/or short-circuit and yield the deciding operand's own value,
	// not a forced boolean (spec.md §4.3).
	switch n.Operator.Kind {
	case token.And:
		left, _, err := e.Eval(n.Left, scope)
		if err != nil || !left.Truthy() {
			return left, ctrl.None, err
		}
		right, _, err := e.Eval(n.Right, scope)
		return right, ctrl.None, err
	case token.Or:
		left, _, err := e.Eval(n.Left, scope)
		if err != nil || left.Truthy() {
			return left, ctrl.None, err
		}
		right, _, err := e.Eval(n.Right, scope)
		return right, ctrl.None, err
	}

	left, _, err := e.Eval(n.Left, scope)
	if err != nil {
		return value.Value{}, ctrl.None, err
	}
	right, _, err := e.Eval(n.Right, scope)
	if err != nil {
		return value.Value{}, ctrl.None, err
	}

	switch n.Operator.Kind {
	case token.EqualEqual:
		return value.BoolVal(value.Equal(left, right)), ctrl.None, nil
	case token.BangEqual:
		return value.BoolVal(!value.Equal(left, right)), ctrl.None, nil
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent:
		return e.arith(n, left, right)
	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		return e.compare(n, left, right)
	}
	return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.InvalidBinary, n.Line,
		fmt.Sprintf("operator %s not supported", n.Operator.Kind))
}

func isNumeric(v value.Value) bool { return v.Kind == value.Int || v.Kind == value.Float }

func toFloat(v value.Value) float32 {
	if v.Kind == value.Int {
		return float32(v.IntV)
	}
	return v.FloatV
}

// arith implements +, -, *, /, % (spec.md §4.3): Int op Int stays Int,
// any Float operand promotes both to Float, and `+` with a String
// operand concatenates (the other side cast via builtin.CastString).
func (e *Evaluator) arith(n *ast.Node, l, r value.Value) (value.Value, ctrl.Signal, error) {
	if n.Operator.Kind == token.Plus && (l.Kind == value.String || r.Kind == value.String) {
		return value.Str(builtin.CastString(l).StringV + builtin.CastString(r).StringV), ctrl.None, nil
	}
	if l.Kind == value.Int && r.Kind == value.Int {
		a, b := l.IntV, r.IntV
		switch n.Operator.Kind {
		case token.Plus:
			return value.IntVal(a + b), ctrl.None, nil
		case token.Minus:
			return value.IntVal(a - b), ctrl.None, nil
		case token.Star:
			return value.IntVal(a * b), ctrl.None, nil
		case token.Slash:
			if b == 0 {
				return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.DivideByZero, n.Line, "division by zero")
			}
			return value.IntVal(a / b), ctrl.None, nil
		case token.Percent:
			if b == 0 {
				return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.DivideByZero, n.Line, "modulo by zero")
			}
			return value.IntVal(a % b), ctrl.None, nil
		}
	}
	if isNumeric(l) && isNumeric(r) {
		a, b := toFloat(l), toFloat(r)
		switch n.Operator.Kind {
		case token.Plus:
			return value.FloatVal(a + b), ctrl.None, nil
		case token.Minus:
			return value.FloatVal(a - b), ctrl.None, nil
		case token.Star:
			return value.FloatVal(a * b), ctrl.None, nil
		case token.Slash:
			if b == 0 {
				return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.DivideByZero, n.Line, "division by zero")
			}
			return value.FloatVal(a / b), ctrl.None, nil
		case token.Percent:
			if b == 0 {
				return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.DivideByZero, n.Line, "modulo by zero")
			}
			return value.FloatVal(float32(math.Mod(float64(a), float64(b)))), ctrl.None, nil
		}
	}
	return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.InvalidBinary, n.Line,
		fmt.Sprintf("%s not defined between %s and %s", n.Operator.Kind, l.Kind, r.Kind))
}

// compare implements >, >=, <, <= over numeric operands (promoted as in
// arith) and, for Strings, lexicographic comparison.
func (e *Evaluator) compare(n *ast.Node, l, r value.Value) (value.Value, ctrl.Signal, error) {
	var lt, eq bool
	switch {
	case isNumeric(l) && isNumeric(r):
		a, b := toFloat(l), toFloat(r)
		lt, eq = a < b, a == b
	case l.Kind == value.String && r.Kind == value.String:
		lt, eq = l.StringV < r.StringV, l.StringV == r.StringV
	default:
		return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.InvalidBinary, n.Line,
			fmt.Sprintf("%s not defined between %s and %s", n.Operator.Kind, l.Kind, r.Kind))
	}
	var result bool
	switch n.Operator.Kind {
	case token.Greater:
		result = !lt && !eq
	case token.GreaterEqual:
		result = !lt
	case token.Less:
		result = lt
	case token.LessEqual:
		result = lt || eq
	}
	return value.BoolVal(result), ctrl.None, nil
}

// evalTernary picks TrueExpr/FalseExpr by condition truthiness (used
// both for the `if` statement and the expression-level ternary — both
// parse to the same NTernary shape).
func (e *Evaluator) evalTernary(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	cond, _, err := e.Eval(n.Condition, scope)
	if err != nil {
		return value.Value{}, ctrl.None, err
	}
	branch := n.FalseExpr
	if cond.Truthy() {
		branch = n.TrueExpr
	}
	if branch == nil {
		return value.NoneVal, ctrl.None, nil
	}
	return e.Eval(branch, scope)
}

// ---------------------------------------------------------------------
// statements
// ---------------------------------------------------------------------

func (e *Evaluator) evalStatement(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	switch n.StmtKind {
	case ast.SLet:
		val, _, err := e.Eval(n.Inner, scope)
		if err != nil {
			return value.Value{}, ctrl.None, err
		}
		if val.Kind == value.List {
			scope.DefineList(n.Name.Lexeme, val.ListV.Elems, value.NAppend, value.NSet, value.NLen, value.NSlice)
		} else {
			scope.Define(n.Name.Lexeme, val)
		}
		return val, ctrl.None, nil

	case ast.SIdentifier:
		if n.Inner == nil {
			v, ok := scope.Retrieve(n.Name.Lexeme)
			if !ok {
				return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.IdentifierNotFound, n.Line, n.Name.Lexeme)
			}
			return v, ctrl.None, nil
		}
		val, _, err := e.Eval(n.Inner, scope)
		if err != nil {
			return value.Value{}, ctrl.None, err
		}
		if !scope.Redefine(n.Name.Lexeme, val) {
			return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.IdentifierNotFound, n.Line, n.Name.Lexeme)
		}
		return val, ctrl.None, nil

	case ast.SReturn:
		val, _, err := e.Eval(n.Inner, scope)
		if err != nil {
			return value.Value{}, ctrl.None, err
		}
		return val, ctrl.Return, nil

	case ast.SPrint, ast.SPrintln:
		val, _, err := e.Eval(n.Inner, scope)
		if err != nil {
			return value.Value{}, ctrl.None, err
		}
		if n.StmtKind == ast.SPrintln {
			fmt.Fprintln(e.Stdout, val.Text())
		} else {
			fmt.Fprint(e.Stdout, val.Text())
		}
		return val, ctrl.None, nil

	case ast.SCall:
		return e.evalCall(n, scope)

	case ast.SIndex:
		return e.evalIndex(n, scope)
	}
	return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.InvalidExpression, n.Line, "unknown statement kind")
}

func (e *Evaluator) evalIndex(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	listVal, ok := scope.Retrieve(n.Name.Lexeme)
	if !ok {
		return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.IdentifierNotFound, n.Line, n.Name.Lexeme)
	}
	if listVal.Kind != value.List {
		return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.InvalidIndex, n.Line, n.Name.Lexeme+" is not a List")
	}
	idxVal, _, err := e.Eval(n.Inner, scope)
	if err != nil {
		return value.Value{}, ctrl.None, err
	}
	// a negative or non-Int index is a runtime error; an index at or past
	// the end of the list yields None (spec.md §8 open-question decision).
	if idxVal.Kind != value.Int || idxVal.IntV < 0 {
		return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.InvalidIndex, n.Line, "invalid index")
	}
	if int(idxVal.IntV) >= len(listVal.ListV.Elems) {
		return value.NoneVal, ctrl.None, nil
	}
	return listVal.ListV.Elems[idxVal.IntV], ctrl.None, nil
}

func (e *Evaluator) evalCall(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	callee, ok := scope.Retrieve(n.Name.Lexeme)
	if !ok {
		return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.IdentifierNotFound, n.Line, n.Name.Lexeme)
	}

	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, _, err := e.Eval(a, scope)
		if err != nil {
			return value.Value{}, ctrl.None, err
		}
		args[i] = v
	}

	switch callee.Kind {
	case value.Native:
		if callee.NativeV == value.NThreadSpawn {
			return e.evalThreadSpawn(n, scope, args)
		}
		v, err := builtin.Dispatch(callee.NativeV, scope, args, n.Line)
		return v, ctrl.None, err

	case value.Func:
		overload, ok := callee.FuncV.Overloads[len(args)]
		if !ok {
			return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.ArityMismatch, n.Line,
				fmt.Sprintf("%s has no overload accepting %d argument(s)", n.Name.Lexeme, len(args)))
		}
		body, _ := overload.Body.(*ast.Node)
		callScope := value.New(scope)
		for i, p := range overload.Params {
			callScope.Define(p, args[i])
		}
		val, sig, err := e.evalBody(body.Children, callScope)
		value.MergeUpward(callScope, scope)
		if err != nil {
			return value.Value{}, ctrl.None, err
		}
		if sig.Returning {
			return val, ctrl.None, nil
		}
		return value.NoneVal, ctrl.None, nil

	default:
		return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.InvalidExpression, n.Line, n.Name.Lexeme+" is not callable")
	}
}

// evalThreadSpawn implements thread.spawn(target, argc, callback): see
// SPEC_FULL.md §5.6 for the five-step protocol. The worker runs against
// a locked snapshot of the caller scope rather than a live shared
// Parent pointer — Go maps aren't safe for concurrent unsynchronized
// access, so the handoff points are where original_source's
// Arc<Mutex<Environment>> locks are honored, and the worker's own
// execution proceeds against its private copy (see DESIGN.md).
func (e *Evaluator) evalThreadSpawn(n *ast.Node, scope *value.Scope, args []value.Value) (value.Value, ctrl.Signal, error) {
	if len(args) != 3 || args[0].Kind != value.String || args[1].Kind != value.Int || args[2].Kind != value.String {
		return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.ArityMismatch, n.Line,
			"thread.spawn(target_name, argc, callback_name) expects (String, Int, String)")
	}
	targetName, argc, callbackName := args[0].StringV, int(args[1].IntV), args[2].StringV

	handle := vthread.NewHandle(scope)
	var targetFunc value.Value
	var found bool
	var callerSnapshot *value.Scope
	handle.With(func(s *value.Scope) {
		targetFunc, found = s.Retrieve(targetName)
		s.Define("returned", value.NoneVal)
		callerSnapshot = s.Snapshot()
	})
	if !found || targetFunc.Kind != value.Func {
		return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.IdentifierNotFound, n.Line, "thread.spawn target is not a function: "+targetName)
	}
	overload, ok := targetFunc.FuncV.Overloads[argc]
	if !ok {
		return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.ArityMismatch, n.Line, "no matching overload for thread.spawn target")
	}
	body, _ := overload.Body.(*ast.Node)

	joined := make(chan value.Value, 1)
	go func() {
		// errors inside a worker never unwind the parent (spec.md §5.6)
		workerScope := value.New(callerSnapshot)
		last, _, werr := e.evalBody(body.Children, workerScope)
		result := value.NoneVal
		if werr == nil {
			result = last
		}

		var callback value.Value
		var cbFound bool
		var joinSnapshot *value.Scope
		handle.With(func(s *value.Scope) {
			s.Redefine("returned", result)
			callback, cbFound = s.Retrieve(callbackName)
			joinSnapshot = s.Snapshot()
		})

		if cbFound && callback.Kind == value.Func {
			if cbOverload, ok := callback.FuncV.Overloads[1]; ok {
				if cbBody, ok := cbOverload.Body.(*ast.Node); ok {
					cbScope := value.New(joinSnapshot)
					cbScope.Define(cbOverload.Params[0], result)
					_, _, _ = e.evalBody(cbBody.Children, cbScope)
					value.MergeUpward(cbScope, joinSnapshot)
				}
			}
		}
		joined <- value.EnvVal(joinSnapshot)
	}()

	return <-joined, ctrl.None, nil
}

// ---------------------------------------------------------------------
// scopes (func def, while, for, decenv, env-call, if-branch, list literal)
// ---------------------------------------------------------------------

func (e *Evaluator) evalScope(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	switch n.ScopeKind {
	case ast.KFunc:
		return e.evalFuncDef(n, scope)
	case ast.KWhile:
		return e.evalWhile(n, scope)
	case ast.KFor:
		return e.evalFor(n, scope)
	case ast.KClos:
		return e.evalClos(n, scope)
	case ast.KClosCall:
		return e.evalClosCall(n, scope)
	case ast.KIf:
		// an if/ternary branch body: fresh child scope, merged upward on
		// exit (spec.md §9's "upward merge on block exit", applied uniformly).
		child := value.New(scope)
		val, sig, err := e.evalBody(n.Children, child)
		value.MergeUpward(child, scope)
		return val, sig, err
	case ast.KListLiteral:
		return e.evalListLiteral(n, scope)
	}
	return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.InvalidExpression, n.Line, "unknown scope kind")
}

func (e *Evaluator) evalFuncDef(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	name := n.Name.Lexeme
	fnVal, ok := scope.Retrieve(name)
	var fn *value.Func
	if ok && fnVal.Kind == value.Func {
		fn = fnVal.FuncV
	} else {
		fn = &value.Func{Name: name}
		scope.Define(name, value.FuncVal(fn))
	}
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Lexeme
	}
	if err := fn.DefineOverload(params, n); err != nil {
		return value.Value{}, ctrl.None, langerr.Wrap(langerr.Eval, langerr.InvalidIdentifier, n.Line, err.Error(), err)
	}
	return value.NoneVal, ctrl.None, nil
}

func (e *Evaluator) evalWhile(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	for {
		cond, _, err := e.Eval(n.Condition, scope)
		if err != nil {
			return value.Value{}, ctrl.None, err
		}
		if !cond.Truthy() {
			return value.NoneVal, ctrl.None, nil
		}
		child := value.New(scope)
		val, sig, err := e.evalBody(n.Children, child)
		value.MergeUpward(child, scope)
		if err != nil {
			return value.Value{}, ctrl.None, err
		}
		if sig.Returning {
			return val, sig, nil
		}
	}
}

func (e *Evaluator) evalFor(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	header := n.Condition
	var init, cond, step *ast.Node
	if len(header.Children) == 3 {
		init, cond, step = header.Children[0], header.Children[1], header.Children[2]
	}
	loopScope := value.New(scope)
	if init != nil {
		if _, _, err := e.Eval(init, loopScope); err != nil {
			return value.Value{}, ctrl.None, err
		}
	}
	for {
		condVal, _, err := e.Eval(cond, loopScope)
		if err != nil {
			value.MergeUpward(loopScope, scope)
			return value.Value{}, ctrl.None, err
		}
		if !condVal.Truthy() {
			break
		}
		bodyScope := value.New(loopScope)
		val, sig, err := e.evalBody(n.Children, bodyScope)
		value.MergeUpward(bodyScope, loopScope)
		if err != nil {
			value.MergeUpward(loopScope, scope)
			return value.Value{}, ctrl.None, err
		}
		if sig.Returning {
			value.MergeUpward(loopScope, scope)
			return val, sig, nil
		}
		if step != nil {
			if _, _, err := e.Eval(step, loopScope); err != nil {
				value.MergeUpward(loopScope, scope)
				return value.Value{}, ctrl.None, err
			}
		}
	}
	value.MergeUpward(loopScope, scope)
	return value.NoneVal, ctrl.None, nil
}

// evalClos is `decenv NAME = { let … ; }`: each LET binds directly into
// a fresh, parentless Scope that becomes the Env value (spec.md §3).
func (e *Evaluator) evalClos(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	envScope := value.New(nil)
	for _, stmt := range n.Children {
		if _, _, err := e.Eval(stmt, envScope); err != nil {
			return value.Value{}, ctrl.None, err
		}
	}
	scope.Define(n.Name.Lexeme, value.EnvVal(envScope))
	return value.NoneVal, ctrl.None, nil
}

// evalClosCall is `env NAME { body }`: NAME's own Env scope is linked
// upward to the caller's current scope and the body runs directly
// against the Env itself (spec.md §4.3), so names from the surrounding
// scope stay reachable and anything the body binds or mutates persists
// in the Env once the call returns. The upward link is torn down again
// before returning so the Env doesn't retain a stale Parent across
// calls (original_source/src/interpreter/interpreter.rs:265-280).
func (e *Evaluator) evalClosCall(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	envVal, ok := scope.Retrieve(n.Name.Lexeme)
	if !ok || envVal.Kind != value.Env {
		return value.Value{}, ctrl.None, langerr.New(langerr.Eval, langerr.InvalidEnvCall, n.Line, "not an environment: "+n.Name.Lexeme)
	}
	envVal.EnvV.Parent = scope
	defer func() { envVal.EnvV.Parent = nil }()

	val, sig, err := e.evalBody(n.Children, envVal.EnvV)
	if err != nil {
		return value.Value{}, ctrl.None, err
	}
	if sig.Returning {
		return val, sig, nil
	}
	return value.NoneVal, ctrl.None, nil
}

func (e *Evaluator) evalListLiteral(n *ast.Node, scope *value.Scope) (value.Value, ctrl.Signal, error) {
	elems := make([]value.Value, len(n.Children))
	for i, c := range n.Children {
		v, _, err := e.Eval(c, scope)
		if err != nil {
			return value.Value{}, ctrl.None, err
		}
		elems[i] = v
	}
	return value.ListVal(elems), ctrl.None, nil
}
