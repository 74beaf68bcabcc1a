package builtin

import (
	"github.com/viant/vlang/internal/langerr"
	"github.com/viant/vlang/internal/value"
)

// target resolves the scope's reserved `list` key to the name of the
// variable the list-bearing companion calls operate on, then retrieves
// that variable's current List value (spec.md §3 invariant: a List
// binding installs `list`/`append`/`set`/`len`/`slice` into the same
// scope it lives in).
func target(scope *value.Scope, line int) (string, value.Value, error) {
	nameVal, ok := scope.Retrieve("list")
	if !ok || nameVal.Kind != value.String {
		return "", value.Value{}, langerr.New(langerr.Eval, langerr.InvalidAppend, line, "no list bound in this scope")
	}
	name := nameVal.StringV
	listVal, ok := scope.Retrieve(name)
	if !ok || listVal.Kind != value.List {
		return "", value.Value{}, langerr.New(langerr.Eval, langerr.InvalidAppend, line, "bound list is no longer a List")
	}
	return name, listVal, nil
}

// Append implements `append(x)` (original list_ops.rs::append).
func Append(scope *value.Scope, args []value.Value, line int) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, langerr.New(langerr.Eval, langerr.ArityMismatch, line, "append expects 1 argument")
	}
	name, listVal, err := target(scope, line)
	if err != nil {
		return value.Value{}, err
	}
	elems := append(append([]value.Value{}, listVal.ListV.Elems...), args[0])
	updated := value.ListVal(elems)
	scope.Redefine(name, updated)
	scope.Redefine("list", value.Str(name))
	return updated, nil
}

// Set implements `set(idx, x)` (original list_ops.rs::set): idx must be
// an Int in range, else InvalidIndex.
func Set(scope *value.Scope, args []value.Value, line int) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, langerr.New(langerr.Eval, langerr.ArityMismatch, line, "set expects 2 arguments")
	}
	name, listVal, err := target(scope, line)
	if err != nil {
		return value.Value{}, err
	}
	idx := args[0]
	if idx.Kind != value.Int || idx.IntV < 0 || int(idx.IntV) >= len(listVal.ListV.Elems) {
		return value.Value{}, langerr.New(langerr.Eval, langerr.InvalidIndex, line, "set index out of range")
	}
	elems := append([]value.Value{}, listVal.ListV.Elems...)
	elems[idx.IntV] = args[1]
	updated := value.ListVal(elems)
	scope.Redefine(name, updated)
	return updated, nil
}

// Len implements `len()` (original list_ops.rs::len).
func Len(scope *value.Scope, args []value.Value, line int) (value.Value, error) {
	if len(args) != 0 {
		return value.Value{}, langerr.New(langerr.Eval, langerr.ArityMismatch, line, "len expects 0 arguments")
	}
	_, listVal, err := target(scope, line)
	if err != nil {
		return value.Value{}, err
	}
	return value.IntVal(int64(len(listVal.ListV.Elems))), nil
}

// Slice implements `slice(i, j)` (original list_ops.rs::slice); a
// negative or out-of-range bound is a parse-adjacent runtime error
// (spec.md §8 open-question decision: indices never silently clamp).
func Slice(scope *value.Scope, args []value.Value, line int) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, langerr.New(langerr.Eval, langerr.ArityMismatch, line, "slice expects 2 arguments")
	}
	_, listVal, err := target(scope, line)
	if err != nil {
		return value.Value{}, err
	}
	i, j := args[0], args[1]
	elems := listVal.ListV.Elems
	if i.Kind != value.Int || j.Kind != value.Int || i.IntV < 0 || j.IntV > int64(len(elems)) || i.IntV > j.IntV {
		return value.Value{}, langerr.New(langerr.Eval, langerr.InvalidIndex, line, "slice bounds out of range")
	}
	out := append([]value.Value{}, elems[i.IntV:j.IntV]...)
	return value.ListVal(out), nil
}
