package value

import "fmt"

// Scope is a mutable mapping from name to Value with an optional upward
// link to an enclosing scope (spec.md §3/§4.4). Grounded on
// analyzer/linage.Scope's ID'd struct with a Parent pointer — generalized
// here from a passive record into the live binding store the evaluator
// reads and writes against.
type Scope struct {
	vars   map[string]Value
	Parent *Scope
}

// New creates a scope linked to parent (nil for the global scope).
func New(parent *Scope) *Scope {
	return &Scope{vars: map[string]Value{}, Parent: parent}
}

// Define unconditionally inserts name -> v in the current scope.
func (s *Scope) Define(name string, v Value) {
	s.vars[name] = v
}

// DefineList defines name as a List value and also installs the
// reserved list-bearing-Env companion keys (spec.md §3 invariant):
// `list`, `append`, `set`, `len`, `slice`, each a NativeFunc. The caller
// supplies the native tags so this package need not import builtin.
func (s *Scope) DefineList(name string, elems []Value, appendTag, setTag, lenTag, sliceTag NativeTag) {
	s.Define(name, ListVal(elems))
	s.Define("list", Str(name))
	s.Define("append", NativeVal(appendTag))
	s.Define("set", NativeVal(setTag))
	s.Define("len", NativeVal(lenTag))
	s.Define("slice", NativeVal(sliceTag))
}

// DefineEnv inserts an Env value wrapping vars as a fresh, parentless
// scope (spec.md §3: "environment definition").
func (s *Scope) DefineEnv(name string, vars map[string]Value) {
	env := &Scope{vars: vars}
	s.Define(name, EnvVal(env))
}

// Retrieve performs a linear search from the current scope upward
// (spec.md §4.4); not-found is reported via ok=false so callers can
// attach their own langerr.Error with phase/line context.
func (s *Scope) Retrieve(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Redefine finds the nearest scope containing name and replaces its
// binding; not-found is reported via ok=false.
func (s *Scope) Redefine(name string, v Value) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return true
		}
	}
	return false
}

// Has reports whether name is bound in this scope specifically (not an
// ancestor) — used by MergeUpward to decide which keys to copy up.
func (s *Scope) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Keys returns the names bound directly in this scope.
func (s *Scope) Keys() []string {
	keys := make([]string, 0, len(s.vars))
	for k := range s.vars {
		keys = append(keys, k)
	}
	return keys
}

// MergeUpward implements spec.md §4.4/§9's "upward merge on block exit":
// for each key present in parent, copy child's current value for that
// key into parent. Names introduced only inside child vanish with it;
// this is what makes `let` mutations inside if/while/for visible to the
// caller for names the caller already holds — any parent key touched (directly or transitively re-defined) inside
// the child is written back.
func MergeUpward(child, parent *Scope) {
	for _, key := range parent.Keys() {
		if v, ok := child.vars[key]; ok {
			parent.vars[key] = v
		}
	}
}

// Snapshot returns a shallow copy of the scope's own bindings as a new,
// parentless Scope — used to let a closure retain a scope by value
// (spec.md §3: "Closures may retain a scope by cloning it into an Env
// value") and to hand a scope to a worker thread without sharing the
// live map.
func (s *Scope) Snapshot() *Scope {
	cp := make(map[string]Value, len(s.vars))
	for k, v := range s.vars {
		cp[k] = v
	}
	return &Scope{vars: cp}
}

// String renders the scope's own bindings for debugging.
func (s *Scope) String() string {
	return fmt.Sprintf("Scope%v", s.vars)
}
