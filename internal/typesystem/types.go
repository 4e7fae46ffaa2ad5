package typesystem

import (
	"sync"
)

// Canonical runtime type names seeded into every Table.
const (
	AnyTypeName      = "Any"
	IntTypeName      = "Int"
	FloatTypeName    = "Float"
	BoolTypeName     = "Bool"
	CharTypeName     = "Char"
	StringTypeName   = "String"
	ListTypeName     = "List"
	MapTypeName      = "Map"
	TupleTypeName    = "Tuple"
	NilTypeName      = "Nil"
	FunctionTypeName = "Function"
	RangeTypeName    = "Range"
)

// Type describes a single named runtime type registered in a Table.
// Types are compared by identity: two *Type values are the same type only
// if they are the same pointer, which holds because a Table never defines
// the same qualified name twice.
type Type struct {
	Name   string
	Module string // Optional module path for imported types

	// Bases are the direct bases in declaration order. Every type except
	// the universal Any sentinel has at least one base (Any by default),
	// so every linearization terminates in Any.
	Bases []*Type

	// Abstract marks a virtual base: a type that concrete types conform to
	// either structurally (Requires) or by explicit registration.
	Abstract bool

	// Provides lists capability names this type declares.
	Provides []string

	// Requires lists capability names a conforming implementer must
	// provide. Only meaningful on abstract types.
	Requires []string

	// impls holds explicitly registered implementers. Only populated on
	// abstract types, via Table.RegisterConformance.
	impls map[*Type]bool
}

func (t *Type) String() string {
	if t.Module != "" {
		return t.Module + "." + t.Name
	}
	return t.Name
}

// IsAny reports whether t is the universal sentinel that every type
// conforms to.
func (t *Type) IsAny() bool {
	return t.Module == "" && t.Name == AnyTypeName && len(t.Bases) == 0
}

// HasAncestor reports whether a appears in t's declared base graph.
// Order does not matter here; use Ancestors for the linearized chain.
func (t *Type) HasAncestor(a *Type) bool {
	return t.hasAncestor(a)
}

func (t *Type) hasAncestor(a *Type) bool {
	for _, b := range t.Bases {
		if b == a || b.hasAncestor(a) {
			return true
		}
	}
	return false
}

// SelfAndAncestors returns t followed by its declared ancestors in
// depth-first order, deduplicated. This is the reachability set, not the
// resolution order.
func (t *Type) SelfAndAncestors() []*Type {
	seen := make(map[*Type]bool)
	var out []*Type
	var walk func(*Type)
	walk = func(u *Type) {
		if seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
		for _, b := range u.Bases {
			walk(b)
		}
	}
	walk(t)
	return out
}

// Ancestors returns the C3 resolution order of t's declared hierarchy,
// starting with t itself and ending in Any.
func (t *Type) Ancestors() ([]*Type, error) {
	return Linearize(t, nil)
}

// allRequires collects the capability names required by a and every
// abstract ancestor of a.
func (a *Type) allRequires() []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range a.SelfAndAncestors() {
		for _, c := range u.Requires {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// provides reports whether t or one of its declared ancestors declares
// capability c.
func (t *Type) provides(c string) bool {
	for _, u := range t.SelfAndAncestors() {
		for _, p := range u.Provides {
			if p == c {
				return true
			}
		}
	}
	return false
}

// ConformsTo reports whether t is a conforming implementer of a.
// Conformance holds when a is in t's declared ancestry, when t (or one of
// its ancestors) was explicitly registered on a, or structurally when t
// provides every capability a requires.
func (t *Type) ConformsTo(a *Type) bool {
	if t == a || a.IsAny() {
		return true
	}
	if t.hasAncestor(a) {
		return true
	}
	if !a.Abstract {
		return false
	}
	if a.impls != nil {
		for _, u := range t.SelfAndAncestors() {
			if a.impls[u] {
				return true
			}
		}
	}
	required := a.allRequires()
	if len(required) == 0 {
		return false
	}
	for _, c := range required {
		if !t.provides(c) {
			return false
		}
	}
	return true
}

// SubtypeOf reports whether a value of type t is acceptable where s is
// expected: equality, declared ancestry, or conformance to an abstract
// base.
func (t *Type) SubtypeOf(s *Type) bool {
	return t.ConformsTo(s)
}

// Table is the explicit type-description table. It is the sole owner of
// the types it defines; resolvers consume it through pure queries and
// never reflect on host values directly.
type Table struct {
	mu    sync.Mutex
	types map[string]*Type
	any   *Type
}

// NewTable creates a table seeded with the universal Any sentinel and the
// canonical builtin runtime types.
func NewTable() *Table {
	tb := &Table{types: make(map[string]*Type)}
	tb.any = &Type{Name: AnyTypeName}
	tb.types[AnyTypeName] = tb.any
	for _, name := range []string{
		IntTypeName, FloatTypeName, BoolTypeName, CharTypeName,
		StringTypeName, ListTypeName, MapTypeName, TupleTypeName,
		NilTypeName, FunctionTypeName, RangeTypeName,
	} {
		tb.types[name] = &Type{Name: name, Bases: []*Type{tb.any}}
	}
	return tb
}

// Any returns the universal sentinel type.
func (tb *Table) Any() *Type {
	return tb.any
}

// Lookup finds a type by its qualified name.
func (tb *Table) Lookup(name string) (*Type, bool) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	t, ok := tb.types[name]
	return t, ok
}

// MustLookup finds a type by name or panics. Intended for tables whose
// contents are known statically (tests, seeded builtins).
func (tb *Table) MustLookup(name string) *Type {
	t, ok := tb.Lookup(name)
	if !ok {
		panic(NewTypeNotFoundError(name).Error())
	}
	return t
}

// Define registers a new type described by decl. Bases are resolved by
// qualified name and must already be defined, which keeps the base graph
// acyclic by construction. A type with no declared bases gets Any as its
// implicit base.
func (tb *Table) Define(decl TypeDecl) (*Type, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if decl.Name == "" {
		return nil, NewInvalidDeclError(decl.Name, "type name is empty")
	}
	t := &Type{
		Name:     decl.Name,
		Module:   decl.Module,
		Abstract: decl.Abstract,
		Provides: decl.Provides,
		Requires: decl.Requires,
	}
	key := t.String()
	if _, exists := tb.types[key]; exists {
		return nil, NewDuplicateTypeError(key)
	}

	for _, baseName := range decl.Bases {
		base, ok := tb.types[baseName]
		if !ok {
			return nil, NewTypeNotFoundError(baseName)
		}
		t.Bases = append(t.Bases, base)
	}
	if len(t.Bases) == 0 {
		t.Bases = []*Type{tb.any}
	}
	if len(decl.Requires) > 0 && !decl.Abstract {
		return nil, NewInvalidDeclError(key, "requires is only valid on abstract types")
	}

	// Resolve every conformance target before touching the table, so a
	// failed declaration leaves no trace behind.
	targets := make([]*Type, 0, len(decl.Implements))
	for _, implName := range decl.Implements {
		a, ok := tb.types[implName]
		if !ok {
			return nil, NewTypeNotFoundError(implName)
		}
		if !a.Abstract {
			return nil, NewInvalidDeclError(a.String(), "conformance target is not abstract")
		}
		targets = append(targets, a)
	}

	tb.types[key] = t
	for _, a := range targets {
		recordConformance(t, a)
	}
	return t, nil
}

// MustDefine is Define for statically known declarations.
func (tb *Table) MustDefine(name string, bases ...string) *Type {
	t, err := tb.Define(TypeDecl{Name: name, Bases: bases})
	if err != nil {
		panic(err.Error())
	}
	return t
}

// MustDefineAbstract defines an abstract type requiring the given
// capabilities.
func (tb *Table) MustDefineAbstract(name string, requires []string, bases ...string) *Type {
	t, err := tb.Define(TypeDecl{Name: name, Abstract: true, Requires: requires, Bases: bases})
	if err != nil {
		panic(err.Error())
	}
	return t
}

// RegisterConformance records t as an explicit implementer of the
// abstract type a. The registration is propagated to every abstract
// ancestor of a, so conformance to a implies conformance to a's own
// abstract bases.
func (tb *Table) RegisterConformance(t, a *Type) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.registerConformanceLocked(t, a)
}

func (tb *Table) registerConformanceLocked(t, a *Type) error {
	if !a.Abstract {
		return NewInvalidDeclError(a.String(), "conformance target is not abstract")
	}
	recordConformance(t, a)
	return nil
}

func recordConformance(t, a *Type) {
	for _, u := range a.SelfAndAncestors() {
		if !u.Abstract {
			continue
		}
		if u.impls == nil {
			u.impls = make(map[*Type]bool)
		}
		u.impls[t] = true
	}
}

// Opaque returns the type registered under name, interning a fresh
// baseless type when the table has never seen it. Used for host values
// whose type was not declared; such a type resolves only to the default
// implementation.
func (tb *Table) Opaque(name string) *Type {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if t, ok := tb.types[name]; ok {
		return t
	}
	t := &Type{Name: name, Bases: []*Type{tb.any}}
	tb.types[name] = t
	return t
}

// Names returns the qualified names of every defined type, for
// inspection tooling. The order is unspecified.
func (tb *Table) Names() []string {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	names := make([]string, 0, len(tb.types))
	for name := range tb.types {
		names = append(names, name)
	}
	return names
}
