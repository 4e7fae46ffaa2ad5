// Package dispatch implements runtime generic-function dispatch: a
// callable with one default implementation and any number of registered
// implementations, resolved per call against the runtime types of the
// arguments.
//
// A dispatchable with a declared parameter count of 1 resolves through
// hierarchy linearization (most specific registration wins, ambiguity is
// surfaced). A dispatchable with a higher count resolves through ordered
// structural matching (first compatible registration wins). The two
// policies are deliberately distinct and not interchangeable.
package dispatch

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/funvibe/multimethod/internal/typesystem"
)

// Diagnostic is an advisory, warning-level condition reported during
// registration. It never affects resolution.
type Diagnostic struct {
	Func    string
	Param   string
	Message string
}

// Func is a dispatchable function: the registry, the cache, and the
// default implementation live and die with it. Dropping the handle
// releases every registered implementation and type reference at once.
type Func struct {
	name  string
	id    uuid.UUID
	table *typesystem.Table
	arity int
	warn  func(Diagnostic)

	// mu guards register/resolve/cache-clear, the only shared mutable
	// state. It is released before a resolved implementation is invoked,
	// so implementations may call back into the dispatchable.
	mu    sync.Mutex
	reg   *Registry
	cache *resolutionCache
}

// Option configures a dispatchable at definition time.
type Option func(*Func)

// WithWarn installs a sink for advisory diagnostics. The default discards
// them.
func WithWarn(fn func(Diagnostic)) Option {
	return func(f *Func) { f.warn = fn }
}

// Define creates a dispatchable function with the given default
// implementation and declared parameter count. The default is the
// universal fallback: it satisfies every call no more specific
// registration matches.
func Define(name string, tb *typesystem.Table, arity int, def Implementation, opts ...Option) (*Func, error) {
	if tb == nil {
		return nil, fmt.Errorf("cannot define %s: type table is nil", name)
	}
	if arity < 1 {
		return nil, fmt.Errorf("cannot define %s: declared parameter count must be at least 1, got %d", name, arity)
	}
	if def == nil {
		return nil, fmt.Errorf("cannot define %s: default implementation is nil", name)
	}
	f := &Func{
		name:  name,
		id:    uuid.New(),
		table: tb,
		arity: arity,
		warn:  func(Diagnostic) {},
		reg:   newRegistry(arity, def),
		cache: newResolutionCache(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Name returns the dispatchable's name, used in error messages.
func (f *Func) Name() string { return f.name }

// ID returns the handle identity, surfaced in the registry view.
func (f *Func) ID() uuid.UUID { return f.id }

// Arity returns the declared parameter count.
func (f *Func) Arity() int { return f.arity }

// Table returns the type table the dispatchable resolves against.
func (f *Func) Table() *typesystem.Table { return f.table }

// RegisterOption annotates a single registration.
type RegisterOption func(*registration)

type registration struct {
	defaulted []string
}

// WithDefaulted flags parameters that carry default values in the
// registered implementation. Defaults are never consulted when ranking
// candidates, so each flagged parameter is reported as an advisory
// diagnostic, not an error.
func WithDefaulted(params ...string) RegisterOption {
	return func(r *registration) {
		r.defaulted = append(r.defaulted, params...)
	}
}

// Register adds an implementation for the given per-parameter type
// specifiers. The specifier count must equal the declared parameter
// count, and every specifier must be a type or a non-empty
// alternative-set. On the single-argument form an alternative-set is
// expanded into one mapping per member. Re-registering the same
// specifiers overwrites the previous implementation.
//
// The implementation is returned unchanged so registration composes as a
// pass-through.
func (f *Func) Register(impl Implementation, specs ...Specifier) (Implementation, error) {
	return f.RegisterWith(impl, specs)
}

// RegisterWith is Register with per-registration options.
func (f *Func) RegisterWith(impl Implementation, specs []Specifier, opts ...RegisterOption) (Implementation, error) {
	if impl == nil {
		return nil, &InvalidDispatchTypeError{Func: f.name, Position: -1, Reason: "implementation is nil"}
	}
	if len(specs) != f.arity {
		return nil, &ArityMismatchError{Func: f.name, Want: f.arity, Got: len(specs)}
	}
	for i, s := range specs {
		if reason := s.invalid(); reason != "" {
			return nil, &InvalidDispatchTypeError{Func: f.name, Position: i, Reason: reason}
		}
	}

	var reg registration
	for _, opt := range opts {
		opt(&reg)
	}
	for _, param := range reg.defaulted {
		f.warn(Diagnostic{
			Func:    f.name,
			Param:   param,
			Message: fmt.Sprintf("parameter %q has a default value; default values are not considered in dispatching", param),
		})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.arity == 1 {
		f.reg.registerSingle(specs[0], impl)
	} else {
		f.reg.registerTuple(specs, impl)
	}
	// Any registration may shadow a previously resolved answer.
	f.cache.clear()
	return impl, nil
}

// Dispatch resolves the implementation for the given runtime types
// without invoking it.
func (f *Func) Dispatch(types ...*typesystem.Type) (Implementation, error) {
	if len(types) == 0 {
		return nil, &EmptyCallError{Func: f.name}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dispatchLocked(types)
}

func (f *Func) dispatchLocked(types []*typesystem.Type) (Implementation, error) {
	if f.arity > 1 {
		return f.reg.findImplTuple(types), nil
	}

	rt := types[0]
	if impl, ok := f.reg.lookupSingle(rt); ok {
		return impl, nil
	}
	if impl, ok := f.cache.get(rt, f.reg.version); ok {
		return impl, nil
	}
	impl, _, err := f.reg.findImpl(rt)
	if err != nil {
		if amb, ok := err.(*AmbiguousDispatchError); ok {
			amb.Func = f.name
		}
		return nil, err
	}
	if impl == nil {
		impl = f.reg.def
	}
	f.cache.put(rt, f.reg.version, impl)
	return impl, nil
}

// NamedArg is a named call argument. Go has no keyword arguments, so
// named values are supplied as an ordered slice; their types participate
// in dispatch after the positional ones.
type NamedArg struct {
	Name  string
	Value any
}

// Call dispatches on the runtime types of args and invokes the resolved
// implementation with the original arguments.
func (f *Func) Call(args ...any) (any, error) {
	return f.CallNamed(args)
}

// CallNamed is Call with trailing named arguments.
func (f *Func) CallNamed(pos []any, named ...NamedArg) (any, error) {
	if len(pos) == 0 && len(named) == 0 {
		return nil, &EmptyCallError{Func: f.name}
	}
	all := make([]any, 0, len(pos)+len(named))
	all = append(all, pos...)
	for _, n := range named {
		all = append(all, n.Value)
	}

	types := make([]*typesystem.Type, len(all))
	for i, v := range all {
		types[i] = TypeOf(f.table, v)
	}

	f.mu.Lock()
	impl, err := f.dispatchLocked(types)
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return impl(all...), nil
}

// Registration is one row of the read-only registry view.
type Registration struct {
	// Specs holds the specifier strings, one per parameter position.
	Specs []string
	// Default marks the universal fallback supplied at definition time.
	Default bool
}

// Registry returns an ordered snapshot of the current registrations: the
// default first, then the single-argument keys in first-registration
// order, then the tuple entries in insertion order. Mutating the snapshot
// has no effect on the dispatchable.
func (f *Func) Registry() []Registration {
	f.mu.Lock()
	defer f.mu.Unlock()

	view := []Registration{{Specs: []string{f.table.Any().String()}, Default: true}}
	for _, t := range f.reg.singleOrder {
		view = append(view, Registration{Specs: []string{t.String()}})
	}
	for _, key := range f.reg.order {
		e := f.reg.entries[key]
		specs := make([]string, len(e.specs))
		for i, s := range e.specs {
			specs[i] = s.String()
		}
		view = append(view, Registration{Specs: specs})
	}
	return view
}
