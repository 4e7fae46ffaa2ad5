package dispatch

import (
	"strings"

	"github.com/funvibe/multimethod/internal/typesystem"
)

// Implementation is one registered behavior of a dispatchable function.
// It receives the original call arguments unchanged.
type Implementation func(args ...any) any

// entry is one multi-argument registration: an ordered tuple of
// specifiers mapped to an implementation.
type entry struct {
	specs []Specifier
	impl  Implementation
}

// Registry owns the mapping from type specifiers to implementations for
// one dispatchable function. The single-argument form keys by expanded
// member type (registration order irrelevant, resolution uses
// linearization); the multi-argument form keeps insertion order because
// first structural match wins.
//
// The default implementation is held apart from both forms: it is the
// universal fallback and is skipped by tuple matching.
type Registry struct {
	arity int
	def   Implementation

	// Single-argument form. singleOrder records first-registration order
	// of the expanded keys; it doubles as the deterministic
	// abstract-candidate ordering the linearizer tie-breaks on.
	singles     map[*typesystem.Type]Implementation
	singleOrder []*typesystem.Type

	// Multi-argument form, insertion-ordered.
	entries map[string]*entry
	order   []string

	// version counts registry shape changes: it is bumped whenever a
	// newly registered specifier involves an abstract type, because
	// cached single-argument answers may then be stale.
	version uint64
}

func newRegistry(arity int, def Implementation) *Registry {
	return &Registry{
		arity:   arity,
		def:     def,
		singles: make(map[*typesystem.Type]Implementation),
		entries: make(map[string]*entry),
	}
}

// registerSingle expands an alternative-set specifier into one mapping
// per member type. Re-registering a member overwrites its implementation.
func (r *Registry) registerSingle(spec Specifier, impl Implementation) {
	for _, t := range spec.types {
		if _, exists := r.singles[t]; !exists {
			r.singleOrder = append(r.singleOrder, t)
		}
		r.singles[t] = impl
	}
	if spec.abstract() {
		r.version++
	}
}

// registerTuple inserts or overwrites a multi-argument registration.
// Overwriting keeps the original insertion position: the key, not the
// implementation, carries the first-match precedence.
func (r *Registry) registerTuple(specs []Specifier, impl Implementation) {
	key := tupleKey(specs)
	if _, exists := r.entries[key]; !exists {
		r.order = append(r.order, key)
	}
	r.entries[key] = &entry{specs: specs, impl: impl}
	for _, s := range specs {
		if s.abstract() {
			r.version++
			break
		}
	}
}

// lookupSingle is the O(1) exact-match fast path.
func (r *Registry) lookupSingle(t *typesystem.Type) (Implementation, bool) {
	impl, ok := r.singles[t]
	return impl, ok
}

func tupleKey(specs []Specifier) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = s.key()
	}
	return strings.Join(parts, ", ")
}
