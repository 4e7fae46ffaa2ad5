package dispatch

import (
	"sort"
	"strings"

	"github.com/funvibe/multimethod/internal/typesystem"
)

// Specifier constrains one parameter position of a registration: either a
// single type or an alternative-set ("one-of"). Alternative-sets are
// normalized the way union types are: flattened, deduplicated and sorted,
// so two registrations on the same alternatives share one registry key.
type Specifier struct {
	types []*typesystem.Type
}

// On builds a single-type specifier.
func On(t *typesystem.Type) Specifier {
	return Specifier{types: []*typesystem.Type{t}}
}

// OneOf builds an alternative-set specifier. A one-element set collapses
// to a single-type specifier.
func OneOf(ts ...*typesystem.Type) Specifier {
	seen := make(map[*typesystem.Type]bool)
	unique := make([]*typesystem.Type, 0, len(ts))
	for _, t := range ts {
		if seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, t)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i] == nil || unique[j] == nil {
			return false
		}
		return unique[i].String() < unique[j].String()
	})
	return Specifier{types: unique}
}

// Types returns the member types. Single-type specifiers have exactly one.
func (s Specifier) Types() []*typesystem.Type {
	out := make([]*typesystem.Type, len(s.types))
	copy(out, s.types)
	return out
}

// Satisfied reports whether the runtime type rt satisfies this position:
// subtype-or-equal of any member.
func (s Specifier) Satisfied(rt *typesystem.Type) bool {
	for _, t := range s.types {
		if rt.SubtypeOf(t) {
			return true
		}
	}
	return false
}

// abstract reports whether any member is an abstract type. Registering an
// abstract member changes the registry shape for future lookups.
func (s Specifier) abstract() bool {
	for _, t := range s.types {
		if t != nil && t.Abstract {
			return true
		}
	}
	return false
}

// invalid returns a non-empty reason when the specifier is malformed.
// Validated at registration time.
func (s Specifier) invalid() string {
	if len(s.types) == 0 {
		return "alternative-set is empty"
	}
	for _, t := range s.types {
		if t == nil {
			return "specifier references a nil or undefined type"
		}
	}
	return ""
}

func (s Specifier) String() string {
	parts := make([]string, 0, len(s.types))
	for _, t := range s.types {
		if t == nil {
			parts = append(parts, "<nil>")
			continue
		}
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " | ")
}

// key is the canonical registry key for a tuple position. Normalization
// in OneOf makes it stable across registration call sites.
func (s Specifier) key() string {
	return s.String()
}
