package dispatch

import (
	"sort"

	"github.com/funvibe/multimethod/internal/typesystem"
)

// findImpl locates the best single-argument implementation for the
// runtime type rt, or nil when only the default applies.
//
// The walk follows the linearization of rt extended with the registry's
// abstract candidates. The first registered key found is the match;
// finding a second registered key that is unrelated to rt's own declared
// chain, with no conformance relation to the match, is genuine ambiguity
// and is surfaced, never guessed.
func (r *Registry) findImpl(rt *typesystem.Type) (Implementation, *typesystem.Type, error) {
	chain, err := rt.Ancestors()
	if err != nil {
		return nil, nil, err
	}
	inChain := make(map[*typesystem.Type]bool, len(chain))
	for _, t := range chain {
		inChain[t] = true
	}

	order, err := typesystem.Linearize(rt, r.abstractCandidates(rt, inChain))
	if err != nil {
		return nil, nil, err
	}

	var match *typesystem.Type
	for _, t := range order {
		if match != nil {
			if _, registered := r.singles[t]; registered &&
				!inChain[t] && !inChain[match] && !match.ConformsTo(t) {
				return nil, nil, &AmbiguousDispatchError{Runtime: rt, First: match, Second: t}
			}
			break
		}
		if _, registered := r.singles[t]; registered {
			match = t
		}
	}
	if match == nil {
		return nil, nil, nil
	}
	return r.singles[match], match, nil
}

// abstractCandidates restricts the registry's keys to abstract types
// relevant to rt but outside its declared ancestor chain. Keys that are
// strict declared bases of another candidate are dropped (they surface
// through that candidate's own linearization), and candidates conformed
// to by another candidate are ordered after it, so the more specific one
// wins the merge. Ties between unrelated candidates keep registration
// order.
func (r *Registry) abstractCandidates(rt *typesystem.Type, inChain map[*typesystem.Type]bool) []*typesystem.Type {
	var cands []*typesystem.Type
	for _, k := range r.singleOrder {
		if !inChain[k] && rt.ConformsTo(k) {
			cands = append(cands, k)
		}
	}

	filtered := cands[:0]
	for _, k := range cands {
		strictBase := false
		for _, other := range cands {
			if other != k && other.HasAncestor(k) {
				strictBase = true
				break
			}
		}
		if !strictBase {
			filtered = append(filtered, k)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ConformsTo(filtered[j]) && !filtered[j].ConformsTo(filtered[i])
	})
	return filtered
}

// findImplTuple locates the first registration structurally compatible
// with the runtime type tuple, in registration order. This is a
// first-match policy, not a best-match policy: it deliberately performs
// no linearization, and registration order is part of the observable
// contract.
func (r *Registry) findImplTuple(rts []*typesystem.Type) Implementation {
	for _, key := range r.order {
		e := r.entries[key]
		if len(e.specs) != len(rts) {
			continue
		}
		matched := true
		for i, spec := range e.specs {
			if !spec.Satisfied(rts[i]) {
				matched = false
				break
			}
		}
		if matched {
			return e.impl
		}
	}
	return r.def
}
