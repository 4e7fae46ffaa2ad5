package typesystem

// Linearize computes the resolution order of t: a C3-style merge of t's
// declared hierarchy, extended with externally supplied abstract
// candidates. Each candidate is inserted at the point where it first
// becomes applicable: the most-derived type that conforms to it while
// none of its direct bases do.
//
// Candidates unrelated to t's declared hierarchy that tie in the merge
// keep the caller-supplied ordering, which is how deterministic input
// ordering tames an otherwise arbitrary choice.
func Linearize(t *Type, abstracts []*Type) ([]*Type, error) {
	// Partition direct bases at the last base that is itself abstract.
	// Bases up to and including that point are merged before any
	// candidate abstracts introduced at t.
	boundary := 0
	for i := len(t.Bases) - 1; i >= 0; i-- {
		if t.Bases[i].Abstract {
			boundary = i + 1
			break
		}
	}
	explicit := t.Bases[:boundary]
	other := t.Bases[boundary:]

	var introduced []*Type
	remaining := make([]*Type, 0, len(abstracts))
	for _, a := range abstracts {
		if introducedAt(t, a) {
			introduced = append(introduced, a)
		} else {
			remaining = append(remaining, a)
		}
	}

	seqs := make([][]*Type, 0, len(explicit)+len(introduced)+len(other)+4)
	seqs = append(seqs, []*Type{t})
	for _, group := range [][]*Type{explicit, introduced, other} {
		for _, b := range group {
			lin, err := Linearize(b, remaining)
			if err != nil {
				return nil, err
			}
			seqs = append(seqs, lin)
		}
	}
	seqs = append(seqs, cloneTypes(explicit), cloneTypes(introduced), cloneTypes(other))

	merged, ok := c3Merge(seqs)
	if !ok {
		return nil, NewInconsistentHierarchyError(t)
	}
	return merged, nil
}

// introducedAt reports whether the abstract candidate a is introduced
// exactly at t: t conforms to a, but no direct base of t already does.
func introducedAt(t, a *Type) bool {
	if t == a || !t.ConformsTo(a) {
		return false
	}
	for _, b := range t.Bases {
		if b.ConformsTo(a) {
			return false
		}
	}
	return true
}

// c3Merge performs the head-selection merge: repeatedly take the first
// sequence whose head appears in no other sequence's tail, append that
// head to the result, and strip it from every sequence. When no head
// qualifies the hierarchy is inconsistent.
func c3Merge(seqs [][]*Type) ([]*Type, bool) {
	var result []*Type
	for {
		live := seqs[:0]
		for _, s := range seqs {
			if len(s) > 0 {
				live = append(live, s)
			}
		}
		seqs = live
		if len(seqs) == 0 {
			return result, true
		}

		var candidate *Type
		for _, s1 := range seqs {
			head := s1[0]
			blocked := false
			for _, s2 := range seqs {
				if inTail(s2, head) {
					blocked = true
					break
				}
			}
			if !blocked {
				candidate = head
				break
			}
		}
		if candidate == nil {
			return nil, false
		}

		result = append(result, candidate)
		for i, s := range seqs {
			if s[0] == candidate {
				seqs[i] = s[1:]
			}
		}
	}
}

func inTail(seq []*Type, t *Type) bool {
	for _, u := range seq[1:] {
		if u == t {
			return true
		}
	}
	return false
}

func cloneTypes(ts []*Type) []*Type {
	out := make([]*Type, len(ts))
	copy(out, ts)
	return out
}
