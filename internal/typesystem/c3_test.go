package typesystem

import (
	"errors"
	"testing"
)

func names(order []*Type) []string {
	out := make([]string, len(order))
	for i, t := range order {
		out[i] = t.String()
	}
	return out
}

func checkOrder(t *testing.T, got []*Type, want []string) {
	t.Helper()
	gotNames := names(got)
	if len(gotNames) != len(want) {
		t.Fatalf("order = %v, want %v", gotNames, want)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Fatalf("order = %v, want %v", gotNames, want)
		}
	}
}

func TestLinearizeChain(t *testing.T) {
	tb := NewTable()
	tb.MustDefine("A")
	tb.MustDefine("B", "A")
	c := tb.MustDefine("C", "B")

	order, err := Linearize(c, nil)
	if err != nil {
		t.Fatalf("Linearize: %v", err)
	}
	checkOrder(t, order, []string{"C", "B", "A", "Any"})
}

func TestLinearizeDiamond(t *testing.T) {
	tb := NewTable()
	tb.MustDefine("A")
	tb.MustDefine("B", "A")
	tb.MustDefine("C", "A")
	d := tb.MustDefine("D", "B", "C")

	order, err := Linearize(d, nil)
	if err != nil {
		t.Fatalf("Linearize: %v", err)
	}
	// B and C share A; declaration order of D's bases breaks the tie.
	checkOrder(t, order, []string{"D", "B", "C", "A", "Any"})
}

func TestLinearizeInconsistent(t *testing.T) {
	tb := NewTable()
	tb.MustDefine("A")
	tb.MustDefine("B")
	tb.MustDefine("C", "A", "B")
	tb.MustDefine("D", "B", "A")
	e := tb.MustDefine("E", "C", "D")

	_, err := Linearize(e, nil)
	if err == nil {
		t.Fatalf("expected inconsistent hierarchy error")
	}
	var inconsistent *InconsistentHierarchyError
	if !errors.As(err, &inconsistent) {
		t.Fatalf("error = %v, want InconsistentHierarchyError", err)
	}
}

func TestLinearizeAbstractIntroduction(t *testing.T) {
	tb := NewTable()
	tb.MustDefine("Animal")
	walker := tb.MustDefineAbstract("Walker", []string{"walk"})
	dog, _ := tb.Define(TypeDecl{Name: "Dog", Bases: []string{"Animal"}, Provides: []string{"walk"}})

	order, err := Linearize(dog, []*Type{walker})
	if err != nil {
		t.Fatalf("Linearize: %v", err)
	}
	// Walker is introduced exactly at Dog and ranks before the distant
	// concrete base.
	checkOrder(t, order, []string{"Dog", "Walker", "Animal", "Any"})
}

func TestLinearizeAbstractIntroducedAtBase(t *testing.T) {
	tb := NewTable()
	walker := tb.MustDefineAbstract("Walker", []string{"walk"})
	tb.Define(TypeDecl{Name: "Animal", Provides: []string{"walk"}})
	dog := tb.MustDefine("Dog", "Animal")

	order, err := Linearize(dog, []*Type{walker})
	if err != nil {
		t.Fatalf("Linearize: %v", err)
	}
	// Animal already conforms, so Walker is introduced at Animal, not Dog.
	checkOrder(t, order, []string{"Dog", "Animal", "Walker", "Any"})
}

func TestLinearizeUnrelatedAbstractsKeepCallerOrder(t *testing.T) {
	tb := NewTable()
	a := tb.MustDefineAbstract("Readable", []string{"read"})
	b := tb.MustDefineAbstract("Writable", []string{"write"})
	file, _ := tb.Define(TypeDecl{Name: "File", Provides: []string{"read", "write"}})

	order1, err := Linearize(file, []*Type{a, b})
	if err != nil {
		t.Fatalf("Linearize: %v", err)
	}
	checkOrder(t, order1, []string{"File", "Readable", "Writable", "Any"})

	order2, err := Linearize(file, []*Type{b, a})
	if err != nil {
		t.Fatalf("Linearize: %v", err)
	}
	checkOrder(t, order2, []string{"File", "Writable", "Readable", "Any"})
}

func TestLinearizeAbstractHierarchy(t *testing.T) {
	tb := NewTable()
	sized := tb.MustDefineAbstract("Sized", []string{"len"})
	collection, _ := tb.Define(TypeDecl{
		Name:     "Collection",
		Abstract: true,
		Bases:    []string{"Sized"},
		Requires: []string{"iter"},
	})
	bag, _ := tb.Define(TypeDecl{Name: "Bag", Provides: []string{"len", "iter"}})

	// Collection declares Sized as a base, so the merge keeps Sized after
	// Collection even though both candidates apply to Bag.
	order, err := Linearize(bag, []*Type{collection, sized})
	if err != nil {
		t.Fatalf("Linearize: %v", err)
	}
	checkOrder(t, order, []string{"Bag", "Collection", "Sized", "Any"})
}

func TestAncestorsMatchesPlainLinearization(t *testing.T) {
	tb := NewTable()
	tb.MustDefine("A")
	tb.MustDefine("B", "A")
	c := tb.MustDefine("C", "B", "A")

	chain, err := c.Ancestors()
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	checkOrder(t, chain, []string{"C", "B", "A", "Any"})
}
