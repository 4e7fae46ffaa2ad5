package typesystem

import (
	"testing"
)

func TestTableSeedsBuiltins(t *testing.T) {
	tb := NewTable()

	for _, name := range []string{
		AnyTypeName, IntTypeName, FloatTypeName, BoolTypeName,
		StringTypeName, ListTypeName, MapTypeName, NilTypeName,
	} {
		typ, ok := tb.Lookup(name)
		if !ok {
			t.Fatalf("builtin %s not seeded", name)
		}
		if name != AnyTypeName && !typ.SubtypeOf(tb.Any()) {
			t.Errorf("%s should be a subtype of Any", name)
		}
	}

	if !tb.Any().IsAny() {
		t.Errorf("Any sentinel not recognized by IsAny")
	}
	if tb.MustLookup(IntTypeName).IsAny() {
		t.Errorf("Int should not be the Any sentinel")
	}
}

func TestDefineValidation(t *testing.T) {
	tb := NewTable()

	if _, err := tb.Define(TypeDecl{}); err == nil {
		t.Errorf("empty name should fail")
	}
	if _, err := tb.Define(TypeDecl{Name: "Dog", Bases: []string{"Animal"}}); err == nil {
		t.Errorf("unknown base should fail")
	}
	if _, err := tb.Define(TypeDecl{Name: IntTypeName}); err == nil {
		t.Errorf("duplicate name should fail")
	}
	if _, err := tb.Define(TypeDecl{Name: "Sized", Requires: []string{"len"}}); err == nil {
		t.Errorf("requires on a concrete type should fail")
	}
}

func TestDeclaredAncestry(t *testing.T) {
	tb := NewTable()
	animal := tb.MustDefine("Animal")
	dog := tb.MustDefine("Dog", "Animal")
	puppy := tb.MustDefine("Puppy", "Dog")

	tests := []struct {
		name string
		sub  *Type
		sup  *Type
		want bool
	}{
		{"direct base", dog, animal, true},
		{"transitive base", puppy, animal, true},
		{"self", dog, dog, true},
		{"reversed", animal, dog, false},
		{"unrelated", dog, tb.MustLookup(IntTypeName), false},
		{"anything to Any", puppy, tb.Any(), true},
	}
	for _, tt := range tests {
		if got := tt.sub.SubtypeOf(tt.sup); got != tt.want {
			t.Errorf("%s: SubtypeOf(%s, %s) = %v, want %v", tt.name, tt.sub, tt.sup, got, tt.want)
		}
	}
}

func TestStructuralConformance(t *testing.T) {
	tb := NewTable()
	sized := tb.MustDefineAbstract("Sized", []string{"len"})
	collection, err := tb.Define(TypeDecl{
		Name:     "Collection",
		Abstract: true,
		Bases:    []string{"Sized"},
		Requires: []string{"iter"},
	})
	if err != nil {
		t.Fatalf("define Collection: %v", err)
	}

	box, _ := tb.Define(TypeDecl{Name: "Box", Provides: []string{"len"}})
	bag, _ := tb.Define(TypeDecl{Name: "Bag", Provides: []string{"len", "iter"}})
	crate, _ := tb.Define(TypeDecl{Name: "Crate", Bases: []string{"Box"}, Provides: []string{"iter"}})

	if !box.ConformsTo(sized) {
		t.Errorf("Box provides len, should conform to Sized")
	}
	if box.ConformsTo(collection) {
		t.Errorf("Box lacks iter, should not conform to Collection")
	}
	if !bag.ConformsTo(collection) {
		t.Errorf("Bag provides len+iter, should conform to Collection")
	}
	if !bag.ConformsTo(sized) {
		t.Errorf("conformance to Collection implies Sized")
	}
	// Capabilities are inherited: Crate gets len from Box.
	if !crate.ConformsTo(collection) {
		t.Errorf("Crate inherits len and adds iter, should conform to Collection")
	}
}

func TestExplicitConformance(t *testing.T) {
	tb := NewTable()
	sized := tb.MustDefineAbstract("Sized", []string{"len"})
	container := tb.MustDefineAbstract("Container", nil, "Sized")

	widget := tb.MustDefine("Widget")
	if widget.ConformsTo(container) {
		t.Fatalf("Widget conforms before registration")
	}

	if err := tb.RegisterConformance(widget, container); err != nil {
		t.Fatalf("RegisterConformance: %v", err)
	}
	if !widget.ConformsTo(container) {
		t.Errorf("registered Widget should conform to Container")
	}
	// Registration propagates to abstract ancestors.
	if !widget.ConformsTo(sized) {
		t.Errorf("registered Widget should conform to Sized via Container")
	}

	// Subtypes of a registered type conform too.
	gadget := tb.MustDefine("Gadget", "Widget")
	if !gadget.ConformsTo(container) {
		t.Errorf("Gadget inherits Widget's registration")
	}

	if err := tb.RegisterConformance(widget, tb.MustLookup(IntTypeName)); err == nil {
		t.Errorf("registering on a concrete target should fail")
	}
}

func TestDefineFailureLeavesNoTrace(t *testing.T) {
	tb := NewTable()
	walker := tb.MustDefineAbstract("Walker", []string{"walk"})

	if _, err := tb.Define(TypeDecl{Name: "Ghost", Implements: []string{"NoSuchAbstract"}}); err == nil {
		t.Fatalf("unknown conformance target should fail")
	}
	if _, ok := tb.Lookup("Ghost"); ok {
		t.Fatalf("failed Define left Ghost defined in the table")
	}

	// A valid target listed before the failing one must not stick either.
	if _, err := tb.Define(TypeDecl{Name: "Ghost", Implements: []string{"Walker", IntTypeName}}); err == nil {
		t.Fatalf("concrete conformance target should fail")
	}
	if _, ok := tb.Lookup("Ghost"); ok {
		t.Fatalf("failed Define left Ghost defined in the table")
	}
	if len(walker.impls) != 0 {
		t.Fatalf("failed Define left a conformance recorded on Walker")
	}

	// The name stays usable: a corrected retry succeeds.
	ghost, err := tb.Define(TypeDecl{Name: "Ghost", Implements: []string{"Walker"}})
	if err != nil {
		t.Fatalf("corrected retry failed: %v", err)
	}
	if !ghost.ConformsTo(walker) {
		t.Errorf("retried Ghost should conform to Walker")
	}
}

func TestOpaqueInterning(t *testing.T) {
	tb := NewTable()
	first := tb.Opaque("host.User")
	second := tb.Opaque("host.User")
	if first != second {
		t.Errorf("Opaque should intern by name")
	}
	if !first.SubtypeOf(tb.Any()) {
		t.Errorf("opaque types sit under Any")
	}
	if first.SubtypeOf(tb.MustLookup(IntTypeName)) {
		t.Errorf("opaque types are unrelated to builtins")
	}
}

func TestQualifiedNames(t *testing.T) {
	tb := NewTable()
	v, err := tb.Define(TypeDecl{Name: "Vector", Module: "geo"})
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	if v.String() != "geo.Vector" {
		t.Errorf("String() = %s, want geo.Vector", v.String())
	}
	if _, ok := tb.Lookup("geo.Vector"); !ok {
		t.Errorf("qualified lookup failed")
	}
	if _, ok := tb.Lookup("Vector"); ok {
		t.Errorf("unqualified lookup should miss a module type")
	}
}
