// Package multimethod is the public embedding API: a shared type table
// plus dispatchable function definitions on top of it.
//
//	mm := multimethod.New()
//	greet, _ := mm.Define("greet", 1, func(args ...any) any {
//		return "default"
//	})
//	greet.Register(func(args ...any) any {
//		return fmt.Sprintf("int:%v", args[0])
//	}, mm.On("Int"))
//	out, _ := greet.Call(5) // "int:5"
package multimethod

import (
	"github.com/funvibe/multimethod/internal/dispatch"
	"github.com/funvibe/multimethod/internal/typesystem"
)

// Aliases for the core types so embedders need only this package.
type (
	Func           = dispatch.Func
	Implementation = dispatch.Implementation
	Specifier      = dispatch.Specifier
	NamedArg       = dispatch.NamedArg
	Diagnostic     = dispatch.Diagnostic
	Option         = dispatch.Option
	RegisterOption = dispatch.RegisterOption
	Type           = typesystem.Type
	Table          = typesystem.Table
	TypeDecl       = typesystem.TypeDecl
)

// WithWarn and WithDefaulted are re-exported for embedders.
var (
	WithWarn      = dispatch.WithWarn
	WithDefaulted = dispatch.WithDefaulted
)

// System owns one type table and defines dispatchable functions against it.
type System struct {
	table *typesystem.Table
}

// New creates a system over a fresh table seeded with the builtin types.
func New() *System {
	return &System{table: typesystem.NewTable()}
}

// NewFromConfig creates a system from a YAML table declaration.
func NewFromConfig(data []byte) (*System, error) {
	tb, err := typesystem.LoadTable(data)
	if err != nil {
		return nil, err
	}
	return &System{table: tb}, nil
}

// NewFromConfigFile creates a system from a types.yaml file.
func NewFromConfigFile(path string) (*System, error) {
	tb, err := typesystem.LoadTableFile(path)
	if err != nil {
		return nil, err
	}
	return &System{table: tb}, nil
}

// Table exposes the underlying type table.
func (s *System) Table() *typesystem.Table { return s.table }

// DefineType registers a new type in the system's table.
func (s *System) DefineType(decl TypeDecl) (*Type, error) {
	return s.table.Define(decl)
}

// MustType finds a type by qualified name, panicking if it was never
// defined. Intended for statically known names; use Table().Lookup for
// dynamic ones.
func (s *System) MustType(name string) *Type {
	return s.table.MustLookup(name)
}

// On builds a single-type specifier from a qualified type name. An
// undefined name yields a specifier that Register rejects with an
// InvalidDispatchTypeError; it never panics.
func (s *System) On(name string) Specifier {
	t, _ := s.table.Lookup(name)
	return dispatch.On(t)
}

// OneOf builds an alternative-set specifier from qualified type names.
// Undefined names are rejected at registration time, as in On.
func (s *System) OneOf(names ...string) Specifier {
	types := make([]*Type, len(names))
	for i, name := range names {
		types[i], _ = s.table.Lookup(name)
	}
	return dispatch.OneOf(types...)
}

// Define creates a dispatchable function over the system's table.
func (s *System) Define(name string, arity int, def Implementation, opts ...Option) (*Func, error) {
	return dispatch.Define(name, s.table, arity, def, opts...)
}
