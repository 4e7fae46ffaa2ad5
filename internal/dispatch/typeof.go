package dispatch

import (
	"reflect"

	"github.com/funvibe/multimethod/internal/typesystem"
)

// Typed is implemented by self-describing host values: the value's own
// dispatch type takes priority over any structural mapping.
type Typed interface {
	DispatchType() *typesystem.Type
}

// TypeOf computes the runtime type of a host value against the table.
// Plain Go values map onto the canonical builtin types; anything the
// table has never seen is interned as an opaque baseless type, which can
// only ever resolve to the default implementation.
func TypeOf(tb *typesystem.Table, v any) *typesystem.Type {
	if v == nil {
		return tb.MustLookup(typesystem.NilTypeName)
	}
	if t, ok := v.(Typed); ok {
		return t.DispatchType()
	}

	switch v.(type) {
	case bool:
		return tb.MustLookup(typesystem.BoolTypeName)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return tb.MustLookup(typesystem.IntTypeName)
	case float32, float64:
		return tb.MustLookup(typesystem.FloatTypeName)
	case string:
		return tb.MustLookup(typesystem.StringTypeName)
	}

	rt := reflect.TypeOf(v)
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		return tb.MustLookup(typesystem.ListTypeName)
	case reflect.Map:
		return tb.MustLookup(typesystem.MapTypeName)
	case reflect.Func:
		return tb.MustLookup(typesystem.FunctionTypeName)
	case reflect.Ptr:
		elem := rt.Elem()
		if elem.Kind() == reflect.Struct {
			return tb.Opaque(goTypeName(elem))
		}
		return tb.Opaque(goTypeName(rt))
	default:
		return tb.Opaque(goTypeName(rt))
	}
}

func goTypeName(rt reflect.Type) string {
	if name := rt.String(); name != "" {
		return name
	}
	return rt.Kind().String()
}
