package dispatch

import (
	"fmt"

	"github.com/funvibe/multimethod/internal/typesystem"
)

// ArityMismatchError indicates a registration whose parameter-type count
// does not equal the dispatchable's declared parameter count.
type ArityMismatchError struct {
	Func string
	Want int
	Got  int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("cannot register implementation on %s: expected %d parameter types, got %d", e.Func, e.Want, e.Got)
}

// InvalidDispatchTypeError indicates a type specifier that is neither a
// concrete type nor a valid non-empty alternative-set.
type InvalidDispatchTypeError struct {
	Func     string
	Position int
	Reason   string
}

func (e *InvalidDispatchTypeError) Error() string {
	return fmt.Sprintf("invalid dispatch type for %s parameter %d: %s", e.Func, e.Position, e.Reason)
}

// AmbiguousDispatchError indicates two unrelated, equally specific
// candidates matched a runtime type. It is surfaced rather than guessed.
type AmbiguousDispatchError struct {
	Func    string
	Runtime *typesystem.Type
	First   *typesystem.Type
	Second  *typesystem.Type
}

func (e *AmbiguousDispatchError) Error() string {
	return fmt.Sprintf("ambiguous dispatch on %s for %s: %s or %s", e.Func, e.Runtime, e.First, e.Second)
}

// EmptyCallError indicates a dispatch invoked with no arguments at all.
type EmptyCallError struct {
	Func string
}

func (e *EmptyCallError) Error() string {
	return fmt.Sprintf("%s requires at least 1 argument", e.Func)
}
