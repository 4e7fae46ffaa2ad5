package typesystem

import "fmt"

// TypeNotFoundError indicates a qualified type name was not found in the table.
type TypeNotFoundError struct {
	Name string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("type not found: %s", e.Name)
}

func NewTypeNotFoundError(name string) *TypeNotFoundError {
	return &TypeNotFoundError{Name: name}
}

// DuplicateTypeError indicates an attempt to define an already defined type.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("type already defined: %s", e.Name)
}

func NewDuplicateTypeError(name string) *DuplicateTypeError {
	return &DuplicateTypeError{Name: name}
}

// InvalidDeclError indicates a malformed type declaration.
type InvalidDeclError struct {
	Name   string
	Reason string
}

func (e *InvalidDeclError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid type declaration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid type declaration %s: %s", e.Name, e.Reason)
}

func NewInvalidDeclError(name, reason string) *InvalidDeclError {
	return &InvalidDeclError{Name: name, Reason: reason}
}

// InconsistentHierarchyError indicates the C3 merge could not produce a
// valid order for a type. This is a contradictory hierarchy, not a
// call-time input problem; it is fatal and never retried.
type InconsistentHierarchyError struct {
	Type *Type
}

func (e *InconsistentHierarchyError) Error() string {
	return fmt.Sprintf("inconsistent hierarchy: no valid linearization order for %s", e.Type)
}

func NewInconsistentHierarchyError(t *Type) *InconsistentHierarchyError {
	return &InconsistentHierarchyError{Type: t}
}
