// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introutils

// AccessorKind identifies how an Accessor dispatches.
type AccessorKind uint8

const (
	// AccessorReflect is the generic reflective fallback.
	AccessorReflect AccessorKind = iota
	// AccessorCompiled is a function table compiled from reflection at runtime.
	AccessorCompiled
	// AccessorGenerated is an accessor emitted at build time by introgen.
	AccessorGenerated
)

func (k AccessorKind) String() string {
	switch k {
	case AccessorReflect:
		return "reflect"
	case AccessorCompiled:
		return "compiled"
	case AccessorGenerated:
		return "generated"
	default:
		return "unknown"
	}
}

// Accessor constructs instances, reads and writes fields and invokes methods
// of one type by numeric offset.
//
// Offsets index the constructor, field and method tables of the type
// descriptor the accessor was created for. Out-of-range offsets fail with
// ErrInvalidOffset. Every implementation returns the same values and the same
// errors for the same inputs, only the dispatch cost differs.
type Accessor interface {
	// NewInstance calls the constructor at offset ctor and returns a pointer
	// to the new instance.
	NewInstance(ctor int, args []any) (any, error)
	// GetField returns the value of the field at offset field.
	GetField(instance any, field int) (any, error)
	// SetField assigns value to the field at offset field. The instance must
	// be a pointer.
	SetField(instance any, field int, value any) error
	// Invoke calls the method at offset method and returns its results.
	Invoke(instance any, method int, args []any) ([]any, error)
	// Kind reports the dispatch strategy.
	Kind() AccessorKind
}
