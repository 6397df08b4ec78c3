// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

// Package sigmatch implements signature compatibility checks and overload
// resolution for constructors and methods described by their parameter types.
//
// The package is stateless. Candidates are described through the Signature and
// Candidate interfaces so both runtime descriptors and plain Sig values can be
// resolved with the same rules.
package sigmatch

import (
	"reflect"
)

// Assignable reports whether a value of type arg can be passed to a parameter
// of type param.
//
// A nil arg stands for an untyped nil argument and is assignable to every
// nillable parameter kind. Besides reflect's assignability rules, two basic
// types (bool, numeric, string) of the same kind are treated as equivalent, so
// an int argument matches a `type Count int` parameter and vice versa.
func Assignable(arg, param reflect.Type) bool {
	if param == nil {
		return false
	}
	if arg == nil {
		return IsNillable(param)
	}
	if arg.AssignableTo(param) {
		return true
	}
	return BasicEquivalent(arg, param)
}

// BasicEquivalent reports whether a and b are basic types of the same kind.
func BasicEquivalent(a, b reflect.Type) bool {
	return a.Kind() == b.Kind() && isBasicKind(a.Kind())
}

// IsNillable reports whether nil is a valid value for t.
func IsNillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

func isBasicKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}
