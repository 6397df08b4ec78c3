// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package sigmatch

import (
	"reflect"
)

// Compatible reports whether a call site with the given argument types can
// invoke a candidate with the given parameter types.
//
// For fixed-arity candidates the argument count must equal the parameter count
// and every argument must be assignable to its parameter. For variadic
// candidates the trailing parameter is a slice type: the fixed head is matched
// positionally and every remaining argument must be assignable to the slice's
// element type. Passing exactly the head (an empty tail) is allowed. A single
// trailing argument that is not assignable to the element type but is
// assignable to the slice type itself is passed through as the whole tail.
func Compatible(params, args []reflect.Type, variadic bool) bool {
	if len(params) == 0 {
		return len(args) == 0
	}

	if !variadic {
		if len(args) != len(params) {
			return false
		}
		for i, param := range params {
			if !Assignable(args[i], param) {
				return false
			}
		}
		return true
	}

	head := len(params) - 1
	if len(args) < head {
		return false
	}
	for i := 0; i < head; i++ {
		if !Assignable(args[i], params[i]) {
			return false
		}
	}

	tail := params[head]
	if tail.Kind() != reflect.Slice {
		return false
	}
	elem := tail.Elem()

	if SpreadsTail(args, params) {
		return true
	}

	for i := head; i < len(args); i++ {
		if !Assignable(args[i], elem) {
			return false
		}
	}
	return true
}

// SpreadsTail reports whether the last argument of a variadic call is passed
// through as the complete variadic slice instead of as a single element.
// params must describe a variadic signature.
func SpreadsTail(args, params []reflect.Type) bool {
	if len(params) == 0 || len(args) != len(params) {
		return false
	}
	last := args[len(args)-1]
	if last == nil {
		return false
	}
	tail := params[len(params)-1]
	return !Assignable(last, tail.Elem()) && Assignable(last, tail)
}

// variadicAssignable compares two variadic parameter lists element-wise,
// including the element types of their trailing slices.
func variadicAssignable(from, to []reflect.Type) bool {
	if len(from) != len(to) || len(from) == 0 {
		return false
	}
	last := len(from) - 1
	for i := 0; i < last; i++ {
		if !Assignable(from[i], to[i]) {
			return false
		}
	}
	return Assignable(from[last].Elem(), to[last].Elem())
}
