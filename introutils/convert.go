// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introutils

import (
	"fmt"
	"reflect"

	"github.com/pk910/go-introspect/sigmatch"
)

// ConvertValue converts v into a value that can be assigned to a location of
// type t.
//
// The rules follow sigmatch.Assignable: nil converts to the zero value of
// nillable types, assignable values are used as-is and basic types of the
// same kind are converted.
func ConvertValue(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if sigmatch.IsNillable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil is not assignable to %s", ErrArgType, t)
	}

	rv := reflect.ValueOf(v)
	vt := rv.Type()
	switch {
	case vt == t:
		return rv, nil
	case vt.AssignableTo(t):
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	case sigmatch.BasicEquivalent(vt, t):
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrArgType, vt, t)
}

// Value converts v to T with the same rules as ConvertValue.
func Value[T any](v any) (T, error) {
	if x, ok := v.(T); ok {
		return x, nil
	}
	var zero T
	rv, err := ConvertValue(v, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	x, _ := rv.Interface().(T)
	return x, nil
}

// Arg converts the argument at index i to T.
func Arg[T any](args []any, i int) (T, error) {
	if i >= len(args) {
		var zero T
		return zero, fmt.Errorf("%w: got %d, want more than %d", ErrArgCount, len(args), i)
	}
	x, err := Value[T](args[i])
	if err != nil {
		return x, fmt.Errorf("argument %d: %w", i, err)
	}
	return x, nil
}

// VarArgs converts the trailing arguments starting at index from into the
// variadic slice of a call.
//
// A single trailing argument that is assignable to []E but not to E is used
// as the whole slice, mirroring sigmatch.SpreadsTail. An empty tail yields a
// nil slice.
func VarArgs[E any](args []any, from int) ([]E, error) {
	if len(args) <= from {
		return nil, nil
	}
	if len(args) == from+1 && spreads(args[from], reflect.TypeFor[E](), reflect.TypeFor[[]E]()) {
		rv, err := ConvertValue(args[from], reflect.TypeFor[[]E]())
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", from, err)
		}
		s, _ := rv.Interface().([]E)
		return s, nil
	}

	out := make([]E, len(args)-from)
	for i := range out {
		x, err := Arg[E](args, from+i)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// CheckArgCount validates the number of arguments passed to an executable
// with n parameters.
func CheckArgCount(args []any, n int, variadic bool) error {
	if variadic {
		if len(args) < n-1 {
			return fmt.Errorf("%w: got %d, want at least %d", ErrArgCount, len(args), n-1)
		}
		return nil
	}
	if len(args) != n {
		return fmt.Errorf("%w: got %d, want %d", ErrArgCount, len(args), n)
	}
	return nil
}

// ConvertArgs converts args for a reflective call of an executable with the
// given parameter types.
//
// For variadic executables the trailing slice is always built here, so the
// result must be passed to reflect.Value.CallSlice.
func ConvertArgs(args []any, params []reflect.Type, variadic bool) ([]reflect.Value, error) {
	if err := CheckArgCount(args, len(params), variadic); err != nil {
		return nil, err
	}

	fixed := len(params)
	if variadic {
		fixed--
	}
	out := make([]reflect.Value, len(params))
	for i := 0; i < fixed; i++ {
		rv, err := ConvertValue(args[i], params[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = rv
	}
	if !variadic {
		return out, nil
	}

	tail := params[fixed]
	elem := tail.Elem()
	switch {
	case len(args) == fixed:
		out[fixed] = reflect.Zero(tail)
	case len(args) == fixed+1 && spreads(args[fixed], elem, tail):
		rv, err := ConvertValue(args[fixed], tail)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", fixed, err)
		}
		out[fixed] = rv
	default:
		n := len(args) - fixed
		s := reflect.MakeSlice(tail, n, n)
		for i := 0; i < n; i++ {
			rv, err := ConvertValue(args[fixed+i], elem)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", fixed+i, err)
			}
			s.Index(i).Set(rv)
		}
		out[fixed] = s
	}
	return out, nil
}

func spreads(v any, elem, tail reflect.Type) bool {
	if v == nil {
		return false
	}
	vt := reflect.TypeOf(v)
	return !sigmatch.Assignable(vt, elem) && sigmatch.Assignable(vt, tail)
}

// Receiver returns the *T an instance method or field access operates on.
//
// Both *T and T instances are accepted. A T value is copied, which is only
// allowed when needPtr is false because writes to the copy would be lost.
func Receiver[T any](instance any, needPtr bool) (*T, error) {
	switch x := instance.(type) {
	case nil:
		return nil, nilInstance(reflect.TypeFor[T]())
	case *T:
		if x == nil {
			return nil, nilInstance(reflect.TypeFor[T]())
		}
		return x, nil
	case T:
		if needPtr {
			return nil, notAddressable(reflect.TypeFor[T]())
		}
		return &x, nil
	}
	return nil, instanceType(instance, reflect.TypeFor[T]())
}

// ReceiverValue is the reflective counterpart of Receiver. It returns a
// reflect.Value of type *t.
func ReceiverValue(instance any, t reflect.Type, needPtr bool) (reflect.Value, error) {
	if instance == nil {
		return reflect.Value{}, nilInstance(t)
	}
	rv := reflect.ValueOf(instance)
	switch rv.Type() {
	case reflect.PointerTo(t):
		if rv.IsNil() {
			return reflect.Value{}, nilInstance(t)
		}
		return rv, nil
	case t:
		if needPtr {
			return reflect.Value{}, notAddressable(t)
		}
		p := reflect.New(t)
		p.Elem().Set(rv)
		return p, nil
	}
	return reflect.Value{}, instanceType(instance, t)
}

// Iface returns instance as the interface type I.
func Iface[I any](instance any) (I, error) {
	var zero I
	if instance == nil {
		return zero, nilInstance(reflect.TypeFor[I]())
	}
	x, ok := instance.(I)
	if !ok {
		return zero, instanceType(instance, reflect.TypeFor[I]())
	}
	return x, nil
}

// IfaceValue is the reflective counterpart of Iface.
func IfaceValue(instance any, t reflect.Type) (reflect.Value, error) {
	if instance == nil {
		return reflect.Value{}, nilInstance(t)
	}
	rv := reflect.ValueOf(instance)
	if !rv.Type().Implements(t) {
		return reflect.Value{}, instanceType(instance, t)
	}
	return rv, nil
}

// Results converts the results of a reflective call.
func Results(out []reflect.Value) []any {
	if len(out) == 0 {
		return nil
	}
	res := make([]any, len(out))
	for i, v := range out {
		res[i] = v.Interface()
	}
	return res
}

// ConstructorResult converts the results of a reflective constructor call of
// type t into a *t instance. A non-nil trailing error is returned instead of
// the instance.
func ConstructorResult(out []reflect.Value, t reflect.Type) (any, error) {
	if len(out) == 2 && !out[1].IsNil() {
		err, _ := out[1].Interface().(error)
		return nil, err
	}
	v := out[0]
	if v.Type() == t {
		p := reflect.New(t)
		p.Elem().Set(v)
		return p.Interface(), nil
	}
	return v.Interface(), nil
}

func nilInstance(t reflect.Type) error {
	return fmt.Errorf("%w: want %s", ErrNilInstance, t)
}

func notAddressable(t reflect.Type) error {
	return fmt.Errorf("%w: got %s, want *%s", ErrNotAddressable, t, t)
}

func instanceType(instance any, t reflect.Type) error {
	return fmt.Errorf("%w: got %T, want %s", ErrInstanceType, instance, t)
}
