// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package sigmatch

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
)

type count int

var (
	intType      = reflect.TypeFor[int]()
	stringType   = reflect.TypeFor[string]()
	anyType      = reflect.TypeFor[any]()
	countType    = reflect.TypeFor[count]()
	intsType     = reflect.TypeFor[[]int]()
	readerType   = reflect.TypeFor[io.Reader]()
	builderType  = reflect.TypeFor[*strings.Builder]()
	stringerType = reflect.TypeFor[fmt.Stringer]()
)

func types(ts ...reflect.Type) []reflect.Type { return ts }

func TestAssignable(t *testing.T) {
	tests := []struct {
		name     string
		arg      reflect.Type
		param    reflect.Type
		expected bool
	}{
		{"identical", intType, intType, true},
		{"to empty interface", stringType, anyType, true},
		{"interface to concrete", anyType, stringType, false},
		{"implements interface", reflect.TypeFor[*strings.Reader](), readerType, true},
		{"does not implement", builderType, readerType, false},
		{"named basic to basic", countType, intType, true},
		{"basic to named basic", intType, countType, true},
		{"different basic kinds", intType, reflect.TypeFor[int64](), false},
		{"nil to pointer", nil, builderType, true},
		{"nil to interface", nil, stringerType, true},
		{"nil to slice", nil, intsType, true},
		{"nil to int", nil, intType, false},
		{"nil to struct", nil, reflect.TypeFor[struct{}](), false},
		{"nil param", intType, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Assignable(tt.arg, tt.param); got != tt.expected {
				t.Errorf("Assignable(%v, %v) = %v, want %v", tt.arg, tt.param, got, tt.expected)
			}
		})
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		name     string
		params   []reflect.Type
		args     []reflect.Type
		variadic bool
		expected bool
	}{
		{"empty both", nil, nil, false, true},
		{"empty params with args", nil, types(intType), false, false},
		{"fixed exact", types(intType, intType), types(intType, intType), false, true},
		{"fixed too few", types(intType, intType), types(intType), false, false},
		{"fixed too many", types(intType), types(intType, intType), false, false},
		{"fixed covariant", types(anyType), types(stringType), false, true},
		{"fixed wrong type", types(intType), types(stringType), false, false},
		{"fixed nil arg", types(stringerType), types(nil), false, true},

		// f(string, ...int)
		{"variadic head only", types(stringType, intsType), types(stringType), true, true},
		{"variadic one tail", types(stringType, intsType), types(stringType, intType), true, true},
		{"variadic two tail", types(stringType, intsType), types(stringType, intType, intType), true, true},
		{"variadic wrong tail", types(stringType, intsType), types(stringType, stringType), true, false},
		{"variadic missing head", types(stringType, intsType), nil, true, false},
		{"variadic spread slice", types(stringType, intsType), types(stringType, intsType), true, true},
		{"variadic boxed tail", types(stringType, intsType), types(stringType, countType), true, true},
		{"only variadic no args", types(intsType), nil, true, true},
		{"variadic nil tail element", types(reflect.TypeFor[[]any]()), types(nil, intType), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compatible(tt.params, tt.args, tt.variadic); got != tt.expected {
				t.Errorf("Compatible(%s | %s, variadic=%v) = %v, want %v",
					TypeList(tt.params), TypeList(tt.args), tt.variadic, got, tt.expected)
			}
		})
	}
}

func TestSpreadsTail(t *testing.T) {
	params := types(stringType, intsType)
	if !SpreadsTail(types(stringType, intsType), params) {
		t.Error("expected []int argument to spread into ...int")
	}
	if SpreadsTail(types(stringType, intType), params) {
		t.Error("int argument must not spread")
	}
	if SpreadsTail(types(stringType, nil), params) {
		t.Error("nil argument must not spread")
	}
	// []any elements accept a []any value as a single element.
	if SpreadsTail(types(reflect.TypeFor[[]any]()), types(reflect.TypeFor[[]any]())) {
		t.Error("[]any argument to ...any must be a single element")
	}
}
