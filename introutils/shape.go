// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introutils

import (
	"fmt"
	"reflect"
	"strings"
)

// ConstructorName is the member name of constructors.
const ConstructorName = "<init>"

// Shape lists the member keys of a type's constructor, field and method
// tables in offset order.
//
// Generated accessors carry the shape they were generated for and are only
// used when it equals the shape of the runtime descriptor, so every offset
// they dispatch on refers to the same member.
type Shape struct {
	Constructors []string
	Fields       []string
	Methods      []string
}

// MemberKey renders an executable signature, for example
// "Move(int, ...string) error". Constructor keys carry no results.
func MemberKey(name string, params []reflect.Type, variadic bool, results []reflect.Type) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if variadic && i == len(params)-1 {
			sb.WriteString("...")
			sb.WriteString(p.Elem().String())
		} else {
			sb.WriteString(p.String())
		}
	}
	sb.WriteByte(')')

	switch len(results) {
	case 0:
	case 1:
		sb.WriteByte(' ')
		sb.WriteString(results[0].String())
	default:
		sb.WriteString(" (")
		for i, r := range results {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(r.String())
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// FieldKey renders a field, for example "X int".
func FieldKey(name string, t reflect.Type) string {
	return name + " " + t.String()
}

// Types is a shorthand for building parameter lists in generated code.
func Types(types ...reflect.Type) []reflect.Type {
	return types
}

// Equal reports whether both shapes list the same members in the same order.
func (s Shape) Equal(other Shape) bool {
	return s.Diff(other) == nil
}

// Diff returns nil if both shapes are equal, otherwise an ErrShapeMismatch
// describing the first difference.
func (s Shape) Diff(other Shape) error {
	if err := diffTable("constructor", s.Constructors, other.Constructors); err != nil {
		return err
	}
	if err := diffTable("field", s.Fields, other.Fields); err != nil {
		return err
	}
	return diffTable("method", s.Methods, other.Methods)
}

func diffTable(table string, a, b []string) error {
	for i := 0; i < len(a) || i < len(b); i++ {
		switch {
		case i >= len(a):
			return fmt.Errorf("%w: unexpected %s %d %q", ErrShapeMismatch, table, i, b[i])
		case i >= len(b):
			return fmt.Errorf("%w: missing %s %d %q", ErrShapeMismatch, table, i, a[i])
		case a[i] != b[i]:
			return fmt.Errorf("%w: %s %d is %q, want %q", ErrShapeMismatch, table, i, b[i], a[i])
		}
	}
	return nil
}
