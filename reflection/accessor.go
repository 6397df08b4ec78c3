// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package reflection

import (
	"github.com/pk910/go-introspect/introtypes"
	"github.com/pk910/go-introspect/introutils"
)

// Accessor is the reflective accessor of a type. It dispatches offsets to the
// descriptor tables and works for every type, including types from modules
// that cannot be generated for.
type Accessor struct {
	desc *introtypes.TypeDescriptor
}

var _ introutils.Accessor = (*Accessor)(nil)

// NewAccessor returns the reflective accessor of desc.
func NewAccessor(desc *introtypes.TypeDescriptor) *Accessor {
	return &Accessor{desc: desc}
}

// Kind returns introutils.AccessorReflect.
func (a *Accessor) Kind() introutils.AccessorKind {
	return introutils.AccessorReflect
}

// NewInstance calls the constructor at offset ctor.
func (a *Accessor) NewInstance(ctor int, args []any) (any, error) {
	ctors := a.desc.Constructors()
	if ctor < 0 || ctor >= len(ctors) {
		return nil, introutils.InvalidOffset("constructor", ctor)
	}
	return ctors[ctor].New(args...)
}

// GetField reads the field at offset field.
func (a *Accessor) GetField(instance any, field int) (any, error) {
	fields := a.desc.Fields()
	if field < 0 || field >= len(fields) {
		return nil, introutils.InvalidOffset("field", field)
	}
	return fields[field].Get(instance)
}

// SetField writes the field at offset field.
func (a *Accessor) SetField(instance any, field int, value any) error {
	fields := a.desc.Fields()
	if field < 0 || field >= len(fields) {
		return introutils.InvalidOffset("field", field)
	}
	return fields[field].Set(instance, value)
}

// Invoke calls the method at offset method.
func (a *Accessor) Invoke(instance any, method int, args []any) ([]any, error) {
	methods := a.desc.Methods()
	if method < 0 || method >= len(methods) {
		return nil, introutils.InvalidOffset("method", method)
	}
	return methods[method].Invoke(instance, args...)
}
