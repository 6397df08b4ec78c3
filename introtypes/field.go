// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introtypes

import (
	"reflect"
	"unsafe"

	"github.com/pk910/go-introspect/introutils"
)

// FieldDescriptor describes a field visible from a struct type.
type FieldDescriptor struct {
	Name          string            // Field name
	Owner         *TypeDescriptor   // Descriptor whose table holds the field
	DeclaringType reflect.Type      // Struct type declaring the field
	Type          reflect.Type      // Field type
	Index         []int             // Index path from the owner
	Offset        int               // Index in the owner's field table
	Tag           reflect.StructTag // Struct tag
	Exported      bool              // Field name is exported
	ReadOnly      bool              // Tagged `introspect:"readonly"`
	Embedded      bool              // Anonymous field
	Promoted      bool              // Declared by an embedded struct

	// MemoryOffset is the byte offset from the start of the owner. It is
	// only meaningful when Direct is set.
	MemoryOffset uintptr
	// Direct is set if the index path crosses no pointer.
	Direct bool
}

// Writable reports whether Set can succeed.
func (f *FieldDescriptor) Writable() bool {
	return f.Exported && !f.ReadOnly
}

// Key returns the shape key of the field.
func (f *FieldDescriptor) Key() string {
	return introutils.FieldKey(f.Name, f.Type)
}

func (f *FieldDescriptor) String() string {
	return f.Owner.Name + "." + f.Name
}

// Get reads the field of instance through reflection. Instances may be *T
// or T.
func (f *FieldDescriptor) Get(instance any) (any, error) {
	if !f.Exported {
		return nil, introutils.UnexportedField(f.Owner.Name, f.Name)
	}
	v, err := f.value(instance, false)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Set writes value into the field of instance, which must be a *T.
func (f *FieldDescriptor) Set(instance any, value any) error {
	if !f.Exported {
		return introutils.UnexportedField(f.Owner.Name, f.Name)
	}
	if f.ReadOnly {
		return introutils.ReadOnlyField(f.Owner.Name, f.Name)
	}
	v, err := f.value(instance, true)
	if err != nil {
		return err
	}
	rv, err := introutils.ConvertValue(value, f.Type)
	if err != nil {
		return err
	}
	v.Set(rv)
	return nil
}

// value resolves the addressable field value of instance.
func (f *FieldDescriptor) value(instance any, needPtr bool) (reflect.Value, error) {
	ptr, err := introutils.ReceiverValue(instance, f.Owner.Type, needPtr)
	if err != nil {
		return reflect.Value{}, err
	}
	return FieldByIndex(ptr.Elem(), f.Index, f.Owner.Name, f.Name)
}

// FieldByIndex follows index from the struct value v. Nil embedded pointers
// on the path fail with ErrNilEmbedded.
func FieldByIndex(v reflect.Value, index []int, owner, name string) (reflect.Value, error) {
	for i, idx := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, introutils.NilEmbedded(owner, name)
			}
			v = exposed(v.Elem())
		}
		v = v.Field(idx)
	}
	return v, nil
}

// exposed drops the read-only flag reflect attaches to values reached through
// unexported embedded fields, so promoted exported members stay usable.
func exposed(v reflect.Value) reflect.Value {
	if v.CanInterface() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}
