// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package reflection

import (
	"reflect"
	"unsafe"
)

// primitive reads and writes a value of a predeclared type in place.
type primitive struct {
	read  func(p unsafe.Pointer) any
	write func(p unsafe.Pointer, v any) bool
}

func primitiveOf[T any]() (reflect.Type, primitive) {
	return reflect.TypeFor[T](), primitive{
		read: func(p unsafe.Pointer) any {
			return *(*T)(p)
		},
		write: func(p unsafe.Pointer, v any) bool {
			x, ok := v.(T)
			if ok {
				*(*T)(p) = x
			}
			return ok
		},
	}
}

// primitives holds the fast paths keyed by exact field type. Named types
// are not included, their values go through reflection.
var primitives = func() map[reflect.Type]primitive {
	m := map[reflect.Type]primitive{}
	add := func(t reflect.Type, p primitive) { m[t] = p }
	add(primitiveOf[bool]())
	add(primitiveOf[int]())
	add(primitiveOf[int8]())
	add(primitiveOf[int16]())
	add(primitiveOf[int32]())
	add(primitiveOf[int64]())
	add(primitiveOf[uint]())
	add(primitiveOf[uint8]())
	add(primitiveOf[uint16]())
	add(primitiveOf[uint32]())
	add(primitiveOf[uint64]())
	add(primitiveOf[uintptr]())
	add(primitiveOf[float32]())
	add(primitiveOf[float64]())
	add(primitiveOf[string]())
	add(primitiveOf[[]byte]())
	return m
}()
