// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introtypes

import "reflect"

func reflectTypeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }

var (
	intType    = reflect.TypeFor[int]()
	stringType = reflect.TypeFor[string]()
	anyType    = reflect.TypeFor[any]()
)

func newCache() *TypeCache {
	return NewTypeCache(CacheOptions{})
}

func memberKeys(list []*ExecutableDescriptor) []string {
	keys := make([]string, len(list))
	for i, e := range list {
		keys[i] = e.Key()
	}
	return keys
}

func fieldNames(list []*FieldDescriptor) []string {
	names := make([]string, len(list))
	for i, f := range list {
		names[i] = f.Name
	}
	return names
}
