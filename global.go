// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introspect

import (
	"reflect"
	"sync/atomic"

	"github.com/pk910/go-introspect/introtypes"
)

var globalIntrospector atomic.Pointer[Introspector]

// GetGlobalIntrospector returns the process-wide default introspector used
// by the package-level functions.
func GetGlobalIntrospector() *Introspector {
	if in := globalIntrospector.Load(); in != nil {
		return in
	}
	in, _ := NewIntrospector()
	if globalIntrospector.CompareAndSwap(nil, in) {
		return in
	}
	return globalIntrospector.Load()
}

// SetGlobalOptions replaces the default introspector with one built from
// options. Descriptors of the previous instance are not carried over.
func SetGlobalOptions(options ...Option) error {
	in, err := NewIntrospector(options...)
	if err != nil {
		return err
	}
	globalIntrospector.Store(in)
	return nil
}

// Lookup returns the descriptor of t from the default introspector.
func Lookup(t reflect.Type) *introtypes.TypeDescriptor {
	return GetGlobalIntrospector().Lookup(t)
}

// LookupFor returns the descriptor of T from the default introspector.
func LookupFor[T any]() *introtypes.TypeDescriptor {
	return GetGlobalIntrospector().Lookup(reflect.TypeFor[T]())
}

func ResolveConstructor(t reflect.Type, args ...reflect.Type) *introtypes.ExecutableDescriptor {
	return GetGlobalIntrospector().ResolveConstructor(t, args...)
}

func ResolveMethod(t reflect.Type, name string, args ...reflect.Type) *introtypes.ExecutableDescriptor {
	return GetGlobalIntrospector().ResolveMethod(t, name, args...)
}

func Fields(t reflect.Type) []*introtypes.FieldDescriptor {
	return GetGlobalIntrospector().Fields(t)
}

func FieldsWithTag(t reflect.Type, key string) []*introtypes.FieldDescriptor {
	return GetGlobalIntrospector().FieldsWithTag(t, key)
}

func Methods(t reflect.Type) []*introtypes.ExecutableDescriptor {
	return GetGlobalIntrospector().Methods(t)
}

func MethodsWithTag(t reflect.Type, key string) []*introtypes.ExecutableDescriptor {
	return GetGlobalIntrospector().MethodsWithTag(t, key)
}

func Property(t reflect.Type, name string) *introtypes.PropertyDescriptor {
	return GetGlobalIntrospector().Property(t, name)
}

func Parameters(exec *introtypes.ExecutableDescriptor) []*introtypes.ParameterDescriptor {
	return GetGlobalIntrospector().Parameters(exec)
}

func Invoke(instance any, name string, args ...any) ([]any, error) {
	return GetGlobalIntrospector().Invoke(instance, name, args...)
}

func NewInstance(t reflect.Type, args ...any) (any, error) {
	return GetGlobalIntrospector().NewInstance(t, args...)
}

func Get(instance any, name string) (any, error) {
	return GetGlobalIntrospector().Get(instance, name)
}

func Set(instance any, name string, value any) error {
	return GetGlobalIntrospector().Set(instance, name, value)
}
