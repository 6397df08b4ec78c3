// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introtypes

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/pk910/go-introspect/introutils"
)

var errorType = reflect.TypeFor[error]()

// MemberOption configures a registered constructor or extension method.
type MemberOption func(*memberConfig)

type memberConfig struct {
	tags Tags
}

// WithTags attaches annotation tags to a registered member.
func WithTags(tags map[string]string) MemberOption {
	return func(cfg *memberConfig) {
		cfg.tags = mergeTags(cfg.tags, tags)
	}
}

type constructorDecl struct {
	fn       reflect.Value
	params   []reflect.Type
	results  []reflect.Type
	variadic bool
	tags     Tags
}

type extensionDecl struct {
	name     string
	fn       reflect.Value
	recvPtr  bool
	params   []reflect.Type
	results  []reflect.Type
	variadic bool
	tags     Tags
}

// declarations holds the process-wide registered members. Tables of a type
// are sealed once a descriptor has built them, later registrations fail.
type declarations struct {
	mutex         sync.RWMutex
	constructors  map[reflect.Type][]*constructorDecl
	extensions    map[reflect.Type][]*extensionDecl
	methodTags    map[reflect.Type]map[string]Tags
	sealedCtors   map[reflect.Type]bool
	sealedMethods map[reflect.Type]bool
}

var registry = &declarations{
	constructors:  map[reflect.Type][]*constructorDecl{},
	extensions:    map[reflect.Type][]*extensionDecl{},
	methodTags:    map[reflect.Type]map[string]Tags{},
	sealedCtors:   map[reflect.Type]bool{},
	sealedMethods: map[reflect.Type]bool{},
}

// RegisterConstructor registers fn as a constructor of the type it returns.
//
// fn must be a function returning T or *T, optionally followed by an error.
// Registered constructors appear in registration order before the implicit
// zero-value constructor, which is omitted when a zero-argument constructor
// is registered. Registration must happen before the constructor table of T
// is first built, otherwise ErrSealed is returned.
func RegisterConstructor(fn any, opts ...MemberOption) error {
	fv := reflect.ValueOf(fn)
	if fn == nil || fv.Kind() != reflect.Func || fv.IsNil() {
		return fmt.Errorf("%w: %T is not a function", introutils.ErrInvalidConstructor, fn)
	}
	ft := fv.Type()
	if ft.NumOut() < 1 || ft.NumOut() > 2 || (ft.NumOut() == 2 && ft.Out(1) != errorType) {
		return fmt.Errorf("%w: %s must return T or (T, error)", introutils.ErrInvalidConstructor, ft)
	}
	target := Normalize(ft.Out(0))
	if target.Kind() == reflect.Interface || target.Kind() == reflect.Pointer {
		return fmt.Errorf("%w: %s does not return a concrete type", introutils.ErrInvalidConstructor, ft)
	}

	cfg := applyOptions(opts)
	decl := &constructorDecl{
		fn:       fv,
		params:   inTypes(ft, 0),
		results:  outTypes(ft),
		variadic: ft.IsVariadic(),
		tags:     cfg.tags,
	}

	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	if registry.sealedCtors[target] {
		return fmt.Errorf("%w: constructors of %s", introutils.ErrSealed, introutils.TypeName(target))
	}
	registry.constructors[target] = append(registry.constructors[target], decl)
	return nil
}

// RegisterMethod registers fn as extension method name of the type of its
// first parameter.
//
// The receiver parameter may be T or *T. Extension methods overload the
// method set of T: they may share a name with a method but not its parameter
// types. Registration must happen before the method table of T, or of any
// type embedding T, is first built, otherwise ErrSealed is returned.
func RegisterMethod(name string, fn any, opts ...MemberOption) error {
	fv := reflect.ValueOf(fn)
	if fn == nil || fv.Kind() != reflect.Func || fv.IsNil() {
		return fmt.Errorf("%w: %T is not a function", introutils.ErrInvalidMethod, fn)
	}
	if name == "" || name == introutils.ConstructorName {
		return fmt.Errorf("%w: invalid name %q", introutils.ErrInvalidMethod, name)
	}
	ft := fv.Type()
	if ft.NumIn() < 1 {
		return fmt.Errorf("%w: %s has no receiver parameter", introutils.ErrInvalidMethod, ft)
	}
	recv := ft.In(0)
	target := Normalize(recv)
	if target.Kind() == reflect.Interface || target.Kind() == reflect.Pointer || (ft.IsVariadic() && ft.NumIn() == 1) {
		return fmt.Errorf("%w: %s has no concrete receiver", introutils.ErrInvalidMethod, ft)
	}

	cfg := applyOptions(opts)
	decl := &extensionDecl{
		name:     name,
		fn:       fv,
		recvPtr:  recv != target,
		params:   inTypes(ft, 1),
		results:  outTypes(ft),
		variadic: ft.IsVariadic(),
		tags:     cfg.tags,
	}

	if m, ok := reflect.PointerTo(target).MethodByName(name); ok && sameParams(inTypes(m.Type, 1), decl.params) {
		return fmt.Errorf("%w: %s.%s conflicts with a method", introutils.ErrInvalidMethod, introutils.TypeName(target), name)
	}

	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	for _, other := range registry.extensions[target] {
		if other.name == name && sameParams(other.params, decl.params) {
			return fmt.Errorf("%w: %s.%s registered twice", introutils.ErrInvalidMethod, introutils.TypeName(target), name)
		}
	}
	if registry.sealedMethods[target] {
		return fmt.Errorf("%w: methods of %s", introutils.ErrSealed, introutils.TypeName(target))
	}
	registry.extensions[target] = append(registry.extensions[target], decl)
	return nil
}

// TagMethod attaches tags to the method name of t's method set. Types
// embedding t inherit the tags for the promoted method.
func TagMethod(t reflect.Type, name string, tags map[string]string) error {
	target := Normalize(t)

	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	if registry.sealedMethods[target] {
		return fmt.Errorf("%w: methods of %s", introutils.ErrSealed, introutils.TypeName(target))
	}
	byName := registry.methodTags[target]
	if byName == nil {
		byName = map[string]Tags{}
		registry.methodTags[target] = byName
	}
	byName[name] = mergeTags(byName[name], tags)
	return nil
}

// sealConstructors marks the constructor table of t as built and returns its
// registered constructors.
func (r *declarations) sealConstructors(t reflect.Type) []*constructorDecl {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.sealedCtors[t] = true
	return r.constructors[t]
}

// sealMethods marks the method tables of the given types as built and
// returns their extension methods and method tags.
func (r *declarations) sealMethods(types []reflect.Type) (map[reflect.Type][]*extensionDecl, map[reflect.Type]map[string]Tags) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	exts := make(map[reflect.Type][]*extensionDecl, len(types))
	tags := make(map[reflect.Type]map[string]Tags, len(types))
	for _, t := range types {
		r.sealedMethods[t] = true
		if list := r.extensions[t]; len(list) > 0 {
			exts[t] = list
		}
		if byName := r.methodTags[t]; len(byName) > 0 {
			tags[t] = byName
		}
	}
	return exts, tags
}

func applyOptions(opts []MemberOption) *memberConfig {
	cfg := &memberConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func inTypes(ft reflect.Type, from int) []reflect.Type {
	if ft.NumIn() <= from {
		return nil
	}
	out := make([]reflect.Type, 0, ft.NumIn()-from)
	for i := from; i < ft.NumIn(); i++ {
		out = append(out, ft.In(i))
	}
	return out
}

func outTypes(ft reflect.Type) []reflect.Type {
	if ft.NumOut() == 0 {
		return nil
	}
	out := make([]reflect.Type, ft.NumOut())
	for i := range out {
		out[i] = ft.Out(i)
	}
	return out
}

func sameParams(a, b []reflect.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
