// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

// Package introtypes builds and caches the runtime metadata of Go types:
// constructors, fields and methods with their parameter shapes and tags,
// overload resolution over them and reflective invocation.
package introtypes

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/pk910/go-introspect/introutils"
	"github.com/pk910/go-introspect/sigmatch"
)

// TypeDescriptor is the cached metadata record of one type.
//
// All derived tables are computed at most once, on first use, and are never
// modified afterwards. Slices returned by the accessors are shared and must
// not be modified by callers.
type TypeDescriptor struct {
	Type reflect.Type // Normalized type
	Kind reflect.Kind // Kind of the type
	Name string       // Fully qualified name

	cache *TypeCache

	hierarchyOnce sync.Once
	super         *TypeDescriptor
	interfaces    []*TypeDescriptor
	embedded      []*TypeDescriptor

	ctorOnce     sync.Once
	constructors []*ExecutableDescriptor

	fieldOnce  sync.Once
	fields     []*FieldDescriptor
	fieldIndex map[string]*FieldDescriptor

	methodOnce sync.Once
	methods    []*ExecutableDescriptor

	propOnce   sync.Once
	properties []*PropertyDescriptor
	propIndex  map[string]*PropertyDescriptor

	shapeOnce sync.Once
	shape     introutils.Shape

	accessorOnce sync.Once
	accessor     introutils.Accessor

	paramOnce sync.Once
}

func newTypeDescriptor(cache *TypeCache, t reflect.Type) *TypeDescriptor {
	return &TypeDescriptor{
		Type:  t,
		Kind:  t.Kind(),
		Name:  introutils.TypeName(t),
		cache: cache,
	}
}

func (d *TypeDescriptor) String() string {
	return d.Name
}

// Cache returns the type cache owning the descriptor.
func (d *TypeDescriptor) Cache() *TypeCache {
	return d.cache
}

func (d *TypeDescriptor) buildHierarchy() {
	d.hierarchyOnce.Do(func() {
		if d.Kind != reflect.Struct {
			return
		}
		for i := 0; i < d.Type.NumField(); i++ {
			sf := d.Type.Field(i)
			if !sf.Anonymous {
				continue
			}
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			switch ft.Kind() {
			case reflect.Struct:
				embed := d.cache.GetTypeDescriptor(ft)
				if d.super == nil {
					d.super = embed
				}
				d.embedded = append(d.embedded, embed)
			case reflect.Interface:
				d.interfaces = append(d.interfaces, d.cache.GetTypeDescriptor(ft))
			}
		}
	})
}

// Super returns the descriptor of the first embedded struct, or nil.
func (d *TypeDescriptor) Super() *TypeDescriptor {
	d.buildHierarchy()
	return d.super
}

// Interfaces returns the descriptors of the embedded interfaces.
func (d *TypeDescriptor) Interfaces() []*TypeDescriptor {
	d.buildHierarchy()
	return d.interfaces
}

// Embedded returns the descriptors of all directly embedded structs in
// declaration order.
func (d *TypeDescriptor) Embedded() []*TypeDescriptor {
	d.buildHierarchy()
	return d.embedded
}

// Constructors returns the constructor table.
func (d *TypeDescriptor) Constructors() []*ExecutableDescriptor {
	d.ctorOnce.Do(d.buildConstructors)
	return d.constructors
}

// DeclaredConstructors returns the constructor table. Go has no constructor
// inheritance, so it equals Constructors.
func (d *TypeDescriptor) DeclaredConstructors() []*ExecutableDescriptor {
	return d.Constructors()
}

// Fields returns the field table: declared fields followed by promoted
// fields ordered by embedding depth.
func (d *TypeDescriptor) Fields() []*FieldDescriptor {
	d.fieldOnce.Do(d.buildFields)
	return d.fields
}

// DeclaredFields returns the fields declared directly on the type.
func (d *TypeDescriptor) DeclaredFields() []*FieldDescriptor {
	var out []*FieldDescriptor
	for _, f := range d.Fields() {
		if !f.Promoted {
			out = append(out, f)
		}
	}
	return out
}

// Methods returns the method table: the exported method set ordered by
// declaring level, followed by extension methods.
func (d *TypeDescriptor) Methods() []*ExecutableDescriptor {
	d.methodOnce.Do(d.buildMethods)
	return d.methods
}

// DeclaredMethods returns the methods whose declaring type is the type
// itself, including its own extension methods.
func (d *TypeDescriptor) DeclaredMethods() []*ExecutableDescriptor {
	var out []*ExecutableDescriptor
	for _, m := range d.Methods() {
		if m.DeclaringType == d.Type {
			out = append(out, m)
		}
	}
	return out
}

// Shape returns the member keys of the constructor, field and method tables.
func (d *TypeDescriptor) Shape() introutils.Shape {
	d.shapeOnce.Do(func() {
		shape := introutils.Shape{}
		for _, c := range d.Constructors() {
			shape.Constructors = append(shape.Constructors, c.Key())
		}
		for _, f := range d.Fields() {
			shape.Fields = append(shape.Fields, f.Key())
		}
		for _, m := range d.Methods() {
			shape.Methods = append(shape.Methods, m.Key())
		}
		d.shape = shape
	})
	return d.shape
}

// Accessor returns the offset based accessor of the type, creating it on
// first use. It returns nil if the cache has no accessor provider.
func (d *TypeDescriptor) Accessor() introutils.Accessor {
	d.accessorOnce.Do(func() {
		if d.cache.opts.Accessors != nil {
			d.accessor = d.cache.opts.Accessors.AccessorFor(d)
		}
	})
	return d.accessor
}

// Constructor returns the constructor with exactly the given parameter types.
func (d *TypeDescriptor) Constructor(params ...reflect.Type) *ExecutableDescriptor {
	for _, c := range d.Constructors() {
		if sameParams(c.params, params) {
			return c
		}
	}
	return nil
}

// Method returns the method name with exactly the given parameter types.
func (d *TypeDescriptor) Method(name string, params ...reflect.Type) *ExecutableDescriptor {
	for _, m := range d.Methods() {
		if m.Name == name && sameParams(m.params, params) {
			return m
		}
	}
	return nil
}

// MethodsByName returns all overloads of name.
func (d *TypeDescriptor) MethodsByName(name string) []*ExecutableDescriptor {
	var out []*ExecutableDescriptor
	for _, m := range d.Methods() {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// Field returns the visible field name, or nil.
func (d *TypeDescriptor) Field(name string) *FieldDescriptor {
	d.Fields()
	return d.fieldIndex[name]
}

// FieldsWithTag returns the fields carrying struct tag key.
func (d *TypeDescriptor) FieldsWithTag(key string) []*FieldDescriptor {
	var out []*FieldDescriptor
	for _, f := range d.Fields() {
		if _, ok := f.Tag.Lookup(key); ok {
			out = append(out, f)
		}
	}
	return out
}

// MethodsWithTag returns the methods carrying tag key.
func (d *TypeDescriptor) MethodsWithTag(key string) []*ExecutableDescriptor {
	var out []*ExecutableDescriptor
	for _, m := range d.Methods() {
		if m.Tags.Has(key) {
			out = append(out, m)
		}
	}
	return out
}

// ResolveConstructor selects the most specific constructor accepting args.
// A nil entry in args stands for an untyped nil argument. It returns nil if
// no constructor is compatible.
func (d *TypeDescriptor) ResolveConstructor(args ...reflect.Type) *ExecutableDescriptor {
	ctor, _ := sigmatch.Resolve(d.Constructors(), introutils.ConstructorName, args)
	return ctor
}

// ResolveMethod selects the most specific overload of name accepting args.
// Equally specific overloads resolve to the first one in table order.
func (d *TypeDescriptor) ResolveMethod(name string, args ...reflect.Type) *ExecutableDescriptor {
	method, _ := sigmatch.Resolve(d.Methods(), name, args)
	return method
}

// ResolveConstructorStrict is ResolveConstructor with ambiguity detection.
func (d *TypeDescriptor) ResolveConstructorStrict(args ...reflect.Type) (*ExecutableDescriptor, error) {
	ctor, _, err := sigmatch.ResolveStrict(d.Constructors(), introutils.ConstructorName, args)
	return ctor, err
}

// ResolveMethodStrict is ResolveMethod with ambiguity detection.
func (d *TypeDescriptor) ResolveMethodStrict(name string, args ...reflect.Type) (*ExecutableDescriptor, error) {
	method, _, err := sigmatch.ResolveStrict(d.Methods(), name, args)
	return method, err
}

// NewInstance creates an instance with the zero-argument constructor through
// reflection.
func (d *TypeDescriptor) NewInstance() (any, error) {
	ctor := d.Constructor()
	if ctor == nil {
		return nil, fmt.Errorf("%w: %s", introutils.ErrNoDefaultConstructor, d.Name)
	}
	return ctor.New()
}

// NewInstanceFast creates an instance with the zero-argument constructor
// through the accessor.
func (d *TypeDescriptor) NewInstanceFast() (any, error) {
	ctor := d.Constructor()
	if ctor == nil {
		return nil, fmt.Errorf("%w: %s", introutils.ErrNoDefaultConstructor, d.Name)
	}
	acc := d.Accessor()
	if acc == nil {
		return ctor.New()
	}
	return acc.NewInstance(ctor.Offset, nil)
}

// Get reads the field name of instance.
func (d *TypeDescriptor) Get(instance any, name string) (any, error) {
	f := d.Field(name)
	if f == nil {
		return nil, fmt.Errorf("%w: field %s.%s", introutils.ErrNoSuchMember, d.Name, name)
	}
	return f.Get(instance)
}

// Set writes the field name of instance, which must be a pointer.
func (d *TypeDescriptor) Set(instance any, name string, value any) error {
	f := d.Field(name)
	if f == nil {
		return fmt.Errorf("%w: field %s.%s", introutils.ErrNoSuchMember, d.Name, name)
	}
	return f.Set(instance, value)
}

// Invoke calls method on instance. The method must be taken from this
// descriptor's method table, handles of other descriptors (including
// embedded types) fail with ErrForeignMember.
func (d *TypeDescriptor) Invoke(method *ExecutableDescriptor, instance any, args ...any) ([]any, error) {
	if method == nil {
		return nil, fmt.Errorf("%w: nil method", introutils.ErrNoSuchMember)
	}
	if method.Owner != d {
		return nil, fmt.Errorf("%w: %s is a member of %s, not %s", introutils.ErrForeignMember, method, method.Owner.Name, d.Name)
	}
	return method.Invoke(instance, args...)
}

// InvokeFast calls the method at offset through the accessor.
func (d *TypeDescriptor) InvokeFast(offset int, instance any, args ...any) ([]any, error) {
	acc := d.Accessor()
	if acc == nil {
		methods := d.Methods()
		if offset < 0 || offset >= len(methods) {
			return nil, introutils.InvalidOffset("method", offset)
		}
		return methods[offset].Invoke(instance, args...)
	}
	return acc.Invoke(instance, offset, args)
}

// GetFast reads the field at offset through the accessor.
func (d *TypeDescriptor) GetFast(offset int, instance any) (any, error) {
	acc := d.Accessor()
	if acc == nil {
		fields := d.Fields()
		if offset < 0 || offset >= len(fields) {
			return nil, introutils.InvalidOffset("field", offset)
		}
		return fields[offset].Get(instance)
	}
	return acc.GetField(instance, offset)
}

// SetFast writes the field at offset through the accessor.
func (d *TypeDescriptor) SetFast(offset int, instance any, value any) error {
	acc := d.Accessor()
	if acc == nil {
		fields := d.Fields()
		if offset < 0 || offset >= len(fields) {
			return introutils.InvalidOffset("field", offset)
		}
		return fields[offset].Set(instance, value)
	}
	return acc.SetField(instance, offset, value)
}
