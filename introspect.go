// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

// Package introspect provides runtime type introspection and fast invocation
// for the frameworks built on top of it: dependency injection containers,
// object mappers and request binders.
//
// Type metadata (constructors, fields, methods, parameter shapes and tags) is
// built lazily and cached once per type. Members can be selected by name and
// argument types with overload resolution, and invoked either reflectively or
// through a per-type accessor dispatching on numeric member offsets. Accessors
// are generated at build time by introgen, compiled from reflection at
// runtime, or fall back to plain reflection.
//
// Example:
//
//	desc := introspect.LookupFor[Point]()
//	ctor := desc.ResolveConstructor(reflect.TypeFor[int](), reflect.TypeFor[int]())
//	p, err := desc.Accessor().NewInstance(ctor.Offset, []any{1, 2})
package introspect

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/pk910/go-introspect/introtypes"
	"github.com/pk910/go-introspect/introutils"
	"github.com/pk910/go-introspect/metrics"
	"github.com/pk910/go-introspect/sigmatch"
)

// Introspector owns a type descriptor cache and the accessor namespaces of
// the types introspected through it. It is safe for concurrent use; reuse one
// instance to benefit from caching.
type Introspector struct {
	opts       Options
	cache      *introtypes.TypeCache
	policy     *generationPolicy
	metrics    metrics.Metrics
	self       *namespace
	namespaces sync.Map // module path -> *namespace
}

// NewIntrospector creates an introspector. It fails if the generation policy
// does not parse.
func NewIntrospector(options ...Option) (*Introspector, error) {
	opts := Options{}
	for _, opt := range options {
		opt(&opts)
	}

	policy, err := newGenerationPolicy(opts.GenerationPolicy)
	if err != nil {
		return nil, err
	}

	in := &Introspector{
		opts:    opts,
		policy:  policy,
		metrics: metrics.OrNop(opts.Metrics),
		self:    newNamespace(selfModule),
	}
	in.cache = introtypes.NewTypeCache(introtypes.CacheOptions{
		Accessors: accessorProvider{in: in},
		ParamDir:  opts.ParamSideTableDir,
		Metrics:   in.metrics,
		Verbose:   opts.Verbose,
		LogCb:     opts.LogCb,
	})
	return in, nil
}

// GetTypeCache returns the descriptor cache of the introspector.
func (in *Introspector) GetTypeCache() *introtypes.TypeCache {
	return in.cache
}

func (in *Introspector) logf(format string, args ...any) {
	if in.opts.Verbose && in.opts.LogCb != nil {
		in.opts.LogCb(format, args...)
	}
}

// Lookup returns the descriptor of t. *T and T share one descriptor; a nil
// type returns nil.
func (in *Introspector) Lookup(t reflect.Type) *introtypes.TypeDescriptor {
	return in.cache.GetTypeDescriptor(t)
}

// ResolveConstructor selects the constructor of t that best matches the
// argument types. It returns nil if no constructor is compatible.
func (in *Introspector) ResolveConstructor(t reflect.Type, args ...reflect.Type) *introtypes.ExecutableDescriptor {
	desc := in.Lookup(t)
	if desc == nil {
		return nil
	}
	return desc.ResolveConstructor(args...)
}

// ResolveMethod selects the method name of t that best matches the argument
// types. It returns nil if no method is compatible.
func (in *Introspector) ResolveMethod(t reflect.Type, name string, args ...reflect.Type) *introtypes.ExecutableDescriptor {
	desc := in.Lookup(t)
	if desc == nil {
		return nil
	}
	return desc.ResolveMethod(name, args...)
}

// Fields returns the fields visible from t.
func (in *Introspector) Fields(t reflect.Type) []*introtypes.FieldDescriptor {
	desc := in.Lookup(t)
	if desc == nil {
		return nil
	}
	return desc.Fields()
}

// FieldsWithTag returns the fields of t carrying the struct tag key.
func (in *Introspector) FieldsWithTag(t reflect.Type, key string) []*introtypes.FieldDescriptor {
	desc := in.Lookup(t)
	if desc == nil {
		return nil
	}
	return desc.FieldsWithTag(key)
}

// Methods returns the methods of t.
func (in *Introspector) Methods(t reflect.Type) []*introtypes.ExecutableDescriptor {
	desc := in.Lookup(t)
	if desc == nil {
		return nil
	}
	return desc.Methods()
}

// MethodsWithTag returns the methods of t carrying the tag key.
func (in *Introspector) MethodsWithTag(t reflect.Type, key string) []*introtypes.ExecutableDescriptor {
	desc := in.Lookup(t)
	if desc == nil {
		return nil
	}
	return desc.MethodsWithTag(key)
}

// Property returns the bean property name of t.
func (in *Introspector) Property(t reflect.Type, name string) *introtypes.PropertyDescriptor {
	desc := in.Lookup(t)
	if desc == nil {
		return nil
	}
	return desc.Property(name)
}

// Parameters returns the parameter descriptors of an executable.
func (in *Introspector) Parameters(exec *introtypes.ExecutableDescriptor) []*introtypes.ParameterDescriptor {
	if exec == nil {
		return nil
	}
	return exec.Parameters()
}

// Invoke resolves the method name of instance's type against the dynamic
// types of args and calls it through the accessor.
func (in *Introspector) Invoke(instance any, name string, args ...any) ([]any, error) {
	desc, err := in.instanceDescriptor(instance)
	if err != nil {
		return nil, err
	}
	argTypes := argumentTypes(args)
	method := desc.ResolveMethod(name, argTypes...)
	if method == nil {
		return nil, fmt.Errorf("%w: method %s.%s(%s)", introutils.ErrNoSuchMember, desc.Name, name, sigmatch.TypeList(argTypes))
	}
	return desc.InvokeFast(method.Offset, instance, args...)
}

// NewInstance resolves the constructor of t against the dynamic types of
// args and calls it through the accessor. The result is a *T.
func (in *Introspector) NewInstance(t reflect.Type, args ...any) (any, error) {
	desc := in.Lookup(t)
	if desc == nil {
		return nil, fmt.Errorf("%w: nil type", introutils.ErrNoSuchMember)
	}
	argTypes := argumentTypes(args)
	ctor := desc.ResolveConstructor(argTypes...)
	if ctor == nil {
		return nil, fmt.Errorf("%w: constructor %s(%s)", introutils.ErrNoSuchMember, desc.Name, sigmatch.TypeList(argTypes))
	}
	acc := desc.Accessor()
	if acc == nil {
		return ctor.New(args...)
	}
	return acc.NewInstance(ctor.Offset, args)
}

// Get reads the field name of instance through the accessor.
func (in *Introspector) Get(instance any, name string) (any, error) {
	desc, err := in.instanceDescriptor(instance)
	if err != nil {
		return nil, err
	}
	field := desc.Field(name)
	if field == nil {
		return nil, fmt.Errorf("%w: field %s.%s", introutils.ErrNoSuchMember, desc.Name, name)
	}
	return desc.GetFast(field.Offset, instance)
}

// Set writes the field name of instance, which must be a pointer, through the
// accessor.
func (in *Introspector) Set(instance any, name string, value any) error {
	desc, err := in.instanceDescriptor(instance)
	if err != nil {
		return err
	}
	field := desc.Field(name)
	if field == nil {
		return fmt.Errorf("%w: field %s.%s", introutils.ErrNoSuchMember, desc.Name, name)
	}
	return desc.SetFast(field.Offset, instance, value)
}

func (in *Introspector) instanceDescriptor(instance any) (*introtypes.TypeDescriptor, error) {
	if instance == nil {
		return nil, fmt.Errorf("%w: nil", introutils.ErrNilInstance)
	}
	return in.Lookup(reflect.TypeOf(instance)), nil
}

func argumentTypes(args []any) []reflect.Type {
	types := make([]reflect.Type, len(args))
	for i, arg := range args {
		if arg != nil {
			types[i] = reflect.TypeOf(arg)
		}
	}
	return types
}
