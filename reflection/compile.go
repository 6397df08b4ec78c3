// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package reflection

import (
	"reflect"
	"unsafe"

	"github.com/pk910/go-introspect/introtypes"
	"github.com/pk910/go-introspect/introutils"
)

type ctorFunc func(args []any) (any, error)
type getterFunc func(instance any) (any, error)
type setterFunc func(instance any, value any) error
type methodFunc func(instance any, args []any) ([]any, error)

// Program is the compiled accessor table of a type. Struct fields that are
// reachable without crossing a pointer are accessed through their memory
// offset, members are pre-bound to their function values. Programs are
// immutable and shared by all accessors instantiated from them.
type Program struct {
	Name  string           // Artifact name
	Type  reflect.Type     // Compiled type
	Shape introutils.Shape // Shape of the descriptor at compile time

	ctors   []ctorFunc
	getters []getterFunc
	setters []setterFunc
	methods []methodFunc
}

// Compile builds the accessor table of desc.
func Compile(desc *introtypes.TypeDescriptor) *Program {
	p := &Program{
		Name:  introutils.ArtifactName(desc.Type),
		Type:  desc.Type,
		Shape: desc.Shape(),
	}

	for _, c := range desc.Constructors() {
		p.ctors = append(p.ctors, compileConstructor(desc, c))
	}
	for _, f := range desc.Fields() {
		get, set := compileField(desc, f)
		p.getters = append(p.getters, get)
		p.setters = append(p.setters, set)
	}
	for _, m := range desc.Methods() {
		p.methods = append(p.methods, compileMethod(desc, m))
	}

	return p
}

// Matches reports whether the program was compiled for the current layout of
// desc.
func (p *Program) Matches(desc *introtypes.TypeDescriptor) bool {
	return p.Type == desc.Type && p.Shape.Equal(desc.Shape())
}

// NewAccessor instantiates an accessor backed by the program.
func (p *Program) NewAccessor() introutils.Accessor {
	return &compiledAccessor{prog: p}
}

func compileConstructor(desc *introtypes.TypeDescriptor, c *introtypes.ExecutableDescriptor) ctorFunc {
	t := desc.Type
	if c.IsImplicit() {
		return func(args []any) (any, error) {
			if err := introutils.CheckArgCount(args, 0, false); err != nil {
				return nil, err
			}
			return reflect.New(t).Interface(), nil
		}
	}

	call := bindCall(c.Func(), c.IsVariadic())
	params := c.Params()
	variadic := c.IsVariadic()
	return func(args []any) (any, error) {
		in, err := introutils.ConvertArgs(args, params, variadic)
		if err != nil {
			return nil, err
		}
		return introutils.ConstructorResult(call(in), t)
	}
}

func compileField(desc *introtypes.TypeDescriptor, f *introtypes.FieldDescriptor) (getterFunc, setterFunc) {
	owner, name := desc.Name, f.Name
	if !f.Exported {
		err := func() error { return introutils.UnexportedField(owner, name) }
		return func(any) (any, error) { return nil, err() },
			func(any, any) error { return err() }
	}

	t, ft := desc.Type, f.Type
	getter := func(instance any) (any, error) {
		ptr, err := introutils.ReceiverValue(instance, t, false)
		if err != nil {
			return nil, err
		}
		v, err := introtypes.FieldByIndex(ptr.Elem(), f.Index, owner, name)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}
	setter := func(instance any, value any) error {
		ptr, err := introutils.ReceiverValue(instance, t, true)
		if err != nil {
			return err
		}
		v, err := introtypes.FieldByIndex(ptr.Elem(), f.Index, owner, name)
		if err != nil {
			return err
		}
		rv, err := introutils.ConvertValue(value, ft)
		if err != nil {
			return err
		}
		v.Set(rv)
		return nil
	}

	if f.Direct {
		getter, setter = directField(t, ft, f.MemoryOffset)
	}
	if f.ReadOnly {
		setter = func(any, any) error { return introutils.ReadOnlyField(owner, name) }
	}
	return getter, setter
}

// directField accesses a field at offset from the start of the instance.
func directField(t, ft reflect.Type, offset uintptr) (getterFunc, setterFunc) {
	prim, isPrim := primitives[ft]

	getter := func(instance any) (any, error) {
		ptr, err := introutils.ReceiverValue(instance, t, false)
		if err != nil {
			return nil, err
		}
		p := unsafe.Add(ptr.UnsafePointer(), offset)
		if isPrim {
			return prim.read(p), nil
		}
		return reflect.NewAt(ft, p).Elem().Interface(), nil
	}
	setter := func(instance any, value any) error {
		ptr, err := introutils.ReceiverValue(instance, t, true)
		if err != nil {
			return err
		}
		p := unsafe.Add(ptr.UnsafePointer(), offset)
		if isPrim && prim.write(p, value) {
			return nil
		}
		rv, err := introutils.ConvertValue(value, ft)
		if err != nil {
			return err
		}
		reflect.NewAt(ft, p).Elem().Set(rv)
		return nil
	}
	return getter, setter
}

func compileMethod(desc *introtypes.TypeDescriptor, m *introtypes.ExecutableDescriptor) methodFunc {
	params := m.Params()
	variadic := m.IsVariadic()

	if desc.Kind == reflect.Interface {
		t := desc.Type
		im, _ := t.MethodByName(m.Name)
		return func(instance any, args []any) ([]any, error) {
			recv, err := introutils.IfaceValue(instance, t)
			if err != nil {
				return nil, err
			}
			in, err := introutils.ConvertArgs(args, params, variadic)
			if err != nil {
				return nil, err
			}
			iv := reflect.New(t).Elem()
			iv.Set(recv)
			return introutils.Results(bindCall(iv.Method(im.Index), variadic)(in)), nil
		}
	}

	call := bindCall(m.Func(), variadic)
	return func(instance any, args []any) ([]any, error) {
		recv, err := m.Receiver(instance)
		if err != nil {
			return nil, err
		}
		in, err := introutils.ConvertArgs(args, params, variadic)
		if err != nil {
			return nil, err
		}
		full := make([]reflect.Value, 0, len(in)+1)
		full = append(full, recv)
		return introutils.Results(call(append(full, in...))), nil
	}
}

func bindCall(fn reflect.Value, variadic bool) func([]reflect.Value) []reflect.Value {
	if variadic {
		return fn.CallSlice
	}
	return fn.Call
}

type compiledAccessor struct {
	prog *Program
}

func (a *compiledAccessor) Kind() introutils.AccessorKind {
	return introutils.AccessorCompiled
}

func (a *compiledAccessor) NewInstance(ctor int, args []any) (any, error) {
	if ctor < 0 || ctor >= len(a.prog.ctors) {
		return nil, introutils.InvalidOffset("constructor", ctor)
	}
	return a.prog.ctors[ctor](args)
}

func (a *compiledAccessor) GetField(instance any, field int) (any, error) {
	if field < 0 || field >= len(a.prog.getters) {
		return nil, introutils.InvalidOffset("field", field)
	}
	return a.prog.getters[field](instance)
}

func (a *compiledAccessor) SetField(instance any, field int, value any) error {
	if field < 0 || field >= len(a.prog.setters) {
		return introutils.InvalidOffset("field", field)
	}
	return a.prog.setters[field](instance, value)
}

func (a *compiledAccessor) Invoke(instance any, method int, args []any) ([]any, error) {
	if method < 0 || method >= len(a.prog.methods) {
		return nil, introutils.InvalidOffset("method", method)
	}
	return a.prog.methods[method](instance, args)
}
