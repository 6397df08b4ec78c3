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

type execKind uint8

const (
	execImplicitConstructor execKind = iota
	execConstructor
	execMethod
	execInterfaceMethod
	execExtension
)

// ExecutableDescriptor describes a constructor or method of a type.
//
// Offset indexes the owner's constructor or method table and is the key
// accessors dispatch on. The descriptor is immutable, except for parameter
// names filled in by parameter name recovery.
type ExecutableDescriptor struct {
	Name            string          // Member name, "<init>" for constructors
	Owner           *TypeDescriptor // Descriptor whose table holds the executable
	DeclaringType   reflect.Type    // Type declaring the member (an embedded type for promoted methods)
	Offset          int             // Index in the owner's constructor or method table
	Exported        bool            // Member name is exported
	PointerReceiver bool            // Method requires a *T receiver
	Extension       bool            // Registered extension method
	Tags            Tags            // Annotation tags

	kind      execKind
	fn        reflect.Value
	params    []reflect.Type
	results   []reflect.Type
	variadic  bool
	recvPtr   bool  // extension receiver parameter is a pointer
	embedPath []int // field path from the owner to the declaring embed

	paramsOnce sync.Once
	parameters []*ParameterDescriptor
	names      []string
	namesFrom  string
}

// Params returns the parameter types without the receiver. The last
// parameter of a variadic executable is a slice type.
func (e *ExecutableDescriptor) Params() []reflect.Type { return e.params }

// Results returns the result types.
func (e *ExecutableDescriptor) Results() []reflect.Type { return e.results }

// IsVariadic reports whether the last parameter is variadic.
func (e *ExecutableDescriptor) IsVariadic() bool { return e.variadic }

// MemberName returns the executable name.
func (e *ExecutableDescriptor) MemberName() string { return e.Name }

// IsConstructor reports whether the executable is a constructor.
func (e *ExecutableDescriptor) IsConstructor() bool {
	return e.kind == execConstructor || e.kind == execImplicitConstructor
}

// IsImplicit reports whether the executable is the zero-value constructor.
func (e *ExecutableDescriptor) IsImplicit() bool {
	return e.kind == execImplicitConstructor
}

// Func returns the underlying function value. Method-set methods take the
// *T receiver as first argument, extension methods their declared receiver.
// It is invalid for the implicit constructor and interface methods.
func (e *ExecutableDescriptor) Func() reflect.Value { return e.fn }

// EmbedPath returns the field index path from the owner to the embedded
// value promoted methods are called on. It is nil for members of the type
// itself.
func (e *ExecutableDescriptor) EmbedPath() []int { return e.embedPath }

// ReceiverIsPointer reports whether an extension method takes a pointer
// receiver.
func (e *ExecutableDescriptor) ReceiverIsPointer() bool { return e.recvPtr }

// NeedsPointer reports whether invocations require a *T instance.
func (e *ExecutableDescriptor) NeedsPointer() bool {
	if e.kind == execExtension {
		return e.recvPtr
	}
	return e.PointerReceiver
}

// Key returns the shape key of the executable.
func (e *ExecutableDescriptor) Key() string {
	if e.IsConstructor() {
		return introutils.MemberKey(e.Name, e.params, e.variadic, nil)
	}
	return introutils.MemberKey(e.Name, e.params, e.variadic, e.results)
}

func (e *ExecutableDescriptor) String() string {
	return e.Owner.Name + "." + e.Key()
}

// Parameters returns the parameter descriptors.
func (e *ExecutableDescriptor) Parameters() []*ParameterDescriptor {
	e.paramsOnce.Do(func() {
		e.parameters = make([]*ParameterDescriptor, len(e.params))
		for i, pt := range e.params {
			e.parameters[i] = &ParameterDescriptor{
				Offset:     i,
				Type:       pt,
				Executable: e,
				Tags:       e.Tags.Param(i),
			}
		}
	})
	return e.parameters
}

// New calls a constructor through reflection and returns a pointer to the
// new instance.
func (e *ExecutableDescriptor) New(args ...any) (any, error) {
	switch e.kind {
	case execImplicitConstructor:
		if err := introutils.CheckArgCount(args, 0, false); err != nil {
			return nil, err
		}
		return reflect.New(e.Owner.Type).Interface(), nil
	case execConstructor:
		in, err := introutils.ConvertArgs(args, e.params, e.variadic)
		if err != nil {
			return nil, err
		}
		return introutils.ConstructorResult(e.call(in), e.Owner.Type)
	}
	return nil, fmt.Errorf("%w: %s", introutils.ErrNotConstructor, e)
}

// Invoke calls a method on instance through reflection.
//
// Instances may be *T or T; methods with pointer receivers require *T.
func (e *ExecutableDescriptor) Invoke(instance any, args ...any) ([]any, error) {
	switch e.kind {
	case execInterfaceMethod:
		recv, err := introutils.IfaceValue(instance, e.Owner.Type)
		if err != nil {
			return nil, err
		}
		in, err := introutils.ConvertArgs(args, e.params, e.variadic)
		if err != nil {
			return nil, err
		}
		method := recv.MethodByName(e.Name)
		if e.variadic {
			return introutils.Results(method.CallSlice(in)), nil
		}
		return introutils.Results(method.Call(in)), nil

	case execMethod, execExtension:
		recv, err := e.Receiver(instance)
		if err != nil {
			return nil, err
		}
		in, err := introutils.ConvertArgs(args, e.params, e.variadic)
		if err != nil {
			return nil, err
		}
		return introutils.Results(e.call(append([]reflect.Value{recv}, in...))), nil
	}
	return nil, fmt.Errorf("%w: %s", introutils.ErrNotMethod, e)
}

// Receiver resolves the receiver value Func expects for instance.
func (e *ExecutableDescriptor) Receiver(instance any) (reflect.Value, error) {
	ptr, err := introutils.ReceiverValue(instance, e.Owner.Type, e.NeedsPointer())
	if err != nil {
		return reflect.Value{}, err
	}
	target, err := walkEmbeds(ptr.Elem(), e.embedPath, e.Owner.Name, e.Name)
	if err != nil {
		return reflect.Value{}, err
	}
	switch e.kind {
	case execExtension:
		if e.recvPtr {
			return target.Addr(), nil
		}
		return target, nil
	default:
		return ptr, nil
	}
}

func (e *ExecutableDescriptor) call(in []reflect.Value) []reflect.Value {
	if e.variadic {
		return e.fn.CallSlice(in)
	}
	return e.fn.Call(in)
}

// walkEmbeds follows path from v, dereferencing embedded pointers. Nil
// pointers and nil interfaces on the path fail with ErrNilEmbedded.
func walkEmbeds(v reflect.Value, path []int, owner, member string) (reflect.Value, error) {
	for _, idx := range path {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, introutils.NilEmbedded(owner, member)
			}
			v = v.Elem()
		}
		v = exposed(v.Field(idx))
	}
	switch v.Kind() {
	case reflect.Pointer:
		if len(path) == 0 {
			return v, nil
		}
		if v.IsNil() {
			return reflect.Value{}, introutils.NilEmbedded(owner, member)
		}
		v = exposed(v.Elem())
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Value{}, introutils.NilEmbedded(owner, member)
		}
	}
	return v, nil
}

// ParameterDescriptor describes one parameter of an executable.
type ParameterDescriptor struct {
	Offset     int                   // Zero-based parameter position
	Type       reflect.Type          // Declared type, []E for a variadic tail
	Executable *ExecutableDescriptor // Owning executable
	Tags       Tags                  // Tags from the executable's "param.<n>." keys
}

// Name returns the recovered source name of the parameter or arg<offset>.
func (p *ParameterDescriptor) Name() string {
	e := p.Executable
	e.Owner.recoverParamNames()
	if e.names != nil {
		return e.names[p.Offset]
	}
	return fmt.Sprintf("arg%d", p.Offset)
}

// NameRecovered reports whether Name comes from a side-table.
func (p *ParameterDescriptor) NameRecovered() bool {
	p.Executable.Owner.recoverParamNames()
	return p.Executable.names != nil
}
