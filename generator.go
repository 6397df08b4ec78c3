// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introspect

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/pk910/go-introspect/introtypes"
	"github.com/pk910/go-introspect/introutils"
	"github.com/pk910/go-introspect/reflection"
)

// Generation failure reasons reported to metrics.
const (
	FailurePolicy = "policy"
	FailureShape  = "shape"
	FailurePanic  = "panic"
	FailureError  = "error"
)

// selfModule is the namespace of this library.
var selfModule = moduleOf(reflect.TypeFor[Introspector]().PkgPath())

// accessorProvider plugs the generator into the type cache.
type accessorProvider struct {
	in *Introspector
}

func (p accessorProvider) AccessorFor(desc *introtypes.TypeDescriptor) introutils.Accessor {
	return p.in.accessorFor(desc)
}

// accessorFor creates the accessor of desc. Generation failures are logged
// and counted, the caller always gets a working accessor.
func (in *Introspector) accessorFor(desc *introtypes.TypeDescriptor) introutils.Accessor {
	fallback := func() introutils.Accessor {
		acc := reflection.NewAccessor(desc)
		in.metrics.AccessorCreated(desc.Name, acc.Kind().String())
		return acc
	}

	if in.opts.NoCodegen {
		return fallback()
	}
	allowed, err := in.policy.allows(desc)
	if err != nil {
		in.generationFailed(desc, FailurePolicy, err)
		return fallback()
	}
	if !allowed {
		in.logf("policy excludes %s, using reflection", desc.Name)
		return fallback()
	}

	build := func() introutils.Accessor {
		acc, err := in.generate(desc)
		if err != nil {
			reason := FailureError
			switch {
			case errors.Is(err, introutils.ErrShapeMismatch):
				reason = FailureShape
			case errors.Is(err, errGeneratorPanic):
				reason = FailurePanic
			}
			in.generationFailed(desc, reason, err)
		}
		if acc == nil {
			return fallback()
		}
		in.metrics.AccessorCreated(desc.Name, acc.Kind().String())
		return acc
	}

	if in.opts.InflationThreshold > 0 {
		return newTieredAccessor(fallback(), in.opts.InflationThreshold, build)
	}
	return build()
}

var errGeneratorPanic = errors.New("accessor generation panicked")

// generate returns the generated or compiled accessor of desc. A non-nil
// accessor may be returned together with an error when a registered
// artifact could not be used.
func (in *Introspector) generate(desc *introtypes.TypeDescriptor) (acc introutils.Accessor, err error) {
	defer func() {
		if r := recover(); r != nil {
			acc = nil
			err = fmt.Errorf("%w: %v", errGeneratorPanic, r)
		}
	}()

	ns := in.namespaceFor(desc.Type)
	acc, err = ns.accessor(desc)
	if acc != nil {
		in.logf("accessor for %s in namespace %q: %s", desc.Name, ns.name, acc.Kind())
	}
	return acc, err
}

func (in *Introspector) namespaceFor(t reflect.Type) *namespace {
	name := moduleOf(t.PkgPath())
	if name == selfModule {
		return in.self
	}
	if ns, ok := in.namespaces.Load(name); ok {
		return ns.(*namespace)
	}
	ns, _ := in.namespaces.LoadOrStore(name, newNamespace(name))
	return ns.(*namespace)
}

func (in *Introspector) generationFailed(desc *introtypes.TypeDescriptor, reason string, err error) {
	in.metrics.GenerationFailed(desc.Name, reason)
	in.logf("accessor generation for %s failed (%s): %v", desc.Name, reason, err)
}
