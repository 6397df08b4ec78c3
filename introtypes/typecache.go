// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introtypes

import (
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pk910/go-introspect/introutils"
	"github.com/pk910/go-introspect/metrics"
)

// AccessorProvider creates the accessor of a type descriptor. It is called at
// most once per descriptor.
type AccessorProvider interface {
	AccessorFor(desc *TypeDescriptor) introutils.Accessor
}

// CacheOptions configures a TypeCache.
type CacheOptions struct {
	// Accessors creates descriptor accessors. Without a provider,
	// TypeDescriptor.Accessor returns nil and the fast paths fall back to
	// the descriptor's reflective invocation.
	Accessors AccessorProvider

	// ParamDir is the directory searched for YAML parameter name side-tables.
	ParamDir string

	Metrics metrics.Metrics
	Verbose bool
	LogCb   func(format string, args ...any)
}

// TypeCache manages cached type descriptors
type TypeCache struct {
	opts        CacheOptions
	metrics     metrics.Metrics
	descriptors sync.Map // reflect.Type -> *TypeDescriptor
	group       singleflight.Group
	builds      atomic.Uint64
}

// NewTypeCache creates a new type cache
func NewTypeCache(opts CacheOptions) *TypeCache {
	return &TypeCache{
		opts:    opts,
		metrics: metrics.OrNop(opts.Metrics),
	}
}

// GetTypeDescriptor returns the cached type descriptor for the given type,
// constructing it on first use.
//
// Pointers to named types are normalized to the named type, so *T and T share
// one descriptor. A nil type returns nil.
//
// Exactly one descriptor is published per type, even when many goroutines
// request the same type for the first time: construction is deduplicated with
// a singleflight group and published with LoadOrStore, so a descriptor that
// loses the race is discarded and every caller observes the same instance.
// Steady-state lookups are a single lock-free map read.
//
// Descriptor construction only records the type identity. Constructor,
// field and method tables are built lazily by the first query that needs
// them and are immutable afterwards.
//
// Example:
//
//	desc := cache.GetTypeDescriptor(reflect.TypeOf(Point{}))
//	ctor := desc.ResolveConstructor(reflect.TypeFor[int](), reflect.TypeFor[int]())
func (tc *TypeCache) GetTypeDescriptor(t reflect.Type) *TypeDescriptor {
	if t == nil {
		return nil
	}
	t = Normalize(t)

	if desc, ok := tc.descriptors.Load(t); ok {
		return desc.(*TypeDescriptor)
	}

	key := strconv.FormatUint(uint64(reflect.ValueOf(t).Pointer()), 16)
	desc, _, _ := tc.group.Do(key, func() (any, error) {
		if desc, ok := tc.descriptors.Load(t); ok {
			return desc, nil
		}
		actual, _ := tc.descriptors.LoadOrStore(t, tc.buildDescriptor(t))
		return actual, nil
	})
	return desc.(*TypeDescriptor)
}

func (tc *TypeCache) buildDescriptor(t reflect.Type) *TypeDescriptor {
	start := time.Now()
	desc := newTypeDescriptor(tc, t)
	tc.builds.Add(1)
	tc.metrics.DescriptorBuilt(desc.Name, time.Since(start))
	tc.logf("introspect: built descriptor for %s", desc.Name)
	return desc
}

// BuildCount returns the number of descriptors constructed by this cache.
func (tc *TypeCache) BuildCount() uint64 {
	return tc.builds.Load()
}

// GetAllTypes returns all types currently in the cache
func (tc *TypeCache) GetAllTypes() []reflect.Type {
	var types []reflect.Type
	tc.descriptors.Range(func(key, _ any) bool {
		types = append(types, key.(reflect.Type))
		return true
	})
	return types
}

// Metrics returns the metrics sink of the cache.
func (tc *TypeCache) Metrics() metrics.Metrics {
	return tc.metrics
}

func (tc *TypeCache) logf(format string, args ...any) {
	if tc.opts.Verbose && tc.opts.LogCb != nil {
		tc.opts.LogCb(format, args...)
	}
}

// Normalize returns the descriptor key for t: pointers to named types map to
// the named type, every other type maps to itself.
func Normalize(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer && t.Elem().Name() != "" {
		return t.Elem()
	}
	return t
}
