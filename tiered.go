// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introspect

import (
	"sync"
	"sync/atomic"

	"github.com/pk910/go-introspect/introutils"
)

// tieredAccessor serves calls through the reflective accessor until the
// threshold is exceeded and then switches to the fast accessor. The fast
// accessor is built on the switching call; the switch happens once and is
// observed by all goroutines.
type tieredAccessor struct {
	slow      introutils.Accessor
	build     func() introutils.Accessor
	threshold int64

	calls   atomic.Int64
	once    sync.Once
	current atomic.Pointer[introutils.Accessor]
}

func newTieredAccessor(slow introutils.Accessor, threshold int, build func() introutils.Accessor) *tieredAccessor {
	return &tieredAccessor{
		slow:      slow,
		build:     build,
		threshold: int64(threshold),
	}
}

func (a *tieredAccessor) accessor() introutils.Accessor {
	if cur := a.current.Load(); cur != nil {
		return *cur
	}
	if a.calls.Add(1) <= a.threshold {
		return a.slow
	}
	a.once.Do(func() {
		fast := a.build()
		a.current.Store(&fast)
	})
	return *a.current.Load()
}

// Kind returns the kind of the accessor currently serving calls.
func (a *tieredAccessor) Kind() introutils.AccessorKind {
	if cur := a.current.Load(); cur != nil {
		return (*cur).Kind()
	}
	return a.slow.Kind()
}

func (a *tieredAccessor) NewInstance(ctor int, args []any) (any, error) {
	return a.accessor().NewInstance(ctor, args)
}

func (a *tieredAccessor) GetField(instance any, field int) (any, error) {
	return a.accessor().GetField(instance, field)
}

func (a *tieredAccessor) SetField(instance any, field int, value any) error {
	return a.accessor().SetField(instance, field, value)
}

func (a *tieredAccessor) Invoke(instance any, method int, args []any) ([]any, error) {
	return a.accessor().Invoke(instance, method, args)
}
