// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introspect

import (
	"reflect"
	"sync"
	"time"

	"github.com/pk910/go-introspect/introutils"
)

type Point struct {
	X, Y int
}

func NewPoint(x, y int) *Point {
	return &Point{X: x, Y: y}
}

func (p *Point) Move(dx, dy int) {
	p.X += dx
	p.Y += dy
}

func (p Point) Sum() int { return p.X + p.Y }

type Counter struct {
	Hits  int
	Label string `introspect:"readonly"`
}

func (c *Counter) Hit(n ...int) int {
	if len(n) == 0 {
		c.Hits++
	}
	for _, v := range n {
		c.Hits += v
	}
	return c.Hits
}

// Gauge has a hand-written accessor in the form introgen emits.
type Gauge struct {
	Value float64
	Unit  string
}

func NewGauge(unit string) *Gauge {
	return &Gauge{Unit: unit}
}

func (g *Gauge) Add(v float64) float64 {
	g.Value += v
	return g.Value
}

// Stale is registered with a shape that no longer matches the type.
type Stale struct {
	N int
}

// Exploding is registered with a factory that panics.
type Exploding struct {
	N int
}

func init() {
	errs := []error{
		RegisterConstructor(NewPoint),
		RegisterConstructor(NewGauge),
	}

	errs = append(errs, RegisterAccessor(reflect.TypeFor[Gauge](), introutils.Shape{
		Constructors: []string{
			introutils.MemberKey(introutils.ConstructorName, introutils.Types(reflect.TypeFor[string]()), false, nil),
			introutils.MemberKey(introutils.ConstructorName, introutils.Types(), false, nil),
		},
		Fields: []string{
			introutils.FieldKey("Value", reflect.TypeFor[float64]()),
			introutils.FieldKey("Unit", reflect.TypeFor[string]()),
		},
		Methods: []string{
			introutils.MemberKey("Add", introutils.Types(reflect.TypeFor[float64]()), false, introutils.Types(reflect.TypeFor[float64]())),
		},
	}, func() introutils.Accessor { return &gaugeAccessor{} }))

	errs = append(errs, RegisterAccessor(reflect.TypeFor[Stale](), introutils.Shape{
		Constructors: []string{introutils.MemberKey(introutils.ConstructorName, introutils.Types(), false, nil)},
		Fields:       []string{introutils.FieldKey("Removed", reflect.TypeFor[string]())},
	}, func() introutils.Accessor { return &gaugeAccessor{} }))

	errs = append(errs, RegisterAccessor(reflect.TypeFor[Exploding](), introutils.Shape{
		Constructors: []string{introutils.MemberKey(introutils.ConstructorName, introutils.Types(), false, nil)},
		Fields:       []string{introutils.FieldKey("N", reflect.TypeFor[int]())},
	}, func() introutils.Accessor { panic("broken factory") }))

	for _, err := range errs {
		if err != nil {
			panic(err)
		}
	}
}

type gaugeAccessor struct{}

func (*gaugeAccessor) Kind() introutils.AccessorKind {
	return introutils.AccessorGenerated
}

func (*gaugeAccessor) NewInstance(ctor int, args []any) (any, error) {
	switch ctor {
	case 0:
		if err := introutils.CheckArgCount(args, 1, false); err != nil {
			return nil, err
		}
		arg0, err := introutils.Arg[string](args, 0)
		if err != nil {
			return nil, err
		}
		return NewGauge(arg0), nil
	case 1:
		if err := introutils.CheckArgCount(args, 0, false); err != nil {
			return nil, err
		}
		return new(Gauge), nil
	}
	return nil, introutils.InvalidOffset("constructor", ctor)
}

func (*gaugeAccessor) GetField(instance any, field int) (any, error) {
	switch field {
	case 0:
		recv, err := introutils.Receiver[Gauge](instance, false)
		if err != nil {
			return nil, err
		}
		return recv.Value, nil
	case 1:
		recv, err := introutils.Receiver[Gauge](instance, false)
		if err != nil {
			return nil, err
		}
		return recv.Unit, nil
	}
	return nil, introutils.InvalidOffset("field", field)
}

func (*gaugeAccessor) SetField(instance any, field int, value any) error {
	switch field {
	case 0:
		recv, err := introutils.Receiver[Gauge](instance, true)
		if err != nil {
			return err
		}
		val, err := introutils.Value[float64](value)
		if err != nil {
			return err
		}
		recv.Value = val
		return nil
	case 1:
		recv, err := introutils.Receiver[Gauge](instance, true)
		if err != nil {
			return err
		}
		val, err := introutils.Value[string](value)
		if err != nil {
			return err
		}
		recv.Unit = val
		return nil
	}
	return introutils.InvalidOffset("field", field)
}

func (*gaugeAccessor) Invoke(instance any, method int, args []any) ([]any, error) {
	switch method {
	case 0:
		recv, err := introutils.Receiver[Gauge](instance, true)
		if err != nil {
			return nil, err
		}
		if err := introutils.CheckArgCount(args, 1, false); err != nil {
			return nil, err
		}
		arg0, err := introutils.Arg[float64](args, 0)
		if err != nil {
			return nil, err
		}
		res0 := recv.Add(arg0)
		return []any{res0}, nil
	}
	return nil, introutils.InvalidOffset("method", method)
}

type metricEvent struct {
	typeName string
	value    string
}

// recordingMetrics collects accessor events.
type recordingMetrics struct {
	mutex    sync.Mutex
	created  []metricEvent
	failures []metricEvent
}

func (m *recordingMetrics) DescriptorBuilt(string, time.Duration) {}
func (m *recordingMetrics) ParamNamesResolved(string, string)     {}

func (m *recordingMetrics) AccessorCreated(typeName, kind string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.created = append(m.created, metricEvent{typeName, kind})
}

func (m *recordingMetrics) GenerationFailed(typeName, reason string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.failures = append(m.failures, metricEvent{typeName, reason})
}

func (m *recordingMetrics) createdKinds(typeName string) []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	var out []string
	for _, e := range m.created {
		if e.typeName == typeName {
			out = append(out, e.value)
		}
	}
	return out
}

func (m *recordingMetrics) failureReasons(typeName string) []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	var out []string
	for _, e := range m.failures {
		if e.typeName == typeName {
			out = append(out, e.value)
		}
	}
	return out
}
