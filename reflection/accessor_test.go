// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package reflection_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pk910/go-introspect/introtypes"
	"github.com/pk910/go-introspect/introutils"
	"github.com/pk910/go-introspect/reflection"
)

type celsius float64

type Meta struct {
	Version uint32
	Labels  []string
}

func (m Meta) Describe() string {
	return fmt.Sprintf("v%d", m.Version)
}

type Settings struct {
	Debug bool
}

func (s *Settings) Toggle() bool {
	s.Debug = !s.Debug
	return s.Debug
}

type hidden struct {
	Note string
}

func (h hidden) Noted() string {
	return "note:" + h.Note
}

type Record struct {
	Meta
	*Settings
	hidden
	ID     int
	Name   string
	Score  float64
	Temp   celsius
	Data   []byte
	Frozen string `introspect:"readonly"`
	secret int
}

func (r *Record) Rename(name string) {
	r.Name = name
}

func (r Record) Title(prefix string, parts ...string) string {
	return prefix + ":" + r.Name + "/" + strings.Join(parts, ",")
}

var errNegative = errors.New("negative id")

func NewRecord(id int, name string) (*Record, error) {
	if id < 0 {
		return nil, errNegative
	}
	return &Record{ID: id, Name: name}, nil
}

type Shaper interface {
	Area() float64
	Scale(f float64, more ...float64) float64
}

type square struct{ side float64 }

func (s square) Area() float64 {
	return s.side * s.side
}

func (s square) Scale(f float64, more ...float64) float64 {
	v := s.side * f
	for _, m := range more {
		v *= m
	}
	return v
}

func init() {
	must(introtypes.RegisterConstructor(NewRecord))
	must(introtypes.RegisterMethod("Weighted", func(r Record, factor float64) float64 {
		return r.Score * factor
	}))
	must(introtypes.RegisterMethod("Bump", func(m *Meta, by uint32) uint32 {
		m.Version += by
		return m.Version
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func newRecord() *Record {
	return &Record{
		Meta:   Meta{Version: 3, Labels: []string{"a"}},
		hidden: hidden{Note: "n"},
		ID:     7,
		Name:   "rec",
		Score:  1.5,
		Temp:   20,
		Data:   []byte{1, 2},
		Frozen: "ice",
		secret: 42,
	}
}

type namedAccessor struct {
	name string
	acc  introutils.Accessor
}

func accessorsFor(desc *introtypes.TypeDescriptor) []namedAccessor {
	return []namedAccessor{
		{"reflect", reflection.NewAccessor(desc)},
		{"compiled", reflection.Compile(desc).NewAccessor()},
	}
}

func fieldOffset(t *testing.T, desc *introtypes.TypeDescriptor, name string) int {
	t.Helper()
	f := desc.Field(name)
	require.NotNil(t, f, "field %s", name)
	return f.Offset
}

func methodOffset(t *testing.T, desc *introtypes.TypeDescriptor, name string) int {
	t.Helper()
	methods := desc.MethodsByName(name)
	require.Len(t, methods, 1, "method %s", name)
	return methods[0].Offset
}

func ctorOffset(t *testing.T, desc *introtypes.TypeDescriptor, implicit bool) int {
	t.Helper()
	for _, c := range desc.Constructors() {
		if c.IsImplicit() == implicit {
			return c.Offset
		}
	}
	t.Fatalf("no constructor (implicit=%v)", implicit)
	return -1
}

func TestAccessorKind(t *testing.T) {
	desc := introtypes.NewTypeCache(introtypes.CacheOptions{}).GetTypeDescriptor(reflect.TypeFor[Record]())
	require.Equal(t, introutils.AccessorReflect, reflection.NewAccessor(desc).Kind())
	require.Equal(t, introutils.AccessorCompiled, reflection.Compile(desc).NewAccessor().Kind())
}

func TestAccessorEquivalence(t *testing.T) {
	desc := introtypes.NewTypeCache(introtypes.CacheOptions{}).GetTypeDescriptor(reflect.TypeFor[Record]())

	id := fieldOffset(t, desc, "ID")
	name := fieldOffset(t, desc, "Name")
	score := fieldOffset(t, desc, "Score")
	temp := fieldOffset(t, desc, "Temp")
	data := fieldOffset(t, desc, "Data")
	frozen := fieldOffset(t, desc, "Frozen")
	secret := fieldOffset(t, desc, "secret")
	version := fieldOffset(t, desc, "Version")
	note := fieldOffset(t, desc, "Note")
	debug := fieldOffset(t, desc, "Debug")
	rename := methodOffset(t, desc, "Rename")
	title := methodOffset(t, desc, "Title")
	noted := methodOffset(t, desc, "Noted")
	toggle := methodOffset(t, desc, "Toggle")
	weighted := methodOffset(t, desc, "Weighted")
	bump := methodOffset(t, desc, "Bump")
	ctor := ctorOffset(t, desc, false)
	implicit := ctorOffset(t, desc, true)

	tests := []struct {
		name    string
		op      func(acc introutils.Accessor) (any, error)
		want    any
		wantErr error
	}{
		{
			name: "get int field",
			op:   func(acc introutils.Accessor) (any, error) { return acc.GetField(newRecord(), id) },
			want: 7,
		},
		{
			name: "get from value instance",
			op:   func(acc introutils.Accessor) (any, error) { return acc.GetField(*newRecord(), name) },
			want: "rec",
		},
		{
			name: "get promoted field",
			op:   func(acc introutils.Accessor) (any, error) { return acc.GetField(newRecord(), version) },
			want: uint32(3),
		},
		{
			name: "get field of unexported embed",
			op:   func(acc introutils.Accessor) (any, error) { return acc.GetField(newRecord(), note) },
			want: "n",
		},
		{
			name: "get named field",
			op:   func(acc introutils.Accessor) (any, error) { return acc.GetField(newRecord(), temp) },
			want: celsius(20),
		},
		{
			name: "get through nil embedded pointer",
			op:   func(acc introutils.Accessor) (any, error) { return acc.GetField(newRecord(), debug) },
			wantErr: introutils.ErrNilEmbedded,
		},
		{
			name: "get through embedded pointer",
			op: func(acc introutils.Accessor) (any, error) {
				r := newRecord()
				r.Settings = &Settings{Debug: true}
				return acc.GetField(r, debug)
			},
			want: true,
		},
		{
			name:    "get unexported field",
			op:      func(acc introutils.Accessor) (any, error) { return acc.GetField(newRecord(), secret) },
			wantErr: introutils.ErrUnexported,
		},
		{
			name:    "get invalid offset",
			op:      func(acc introutils.Accessor) (any, error) { return acc.GetField(newRecord(), 999) },
			wantErr: introutils.ErrInvalidOffset,
		},
		{
			name:    "get negative offset",
			op:      func(acc introutils.Accessor) (any, error) { return acc.GetField(newRecord(), -1) },
			wantErr: introutils.ErrInvalidOffset,
		},
		{
			name:    "get from nil instance",
			op:      func(acc introutils.Accessor) (any, error) { return acc.GetField((*Record)(nil), id) },
			wantErr: introutils.ErrNilInstance,
		},
		{
			name:    "get from foreign instance",
			op:      func(acc introutils.Accessor) (any, error) { return acc.GetField(&Meta{}, id) },
			wantErr: introutils.ErrInstanceType,
		},
		{
			name: "set int field",
			op: func(acc introutils.Accessor) (any, error) {
				r := newRecord()
				err := acc.SetField(r, id, 9)
				return r.ID, err
			},
			want: 9,
		},
		{
			name: "set promoted field",
			op: func(acc introutils.Accessor) (any, error) {
				r := newRecord()
				err := acc.SetField(r, version, uint32(5))
				return r.Version, err
			},
			want: uint32(5),
		},
		{
			name: "set field of unexported embed",
			op: func(acc introutils.Accessor) (any, error) {
				r := newRecord()
				err := acc.SetField(r, note, "m")
				return r.Note, err
			},
			want: "m",
		},
		{
			name: "set converts basic equivalent",
			op: func(acc introutils.Accessor) (any, error) {
				r := newRecord()
				err := acc.SetField(r, score, celsius(2.5))
				return r.Score, err
			},
			want: 2.5,
		},
		{
			name: "set named field from underlying",
			op: func(acc introutils.Accessor) (any, error) {
				r := newRecord()
				err := acc.SetField(r, temp, 30.0)
				return r.Temp, err
			},
			want: celsius(30),
		},
		{
			name: "set nil slice",
			op: func(acc introutils.Accessor) (any, error) {
				r := newRecord()
				err := acc.SetField(r, data, nil)
				return r.Data == nil, err
			},
			want: true,
		},
		{
			name: "set through embedded pointer",
			op: func(acc introutils.Accessor) (any, error) {
				r := newRecord()
				r.Settings = &Settings{}
				err := acc.SetField(r, debug, true)
				return r.Debug, err
			},
			want: true,
		},
		{
			name: "set wrong type",
			op: func(acc introutils.Accessor) (any, error) {
				return nil, acc.SetField(newRecord(), id, "x")
			},
			wantErr: introutils.ErrArgType,
		},
		{
			name: "set nil into int",
			op: func(acc introutils.Accessor) (any, error) {
				return nil, acc.SetField(newRecord(), id, nil)
			},
			wantErr: introutils.ErrArgType,
		},
		{
			name: "set read-only field",
			op: func(acc introutils.Accessor) (any, error) {
				return nil, acc.SetField(newRecord(), frozen, "x")
			},
			wantErr: introutils.ErrReadOnly,
		},
		{
			name: "set unexported field",
			op: func(acc introutils.Accessor) (any, error) {
				return nil, acc.SetField(newRecord(), secret, 1)
			},
			wantErr: introutils.ErrUnexported,
		},
		{
			name: "set on value instance",
			op: func(acc introutils.Accessor) (any, error) {
				return nil, acc.SetField(*newRecord(), name, "x")
			},
			wantErr: introutils.ErrNotAddressable,
		},
		{
			name: "set invalid offset",
			op: func(acc introutils.Accessor) (any, error) {
				return nil, acc.SetField(newRecord(), 999, 1)
			},
			wantErr: introutils.ErrInvalidOffset,
		},
		{
			name: "invoke pointer method",
			op: func(acc introutils.Accessor) (any, error) {
				r := newRecord()
				_, err := acc.Invoke(r, rename, []any{"renamed"})
				return r.Name, err
			},
			want: "renamed",
		},
		{
			name: "invoke pointer method on value",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.Invoke(*newRecord(), rename, []any{"x"})
			},
			wantErr: introutils.ErrNotAddressable,
		},
		{
			name: "invoke variadic",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.Invoke(newRecord(), title, []any{"p", "a", "b"})
			},
			want: []any{"p:rec/a,b"},
		},
		{
			name: "invoke variadic spread",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.Invoke(*newRecord(), title, []any{"p", []string{"x", "y"}})
			},
			want: []any{"p:rec/x,y"},
		},
		{
			name: "invoke variadic empty tail",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.Invoke(newRecord(), title, []any{"p"})
			},
			want: []any{"p:rec/"},
		},
		{
			name: "invoke too few args",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.Invoke(newRecord(), title, nil)
			},
			wantErr: introutils.ErrArgCount,
		},
		{
			name: "invoke wrong arg type",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.Invoke(newRecord(), rename, []any{1})
			},
			wantErr: introutils.ErrArgType,
		},
		{
			name: "invoke method of unexported embed",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.Invoke(newRecord(), noted, nil)
			},
			want: []any{"note:n"},
		},
		{
			name: "invoke through nil embedded pointer",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.Invoke(newRecord(), toggle, nil)
			},
			wantErr: introutils.ErrNilEmbedded,
		},
		{
			name: "invoke through embedded pointer",
			op: func(acc introutils.Accessor) (any, error) {
				r := newRecord()
				r.Settings = &Settings{}
				return acc.Invoke(r, toggle, nil)
			},
			want: []any{true},
		},
		{
			name: "invoke extension",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.Invoke(newRecord(), weighted, []any{2.0})
			},
			want: []any{3.0},
		},
		{
			name: "invoke extension of embed",
			op: func(acc introutils.Accessor) (any, error) {
				r := newRecord()
				out, err := acc.Invoke(r, bump, []any{uint32(2)})
				if err != nil {
					return nil, err
				}
				return []any{out[0], r.Version}, nil
			},
			want: []any{uint32(5), uint32(5)},
		},
		{
			name: "invoke invalid offset",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.Invoke(newRecord(), len(desc.Methods()), nil)
			},
			wantErr: introutils.ErrInvalidOffset,
		},
		{
			name: "registered constructor",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.NewInstance(ctor, []any{1, "one"})
			},
			want: &Record{ID: 1, Name: "one"},
		},
		{
			name: "registered constructor error",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.NewInstance(ctor, []any{-1, "one"})
			},
			wantErr: errNegative,
		},
		{
			name: "implicit constructor",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.NewInstance(implicit, nil)
			},
			want: &Record{},
		},
		{
			name: "implicit constructor with args",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.NewInstance(implicit, []any{1})
			},
			wantErr: introutils.ErrArgCount,
		},
		{
			name: "constructor invalid offset",
			op: func(acc introutils.Accessor) (any, error) {
				return acc.NewInstance(len(desc.Constructors()), nil)
			},
			wantErr: introutils.ErrInvalidOffset,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var messages []string
			for _, a := range accessorsFor(desc) {
				got, err := test.op(a.acc)
				if test.wantErr != nil {
					require.ErrorIs(t, err, test.wantErr, a.name)
					messages = append(messages, err.Error())
					continue
				}
				require.NoError(t, err, a.name)
				require.Equal(t, test.want, got, a.name)
			}
			for _, msg := range messages[min(1, len(messages)):] {
				require.Equal(t, messages[0], msg)
			}
		})
	}
}

func TestInterfaceAccessors(t *testing.T) {
	desc := introtypes.NewTypeCache(introtypes.CacheOptions{}).GetTypeDescriptor(reflect.TypeFor[Shaper]())
	area := methodOffset(t, desc, "Area")
	scale := methodOffset(t, desc, "Scale")

	for _, a := range accessorsFor(desc) {
		t.Run(a.name, func(t *testing.T) {
			out, err := a.acc.Invoke(square{side: 2}, area, nil)
			require.NoError(t, err)
			require.Equal(t, []any{4.0}, out)

			out, err = a.acc.Invoke(square{side: 2}, scale, []any{2.0, 3.0})
			require.NoError(t, err)
			require.Equal(t, []any{12.0}, out)

			_, err = a.acc.Invoke(Meta{}, area, nil)
			require.ErrorIs(t, err, introutils.ErrInstanceType)

			_, err = a.acc.Invoke(nil, area, nil)
			require.ErrorIs(t, err, introutils.ErrNilInstance)

			_, err = a.acc.NewInstance(0, nil)
			require.ErrorIs(t, err, introutils.ErrInvalidOffset)
		})
	}
}

func TestProgramMatches(t *testing.T) {
	cache := introtypes.NewTypeCache(introtypes.CacheOptions{})
	desc := cache.GetTypeDescriptor(reflect.TypeFor[Record]())
	prog := reflection.Compile(desc)

	require.Equal(t, introutils.ArtifactName(desc.Type), prog.Name)
	require.True(t, prog.Shape.Equal(desc.Shape()))
	require.True(t, prog.Matches(desc))
	require.True(t, prog.Matches(introtypes.NewTypeCache(introtypes.CacheOptions{}).GetTypeDescriptor(reflect.TypeFor[Record]())))
	require.False(t, prog.Matches(cache.GetTypeDescriptor(reflect.TypeFor[Meta]())))
}
