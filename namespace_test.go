// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introspect

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pk910/go-introspect/introutils"
)

func TestModuleIn(t *testing.T) {
	modules := sortModules([]string{"github.com/a", "example.com/main", "github.com/a/b"})

	tests := []struct {
		pkgPath  string
		expected string
	}{
		{"", ""},
		{"fmt", StdNamespace},
		{"net/http", StdNamespace},
		{"main", "main"},
		{"github.com/a", "github.com/a"},
		{"github.com/a/b", "github.com/a/b"},
		{"github.com/a/b/c", "github.com/a/b"},
		{"github.com/a/bc", "github.com/a"},
		{"github.com/a/b/c_test", "github.com/a/b"},
		{"example.com/main/cmd", "example.com/main"},
		{"example.org/other/pkg", "example.org/other/pkg"},
	}

	for _, test := range tests {
		t.Run(test.pkgPath, func(t *testing.T) {
			require.Equal(t, test.expected, moduleIn(test.pkgPath, modules))
		})
	}
}

func TestSortModules(t *testing.T) {
	sorted := sortModules([]string{"a", "", "a/b/c", "x/y", "a/b"})
	require.Equal(t, []string{"a/b/c", "x/y", "a/b", "a"}, sorted)
	require.Empty(t, sortModules(nil))
}

func TestNamespaceFor(t *testing.T) {
	in, _ := newTestIntrospector(t)

	require.Same(t, in.self, in.namespaceFor(reflect.TypeFor[Point]()))

	std := in.namespaceFor(reflect.TypeFor[time.Time]())
	require.Equal(t, StdNamespace, std.name)
	require.Same(t, std, in.namespaceFor(reflect.TypeFor[time.Duration]()))

	other, _ := newTestIntrospector(t)
	require.NotSame(t, std, other.namespaceFor(reflect.TypeFor[time.Time]()))
}

func TestNamespaceProgramCache(t *testing.T) {
	in, _ := newTestIntrospector(t)
	desc := in.Lookup(reflect.TypeFor[Point]())
	ns := in.namespaceFor(desc.Type)

	acc, err := ns.accessor(desc)
	require.NoError(t, err)
	require.Equal(t, introutils.AccessorCompiled, acc.Kind())

	name := introutils.ArtifactName(desc.Type)
	prog := ns.programs[name]
	require.NotNil(t, prog)

	_, err = ns.accessor(desc)
	require.NoError(t, err)
	require.Same(t, prog, ns.programs[name])
}

func TestRegisterAccessorErrors(t *testing.T) {
	factory := func() introutils.Accessor { return &gaugeAccessor{} }

	err := RegisterAccessor(nil, introutils.Shape{}, factory)
	require.ErrorIs(t, err, introutils.ErrNoArtifact)

	err = RegisterAccessor(reflect.TypeFor[Gauge](), introutils.Shape{}, nil)
	require.ErrorIs(t, err, introutils.ErrNoArtifact)
}

func TestArtifactLookup(t *testing.T) {
	typ := reflect.TypeFor[Gauge]()
	art := lookupArtifact(moduleOf(typ.PkgPath()), introutils.ArtifactName(typ))
	require.NotNil(t, art)
	require.Equal(t, typ, art.typ)

	require.Nil(t, lookupArtifact(StdNamespace, introutils.ArtifactName(typ)))
}
