// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package codegen

import (
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func generateFixtures(t *testing.T, opts ...CodeGenOption) string {
	t.Helper()
	fp := loadFixtures(t)
	cg := NewCodeGenerator(append([]CodeGenOption{WithSyntax(fp.file), WithFileSet(fp.fset)}, opts...)...)
	require.NoError(t, cg.BuildFile("fixture_introspect.go",
		fp.named(t, "FixtureRecord"),
		fp.named(t, "FixtureShape"),
		fp.named(t, "FixtureLevel"),
	))

	results, err := cg.GenerateToMap()
	require.NoError(t, err)
	require.Len(t, results, 1)
	code := results["fixture_introspect.go"]

	_, err = parser.ParseFile(token.NewFileSet(), "fixture_introspect.go", code, parser.ParseComments)
	require.NoError(t, err, code)
	return code
}

func TestGenerateToMap(t *testing.T) {
	code := generateFixtures(t)

	expected := []string{
		"// Code generated by introgen. DO NOT EDIT.",
		"package codegen",
		`introspect "github.com/pk910/go-introspect"`,
		`"github.com/pk910/go-introspect/introutils"`,
		"type fixtureRecordAccessor struct{}",
		"type fixtureShapeAccessor struct{}",
		"type fixtureLevelAccessor struct{}",
		"return introutils.AccessorGenerated",
		"func (*fixtureRecordAccessor) Invoke(instance any, method int, args []any) ([]any, error) {",

		// registrations
		"if err := introspect.RegisterConstructor(NewFixtureRecord); err != nil {",
		"panic(err)",
		"if err := introspect.RegisterConstructor(NewFixtureRecordDefault); err != nil {",
		`if err := introspect.RegisterConstructor(makeFixtureRecord, introspect.WithTags(map[string]string{"role": "primary"})); err != nil {`,
		`if err := introspect.TagMethod(reflect.TypeFor[FixtureRecord](), "Get", map[string]string{"http": "GET"}); err != nil {`,
		`{Name: introutils.ConstructorName, Signature: introutils.TypeStrings(reflect.TypeFor[int](), reflect.TypeFor[string]()), Names: []string{"id", "title"}}`,
		`{Name: "Label", Signature: introutils.TypeStrings(reflect.TypeFor[string](), reflect.TypeFor[[]string]()), Names: []string{"prefix", "parts"}}`,
		"if err := introspect.RegisterAccessor(reflect.TypeFor[FixtureRecord](), introutils.Shape{",
		`introutils.MemberKey(introutils.ConstructorName, introutils.Types(reflect.TypeFor[[]string]()), true, nil),`,
		`introutils.FieldKey("Debug", reflect.TypeFor[bool]()),`,
		`introutils.MemberKey("Get", introutils.Types(), false, introutils.Types(reflect.TypeFor[int](), reflect.TypeFor[error]())),`,
		"func() introutils.Accessor { return &fixtureRecordAccessor{} }); err != nil {",

		// dispatch
		"val, err := NewFixtureRecord(arg0, arg1)",
		"return &val, nil",
		"return makeFixtureRecord(arg0...), nil",
		"return new(FixtureLevel), nil",
		`return nil, introutils.UnexportedField("github.com/pk910/go-introspect/codegen.FixtureRecord", "fixtureMeta")`,
		`return introutils.ReadOnlyField("github.com/pk910/go-introspect/codegen.FixtureRecord", "Title")`,
		"if recv.FixtureSettings == nil {",
		`return nil, introutils.NilEmbedded("github.com/pk910/go-introspect/codegen.FixtureRecord", "Toggle")`,
		"return recv.fixtureMeta.Version, nil",
		"val, err := introutils.Value[map[string]string](value)",
		"recv, err := introutils.Receiver[FixtureRecord](instance, true)",
		"arg1, err := introutils.VarArgs[string](args, 1)",
		"res0 := recv.Label(arg0, arg1...)",
		"recv.Rename(arg0)",
		"recv, err := introutils.Iface[FixtureShape](instance)",
		"arg1, err := introutils.VarArgs[float64](args, 1)",
	}
	for _, snippet := range expected {
		require.Contains(t, code, snippet)
	}

	require.NotContains(t, code, "Hidden")
	require.NotContains(t, code, "RegisterConstructor(new")
	require.NotContains(t, code, "_ = introspect.")
}

func TestGenerateOptions(t *testing.T) {
	t.Run("NoParamTables", func(t *testing.T) {
		code := generateFixtures(t, WithNoParamTables())
		require.NotContains(t, code, "RegisterParamTable")
		require.Contains(t, code, "RegisterAccessor")
	})

	t.Run("NoRegistrations", func(t *testing.T) {
		code := generateFixtures(t, WithNoRegistrations())
		require.NotContains(t, code, "RegisterConstructor")
		require.NotContains(t, code, "TagMethod")
		require.Contains(t, code, "RegisterParamTable")
	})

	t.Run("Deterministic", func(t *testing.T) {
		require.Equal(t, generateFixtures(t), generateFixtures(t))
	})
}

func TestGenerate(t *testing.T) {
	fp := loadFixtures(t)
	dir := t.TempDir()
	fileName := filepath.Join(dir, "sub", "level_introspect.go")

	cg := NewCodeGenerator()
	require.NoError(t, cg.BuildFile(fileName, fp.named(t, "FixtureLevel")))
	require.NoError(t, cg.Generate())

	data, err := os.ReadFile(fileName)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "// Code generated by introgen. DO NOT EDIT."))
}

func TestBuildFileErrors(t *testing.T) {
	fp := loadFixtures(t)
	other := loadSource(t, "example.com/other", "package other\n\ntype Thing struct{}\n")

	t.Run("NoTypes", func(t *testing.T) {
		cg := NewCodeGenerator()
		require.Error(t, cg.BuildFile("empty.go"))
	})

	t.Run("MixedPackages", func(t *testing.T) {
		cg := NewCodeGenerator()
		err := cg.BuildFile("mixed.go", fp.named(t, "FixtureLevel"), other.named(t, "Thing"))
		require.ErrorContains(t, err, "cannot combine types from different packages")
	})

	t.Run("NoRequests", func(t *testing.T) {
		_, err := NewCodeGenerator().GenerateToMap()
		require.ErrorContains(t, err, "no types requested")
	})

	t.Run("InaccessibleType", func(t *testing.T) {
		hidden := types.NewPackage("example.com/hidden", "hidden")
		obj := types.NewTypeName(token.NoPos, hidden, "secret", nil)
		secret := types.NewNamed(obj, types.NewStruct(nil, nil), nil)

		src := types.NewPackage("example.com/src", "src")
		fields := []*types.Var{types.NewField(token.NoPos, src, "S", secret, false)}
		holderObj := types.NewTypeName(token.NoPos, src, "Holder", nil)
		holder := types.NewNamed(holderObj, types.NewStruct(fields, nil), nil)
		src.Scope().Insert(holderObj)

		cg := NewCodeGenerator()
		require.NoError(t, cg.BuildFile("holder.go", holder))
		_, err := cg.GenerateToMap()
		require.ErrorContains(t, err, "not accessible")
	})
}

func TestAccessorName(t *testing.T) {
	fp := loadSource(t, "example.com/names", "package names\n\ntype Item struct{}\n\ntype itemAccessor struct{}\n")
	req := &GenerationRequest{FileName: "item_introspect.go", Package: fp.pkg}

	t.Run("Conflict", func(t *testing.T) {
		cg := NewCodeGenerator()
		used := map[string]bool{}
		require.Equal(t, "itemAccessor_", cg.accessorName(req, "Item", used))
		require.Equal(t, "itemAccessor__", cg.accessorName(req, "Item", used))
	})

	t.Run("PreviousOutput", func(t *testing.T) {
		cg := NewCodeGenerator(WithFileSet(fp.fset))
		require.Equal(t, "itemAccessor_", cg.accessorName(req, "Item", map[string]bool{}))

		req := &GenerationRequest{FileName: "source.go", Package: fp.pkg}
		require.Equal(t, "itemAccessor", cg.accessorName(req, "Item", map[string]bool{}))
	})
}
