// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

// Package codegen generates offset based accessors for Go types. The
// generated files register each accessor together with the constructors,
// method tags and parameter names of its type from init, so the runtime can
// dispatch through plain Go code instead of reflection.
//
// Types are analyzed with go/types, usually loaded by the introgen command:
//
//	cg := codegen.NewCodeGenerator(codegen.WithSyntax(pkg.Syntax...))
//	cg.BuildFile("record_introspect.go", recordType)
//	err := cg.Generate()
package codegen

import (
	"fmt"
	"go/format"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pk910/go-introspect/codegen/tmpl"
)

// GenerationRequest represents a request to generate accessors for types of
// one package into one file.
type GenerationRequest struct {
	FileName string
	Types    []*types.Named
	Package  *types.Package
}

// CodeGenerator manages batch generation of accessors for multiple types.
type CodeGenerator struct {
	requests []*GenerationRequest
	options  *CodeGenOptions
}

// NewCodeGenerator creates a new code generator instance.
func NewCodeGenerator(opts ...CodeGenOption) *CodeGenerator {
	options := &CodeGenOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return &CodeGenerator{
		requests: make([]*GenerationRequest, 0),
		options:  options,
	}
}

// BuildFile requests a file holding the accessors of types. All types must
// belong to the same package.
func (cg *CodeGenerator) BuildFile(fileName string, named ...*types.Named) error {
	if len(named) == 0 {
		return fmt.Errorf("no types given for %s", fileName)
	}

	pkg := named[0].Obj().Pkg()
	for _, t := range named {
		tpkg := t.Obj().Pkg()
		if tpkg == nil {
			return fmt.Errorf("type %s has no package path", t.Obj().Name())
		}
		if pkg == nil || tpkg.Path() != pkg.Path() {
			return fmt.Errorf("type %s has different package path than %s. cannot combine types from different packages in a single file", t.Obj().Name(), named[0].Obj().Name())
		}
	}

	cg.requests = append(cg.requests, &GenerationRequest{
		FileName: fileName,
		Types:    named,
		Package:  pkg,
	})

	return nil
}

// GenerateToMap generates code for all requested types and returns it as a
// map of file name to code.
func (cg *CodeGenerator) GenerateToMap() (map[string]string, error) {
	if len(cg.requests) == 0 {
		return nil, fmt.Errorf("no types requested for generation")
	}

	directives := newDirectiveSet()
	for _, file := range cg.options.Syntax {
		if err := directives.addFile(file); err != nil {
			return nil, err
		}
	}

	results := make(map[string]string)
	usedNames := map[string]map[string]bool{}

	for _, req := range cg.requests {
		typePrinter := NewTypePrinter(req.Package.Path())
		typePrinter.AddImport("reflect", "reflect")
		typePrinter.AddImport(ModulePath, "introspect")
		typePrinter.AddImport(ModulePath+"/introutils", "introutils")

		if usedNames[req.Package.Path()] == nil {
			usedNames[req.Package.Path()] = map[string]bool{}
		}

		models := make([]*typeModel, 0, len(req.Types))
		codeBuilder := strings.Builder{}
		initBuilder := strings.Builder{}

		for _, t := range req.Types {
			model, err := analyzeType(t, directives)
			if err != nil {
				return nil, fmt.Errorf("failed to analyze type %s: %w", t.Obj().Name(), err)
			}
			models = append(models, model)

			structName := cg.accessorName(req, model.name, usedNames[req.Package.Path()])
			gen := newAccessorGenerator(model, typePrinter, structName)
			if err := gen.generate(&codeBuilder); err != nil {
				return nil, fmt.Errorf("failed to generate accessor for %s: %w", model.name, err)
			}
			generateRegistrations(model, structName, typePrinter, cg.options, &initBuilder)
			if err := typePrinter.Err(); err != nil {
				return nil, fmt.Errorf("failed to generate registrations for %s: %w", model.name, err)
			}
		}

		// collect & sort imports
		importsMap := typePrinter.Imports()
		imports := make([]tmpl.TypeImport, 0, len(importsMap))
		for path, alias := range importsMap {
			if presetAlias := typePrinter.Aliases()[path]; presetAlias != "" {
				alias = presetAlias
			} else if defaultAlias := typePrinter.defaultAlias(path); alias == defaultAlias {
				alias = ""
			}
			imports = append(imports, tmpl.TypeImport{
				Alias: alias,
				Path:  path,
			})
		}

		sort.Slice(imports, func(i, j int) bool {
			return imports[i].Path < imports[j].Path
		})

		mainCode := tmpl.Main{
			PackageName: req.Package.Name(),
			TypesHash:   typesHash(models),
			Version:     Version,
			Imports:     imports,
			Code:        codeBuilder.String(),
			Init:        initBuilder.String(),
		}

		mainCodeTpl := GetTemplate("tmpl/main.tmpl")
		mainCodeBuilder := strings.Builder{}
		if err := mainCodeTpl.ExecuteTemplate(&mainCodeBuilder, "main", mainCode); err != nil {
			return nil, fmt.Errorf("failed to generate code for %s: %w", req.FileName, err)
		}

		formatted, err := format.Source([]byte(mainCodeBuilder.String()))
		if err != nil {
			return nil, fmt.Errorf("failed to format code for %s: %w", req.FileName, err)
		}

		results[req.FileName] = string(formatted)
	}

	return results, nil
}

// Generate writes all requested files.
func (cg *CodeGenerator) Generate() error {
	results, err := cg.GenerateToMap()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	for fileName, code := range results {
		dir := filepath.Dir(fileName)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		if err := os.WriteFile(fileName, []byte(code), 0644); err != nil {
			return fmt.Errorf("failed to write code to file %s: %w", fileName, err)
		}
	}

	return nil
}

// accessorName picks an unused identifier for the accessor struct of a type.
// Declarations of a previous run of the same output file do not conflict.
func (cg *CodeGenerator) accessorName(req *GenerationRequest, typeName string, used map[string]bool) string {
	taken := func(name string) bool {
		if used[name] {
			return true
		}
		obj := req.Package.Scope().Lookup(name)
		if obj == nil {
			return false
		}
		if fset := cg.options.FileSet; fset != nil && obj.Pos().IsValid() {
			return filepath.Base(fset.Position(obj.Pos()).Filename) != filepath.Base(req.FileName)
		}
		return true
	}

	name := lowerFirst(typeName) + "Accessor"
	for taken(name) {
		name += "_"
	}
	used[name] = true
	return name
}
