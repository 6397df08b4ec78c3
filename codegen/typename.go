// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package codegen

import (
	"fmt"
	"go/types"
	"strings"
)

// TypePrinter renders go/types types as Go source in the generated package
// and records the imports they need.
type TypePrinter struct {
	CurrentPkg string
	imports    map[string]string
	aliases    map[string]string
	errors     []error
}

func NewTypePrinter(currentPkg string) *TypePrinter {
	return &TypePrinter{
		CurrentPkg: currentPkg,
		imports:    make(map[string]string),
		aliases:    make(map[string]string),
	}
}

func (p *TypePrinter) Imports() map[string]string { return p.imports }

func (p *TypePrinter) AddImport(path, alias string) string {
	if p.imports[path] == "" {
		// ensure alias uniqueness
		base := alias
		i := 1
		for containsValue(p.imports, alias) {
			alias = fmt.Sprintf("%s%d", base, i)
			i++
		}

		p.imports[path] = alias
	} else {
		alias = p.imports[path]
	}
	return alias
}

func (p *TypePrinter) Aliases() map[string]string { return p.aliases }

func (p *TypePrinter) AddAlias(path, alias string) {
	p.aliases[path] = alias
}

// Err returns the first type that could not be referenced from the current
// package.
func (p *TypePrinter) Err() error {
	if len(p.errors) == 0 {
		return nil
	}
	return p.errors[0]
}

// TypeString renders t with package qualifiers of the generated file.
func (p *TypePrinter) TypeString(t types.Type) string {
	p.checkAccessible(t, map[types.Type]bool{})
	return types.TypeString(t, p.qualifier)
}

func (p *TypePrinter) qualifier(pkg *types.Package) string {
	if pkg.Path() == p.CurrentPkg {
		return ""
	}
	if alias := p.imports[pkg.Path()]; alias != "" {
		return alias
	}
	alias := pkg.Name()
	if preset, ok := p.aliases[pkg.Path()]; ok {
		alias = preset
	}
	return p.AddImport(pkg.Path(), normalizeAlias(alias))
}

// checkAccessible records an error for unexported named types of other
// packages, which generated code cannot spell.
func (p *TypePrinter) checkAccessible(t types.Type, seen map[types.Type]bool) {
	if seen[t] {
		return
	}
	seen[t] = true

	switch tt := types.Unalias(t).(type) {
	case *types.Named:
		obj := tt.Obj()
		if obj.Pkg() != nil && obj.Pkg().Path() != p.CurrentPkg && !obj.Exported() {
			p.errors = append(p.errors, fmt.Errorf("type %s is not accessible from %s", types.TypeString(tt, nil), p.CurrentPkg))
		}
		if args := tt.TypeArgs(); args != nil {
			for i := 0; i < args.Len(); i++ {
				p.checkAccessible(args.At(i), seen)
			}
		}
	case *types.Pointer:
		p.checkAccessible(tt.Elem(), seen)
	case *types.Slice:
		p.checkAccessible(tt.Elem(), seen)
	case *types.Array:
		p.checkAccessible(tt.Elem(), seen)
	case *types.Map:
		p.checkAccessible(tt.Key(), seen)
		p.checkAccessible(tt.Elem(), seen)
	case *types.Chan:
		p.checkAccessible(tt.Elem(), seen)
	case *types.Signature:
		p.checkTuple(tt.Params(), seen)
		p.checkTuple(tt.Results(), seen)
	case *types.Struct:
		for i := 0; i < tt.NumFields(); i++ {
			f := tt.Field(i)
			if !f.Exported() && f.Pkg() != nil && f.Pkg().Path() != p.CurrentPkg {
				p.errors = append(p.errors, fmt.Errorf("struct field %s of %s is not accessible from %s", f.Name(), tt, p.CurrentPkg))
			}
			p.checkAccessible(f.Type(), seen)
		}
	case *types.Interface:
		for i := 0; i < tt.NumMethods(); i++ {
			m := tt.Method(i)
			if !m.Exported() && m.Pkg() != nil && m.Pkg().Path() != p.CurrentPkg {
				p.errors = append(p.errors, fmt.Errorf("interface method %s of %s is not accessible from %s", m.Name(), tt, p.CurrentPkg))
			}
			p.checkAccessible(m.Type(), seen)
		}
	}
}

func (p *TypePrinter) checkTuple(tuple *types.Tuple, seen map[types.Type]bool) {
	for i := 0; i < tuple.Len(); i++ {
		p.checkAccessible(tuple.At(i).Type(), seen)
	}
}

// ReflectType renders the expression evaluating to the reflect.Type of t.
func (p *TypePrinter) ReflectType(t types.Type) string {
	return "reflect.TypeFor[" + p.TypeString(t) + "]()"
}

// ReflectTypes renders the arguments of an introutils.Types call.
func (p *TypePrinter) ReflectTypes(list []types.Type) string {
	parts := make([]string, len(list))
	for i, t := range list {
		parts[i] = p.ReflectType(t)
	}
	return strings.Join(parts, ", ")
}

func containsValue(m map[string]string, v string) bool {
	for _, vv := range m {
		if vv == v {
			return true
		}
	}
	return false
}

func (p *TypePrinter) defaultAlias(importPath string) string {
	if alias, ok := p.aliases[importPath]; ok {
		return alias
	}
	// naive but effective: last path element (handles stdlib + common cases)
	parts := strings.Split(importPath, "/")
	return parts[len(parts)-1]
}

func normalizeAlias(alias string) string {
	alias = strings.ReplaceAll(alias, "-", "_")
	alias = strings.ReplaceAll(alias, ".", "_")
	return alias
}
