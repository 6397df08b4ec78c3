// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package codegen

import (
	"fmt"
	"go/ast"
	"strings"
)

const (
	directivePrefix      = "//introspect:"
	directiveConstructor = "constructor"
	directiveTag         = "tag"
)

// directiveSet holds the declarations collected from //introspect: comments.
//
//	//introspect:constructor
//	//introspect:tag key=value
//
// A constructor directive marks a package function as constructor regardless
// of its name. Tag directives attach tags to the constructor or method they
// document.
type directiveSet struct {
	constructors    map[string]bool              // func name
	constructorTags map[string]map[string]string // func name -> tags
	methodTags      map[string]map[string]string // "Type.Method" -> tags
}

func newDirectiveSet() *directiveSet {
	return &directiveSet{
		constructors:    map[string]bool{},
		constructorTags: map[string]map[string]string{},
		methodTags:      map[string]map[string]string{},
	}
}

func (d *directiveSet) addFile(file *ast.File) error {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Doc == nil {
			continue
		}

		isCtor := false
		var tags map[string]string
		for _, c := range fn.Doc.List {
			if !strings.HasPrefix(c.Text, directivePrefix) {
				continue
			}
			kind, arg, _ := strings.Cut(strings.TrimPrefix(c.Text, directivePrefix), " ")
			switch kind {
			case directiveConstructor:
				isCtor = true
			case directiveTag:
				key, value, found := strings.Cut(strings.TrimSpace(arg), "=")
				if !found || key == "" {
					return fmt.Errorf("invalid tag directive %q on %s", c.Text, fn.Name.Name)
				}
				if tags == nil {
					tags = map[string]string{}
				}
				tags[strings.TrimSpace(key)] = strings.TrimSpace(value)
			default:
				return fmt.Errorf("unknown directive %q on %s", c.Text, fn.Name.Name)
			}
		}

		if fn.Recv == nil {
			if isCtor {
				d.constructors[fn.Name.Name] = true
			}
			if tags != nil {
				d.constructorTags[fn.Name.Name] = tags
			}
			continue
		}
		if isCtor {
			return fmt.Errorf("constructor directive on method %s", fn.Name.Name)
		}
		if tags != nil {
			d.methodTags[receiverName(fn.Recv)+"."+fn.Name.Name] = tags
		}
	}
	return nil
}

func receiverName(recv *ast.FieldList) string {
	if len(recv.List) == 0 {
		return ""
	}
	expr := recv.List[0].Type
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}
