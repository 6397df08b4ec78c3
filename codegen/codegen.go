// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package codegen

import (
	"go/ast"
	"go/token"
)

type CodeGenOption func(*CodeGenOptions)

type CodeGenOptions struct {
	// Syntax holds the parsed source files of the generated package. They
	// carry the //introspect: directives and are optional.
	Syntax []*ast.File
	// FileSet positions the loaded declarations. With it, identifiers
	// declared by a previous run of an output file are reused.
	FileSet *token.FileSet
	// NoParamTables disables the emission of parameter name side-tables.
	NoParamTables bool
	// NoRegistrations disables the constructor and tag registrations, only
	// the accessor is emitted. Constructors must then be registered by hand
	// in source order or the accessor is rejected at runtime.
	NoRegistrations bool
}

// WithSyntax passes the parsed source files of the package so that
// //introspect: directives are honored.
func WithSyntax(files ...*ast.File) CodeGenOption {
	return func(opts *CodeGenOptions) {
		opts.Syntax = append(opts.Syntax, files...)
	}
}

func WithFileSet(fset *token.FileSet) CodeGenOption {
	return func(opts *CodeGenOptions) {
		opts.FileSet = fset
	}
}

func WithNoParamTables() CodeGenOption {
	return func(opts *CodeGenOptions) {
		opts.NoParamTables = true
	}
}

func WithNoRegistrations() CodeGenOption {
	return func(opts *CodeGenOptions) {
		opts.NoRegistrations = true
	}
}
