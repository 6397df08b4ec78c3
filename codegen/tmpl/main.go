// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package tmpl

type Main struct {
	PackageName string
	TypesHash   string
	Version     string
	Imports     []TypeImport
	Code        string
	Init        string
}

type TypeImport struct {
	Alias string
	Path  string
}
