// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introspect

import (
	"reflect"

	"github.com/pk910/go-introspect/introtypes"
	"github.com/pk910/go-introspect/introutils"
)

// Declarations are process-wide and shared by all introspectors. They must be
// made before the affected tables are first built, usually from init.

// RegisterConstructor registers a constructor function returning T or *T,
// optionally followed by an error. See introtypes.RegisterConstructor.
func RegisterConstructor(fn any, opts ...introtypes.MemberOption) error {
	return introtypes.RegisterConstructor(fn, opts...)
}

// RegisterMethod registers an extension method whose first parameter is the
// receiver. See introtypes.RegisterMethod.
func RegisterMethod(name string, fn any, opts ...introtypes.MemberOption) error {
	return introtypes.RegisterMethod(name, fn, opts...)
}

// TagMethod attaches tags to the method-set method name of t.
func TagMethod(t reflect.Type, name string, tags map[string]string) error {
	return introtypes.TagMethod(t, name, tags)
}

// WithTags attaches tags to a registered constructor or method.
func WithTags(tags map[string]string) introtypes.MemberOption {
	return introtypes.WithTags(tags)
}

// RegisterParamTable registers the source parameter names of a type.
func RegisterParamTable(table *introutils.ParamTable) {
	introtypes.RegisterParamTable(table)
}
