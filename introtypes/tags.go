// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introtypes

import (
	"reflect"
	"strconv"
	"strings"
)

// TagName is the struct tag key read by the introspection runtime.
const TagName = "introspect"

// Tags holds the key/value annotations of an executable.
//
// Parameter annotations are stored on the executable with a "param.<n>."
// prefix, for example "param.0.source" = "query".
type Tags map[string]string

// Get returns the value for key.
func (t Tags) Get(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// Has reports whether key is set.
func (t Tags) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// Param returns the tags of parameter n with the prefix stripped.
func (t Tags) Param(n int) Tags {
	prefix := "param." + strconv.Itoa(n) + "."
	var out Tags
	for k, v := range t {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if out == nil {
			out = Tags{}
		}
		out[k[len(prefix):]] = v
	}
	return out
}

func mergeTags(sets ...Tags) Tags {
	var out Tags
	for _, set := range sets {
		for k, v := range set {
			if out == nil {
				out = Tags{}
			}
			out[k] = v
		}
	}
	return out
}

// FieldOptions are the comma separated options of the `introspect` struct tag.
type FieldOptions struct {
	ReadOnly bool // "readonly"
	Skip     bool // "-", the field is not introspected
}

// ParseFieldTag parses the `introspect` key of a struct tag.
func ParseFieldTag(tag reflect.StructTag) FieldOptions {
	var opts FieldOptions
	value, ok := tag.Lookup(TagName)
	if !ok {
		return opts
	}
	if value == "-" {
		opts.Skip = true
		return opts
	}
	for _, part := range strings.Split(value, ",") {
		switch strings.TrimSpace(part) {
		case "readonly":
			opts.ReadOnly = true
		}
	}
	return opts
}
