// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introutils

import (
	"reflect"
	"strings"
)

// ArtifactSuffix is appended to the type name to form accessor artifact names.
const ArtifactSuffix = "$Accessor"

// TypeName returns the fully qualified name of t ("pkgpath.Name"), or the
// reflect rendering for unnamed types.
func TypeName(t reflect.Type) string {
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// ArtifactName derives the deterministic accessor artifact name of t. The
// result only contains letters, digits, '.', '_', '-' and '$', so it can be
// used as a file name.
func ArtifactName(t reflect.Type) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-', r == '$':
			return r
		default:
			return '_'
		}
	}, TypeName(t))
	return name + ArtifactSuffix
}
