// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package codegen

import (
	"runtime/debug"
)

// ModulePath is the module path of the go-introspect library.
const ModulePath = "github.com/pk910/go-introspect"

// Version is the version of go-introspect written into generated file
// headers. It is read from the build information and stays "unknown" when
// the library is not a dependency of the running binary.
var Version = "unknown"

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Path == ModulePath && info.Main.Version != "" {
			Version = info.Main.Version
			return
		}
		for _, dep := range info.Deps {
			if dep.Path == ModulePath {
				Version = dep.Version
				break
			}
		}
	}
}
