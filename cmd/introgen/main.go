// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

// Command introgen generates offset based accessors for the types of a
// package.
//
//	introgen --package ./model --types Record,Settings --output model/record_introspect.go
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
