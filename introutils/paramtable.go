// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introutils

import (
	"reflect"
	"slices"
)

// ParamTable is a parameter name side-table for one type.
//
// Tables are emitted by introgen and registered from init, or loaded from
// "<ArtifactName>.params.yaml" files.
type ParamTable struct {
	Type    string       `yaml:"type"`
	Entries []ParamEntry `yaml:"entries"`
}

// ParamEntry holds the source-level parameter names of one executable.
//
// Signature lists the parameter types as rendered by reflect.Type.String,
// without the receiver. When Receiver is set, the first name belongs to the
// receiver of an extension method and is skipped.
type ParamEntry struct {
	Name      string   `yaml:"name"`
	Signature []string `yaml:"signature"`
	Names     []string `yaml:"names"`
	Receiver  bool     `yaml:"receiver,omitempty"`
}

// Lookup finds the entry matching an executable name and parameter type list.
func (pt *ParamTable) Lookup(name string, signature []string) *ParamEntry {
	for i := range pt.Entries {
		entry := &pt.Entries[i]
		if entry.Name == name && slices.Equal(entry.Signature, signature) {
			return entry
		}
	}
	return nil
}

// ParamNames returns the names for the entry's parameters, without the
// receiver. It returns nil if the name count does not fit the signature.
func (pe *ParamEntry) ParamNames() []string {
	names := pe.Names
	if pe.Receiver {
		if len(names) == 0 {
			return nil
		}
		names = names[1:]
	}
	if len(names) != len(pe.Signature) {
		return nil
	}
	return names
}

// TypeStrings renders types the way ParamEntry.Signature expects them.
func TypeStrings(types ...reflect.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
