// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introtypes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pk910/go-introspect/introutils"
)

// Parameter name sources reported to metrics.
const (
	ParamSourceRegistered = "registered"
	ParamSourceYAML       = "yaml"
	ParamSourceNone       = "none"
)

var paramTables = struct {
	mutex  sync.RWMutex
	tables map[string]*introutils.ParamTable
}{
	tables: map[string]*introutils.ParamTable{},
}

// RegisterParamTable registers a parameter name side-table. Tables are keyed
// by their fully qualified type name; a later registration for the same type
// replaces the earlier one.
func RegisterParamTable(table *introutils.ParamTable) {
	if table == nil || table.Type == "" {
		return
	}
	paramTables.mutex.Lock()
	defer paramTables.mutex.Unlock()
	paramTables.tables[table.Type] = table
}

func registeredParamTable(typeName string) *introutils.ParamTable {
	paramTables.mutex.RLock()
	defer paramTables.mutex.RUnlock()
	return paramTables.tables[typeName]
}

// LoadParamTable reads the YAML side-table for artifact from dir. It returns
// nil without error when the file does not exist.
func LoadParamTable(dir, artifact string) (*introutils.ParamTable, error) {
	data, err := os.ReadFile(filepath.Join(dir, artifact+".params.yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	table := &introutils.ParamTable{}
	if err := yaml.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("failed to parse parameter table %s: %w", artifact, err)
	}
	return table, nil
}

// recoverParamNames enriches the executables of the type with parameter
// names, once per descriptor. Registered tables take precedence over YAML
// files; missing or broken tables leave the names unset.
func (d *TypeDescriptor) recoverParamNames() {
	d.paramOnce.Do(func() {
		if d.Type.PkgPath() == "" {
			d.cache.logf("introspect: no parameter names for %s: type has no package", d.Name)
			return
		}

		source := ParamSourceNone
		resolved := 0
		apply := func(table *introutils.ParamTable, from string) {
			if table == nil {
				return
			}
			n := d.applyParamTable(table, from)
			if n > 0 && source == ParamSourceNone {
				source = from
			}
			resolved += n
		}

		apply(registeredParamTable(d.Name), ParamSourceRegistered)
		if dir := d.cache.opts.ParamDir; dir != "" {
			table, err := LoadParamTable(dir, introutils.ArtifactName(d.Type))
			if err != nil {
				d.cache.logf("introspect: parameter table of %s unavailable: %v", d.Name, err)
			}
			apply(table, ParamSourceYAML)
		}

		d.cache.logf("introspect: resolved parameter names of %d executables of %s (%s)", resolved, d.Name, source)
		d.cache.metrics.ParamNamesResolved(d.Name, source)
	})
}

func (d *TypeDescriptor) applyParamTable(table *introutils.ParamTable, source string) int {
	count := 0
	for _, list := range [][]*ExecutableDescriptor{d.Constructors(), d.Methods()} {
		for _, e := range list {
			if e.names != nil || len(e.params) == 0 {
				continue
			}
			entry := table.Lookup(e.Name, introutils.TypeStrings(e.params...))
			if entry == nil {
				continue
			}
			if names := entry.ParamNames(); names != nil {
				e.names = names
				e.namesFrom = source
				count++
			}
		}
	}
	return count
}

// NameSource returns the side-table the parameter names of e came from, or
// "none".
func (e *ExecutableDescriptor) NameSource() string {
	e.Owner.recoverParamNames()
	if e.namesFrom == "" {
		return ParamSourceNone
	}
	return e.namesFrom
}
