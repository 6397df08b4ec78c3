// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introspect

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"sort"
	"strings"
	"sync"

	"github.com/pk910/go-introspect/introtypes"
	"github.com/pk910/go-introspect/introutils"
	"github.com/pk910/go-introspect/reflection"
)

// StdNamespace is the namespace of standard library types.
const StdNamespace = "std"

// artifact is a generated accessor registered by generated code.
type artifact struct {
	name    string
	typ     reflect.Type
	shape   introutils.Shape
	factory func() introutils.Accessor
}

var (
	artifactMutex sync.RWMutex
	artifacts     = map[string]map[string]*artifact{} // namespace -> artifact name -> artifact
)

// RegisterAccessor registers a generated accessor of t. It is called from the
// init function of generated code. shape lists the members the accessor was
// generated for; the accessor is only used while it matches the runtime
// descriptor of t.
func RegisterAccessor(t reflect.Type, shape introutils.Shape, factory func() introutils.Accessor) error {
	if t == nil || factory == nil {
		return fmt.Errorf("%w: nil type or factory", introutils.ErrNoArtifact)
	}
	t = introtypes.Normalize(t)
	art := &artifact{
		name:    introutils.ArtifactName(t),
		typ:     t,
		shape:   shape,
		factory: factory,
	}
	ns := moduleOf(t.PkgPath())

	artifactMutex.Lock()
	defer artifactMutex.Unlock()
	if artifacts[ns] == nil {
		artifacts[ns] = map[string]*artifact{}
	}
	artifacts[ns][art.name] = art
	return nil
}

func lookupArtifact(ns, name string) *artifact {
	artifactMutex.RLock()
	defer artifactMutex.RUnlock()
	return artifacts[ns][name]
}

// namespace caches the accessor artifacts of the types of one module.
type namespace struct {
	name     string
	mutex    sync.Mutex
	programs map[string]*reflection.Program
}

func newNamespace(name string) *namespace {
	return &namespace{
		name:     name,
		programs: map[string]*reflection.Program{},
	}
}

// accessor instantiates the generated accessor of desc when one with a
// matching shape is registered, or the compiled accessor otherwise. A
// registered artifact with a different shape is reported as mismatch.
func (ns *namespace) accessor(desc *introtypes.TypeDescriptor) (introutils.Accessor, error) {
	name := introutils.ArtifactName(desc.Type)

	ns.mutex.Lock()
	defer ns.mutex.Unlock()

	var mismatch error
	if art := lookupArtifact(ns.name, name); art != nil && art.typ == desc.Type {
		if mismatch = art.shape.Diff(desc.Shape()); mismatch == nil {
			acc := art.factory()
			if acc == nil {
				return nil, fmt.Errorf("%w: %s factory returned nil", introutils.ErrNoArtifact, name)
			}
			return acc, nil
		}
		mismatch = fmt.Errorf("%s: %w", name, mismatch)
	}

	prog := ns.programs[name]
	if prog == nil || !prog.Matches(desc) {
		prog = reflection.Compile(desc)
		ns.programs[name] = prog
	}
	return prog.NewAccessor(), mismatch
}

var buildModules = sync.OnceValue(func() []string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	modules := []string{info.Main.Path}
	for _, dep := range info.Deps {
		modules = append(modules, dep.Path)
	}
	return sortModules(modules)
})

// sortModules orders module paths longest first so nested modules win over
// their parents.
func sortModules(modules []string) []string {
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		if m != "" {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}

// moduleOf returns the namespace of a package path.
func moduleOf(pkgPath string) string {
	return moduleIn(pkgPath, buildModules())
}

func moduleIn(pkgPath string, modules []string) string {
	pkgPath = strings.TrimSuffix(pkgPath, "_test")
	if pkgPath == "" {
		return ""
	}
	for _, m := range modules {
		if pkgPath == m || strings.HasPrefix(pkgPath, m+"/") {
			return m
		}
	}
	first, _, _ := strings.Cut(pkgPath, "/")
	if !strings.Contains(first, ".") && pkgPath != "main" {
		return StdNamespace
	}
	return pkgPath
}
