// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package codegen

import (
	"fmt"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"github.com/pk910/go-introspect/introtypes"
)

var errorType = types.Universe.Lookup("error").Type()

// typeModel is the member layout of one type in runtime table order.
type typeModel struct {
	named       *types.Named
	name        string
	fullName    string
	isInterface bool

	constructors []*ctorModel
	fields       []*fieldModel
	methods      []*methodModel
}

type paramModel struct {
	name string
	typ  types.Type
}

type ctorModel struct {
	offset       int
	fn           *types.Func // nil for the implicit constructor
	params       []paramModel
	variadic     bool
	returnsValue bool
	returnsError bool
	tags         map[string]string
}

type fieldModel struct {
	offset    int
	name      string
	typ       types.Type
	selector  string
	nilChecks []string
	exported  bool
	readOnly  bool
}

type methodModel struct {
	offset    int
	name      string
	params    []paramModel
	results   []types.Type
	variadic  bool
	needPtr   bool
	nilChecks []string
	tags      map[string]string
	own       bool // declared by the type itself
}

// visibleField is a struct field visible from the analyzed type.
type visibleField struct {
	field *types.Var
	tag   string
	index []int
	path  []*types.Var
	name  string // cleared when hidden
}

// embedInfo is a visible embedded field, pointer stripped.
type embedInfo struct {
	typ   types.Type
	index []int
	path  []*types.Var
}

func analyzeType(named *types.Named, directives *directiveSet) (*typeModel, error) {
	if named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("generic type %s is not supported", named.Obj().Name())
	}
	obj := named.Obj()
	if obj.Pkg() == nil {
		return nil, fmt.Errorf("type %s has no package", obj.Name())
	}

	model := &typeModel{
		named:    named,
		name:     obj.Name(),
		fullName: obj.Pkg().Path() + "." + obj.Name(),
	}

	switch named.Underlying().(type) {
	case *types.Interface:
		model.isInterface = true
		model.methods = interfaceMethods(named)
		return model, nil
	case *types.Struct:
		visible := visibleFields(named)
		if err := checkPaths(obj.Pkg(), visible); err != nil {
			return nil, fmt.Errorf("type %s: %w", obj.Name(), err)
		}
		model.fields = structFields(visible)
		model.methods = structMethods(named, visibleEmbeds(visible), directives)
	default:
		model.methods = structMethods(named, nil, directives)
	}

	model.constructors = constructors(named, directives)
	return model, nil
}

// visibleFields walks the fields of a struct type in index preorder with the
// promotion rules of reflect.VisibleFields and orders them by depth.
func visibleFields(t types.Type) []*visibleField {
	w := &fieldWalker{
		byName:   map[string]int{},
		visiting: map[types.Type]bool{},
	}
	w.walk(t)

	fields := make([]*visibleField, 0, len(w.fields))
	for _, f := range w.fields {
		if f.name != "" {
			fields = append(fields, f)
		}
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return len(fields[i].index) < len(fields[j].index)
	})
	return fields
}

type fieldWalker struct {
	byName   map[string]int
	visiting map[types.Type]bool
	fields   []*visibleField
	index    []int
	path     []*types.Var
}

func (w *fieldWalker) walk(t types.Type) {
	if w.visiting[t] {
		return
	}
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return
	}
	w.visiting[t] = true
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		w.index = append(w.index, i)
		w.path = append(w.path, f)

		add := true
		if oldIndex, ok := w.byName[f.Name()]; ok {
			old := w.fields[oldIndex]
			switch {
			case len(w.index) == len(old.index):
				old.name = ""
				add = false
			case len(w.index) < len(old.index):
				old.name = ""
			default:
				add = false
			}
		}
		if add {
			w.byName[f.Name()] = len(w.fields)
			w.fields = append(w.fields, &visibleField{
				field: f,
				tag:   st.Tag(i),
				index: append([]int(nil), w.index...),
				path:  append([]*types.Var(nil), w.path...),
				name:  f.Name(),
			})
		}
		if f.Embedded() {
			w.walk(derefType(f.Type()))
		}

		w.index = w.index[:len(w.index)-1]
		w.path = w.path[:len(w.path)-1]
	}
	delete(w.visiting, t)
}

func visibleEmbeds(fields []*visibleField) []embedInfo {
	var embeds []embedInfo
	for _, f := range fields {
		if f.field.Embedded() {
			embeds = append(embeds, embedInfo{typ: derefType(f.field.Type()), index: f.index, path: f.path})
		}
	}
	return embeds
}

// checkPaths fails if a member is only reachable through an embedded field
// that cannot be selected from pkg. Embedded pointers and interfaces are
// checked themselves as promoted methods are nil checked through them.
func checkPaths(pkg *types.Package, visible []*visibleField) error {
	for _, vf := range visible {
		path := vf.path[:len(vf.path)-1]
		if vf.field.Embedded() && (isPointer(vf.field.Type()) || types.IsInterface(vf.field.Type())) {
			path = vf.path
		} else if !vf.field.Exported() {
			continue
		}
		for _, v := range path {
			if !v.Exported() && v.Pkg() != pkg {
				return fmt.Errorf("field %s is promoted through inaccessible embedded field %s", vf.name, v.Name())
			}
		}
	}
	return nil
}

func structFields(visible []*visibleField) []*fieldModel {
	var fields []*fieldModel
	for _, vf := range visible {
		if vf.name == "_" {
			continue
		}
		opts := introtypes.ParseFieldTag(reflect.StructTag(vf.tag))
		if opts.Skip {
			continue
		}
		fields = append(fields, &fieldModel{
			offset:    len(fields),
			name:      vf.name,
			typ:       vf.field.Type(),
			selector:  selector(vf.path),
			nilChecks: fieldNilChecks(vf.path),
			exported:  vf.field.Exported(),
			readOnly:  opts.ReadOnly,
		})
	}
	return fields
}

// fieldNilChecks lists the embedded pointers crossed on the way to a field.
func fieldNilChecks(path []*types.Var) []string {
	var checks []string
	for k := 1; k < len(path); k++ {
		if isPointer(path[k-1].Type()) {
			checks = append(checks, selector(path[:k]))
		}
	}
	return checks
}

// embedNilChecks lists the embedded pointers and interfaces a promoted
// method is called through.
func embedNilChecks(path []*types.Var) []string {
	var checks []string
	for k := 1; k <= len(path); k++ {
		t := path[k-1].Type()
		if isPointer(t) || (k == len(path) && types.IsInterface(t)) {
			checks = append(checks, selector(path[:k]))
		}
	}
	return checks
}

func selector(path []*types.Var) string {
	names := make([]string, len(path))
	for i, v := range path {
		names[i] = v.Name()
	}
	return strings.Join(names, ".")
}

func structMethods(named *types.Named, embeds []embedInfo, directives *directiveSet) []*methodModel {
	type levelled struct {
		method *methodModel
		level  int
	}
	var set []levelled

	valueSet := types.NewMethodSet(named)
	ptrSet := types.NewMethodSet(types.NewPointer(named))
	for i := 0; i < ptrSet.Len(); i++ {
		sel := ptrSet.At(i)
		fn, ok := sel.Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		sig := fn.Type().(*types.Signature)
		method := &methodModel{
			name:     fn.Name(),
			params:   paramList(sig),
			results:  tupleTypes(sig.Results()),
			variadic: sig.Variadic(),
			needPtr:  valueSet.Lookup(fn.Pkg(), fn.Name()) == nil,
			own:      len(sel.Index()) == 1,
		}
		level := 0
		if embed := declaringEmbed(embeds, fn.Name(), sig); embed != nil {
			method.nilChecks = embedNilChecks(embed.path)
			level = len(embed.index)
		}
		if method.own {
			method.tags = directives.methodTags[named.Obj().Name()+"."+fn.Name()]
		}
		set = append(set, levelled{method: method, level: level})
	}
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].level < set[j].level
	})

	methods := make([]*methodModel, len(set))
	for i, entry := range set {
		entry.method.offset = i
		methods[i] = entry.method
	}
	return methods
}

func interfaceMethods(named *types.Named) []*methodModel {
	var methods []*methodModel
	mset := types.NewMethodSet(named)
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		sig := fn.Type().(*types.Signature)
		methods = append(methods, &methodModel{
			offset:   len(methods),
			name:     fn.Name(),
			params:   paramList(sig),
			results:  tupleTypes(sig.Results()),
			variadic: sig.Variadic(),
		})
	}
	return methods
}

// declaringEmbed returns the embed a promoted method originates from: the
// shallowest embed carrying a method of the same name and signature, refined
// to the deepest embed nested inside it that carries it as well.
func declaringEmbed(embeds []embedInfo, name string, sig *types.Signature) *embedInfo {
	var found *embedInfo
	for i := range embeds {
		e := &embeds[i]
		if found != nil && !hasPrefix(e.index, found.index) {
			continue
		}
		if embedHasMethod(e.typ, name, sig) {
			found = e
		}
	}
	return found
}

func embedHasMethod(t types.Type, name string, sig *types.Signature) bool {
	var mset *types.MethodSet
	if types.IsInterface(t) {
		mset = types.NewMethodSet(t)
	} else {
		mset = types.NewMethodSet(types.NewPointer(t))
	}
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok || fn.Name() != name {
			continue
		}
		esig := fn.Type().(*types.Signature)
		return types.Identical(esig.Params(), sig.Params()) && types.Identical(esig.Results(), sig.Results())
	}
	return false
}

func hasPrefix(index, prefix []int) bool {
	if len(index) <= len(prefix) {
		return false
	}
	for i := range prefix {
		if index[i] != prefix[i] {
			return false
		}
	}
	return true
}

// constructors lists the package functions constructing named: functions
// named New<Type>* or carrying the constructor directive, returning the type
// or a pointer to it, optionally followed by an error.
func constructors(named *types.Named, directives *directiveSet) []*ctorModel {
	obj := named.Obj()
	scope := obj.Pkg().Scope()

	var funcs []*types.Func
	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok {
			continue
		}
		if !strings.HasPrefix(name, "New"+obj.Name()) && !directives.constructors[name] {
			continue
		}
		if _, _, ok := constructorResults(fn, named); ok {
			funcs = append(funcs, fn)
		}
	}
	sort.SliceStable(funcs, func(i, j int) bool {
		return funcs[i].Pos() < funcs[j].Pos()
	})

	var ctors []*ctorModel
	hasDefault := false
	for _, fn := range funcs {
		sig := fn.Type().(*types.Signature)
		value, withErr, _ := constructorResults(fn, named)
		ctor := &ctorModel{
			offset:       len(ctors),
			fn:           fn,
			params:       paramList(sig),
			variadic:     sig.Variadic(),
			returnsValue: value,
			returnsError: withErr,
			tags:         directives.constructorTags[fn.Name()],
		}
		if len(ctor.params) == 0 {
			hasDefault = true
		}
		ctors = append(ctors, ctor)
	}
	if !hasDefault {
		ctors = append(ctors, &ctorModel{offset: len(ctors)})
	}
	return ctors
}

func constructorResults(fn *types.Func, named *types.Named) (value bool, withErr bool, ok bool) {
	sig, isSig := fn.Type().(*types.Signature)
	if !isSig || sig.Recv() != nil || sig.TypeParams().Len() > 0 {
		return false, false, false
	}
	res := sig.Results()
	if res.Len() < 1 || res.Len() > 2 {
		return false, false, false
	}
	if res.Len() == 2 && !types.Identical(res.At(1).Type(), errorType) {
		return false, false, false
	}
	out := types.Unalias(res.At(0).Type())
	switch {
	case types.Identical(out, named):
		value = true
	case isPointer(out) && types.Identical(out.(*types.Pointer).Elem(), named):
	default:
		return false, false, false
	}
	return value, res.Len() == 2, true
}

func paramList(sig *types.Signature) []paramModel {
	params := make([]paramModel, sig.Params().Len())
	for i := range params {
		v := sig.Params().At(i)
		params[i] = paramModel{name: v.Name(), typ: v.Type()}
	}
	return params
}

func tupleTypes(tuple *types.Tuple) []types.Type {
	list := make([]types.Type, tuple.Len())
	for i := range list {
		list[i] = tuple.At(i).Type()
	}
	return list
}

func paramTypes(params []paramModel) []types.Type {
	list := make([]types.Type, len(params))
	for i, p := range params {
		list[i] = p.typ
	}
	return list
}

func derefType(t types.Type) types.Type {
	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		return types.Unalias(p.Elem())
	}
	return t
}

func isPointer(t types.Type) bool {
	_, ok := types.Unalias(t).(*types.Pointer)
	return ok
}
