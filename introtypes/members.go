// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introtypes

import (
	"reflect"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/pk910/go-introspect/introutils"
)

// embedInfo is an embedded field visible from the descriptor's type.
type embedInfo struct {
	typ   reflect.Type // embedded type, pointer stripped
	index []int
}

// visibleEmbeds returns the embedded fields of a struct type ordered by depth.
func visibleEmbeds(t reflect.Type) []embedInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var embeds []embedInfo
	for _, sf := range visibleFields(t) {
		if !sf.Anonymous {
			continue
		}
		ft := sf.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		embeds = append(embeds, embedInfo{typ: ft, index: sf.Index})
	}
	return embeds
}

// visibleFields returns reflect.VisibleFields stably sorted by depth.
func visibleFields(t reflect.Type) []reflect.StructField {
	fields := reflect.VisibleFields(t)
	sort.SliceStable(fields, func(i, j int) bool {
		return len(fields[i].Index) < len(fields[j].Index)
	})
	return fields
}

func (d *TypeDescriptor) buildConstructors() {
	if d.Kind == reflect.Interface {
		return
	}
	decls := registry.sealConstructors(d.Type)

	hasDefault := false
	for _, decl := range decls {
		ctor := &ExecutableDescriptor{
			Name:          introutils.ConstructorName,
			Owner:         d,
			DeclaringType: d.Type,
			Offset:        len(d.constructors),
			Exported:      true,
			Tags:          decl.tags,
			fn:            decl.fn,
			params:        decl.params,
			results:       decl.results,
			variadic:      decl.variadic,
			kind:          execConstructor,
		}
		if len(decl.params) == 0 {
			hasDefault = true
		}
		d.constructors = append(d.constructors, ctor)
	}

	if !hasDefault {
		d.constructors = append(d.constructors, &ExecutableDescriptor{
			Name:          introutils.ConstructorName,
			Owner:         d,
			DeclaringType: d.Type,
			Offset:        len(d.constructors),
			Exported:      true,
			results:       []reflect.Type{reflect.PointerTo(d.Type)},
			kind:          execImplicitConstructor,
		})
	}
}

func (d *TypeDescriptor) buildFields() {
	d.fieldIndex = map[string]*FieldDescriptor{}
	if d.Kind != reflect.Struct {
		return
	}

	for _, sf := range visibleFields(d.Type) {
		if sf.Name == "_" {
			continue
		}
		opts := ParseFieldTag(sf.Tag)
		if opts.Skip {
			continue
		}

		field := &FieldDescriptor{
			Name:     sf.Name,
			Owner:    d,
			Type:     sf.Type,
			Index:    sf.Index,
			Offset:   len(d.fields),
			Tag:      sf.Tag,
			Exported: sf.IsExported(),
			ReadOnly: opts.ReadOnly,
			Embedded: sf.Anonymous,
			Promoted: len(sf.Index) > 1,
		}
		field.DeclaringType, field.MemoryOffset, field.Direct = fieldPath(d.Type, sf.Index)

		d.fields = append(d.fields, field)
		d.fieldIndex[field.Name] = field
	}
}

// fieldPath walks index from t and returns the struct type declaring the
// final field, its byte offset from t and whether the path crosses no
// pointer.
func fieldPath(t reflect.Type, index []int) (reflect.Type, uintptr, bool) {
	cur := t
	offset := uintptr(0)
	direct := true
	for i, idx := range index {
		if cur.Kind() == reflect.Pointer {
			cur = cur.Elem()
			direct = false
		}
		sf := cur.Field(idx)
		offset += sf.Offset
		if i == len(index)-1 {
			break
		}
		cur = sf.Type
	}
	return cur, offset, direct
}

func (d *TypeDescriptor) buildMethods() {
	if d.Kind == reflect.Interface {
		d.buildInterfaceMethods()
		return
	}

	embeds := visibleEmbeds(d.Type)
	sealed := make([]reflect.Type, 0, len(embeds)+1)
	sealed = append(sealed, d.Type)
	for _, e := range embeds {
		sealed = append(sealed, e.typ)
	}
	extensions, methodTags := registry.sealMethods(sealed)

	type levelled struct {
		method *ExecutableDescriptor
		level  int
	}
	var set []levelled

	pt := reflect.PointerTo(d.Type)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if !m.IsExported() {
			continue
		}
		method := &ExecutableDescriptor{
			Name:     m.Name,
			Owner:    d,
			Exported: true,
			fn:       m.Func,
			params:   inTypes(m.Type, 1),
			results:  outTypes(m.Type),
			variadic: m.Type.IsVariadic(),
			kind:     execMethod,
		}
		_, inValueSet := d.Type.MethodByName(m.Name)
		method.PointerReceiver = !inValueSet

		method.DeclaringType = d.Type
		level := 0
		if embed := declaringEmbed(embeds, m); embed != nil {
			method.DeclaringType = embed.typ
			method.embedPath = embed.index
			level = len(embed.index)
		}
		method.Tags = mergeTags(methodTags[method.DeclaringType][m.Name], methodTags[d.Type][m.Name])

		set = append(set, levelled{method: method, level: level})
	}
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].level < set[j].level
	})
	for _, entry := range set {
		entry.method.Offset = len(d.methods)
		d.methods = append(d.methods, entry.method)
	}

	owners := append([]embedInfo{{typ: d.Type}}, embeds...)
	for _, owner := range owners {
		for _, ext := range extensions[owner.typ] {
			if d.shadowed(ext.name, ext.params) {
				continue
			}
			d.methods = append(d.methods, &ExecutableDescriptor{
				Name:          ext.name,
				Owner:         d,
				DeclaringType: owner.typ,
				Offset:        len(d.methods),
				Exported:      isExported(ext.name),
				Extension:     true,
				Tags:          ext.tags,
				fn:            ext.fn,
				params:        ext.params,
				results:       ext.results,
				variadic:      ext.variadic,
				recvPtr:       ext.recvPtr,
				embedPath:     owner.index,
				kind:          execExtension,
			})
		}
	}
}

func (d *TypeDescriptor) buildInterfaceMethods() {
	for i := 0; i < d.Type.NumMethod(); i++ {
		m := d.Type.Method(i)
		if !m.IsExported() {
			continue
		}
		d.methods = append(d.methods, &ExecutableDescriptor{
			Name:          m.Name,
			Owner:         d,
			DeclaringType: d.Type,
			Offset:        len(d.methods),
			Exported:      true,
			params:        inTypes(m.Type, 0),
			results:       outTypes(m.Type),
			variadic:      m.Type.IsVariadic(),
			kind:          execInterfaceMethod,
		})
	}
}

// shadowed reports whether the method table already holds name with the
// given parameter types.
func (d *TypeDescriptor) shadowed(name string, params []reflect.Type) bool {
	for _, m := range d.methods {
		if m.Name == name && sameParams(m.params, params) {
			return true
		}
	}
	return false
}

// declaringEmbed returns the embedded type a promoted method m originates
// from, or nil if the type declares m itself.
//
// The method is attributed to the shallowest embed carrying a method of the
// same name and signature, refined to the deepest embed nested inside it
// that carries it as well.
func declaringEmbed(embeds []embedInfo, m reflect.Method) *embedInfo {
	var found *embedInfo
	for i := range embeds {
		e := &embeds[i]
		if found != nil && !hasPrefix(e.index, found.index) {
			continue
		}
		if embedHasMethod(e.typ, m) {
			found = e
		}
	}
	return found
}

func embedHasMethod(t reflect.Type, m reflect.Method) bool {
	if t.Kind() == reflect.Interface {
		em, ok := t.MethodByName(m.Name)
		return ok && sameParams(inTypes(em.Type, 0), inTypes(m.Type, 1)) && sameParams(outTypes(em.Type), outTypes(m.Type))
	}
	em, ok := reflect.PointerTo(t).MethodByName(m.Name)
	return ok && sameParams(inTypes(em.Type, 1), inTypes(m.Type, 1)) && sameParams(outTypes(em.Type), outTypes(m.Type))
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

func isExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
