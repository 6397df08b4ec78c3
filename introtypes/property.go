// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introtypes

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pk910/go-introspect/introutils"
)

var boolType = reflect.TypeFor[bool]()

// PropertyDescriptor describes a bean property: a getter/setter pair, an
// exported field, or both. Accessor methods take precedence over the field.
type PropertyDescriptor struct {
	Name   string
	Type   reflect.Type
	Field  *FieldDescriptor
	Getter *ExecutableDescriptor
	Setter *ExecutableDescriptor
}

// Readable reports whether Get can succeed.
func (p *PropertyDescriptor) Readable() bool {
	return p.Getter != nil || (p.Field != nil && p.Field.Exported)
}

// Writable reports whether Set can succeed.
func (p *PropertyDescriptor) Writable() bool {
	return p.Setter != nil || (p.Field != nil && p.Field.Writable())
}

// Get reads the property of instance.
func (p *PropertyDescriptor) Get(instance any) (any, error) {
	if p.Getter != nil {
		res, err := p.Getter.Invoke(instance)
		if err != nil {
			return nil, err
		}
		return res[0], nil
	}
	if p.Field != nil {
		return p.Field.Get(instance)
	}
	return nil, fmt.Errorf("%w: property %s is not readable", introutils.ErrNoSuchMember, p.Name)
}

// Set writes the property of instance.
func (p *PropertyDescriptor) Set(instance any, value any) error {
	if p.Setter != nil {
		res, err := p.Setter.Invoke(instance, value)
		if err != nil {
			return err
		}
		if len(res) == 1 {
			if err, ok := res[0].(error); ok && err != nil {
				return err
			}
		}
		return nil
	}
	if p.Field != nil {
		return p.Field.Set(instance, value)
	}
	return fmt.Errorf("%w: property %s is not writable", introutils.ErrNoSuchMember, p.Name)
}

// Property returns the property name, or nil. The first letter of name is
// matched case-insensitively, so "x" and "X" both find property X.
func (d *TypeDescriptor) Property(name string) *PropertyDescriptor {
	d.buildProperties()
	return d.propIndex[propertyName(name)]
}

// Properties returns all properties: fields in table order followed by
// accessor-only properties in method order.
func (d *TypeDescriptor) Properties() []*PropertyDescriptor {
	d.buildProperties()
	return d.properties
}

func (d *TypeDescriptor) buildProperties() {
	d.propOnce.Do(func() {
		d.propIndex = map[string]*PropertyDescriptor{}
		add := func(name string) {
			if name == "" || d.propIndex[name] != nil {
				return
			}
			if prop := d.buildProperty(name); prop != nil {
				d.properties = append(d.properties, prop)
				d.propIndex[name] = prop
			}
		}
		for _, f := range d.Fields() {
			if f.Exported && !f.Embedded {
				add(f.Name)
			}
		}
		for _, m := range d.Methods() {
			add(accessorProperty(m))
		}
	})
}

func (d *TypeDescriptor) buildProperty(name string) *PropertyDescriptor {
	prop := &PropertyDescriptor{Name: name}
	if f := d.Field(name); f != nil && f.Exported && !f.Embedded {
		prop.Field = f
		prop.Type = f.Type
	}

	getters := []struct {
		name     string
		needBool bool
	}{
		{"Get" + name, false},
		{"Is" + name, true},
		{name, false},
	}
	for _, g := range getters {
		if m := d.Method(g.name); m != nil && isGetter(m) && (!g.needBool || m.results[0] == boolType) {
			prop.Getter = m
			prop.Type = m.results[0]
			break
		}
	}

	for _, m := range d.MethodsByName("Set" + name) {
		if isSetter(m) && (prop.Type == nil || m.params[0] == prop.Type) {
			prop.Setter = m
			if prop.Type == nil {
				prop.Type = m.params[0]
			}
			break
		}
	}

	if prop.Field == nil && prop.Getter == nil && prop.Setter == nil {
		return nil
	}
	return prop
}

// accessorProperty returns the property name implied by a Get/Is/Set
// method, or "".
func accessorProperty(m *ExecutableDescriptor) string {
	var name string
	switch {
	case strings.HasPrefix(m.Name, "Get") && isGetter(m):
		name = m.Name[3:]
	case strings.HasPrefix(m.Name, "Is") && isGetter(m) && m.results[0] == boolType:
		name = m.Name[2:]
	case strings.HasPrefix(m.Name, "Set") && isSetter(m):
		name = m.Name[3:]
	}
	if !isExported(name) {
		return ""
	}
	return name
}

func isGetter(m *ExecutableDescriptor) bool {
	return len(m.params) == 0 && len(m.results) == 1 && !m.variadic
}

func isSetter(m *ExecutableDescriptor) bool {
	if len(m.params) != 1 || m.variadic {
		return false
	}
	return len(m.results) == 0 || (len(m.results) == 1 && m.results[0] == errorType)
}

func propertyName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
