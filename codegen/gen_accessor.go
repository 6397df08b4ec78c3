// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package codegen

import (
	"fmt"
	"go/types"
	"strconv"
	"strings"
)

// accessorGenerator renders the accessor of one type.
type accessorGenerator struct {
	model       *typeModel
	typePrinter *TypePrinter
	structName  string
	typeName    string
	owner       string // quoted fully qualified type name
}

func newAccessorGenerator(model *typeModel, typePrinter *TypePrinter, structName string) *accessorGenerator {
	return &accessorGenerator{
		model:       model,
		typePrinter: typePrinter,
		structName:  structName,
		typeName:    typePrinter.TypeString(model.named),
		owner:       strconv.Quote(model.fullName),
	}
}

func (g *accessorGenerator) generate(codeBuf *strings.Builder) error {
	appendCode(codeBuf, 0, "// %s dispatches the members of %s by offset.\n", g.structName, g.model.name)
	appendCode(codeBuf, 0, "type %s struct{}\n\n", g.structName)
	appendCode(codeBuf, 0, "func (*%s) Kind() introutils.AccessorKind {\n\treturn introutils.AccessorGenerated\n}\n\n", g.structName)

	g.generateConstructors(codeBuf)
	g.generateGetters(codeBuf)
	g.generateSetters(codeBuf)
	g.generateMethods(codeBuf)

	return g.typePrinter.Err()
}

func (g *accessorGenerator) generateConstructors(codeBuf *strings.Builder) {
	appendCode(codeBuf, 0, "func (*%s) NewInstance(ctor int, args []any) (any, error) {\n", g.structName)
	if len(g.model.constructors) > 0 {
		appendCode(codeBuf, 1, "switch ctor {\n")
		for _, c := range g.model.constructors {
			appendCode(codeBuf, 1, "case %d:\n", c.offset)
			appendCode(codeBuf, 2, g.constructorBody(c))
		}
		appendCode(codeBuf, 1, "}\n")
	}
	appendCode(codeBuf, 1, "return nil, introutils.InvalidOffset(\"constructor\", ctor)\n}\n\n")
}

func (g *accessorGenerator) constructorBody(c *ctorModel) string {
	body := strings.Builder{}
	g.argumentCode(&body, c.params, c.variadic)

	if c.fn == nil {
		appendCode(&body, 0, "return new(%s), nil\n", g.typeName)
		return body.String()
	}

	call := fmt.Sprintf("%s(%s)", c.fn.Name(), argumentList(len(c.params), c.variadic))
	switch {
	case c.returnsError:
		appendCode(&body, 0, "val, err := %s\nif err != nil {\n\treturn nil, err\n}\n", call)
		if c.returnsValue {
			appendCode(&body, 0, "return &val, nil\n")
		} else {
			appendCode(&body, 0, "return val, nil\n")
		}
	case c.returnsValue:
		appendCode(&body, 0, "val := %s\nreturn &val, nil\n", call)
	default:
		appendCode(&body, 0, "return %s, nil\n", call)
	}
	return body.String()
}

func (g *accessorGenerator) generateGetters(codeBuf *strings.Builder) {
	appendCode(codeBuf, 0, "func (*%s) GetField(instance any, field int) (any, error) {\n", g.structName)
	if len(g.model.fields) > 0 {
		appendCode(codeBuf, 1, "switch field {\n")
		for _, f := range g.model.fields {
			appendCode(codeBuf, 1, "case %d:\n", f.offset)
			if !f.exported {
				appendCode(codeBuf, 2, "return nil, introutils.UnexportedField(%s, %q)\n", g.owner, f.name)
				continue
			}
			appendCode(codeBuf, 2, "recv, err := introutils.Receiver[%s](instance, false)\n", g.typeName)
			appendCode(codeBuf, 2, "if err != nil {\n\treturn nil, err\n}\n")
			g.nilCheckCode(codeBuf, 2, f.nilChecks, f.name, "nil, ")
			appendCode(codeBuf, 2, "return recv.%s, nil\n", f.selector)
		}
		appendCode(codeBuf, 1, "}\n")
	}
	appendCode(codeBuf, 1, "return nil, introutils.InvalidOffset(\"field\", field)\n}\n\n")
}

func (g *accessorGenerator) generateSetters(codeBuf *strings.Builder) {
	appendCode(codeBuf, 0, "func (*%s) SetField(instance any, field int, value any) error {\n", g.structName)
	if len(g.model.fields) > 0 {
		appendCode(codeBuf, 1, "switch field {\n")
		for _, f := range g.model.fields {
			appendCode(codeBuf, 1, "case %d:\n", f.offset)
			switch {
			case !f.exported:
				appendCode(codeBuf, 2, "return introutils.UnexportedField(%s, %q)\n", g.owner, f.name)
				continue
			case f.readOnly:
				appendCode(codeBuf, 2, "return introutils.ReadOnlyField(%s, %q)\n", g.owner, f.name)
				continue
			}
			appendCode(codeBuf, 2, "recv, err := introutils.Receiver[%s](instance, true)\n", g.typeName)
			appendCode(codeBuf, 2, "if err != nil {\n\treturn err\n}\n")
			g.nilCheckCode(codeBuf, 2, f.nilChecks, f.name, "")
			appendCode(codeBuf, 2, "val, err := introutils.Value[%s](value)\n", g.typePrinter.TypeString(f.typ))
			appendCode(codeBuf, 2, "if err != nil {\n\treturn err\n}\n")
			appendCode(codeBuf, 2, "recv.%s = val\nreturn nil\n", f.selector)
		}
		appendCode(codeBuf, 1, "}\n")
	}
	appendCode(codeBuf, 1, "return introutils.InvalidOffset(\"field\", field)\n}\n\n")
}

func (g *accessorGenerator) generateMethods(codeBuf *strings.Builder) {
	appendCode(codeBuf, 0, "func (*%s) Invoke(instance any, method int, args []any) ([]any, error) {\n", g.structName)
	if len(g.model.methods) > 0 {
		appendCode(codeBuf, 1, "switch method {\n")
		for _, m := range g.model.methods {
			appendCode(codeBuf, 1, "case %d:\n", m.offset)
			appendCode(codeBuf, 2, g.methodBody(m))
		}
		appendCode(codeBuf, 1, "}\n")
	}
	appendCode(codeBuf, 1, "return nil, introutils.InvalidOffset(\"method\", method)\n}\n\n")
}

func (g *accessorGenerator) methodBody(m *methodModel) string {
	body := strings.Builder{}
	if g.model.isInterface {
		appendCode(&body, 0, "recv, err := introutils.Iface[%s](instance)\n", g.typeName)
	} else {
		appendCode(&body, 0, "recv, err := introutils.Receiver[%s](instance, %v)\n", g.typeName, m.needPtr)
	}
	appendCode(&body, 0, "if err != nil {\n\treturn nil, err\n}\n")
	g.nilCheckCode(&body, 0, m.nilChecks, m.name, "nil, ")
	g.argumentCode(&body, m.params, m.variadic)

	call := fmt.Sprintf("recv.%s(%s)", m.name, argumentList(len(m.params), m.variadic))
	if len(m.results) == 0 {
		appendCode(&body, 0, "%s\nreturn nil, nil\n", call)
		return body.String()
	}
	results := make([]string, len(m.results))
	for i := range results {
		results[i] = fmt.Sprintf("res%d", i)
	}
	list := strings.Join(results, ", ")
	appendCode(&body, 0, "%s := %s\nreturn []any{%s}, nil\n", list, call, list)
	return body.String()
}

// argumentCode converts args into arg<n> variables for a call of params.
func (g *accessorGenerator) argumentCode(codeBuf *strings.Builder, params []paramModel, variadic bool) {
	appendCode(codeBuf, 0, "if err := introutils.CheckArgCount(args, %d, %v); err != nil {\n\treturn nil, err\n}\n", len(params), variadic)
	for i, p := range params {
		if variadic && i == len(params)-1 {
			elem := p.typ.(*types.Slice).Elem()
			appendCode(codeBuf, 0, "arg%d, err := introutils.VarArgs[%s](args, %d)\n", i, g.typePrinter.TypeString(elem), i)
		} else {
			appendCode(codeBuf, 0, "arg%d, err := introutils.Arg[%s](args, %d)\n", i, g.typePrinter.TypeString(p.typ), i)
		}
		appendCode(codeBuf, 0, "if err != nil {\n\treturn nil, err\n}\n")
	}
}

func (g *accessorGenerator) nilCheckCode(codeBuf *strings.Builder, indent int, checks []string, member string, retPrefix string) {
	for _, sel := range checks {
		appendCode(codeBuf, indent, "if recv.%s == nil {\n\treturn %sintroutils.NilEmbedded(%s, %q)\n}\n", sel, retPrefix, g.owner, member)
	}
}

func argumentList(n int, variadic bool) string {
	args := make([]string, n)
	for i := range args {
		args[i] = fmt.Sprintf("arg%d", i)
	}
	if variadic && n > 0 {
		args[n-1] += "..."
	}
	return strings.Join(args, ", ")
}
