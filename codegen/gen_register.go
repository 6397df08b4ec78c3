// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package codegen

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"go/types"
	"strconv"
	"strings"
)

// generateRegistrations renders the init statements declaring the members of
// a type and registering its accessor. Constructors are registered before the
// accessor so the runtime tables match the accessor's shape.
func generateRegistrations(model *typeModel, structName string, typePrinter *TypePrinter, options *CodeGenOptions, codeBuf *strings.Builder) {
	reflectType := typePrinter.ReflectType(model.named)

	if !options.NoRegistrations {
		for _, c := range model.constructors {
			if c.fn == nil {
				continue
			}
			if len(c.tags) > 0 {
				mustRegister(codeBuf, fmt.Sprintf("introspect.RegisterConstructor(%s, introspect.WithTags(%s))", c.fn.Name(), stringMapLiteral(c.tags)))
			} else {
				mustRegister(codeBuf, fmt.Sprintf("introspect.RegisterConstructor(%s)", c.fn.Name()))
			}
		}
		for _, m := range model.methods {
			if m.own && len(m.tags) > 0 {
				mustRegister(codeBuf, fmt.Sprintf("introspect.TagMethod(%s, %q, %s)", reflectType, m.name, stringMapLiteral(m.tags)))
			}
		}
	}

	if !options.NoParamTables {
		generateParamTable(model, typePrinter, codeBuf)
	}

	appendCode(codeBuf, 1, "if err := introspect.RegisterAccessor(%s, introutils.Shape{\n", reflectType)
	if len(model.constructors) > 0 {
		appendCode(codeBuf, 2, "Constructors: []string{\n")
		for _, c := range model.constructors {
			appendCode(codeBuf, 3, "introutils.MemberKey(introutils.ConstructorName, introutils.Types(%s), %v, nil),\n", typePrinter.ReflectTypes(paramTypes(c.params)), c.variadic)
		}
		appendCode(codeBuf, 2, "},\n")
	}
	if len(model.fields) > 0 {
		appendCode(codeBuf, 2, "Fields: []string{\n")
		for _, f := range model.fields {
			appendCode(codeBuf, 3, "introutils.FieldKey(%q, %s),\n", f.name, typePrinter.ReflectType(f.typ))
		}
		appendCode(codeBuf, 2, "},\n")
	}
	if len(model.methods) > 0 {
		appendCode(codeBuf, 2, "Methods: []string{\n")
		for _, m := range model.methods {
			appendCode(codeBuf, 3, "introutils.MemberKey(%q, introutils.Types(%s), %v, introutils.Types(%s)),\n", m.name, typePrinter.ReflectTypes(paramTypes(m.params)), m.variadic, typePrinter.ReflectTypes(m.results))
		}
		appendCode(codeBuf, 2, "},\n")
	}
	appendCode(codeBuf, 1, "}, func() introutils.Accessor { return &%s{} }); err != nil {\n\tpanic(err)\n}\n", structName)
}

// mustRegister renders a registration call that panics on failure. A failed
// registration in init means the runtime tables were built before the
// generated package was initialized.
func mustRegister(codeBuf *strings.Builder, call string) {
	appendCode(codeBuf, 1, "if err := %s; err != nil {\n\tpanic(err)\n}\n", call)
}

// generateParamTable renders the parameter name side-table of a type. Only
// executables whose parameters are all named are listed.
func generateParamTable(model *typeModel, typePrinter *TypePrinter, codeBuf *strings.Builder) {
	entries := strings.Builder{}
	count := 0
	add := func(name string, params []paramModel) {
		names, ok := paramNames(params)
		if !ok {
			return
		}
		appendCode(&entries, 3, "{Name: %s, Signature: introutils.TypeStrings(%s), Names: %s},\n", name, typePrinter.ReflectTypes(paramTypes(params)), stringSliceLiteral(names))
		count++
	}
	for _, c := range model.constructors {
		add("introutils.ConstructorName", c.params)
	}
	for _, m := range model.methods {
		add(strconv.Quote(m.name), m.params)
	}
	if count == 0 {
		return
	}

	appendCode(codeBuf, 1, "introspect.RegisterParamTable(&introutils.ParamTable{\n")
	appendCode(codeBuf, 2, "Type: %q,\n", model.fullName)
	appendCode(codeBuf, 2, "Entries: []introutils.ParamEntry{\n")
	codeBuf.WriteString(entries.String())
	appendCode(codeBuf, 2, "},\n")
	appendCode(codeBuf, 1, "})\n")
}

func paramNames(params []paramModel) ([]string, bool) {
	if len(params) == 0 {
		return nil, false
	}
	names := make([]string, len(params))
	for i, p := range params {
		if p.name == "" || p.name == "_" {
			return nil, false
		}
		names[i] = p.name
	}
	return names, true
}

// typesHash fingerprints the member layouts of the generated types.
func typesHash(models []*typeModel) string {
	var sb strings.Builder
	for _, m := range models {
		fmt.Fprintf(&sb, "%s\n", m.fullName)
		for _, c := range m.constructors {
			fmt.Fprintf(&sb, "c %s\n", types.NewTuple(paramVars(c.params)...))
		}
		for _, f := range m.fields {
			fmt.Fprintf(&sb, "f %s %s\n", f.name, f.typ)
		}
		for _, me := range m.methods {
			fmt.Fprintf(&sb, "m %s %s %v\n", me.name, types.NewTuple(paramVars(me.params)...), me.results)
		}
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

func paramVars(params []paramModel) []*types.Var {
	vars := make([]*types.Var, len(params))
	for i, p := range params {
		vars[i] = types.NewParam(0, nil, p.name, p.typ)
	}
	return vars
}
