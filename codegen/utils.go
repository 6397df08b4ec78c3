// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// appendCode appends a formatted code string to a strings.Builder with proper indentation.
//
// Each non-empty line of the formatted code is prefixed with indent tabs.
//
// Example:
//
//	codeBuf := strings.Builder{}
//	appendCode(&codeBuf, 1, "func example() {\nreturn nil\n}")
//	// Result: "\tfunc example() {\n\treturn nil\n\t}"
func appendCode(codeBuf *strings.Builder, indent int, code string, args ...any) {
	if len(args) > 0 {
		code = fmt.Sprintf(code, args...)
	}
	codeBuf.WriteString(indentStr(code, indent))
}

// indentStr indents each non-empty line in a string by the specified number of tab characters.
func indentStr(s string, spaces int) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = strings.Repeat("\t", spaces) + lines[i]
		}
	}

	return strings.Join(lines, "\n")
}

// lowerFirst returns name with a lower-case first rune.
func lowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

// stringMapLiteral renders a map[string]string composite literal with sorted
// keys.
func stringMapLiteral(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("map[string]string{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(k))
		sb.WriteString(": ")
		sb.WriteString(strconv.Quote(m[k]))
	}
	sb.WriteString("}")
	return sb.String()
}

// stringSliceLiteral renders a []string composite literal.
func stringSliceLiteral(list []string) string {
	quoted := make([]string, len(list))
	for i, s := range list {
		quoted[i] = strconv.Quote(s)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
