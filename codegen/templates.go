// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package codegen

import (
	"embed"
	"strings"
	"sync"
	"text/template"
)

// Files holds the output templates.
//
//go:embed tmpl/*.tmpl
var Files embed.FS

var (
	templateCache    = map[string]*template.Template{}
	templateCacheMux sync.Mutex
)

// GetTemplate returns the template set parsed from the given embedded files.
// Every set is parsed once; parse errors panic since the templates are
// compiled into the binary.
func GetTemplate(files ...string) *template.Template {
	key := strings.Join(files, "|")

	templateCacheMux.Lock()
	defer templateCacheMux.Unlock()

	if tpl := templateCache[key]; tpl != nil {
		return tpl
	}
	tpl := template.Must(template.New(key).ParseFS(Files, files...))
	templateCache[key] = tpl
	return tpl
}
