// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introspect

import (
	"errors"
	"fmt"

	"github.com/casbin/govaluate"

	"github.com/pk910/go-introspect/introtypes"
)

// ErrInvalidPolicy is returned for generation policies that do not parse or
// do not evaluate to a boolean.
var ErrInvalidPolicy = errors.New("invalid generation policy")

type generationPolicy struct {
	source     string
	expression *govaluate.EvaluableExpression
}

// newGenerationPolicy parses expr. An empty expression returns a nil policy,
// which allows every type.
func newGenerationPolicy(expr string) (*generationPolicy, error) {
	if expr == "" {
		return nil, nil
	}
	expression, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPolicy, expr, err)
	}
	return &generationPolicy{source: expr, expression: expression}, nil
}

func (p *generationPolicy) allows(desc *introtypes.TypeDescriptor) (bool, error) {
	if p == nil {
		return true, nil
	}
	result, err := p.expression.Evaluate(policyParameters(desc))
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrInvalidPolicy, p.source, err)
	}
	allowed, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q evaluated to %T, want bool", ErrInvalidPolicy, p.source, result)
	}
	return allowed, nil
}

func policyParameters(desc *introtypes.TypeDescriptor) map[string]any {
	ctors := len(desc.Constructors())
	fields := desc.Fields()
	methods := desc.Methods()

	exported := 0
	for _, f := range fields {
		if f.Exported {
			exported++
		}
	}
	variadic := false
	for _, m := range methods {
		if m.IsVariadic() {
			variadic = true
			break
		}
	}

	return map[string]any{
		"name":            desc.Type.Name(),
		"package":         desc.Type.PkgPath(),
		"constructors":    float64(ctors),
		"fields":          float64(len(fields)),
		"methods":         float64(len(methods)),
		"members":         float64(ctors + len(fields) + len(methods)),
		"exported_fields": float64(exported),
		"variadic":        variadic,
	}
}
