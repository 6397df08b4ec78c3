// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package sigmatch

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrAmbiguous is returned by ResolveStrict when the best candidate has a
// compatible competitor that is equally specific.
var ErrAmbiguous = errors.New("ambiguous overload")

// Signature describes the parameter shape of an executable.
type Signature interface {
	Params() []reflect.Type
	IsVariadic() bool
}

// Candidate is a named Signature taking part in overload resolution.
type Candidate interface {
	Signature
	MemberName() string
}

// Sig is a plain Candidate implementation.
type Sig struct {
	Name     string
	Types    []reflect.Type
	Variadic bool
}

func (s Sig) Params() []reflect.Type { return s.Types }
func (s Sig) IsVariadic() bool       { return s.Variadic }
func (s Sig) MemberName() string     { return s.Name }

// MoreSpecific reports whether candidate should replace best as the current
// resolution result.
//
// A fixed-arity candidate always beats a variadic best. With the same arity
// kind the candidate wins when its parameters are assignable to the best's
// parameters but not the other way round, so identical signatures keep the
// earlier one.
func MoreSpecific(candidate, best Signature) bool {
	switch {
	case best.IsVariadic() && !candidate.IsVariadic():
		return true
	case best.IsVariadic() != candidate.IsVariadic():
		return false
	case candidate.IsVariadic():
		return variadicAssignable(candidate.Params(), best.Params()) &&
			!variadicAssignable(best.Params(), candidate.Params())
	default:
		return Compatible(best.Params(), candidate.Params(), false) &&
			!Compatible(candidate.Params(), best.Params(), false)
	}
}

// Resolve selects the best candidate named name that accepts args.
//
// Candidates are visited in slice order; on ties the first compatible
// candidate wins. The second result is false when no candidate is compatible.
// Callers that need ambiguity detection should use ResolveStrict.
func Resolve[C Candidate](candidates []C, name string, args []reflect.Type) (C, bool) {
	best, _, found := resolve(candidates, name, args)
	if !found {
		var zero C
		return zero, false
	}
	return candidates[best], true
}

// ResolveStrict behaves like Resolve but returns ErrAmbiguous when another
// compatible candidate is neither more nor less specific than the result.
// The result must be strictly more specific than every other compatible
// candidate, so a set of mutually incomparable overloads is always ambiguous
// regardless of its order.
func ResolveStrict[C Candidate](candidates []C, name string, args []reflect.Type) (C, bool, error) {
	var zero C
	best, compatible, found := resolve(candidates, name, args)
	if !found {
		return zero, false, nil
	}
	for _, idx := range compatible {
		if idx == best {
			continue
		}
		if !MoreSpecific(candidates[best], candidates[idx]) {
			return zero, false, fmt.Errorf("%w: %s(%s) matches %s and %s", ErrAmbiguous, name, TypeList(args), describe(candidates[best]), describe(candidates[idx]))
		}
	}
	return candidates[best], true, nil
}

// resolve returns candidate indexes: the running best and every compatible one.
func resolve[C Candidate](candidates []C, name string, args []reflect.Type) (best int, compatible []int, found bool) {
	for i, c := range candidates {
		if c.MemberName() != name {
			continue
		}
		if !Compatible(c.Params(), args, c.IsVariadic()) {
			continue
		}
		compatible = append(compatible, i)
		if !found {
			best = i
			found = true
			continue
		}
		if MoreSpecific(c, candidates[best]) {
			best = i
		}
	}
	return best, compatible, found
}

// TypeList renders a list of types the way call sites are written, using
// "nil" for untyped nil arguments.
func TypeList(types []reflect.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		if t == nil {
			parts[i] = "nil"
		} else {
			parts[i] = t.String()
		}
	}
	return strings.Join(parts, ", ")
}

func describe(s Candidate) string {
	params := s.Params()
	parts := make([]string, len(params))
	for i, p := range params {
		if s.IsVariadic() && i == len(params)-1 {
			parts[i] = "..." + p.Elem().String()
		} else {
			parts[i] = p.String()
		}
	}
	return s.MemberName() + "(" + strings.Join(parts, ", ") + ")"
}
