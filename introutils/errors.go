// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

// Package introutils contains the primitives shared by the introspection
// runtime and by generated accessor code: the Accessor contract, sentinel
// errors, argument and receiver conversion, member shapes and parameter name
// side-tables.
package introutils

import (
	"errors"
	"fmt"
)

// Usage errors. They are returned to the caller and wrapped with the member
// they refer to, so callers should compare them with errors.Is.
var (
	ErrInvalidOffset        = errors.New("invalid member offset")
	ErrNoSuchMember         = errors.New("no such member")
	ErrForeignMember        = errors.New("member does not belong to type")
	ErrReadOnly             = errors.New("field is read-only")
	ErrUnexported           = errors.New("member is not exported")
	ErrArgCount             = errors.New("wrong argument count")
	ErrArgType              = errors.New("wrong argument type")
	ErrNilInstance          = errors.New("nil instance")
	ErrInstanceType         = errors.New("wrong instance type")
	ErrNotAddressable       = errors.New("instance is not addressable")
	ErrNilEmbedded          = errors.New("nil embedded pointer")
	ErrNoDefaultConstructor = errors.New("no zero-argument constructor")
	ErrNotMethod            = errors.New("executable is not a method")
	ErrNotConstructor       = errors.New("executable is not a constructor")
)

// Accessor generation errors. These never reach callers of the runtime, they
// only show up in logs and metrics.
var (
	ErrShapeMismatch = errors.New("artifact shape mismatch")
	ErrNoArtifact    = errors.New("no artifact registered")
)

// Declaration errors.
var (
	ErrSealed             = errors.New("type table already built")
	ErrInvalidConstructor = errors.New("invalid constructor")
	ErrInvalidMethod      = errors.New("invalid method")
)

// InvalidOffset reports an out-of-range offset into the given member table.
func InvalidOffset(table string, offset int) error {
	return fmt.Errorf("%w: %s %d", ErrInvalidOffset, table, offset)
}

// UnexportedField reports access to an unexported field.
func UnexportedField(owner, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnexported, owner, field)
}

// ReadOnlyField reports a write to a read-only field.
func ReadOnlyField(owner, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrReadOnly, owner, field)
}

// NilEmbedded reports a nil embedded pointer on the path to a promoted member.
func NilEmbedded(owner, member string) error {
	return fmt.Errorf("%w: %s.%s", ErrNilEmbedded, owner, member)
}
