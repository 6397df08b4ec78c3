// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

// Package metrics defines the instrumentation hooks of the introspection
// runtime. Backends implement Metrics; Nop is used when none is configured.
package metrics

import "time"

// Metrics receives runtime events. Implementations must be safe for
// concurrent use.
type Metrics interface {
	// DescriptorBuilt is called once per constructed type descriptor.
	DescriptorBuilt(typeName string, duration time.Duration)
	// AccessorCreated is called when a type's accessor is created. kind is
	// "reflect", "compiled" or "generated".
	AccessorCreated(typeName string, kind string)
	// GenerationFailed is called when accessor generation falls back to
	// reflection.
	GenerationFailed(typeName string, reason string)
	// ParamNamesResolved is called after parameter name recovery of a type.
	// source is the side-table that provided the names, or "none".
	ParamNamesResolved(typeName string, source string)
}

type nopMetrics struct{}

func (nopMetrics) DescriptorBuilt(string, time.Duration) {}
func (nopMetrics) AccessorCreated(string, string)        {}
func (nopMetrics) GenerationFailed(string, string)       {}
func (nopMetrics) ParamNamesResolved(string, string)     {}

// Nop returns a Metrics implementation that discards all events.
func Nop() Metrics { return nopMetrics{} }

// OrNop returns m, or Nop if m is nil.
func OrNop(m Metrics) Metrics {
	if m == nil {
		return Nop()
	}
	return m
}
