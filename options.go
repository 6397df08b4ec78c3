// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introspect

import "github.com/pk910/go-introspect/metrics"

type Option func(*Options)

type Options struct {
	// NoCodegen disables generated and compiled accessors. All fast paths
	// use reflective invocation.
	NoCodegen bool

	// InflationThreshold is the number of calls an accessor serves through
	// reflection before it switches to the generated or compiled accessor.
	// Zero switches immediately.
	InflationThreshold int

	// GenerationPolicy is a boolean expression deciding per type whether a
	// generated or compiled accessor is attempted. Empty allows all types.
	GenerationPolicy string

	// ParamSideTableDir is searched for YAML parameter name side-tables.
	ParamSideTableDir string

	Metrics metrics.Metrics
	Verbose bool
	LogCb   func(format string, args ...any)
}

func WithNoCodegen() Option {
	return func(opts *Options) {
		opts.NoCodegen = true
	}
}

func WithInflationThreshold(calls int) Option {
	return func(opts *Options) {
		opts.InflationThreshold = calls
	}
}

// WithGenerationPolicy sets the expression deciding which types get fast
// accessors. The expression is evaluated with the variables
//
//	name, package                       string
//	constructors, fields, methods       number
//	members, exported_fields            number
//	variadic                            bool
//
// Example:
//
//	introspect.WithGenerationPolicy("members > 2 && !variadic")
func WithGenerationPolicy(expr string) Option {
	return func(opts *Options) {
		opts.GenerationPolicy = expr
	}
}

func WithParamSideTableDir(dir string) Option {
	return func(opts *Options) {
		opts.ParamSideTableDir = dir
	}
}

func WithMetrics(m metrics.Metrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

func WithVerbose() Option {
	return func(opts *Options) {
		opts.Verbose = true
	}
}

func WithLogCb(logCb func(format string, args ...any)) Option {
	return func(opts *Options) {
		opts.LogCb = logCb
	}
}
