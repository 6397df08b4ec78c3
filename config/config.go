// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

// Package config loads introspector settings from YAML.
//
//	codegen: true
//	inflationThreshold: 16
//	generationPolicy: "members > 2 && !variadic"
//	paramSideTableDir: ./params
//	verbose: false
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	introspect "github.com/pk910/go-introspect"
)

var ErrInvalidConfig = errors.New("invalid introspect config")

// Config mirrors the introspector options that can be set from a file.
type Config struct {
	// Codegen enables generated and compiled accessors. Unset means enabled.
	Codegen            *bool  `yaml:"codegen"`
	InflationThreshold int    `yaml:"inflationThreshold"`
	GenerationPolicy   string `yaml:"generationPolicy"`
	ParamSideTableDir  string `yaml:"paramSideTableDir"`
	Verbose            bool   `yaml:"verbose"`
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML config. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.InflationThreshold < 0 {
		return fmt.Errorf("%w: inflationThreshold must not be negative, got %d", ErrInvalidConfig, c.InflationThreshold)
	}
	return nil
}

// CodegenEnabled reports whether fast accessors are enabled.
func (c *Config) CodegenEnabled() bool {
	return c.Codegen == nil || *c.Codegen
}

// Options converts the config into introspector options. Verbose output is
// written through the standard logger.
func (c *Config) Options() []introspect.Option {
	var opts []introspect.Option
	if !c.CodegenEnabled() {
		opts = append(opts, introspect.WithNoCodegen())
	}
	if c.InflationThreshold > 0 {
		opts = append(opts, introspect.WithInflationThreshold(c.InflationThreshold))
	}
	if c.GenerationPolicy != "" {
		opts = append(opts, introspect.WithGenerationPolicy(c.GenerationPolicy))
	}
	if c.ParamSideTableDir != "" {
		opts = append(opts, introspect.WithParamSideTableDir(c.ParamSideTableDir))
	}
	if c.Verbose {
		opts = append(opts, introspect.WithVerbose(), introspect.WithLogCb(log.Printf))
	}
	return opts
}

// NewIntrospector creates an introspector from the config and additional
// options applied after it.
func (c *Config) NewIntrospector(extra ...introspect.Option) (*introspect.Introspector, error) {
	return introspect.NewIntrospector(append(c.Options(), extra...)...)
}
