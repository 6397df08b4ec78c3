// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package codegen

// The declarations of this file are type checked from source by the tests
// and compared against the runtime tables of the compiled types. The file
// must not import anything.

type fixtureMeta struct {
	Version uint32
	Labels  map[string]string
}

func (m fixtureMeta) Describe() string { return "meta" }

func (m *fixtureMeta) Bump() { m.Version++ }

type FixtureSettings struct {
	Debug bool
}

func (s *FixtureSettings) Toggle() bool {
	s.Debug = !s.Debug
	return s.Debug
}

type FixtureRecord struct {
	fixtureMeta
	*FixtureSettings
	ID     int
	Title  string `introspect:"readonly"`
	Hidden string `introspect:"-"`
	secret string
	_      int
}

func NewFixtureRecord(id int, title string) (*FixtureRecord, error) {
	return &FixtureRecord{ID: id, Title: title}, nil
}

func NewFixtureRecordDefault() FixtureRecord {
	return FixtureRecord{}
}

//introspect:constructor
//introspect:tag role=primary
func makeFixtureRecord(parts ...string) *FixtureRecord {
	return &FixtureRecord{secret: concat(parts)}
}

func (r *FixtureRecord) Rename(title string) { r.Title = title }

func (r FixtureRecord) Label(prefix string, parts ...string) string {
	return prefix + concat(parts)
}

//introspect:tag http=GET
func (r FixtureRecord) Get() (int, error) { return r.ID, nil }

type FixtureShape interface {
	Area() float64
	Scale(f float64, more ...float64)
}

type FixtureLevel int

func (l FixtureLevel) String() string { return "level" }

func concat(parts []string) string {
	out := ""
	for _, p := range parts {
		out += p
	}
	return out
}
