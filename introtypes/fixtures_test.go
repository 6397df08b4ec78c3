// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package introtypes

import (
	"errors"
	"fmt"
	"strings"
)

type Point struct {
	X int
	Y int
}

func NewPoint(x, y int) *Point {
	return &Point{X: x, Y: y}
}

func (p *Point) GetX() int {
	return p.X
}

func (p *Point) GetY() int {
	return p.Y
}

func (p Point) Sum() int {
	return p.X + p.Y
}

func (p *Point) Move(dx, dy int) {
	p.X += dx
	p.Y += dy
}

func (p *Point) SetX(x int) error {
	p.X = x
	return nil
}

type Base struct {
	ID     int
	Name   string
	secret string
}

func (b *Base) Describe() string {
	return "base:" + b.Name
}

func (b Base) Ident() int {
	return b.ID
}

type Derived struct {
	Base
	Name  string
	Count int    `introspect:"readonly" json:"count"`
	Label string `json:"label"`
	Skip  string `introspect:"-"`
}

func (d *Derived) Describe(prefix string) string {
	return prefix + d.Name
}

type Holder struct {
	*Base
	Extra int
}

type Greeter struct {
	Prefix string
}

func (g *Greeter) Greet(name string) string {
	return g.Prefix + name
}

type LoudGreeter struct {
	Greeter
	Volume int
}

type Shaper interface {
	Area() int
}

type square struct{ side int }

type Wrapped struct {
	Shaper
}

func (s square) Area() int {
	return s.side * s.side
}

type Account struct {
	Owner   string
	balance int
	Active  bool
}

func (a *Account) GetBalance() int {
	return a.balance
}

func (a *Account) SetBalance(v int) {
	a.balance = v
}

func (a *Account) IsOverdrawn() bool {
	return a.balance < 0
}

func (a *Account) SetOwner(o string) {
	a.Owner = strings.ToUpper(o)
}

func (a *Account) Withdraw(v int) error {
	return a.withdraw(v)
}

func (a *Account) withdraw(v int) error {
	if v > a.balance {
		return errFunds
	}
	a.balance -= v
	return nil
}

var errFunds = errors.New("insufficient funds")

type Calculator struct{}

func (Calculator) Add(a, b int) int {
	return a + b
}

func NewGreeter() (Greeter, error) {
	return Greeter{Prefix: "hello "}, nil
}

func init() {
	must(RegisterConstructor(NewPoint))
	must(RegisterConstructor(NewGreeter))
	must(RegisterConstructor(func(balance int) (*Account, error) {
		if balance < 0 {
			return nil, errFunds
		}
		return &Account{balance: balance}, nil
	}))

	must(RegisterMethod("Greet", func(g *Greeter, v any) string { return fmt.Sprintf("%s%v", g.Prefix, v) },
		WithTags(map[string]string{"kind": "generic"})))
	must(RegisterMethod("Sum", func(g *Greeter, a, b int) int { return a + b }))
	must(RegisterMethod("Sum", func(g *Greeter, xs ...int) int {
		total := 0
		for _, x := range xs {
			total += x
		}
		return -total
	}))
	must(RegisterMethod("Join", func(g Greeter, sep string, parts ...int) string {
		strs := make([]string, len(parts))
		for i, p := range parts {
			strs[i] = fmt.Sprint(p)
		}
		return g.Prefix + strings.Join(strs, sep)
	}))

	must(RegisterMethod("Sum", func(l *LoudGreeter, a, b int) int { return (a + b) * l.Volume }))

	must(TagMethod(reflectTypeOf[Greeter](), "Greet", map[string]string{
		"route":          "/greet",
		"param.0.source": "query",
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
