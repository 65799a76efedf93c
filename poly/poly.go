// Copyright 2026 The Tayser Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package poly implements the truncated-polynomial kernel: component A of
// the Taylor-series integrator. A Poly[T] holds a degree-bounded Taylor
// jet over a coefficient type T satisfying scalar.Number[T]. Every
// elementary operator ships as a matched pair: an order-k MUTATING form
// (the coefficient recurrence, the hot path driven by package jet) and an
// ALLOCATING form that applies the recurrence for k = 0..N into a fresh
// value. Because Poly[T] itself implements scalar.Number[Poly[T]] (see the
// bottom of this file), a Poly can be nested inside another Poly. The
// variational extension (package variational) instead differentiates the
// flow with respect to initial conditions through Poly[MultiDual[T]].
package poly

import (
	"errors"
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/gotaylor/tayser/scalar"
)

// ErrDivByZero is returned (wrapped) when a division's divisor has a zero
// constant coefficient.
var ErrDivByZero = errors.New("poly: division by a polynomial with zero constant term")

// ErrDomain is returned (wrapped) when log, a non-integer power, or sqrt is
// evaluated on an operand whose constant coefficient falls outside that
// operator's domain.
var ErrDomain = errors.New("poly: argument outside the operator's domain")

// Poly is a degree-≤N univariate truncated polynomial over T.
type Poly[T scalar.Number[T]] struct {
	c []T // length Order()+1
}

// Const returns the polynomial "c0" at order n: buffer = [c0, 0, 0, ...].
func Const[T scalar.Number[T]](n int, c0 T) Poly[T] {
	if n < 0 {
		chk.Panic("poly: order must be >= 0, got %d", n)
	}
	c := make([]T, n+1)
	c[0] = c0
	z := c0.Zero()
	for k := 1; k <= n; k++ {
		c[k] = z
	}
	return Poly[T]{c: c}
}

// Indep returns the independent variable (t - t0) seeded at c0, at order n:
// buffer = [c0, 1, 0, 0, ...].
func Indep[T scalar.Number[T]](n int, c0 T) Poly[T] {
	p := Const(n, c0)
	if n >= 1 {
		p.c[1] = c0.One()
	}
	return p
}

// Order returns the polynomial's fixed degree bound N.
func (p Poly[T]) Order() int { return len(p.c) - 1 }

// Coeff returns coefficient k.
func (p Poly[T]) Coeff(k int) T { return p.c[k] }

// SetCoeff mutates coefficient k in place.
func (p *Poly[T]) SetCoeff(k int, v T) { p.c[k] = v }

// Clone returns an independent copy.
func (p Poly[T]) Clone() Poly[T] {
	c := make([]T, len(p.c))
	copy(c, p.c)
	return Poly[T]{c: c}
}

// Prefix returns a copy of p with every coefficient of order >= ord zeroed
// out: the "known so far" view the jet driver feeds back through the RHS
// while computing order ord.
func (p Poly[T]) Prefix(ord int) Poly[T] {
	q := p.Clone()
	z := q.c[0].Zero()
	for k := ord; k < len(q.c); k++ {
		q.c[k] = z
	}
	return q
}

// Eval evaluates p at a real step delta via Horner's method.
func (p Poly[T]) Eval(delta float64) T {
	n := p.Order()
	acc := p.c[n]
	for k := n - 1; k >= 0; k-- {
		acc = acc.Scale(delta).Add(p.c[k])
	}
	return acc
}

// EvalVec evaluates every polynomial of v at delta.
func EvalVec[T scalar.Number[T]](v []Poly[T], delta float64) []T {
	out := make([]T, len(v))
	for i, p := range v {
		out[i] = p.Eval(delta)
	}
	return out
}

func zeroLike[T scalar.Number[T]](a Poly[T]) Poly[T] {
	return Const(a.Order(), a.c[0].Zero())
}

func sameOrder[T scalar.Number[T]](a, b Poly[T]) int {
	if a.Order() != b.Order() {
		chk.Panic("poly: mismatched orders in binary operator: %d != %d", a.Order(), b.Order())
	}
	return a.Order()
}

// ---------------------------------------------------------------------
// order-k mutating forms: the coefficient recurrences
// ---------------------------------------------------------------------

// AddK writes out[k] = a[k] + b[k].
func AddK[T scalar.Number[T]](out, a, b *Poly[T], k int) {
	out.c[k] = a.c[k].Add(b.c[k])
}

// SubK writes out[k] = a[k] - b[k].
func SubK[T scalar.Number[T]](out, a, b *Poly[T], k int) {
	out.c[k] = a.c[k].Sub(b.c[k])
}

// NegK writes out[k] = -a[k].
func NegK[T scalar.Number[T]](out, a *Poly[T], k int) {
	out.c[k] = a.c[k].Neg()
}

// ScaleK writes out[k] = s*a[k].
func ScaleK[T scalar.Number[T]](out, a *Poly[T], k int, s float64) {
	out.c[k] = a.c[k].Scale(s)
}

// MulK writes out[k] = Σ_{j=0..k} a[j]·b[k-j].
func MulK[T scalar.Number[T]](out, a, b *Poly[T], k int) {
	s := a.c[0].Zero()
	for j := 0; j <= k; j++ {
		s = s.Add(a.c[j].Mul(b.c[k-j]))
	}
	out.c[k] = s
}

// DivK writes out[k] for out = a/b, requiring b[0] != 0.
func DivK[T scalar.Number[T]](out, a, b *Poly[T], k int) error {
	if b.c[0].IsZero() {
		return fmt.Errorf("%w: divisor constant coefficient is zero", ErrDivByZero)
	}
	s := a.c[k]
	for j := 0; j < k; j++ {
		s = s.Sub(out.c[j].Mul(b.c[k-j]))
	}
	out.c[k] = s.Div(b.c[0])
	return nil
}

// PowK writes out[k] for out = a^p, p a real exponent.
func PowK[T scalar.Number[T]](out, a *Poly[T], p float64, k int) error {
	if k == 0 {
		v, err := a.c[0].Pow(p)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDomain, err)
		}
		out.c[0] = v
		return nil
	}
	if a.c[0].IsZero() {
		return fmt.Errorf("%w: power recurrence divides by the base's zero constant coefficient", ErrDomain)
	}
	s := a.c[0].Zero()
	for j := 0; j < k; j++ {
		coef := p*float64(k-j) - float64(j)
		s = s.Add(out.c[j].Mul(a.c[k-j]).Scale(coef))
	}
	s = s.Scale(1.0 / float64(k))
	out.c[k] = s.Div(a.c[0])
	return nil
}

// ExpK writes out[k] for out = exp(a).
func ExpK[T scalar.Number[T]](out, a *Poly[T], k int) {
	if k == 0 {
		out.c[0] = a.c[0].Exp()
		return
	}
	s := a.c[0].Zero()
	for j := 0; j < k; j++ {
		s = s.Add(out.c[j].Mul(a.c[k-j]).Scale(float64(k - j)))
	}
	out.c[k] = s.Scale(1.0 / float64(k))
}

// LogK writes out[k] for out = log(a), requiring a[0] != 0.
func LogK[T scalar.Number[T]](out, a *Poly[T], k int) error {
	if k == 0 {
		v, err := a.c[0].Log()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDomain, err)
		}
		out.c[0] = v
		return nil
	}
	if a.c[0].IsZero() {
		return fmt.Errorf("%w: log recurrence divides by the argument's zero constant coefficient", ErrDomain)
	}
	s := a.c[k]
	for j := 1; j < k; j++ {
		s = s.Sub(a.c[k-j].Mul(out.c[j]).Scale(float64(j) / float64(k)))
	}
	out.c[k] = s.Div(a.c[0])
	return nil
}

// SinCosK writes s[k] and c[k] together for s = sin(a), c = cos(a).
func SinCosK[T scalar.Number[T]](s, c, a *Poly[T], k int) {
	if k == 0 {
		s.c[0] = a.c[0].Sin()
		c.c[0] = a.c[0].Cos()
		return
	}
	ssum := a.c[0].Zero()
	csum := a.c[0].Zero()
	for j := 1; j <= k; j++ {
		coef := float64(j) / float64(k)
		ssum = ssum.Add(a.c[j].Mul(c.c[k-j]).Scale(coef))
		csum = csum.Add(a.c[j].Mul(s.c[k-j]).Scale(coef))
	}
	s.c[k] = ssum
	c.c[k] = csum.Neg()
}

// ---------------------------------------------------------------------
// allocating forms: apply the recurrence across the full order range
// ---------------------------------------------------------------------

// Add returns a+b.
func Add[T scalar.Number[T]](a, b Poly[T]) Poly[T] {
	n := sameOrder(a, b)
	out := zeroLike(a)
	for k := 0; k <= n; k++ {
		AddK(&out, &a, &b, k)
	}
	return out
}

// Sub returns a-b.
func Sub[T scalar.Number[T]](a, b Poly[T]) Poly[T] {
	n := sameOrder(a, b)
	out := zeroLike(a)
	for k := 0; k <= n; k++ {
		SubK(&out, &a, &b, k)
	}
	return out
}

// Neg returns -a.
func Neg[T scalar.Number[T]](a Poly[T]) Poly[T] {
	out := zeroLike(a)
	for k := 0; k <= a.Order(); k++ {
		NegK(&out, &a, k)
	}
	return out
}

// Scale returns s*a for a real scalar s.
func Scale[T scalar.Number[T]](a Poly[T], s float64) Poly[T] {
	out := zeroLike(a)
	for k := 0; k <= a.Order(); k++ {
		ScaleK(&out, &a, k, s)
	}
	return out
}

// Mul returns a*b.
func Mul[T scalar.Number[T]](a, b Poly[T]) Poly[T] {
	n := sameOrder(a, b)
	out := zeroLike(a)
	for k := 0; k <= n; k++ {
		MulK(&out, &a, &b, k)
	}
	return out
}

// Div returns a/b, or ErrDivByZero if b's constant coefficient is zero.
func Div[T scalar.Number[T]](a, b Poly[T]) (Poly[T], error) {
	n := sameOrder(a, b)
	out := zeroLike(a)
	for k := 0; k <= n; k++ {
		if err := DivK(&out, &a, &b, k); err != nil {
			return out, err
		}
	}
	return out, nil
}

// PowReal returns a^p for a real exponent p. A non-negative integer p is
// built by repeated multiplication, so it stays well-defined even when a's
// constant coefficient is zero (squaring a coordinate starting at the
// origin, say); any other exponent goes through the PowK recurrence, which
// does require a[0] != 0.
func PowReal[T scalar.Number[T]](a Poly[T], p float64) (Poly[T], error) {
	if n, ok := nonNegInt(p); ok {
		return powInt(a, n), nil
	}
	out := zeroLike(a)
	for k := 0; k <= a.Order(); k++ {
		if err := PowK(&out, &a, p, k); err != nil {
			return out, err
		}
	}
	return out, nil
}

func nonNegInt(p float64) (int, bool) {
	if p < 0 || p != math.Trunc(p) {
		return 0, false
	}
	return int(p), true
}

func powInt[T scalar.Number[T]](a Poly[T], n int) Poly[T] {
	out := Const(a.Order(), a.c[0].One())
	base := a
	for n > 0 {
		if n&1 == 1 {
			out = Mul(out, base)
		}
		if n >>= 1; n > 0 {
			base = Mul(base, base)
		}
	}
	return out
}

// Sqrt returns the square root of a, built from the p=0.5 power recurrence.
func Sqrt[T scalar.Number[T]](a Poly[T]) (Poly[T], error) {
	if _, err := a.c[0].Sqrt(); err != nil {
		return zeroLike(a), fmt.Errorf("%w: %v", ErrDomain, err)
	}
	return PowReal(a, 0.5)
}

// Exp returns exp(a).
func Exp[T scalar.Number[T]](a Poly[T]) Poly[T] {
	out := zeroLike(a)
	for k := 0; k <= a.Order(); k++ {
		ExpK(&out, &a, k)
	}
	return out
}

// Log returns log(a).
func Log[T scalar.Number[T]](a Poly[T]) (Poly[T], error) {
	out := zeroLike(a)
	for k := 0; k <= a.Order(); k++ {
		if err := LogK(&out, &a, k); err != nil {
			return out, err
		}
	}
	return out, nil
}

// SinCos returns (sin(a), cos(a)) computed together.
func SinCos[T scalar.Number[T]](a Poly[T]) (s, c Poly[T]) {
	s = zeroLike(a)
	c = zeroLike(a)
	for k := 0; k <= a.Order(); k++ {
		SinCosK(&s, &c, &a, k)
	}
	return
}

// ---------------------------------------------------------------------
// Poly[T] as a Number[Poly[T]]: satisfying scalar.Number lets a Poly
// nest inside another Poly, or be passed to RHS code written generically
// over scalar.Number.
// ---------------------------------------------------------------------

func (p Poly[T]) Add(q Poly[T]) Poly[T]          { return Add(p, q) }
func (p Poly[T]) Sub(q Poly[T]) Poly[T]          { return Sub(p, q) }
func (p Poly[T]) Mul(q Poly[T]) Poly[T]          { return Mul(p, q) }
func (p Poly[T]) Neg() Poly[T]                   { return Neg(p) }
func (p Poly[T]) Scale(k float64) Poly[T]        { return Scale(p, k) }
func (p Poly[T]) Zero() Poly[T]                  { return zeroLike(p) }
func (p Poly[T]) One() Poly[T]                   { return Const(p.Order(), p.c[0].One()) }
func (p Poly[T]) Exp() Poly[T]                   { return Exp(p) }

func (p Poly[T]) Div(q Poly[T]) Poly[T] {
	r, err := Div(p, q)
	if err != nil {
		chk.Panic("poly: Div used as a field operation on a zero-constant divisor: %v", err)
	}
	return r
}

func (p Poly[T]) IsZero() bool {
	for _, v := range p.c {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

func (p Poly[T]) Norm() float64 {
	m := 0.0
	for _, v := range p.c {
		if n := v.Norm(); n > m {
			m = n
		}
	}
	return m
}

func (p Poly[T]) Pow(exp float64) (Poly[T], error) { return PowReal(p, exp) }
func (p Poly[T]) Log() (Poly[T], error)            { return Log(p) }
func (p Poly[T]) Sin() Poly[T]                     { s, _ := SinCos(p); return s }
func (p Poly[T]) Cos() Poly[T]                     { _, c := SinCos(p); return c }
func (p Poly[T]) Sqrt() (Poly[T], error)           { return Sqrt(p) }

// compile-time assertion that Poly[T] satisfies Number[Poly[T]], which is
// what lets Poly[Poly[Float64]] (a nested, two-level jet) exist at all.
var _ scalar.Number[Poly[scalar.Float64]] = Poly[scalar.Float64]{}
