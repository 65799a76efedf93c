// Copyright 2026 The Tayser Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package variational

import (
	"github.com/gotaylor/tayser/scalar"
)

// MultiDual is a value carried alongside its gradient with respect to a
// fixed list of directions: a truncated, order-1, d-variable polynomial.
// Used as the coefficient type of a poly.Poly[MultiDual[T]], the outer
// Poly is the usual univariate-in-t Taylor jet, and each of its
// coefficients carries the linearization of the flow with respect to the
// chosen initial-condition directions. Running the SAME user RHS (written
// once, generically over any scalar.Number[T]) instantiated at
// MultiDual[T] instead of T therefore produces the physical trajectory
// (the Val components) and the flow Jacobian (the Grad components) in a
// single jet-driver pass, with no hand-written Φ̇ = J·Φ bookkeeping: the
// chain rule below derives it by composition.
type MultiDual[T scalar.Number[T]] struct {
	Val  T
	Grad []T // ∂Val/∂(seed direction j), one per tracked direction
}

// Seed returns a MultiDual carrying value v and a one-hot gradient of
// length ndirs with a 1 (v.One()) in position dir (or all zeros if dir < 0,
// for coordinates not being differentiated).
func Seed[T scalar.Number[T]](v T, ndirs, dir int) MultiDual[T] {
	g := make([]T, ndirs)
	z := v.Zero()
	for i := range g {
		g[i] = z
	}
	if dir >= 0 && dir < ndirs {
		g[dir] = v.One()
	}
	return MultiDual[T]{Val: v, Grad: g}
}

func (a MultiDual[T]) zeroGrad() []T {
	g := make([]T, len(a.Grad))
	z := a.Val.Zero()
	for i := range g {
		g[i] = z
	}
	return g
}

func (a MultiDual[T]) Add(b MultiDual[T]) MultiDual[T] {
	g := make([]T, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i].Add(b.Grad[i])
	}
	return MultiDual[T]{Val: a.Val.Add(b.Val), Grad: g}
}

func (a MultiDual[T]) Sub(b MultiDual[T]) MultiDual[T] {
	g := make([]T, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i].Sub(b.Grad[i])
	}
	return MultiDual[T]{Val: a.Val.Sub(b.Val), Grad: g}
}

func (a MultiDual[T]) Neg() MultiDual[T] {
	g := make([]T, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i].Neg()
	}
	return MultiDual[T]{Val: a.Val.Neg(), Grad: g}
}

func (a MultiDual[T]) Scale(k float64) MultiDual[T] {
	g := make([]T, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i].Scale(k)
	}
	return MultiDual[T]{Val: a.Val.Scale(k), Grad: g}
}

// Mul applies the product rule: (ab)' = a'b + ab'.
func (a MultiDual[T]) Mul(b MultiDual[T]) MultiDual[T] {
	g := make([]T, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i].Mul(b.Val).Add(a.Val.Mul(b.Grad[i]))
	}
	return MultiDual[T]{Val: a.Val.Mul(b.Val), Grad: g}
}

// Div applies the quotient rule: (a/b)' = (a'b - ab')/b^2.
func (a MultiDual[T]) Div(b MultiDual[T]) MultiDual[T] {
	bb := b.Val.Mul(b.Val)
	g := make([]T, len(a.Grad))
	for i := range g {
		num := a.Grad[i].Mul(b.Val).Sub(a.Val.Mul(b.Grad[i]))
		g[i] = num.Div(bb)
	}
	return MultiDual[T]{Val: a.Val.Div(b.Val), Grad: g}
}

func (a MultiDual[T]) IsZero() bool  { return a.Val.IsZero() }
func (a MultiDual[T]) Norm() float64 { return a.Val.Norm() } // stepping/tolerance track the physical part only
func (a MultiDual[T]) Zero() MultiDual[T] {
	return MultiDual[T]{Val: a.Val.Zero(), Grad: a.zeroGrad()}
}
func (a MultiDual[T]) One() MultiDual[T] {
	return MultiDual[T]{Val: a.Val.One(), Grad: a.zeroGrad()}
}

// Pow applies (x^p)' = p·x^(p-1)·x'.
func (a MultiDual[T]) Pow(p float64) (MultiDual[T], error) {
	v, err := a.Val.Pow(p)
	if err != nil {
		return MultiDual[T]{}, err
	}
	d, err := a.Val.Pow(p - 1)
	if err != nil {
		return MultiDual[T]{}, err
	}
	d = d.Scale(p)
	g := make([]T, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i].Mul(d)
	}
	return MultiDual[T]{Val: v, Grad: g}, nil
}

// Exp applies (e^x)' = e^x·x'.
func (a MultiDual[T]) Exp() MultiDual[T] {
	v := a.Val.Exp()
	g := make([]T, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i].Mul(v)
	}
	return MultiDual[T]{Val: v, Grad: g}
}

// Log applies (log x)' = x'/x.
func (a MultiDual[T]) Log() (MultiDual[T], error) {
	v, err := a.Val.Log()
	if err != nil {
		return MultiDual[T]{}, err
	}
	g := make([]T, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i].Div(a.Val)
	}
	return MultiDual[T]{Val: v, Grad: g}, nil
}

// Sin applies (sin x)' = cos(x)·x'.
func (a MultiDual[T]) Sin() MultiDual[T] {
	v := a.Val.Sin()
	cosv := a.Val.Cos()
	g := make([]T, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i].Mul(cosv)
	}
	return MultiDual[T]{Val: v, Grad: g}
}

// Cos applies (cos x)' = -sin(x)·x'.
func (a MultiDual[T]) Cos() MultiDual[T] {
	v := a.Val.Cos()
	sinv := a.Val.Sin()
	g := make([]T, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i].Mul(sinv).Neg()
	}
	return MultiDual[T]{Val: v, Grad: g}
}

// Sqrt applies (√x)' = x'/(2√x).
func (a MultiDual[T]) Sqrt() (MultiDual[T], error) {
	v, err := a.Val.Sqrt()
	if err != nil {
		return MultiDual[T]{}, err
	}
	denom := v.Scale(2)
	g := make([]T, len(a.Grad))
	for i := range g {
		g[i] = a.Grad[i].Div(denom)
	}
	return MultiDual[T]{Val: v, Grad: g}, nil
}

var _ scalar.Number[MultiDual[scalar.Float64]] = MultiDual[scalar.Float64]{}
