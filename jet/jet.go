// Copyright 2026 The Tayser Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jet implements component B: given a user right-hand side and a
// state vector whose 0th coefficients hold the current numerical state,
// it fills in coefficients 1..N of every coordinate, producing a full
// order-N local Taylor expansion of the trajectory.
//
// The RHS may be supplied in either of the two shapes gosl's own
// ode.Solver accepts for its step function (a value-returning closure, or
// an in-place one writing into a caller-supplied slice) — Func and
// InPlace below, both satisfying RHS once wrapped.
package jet

import (
	"github.com/cpmech/gosl/chk"

	"github.com/gotaylor/tayser/poly"
	"github.com/gotaylor/tayser/scalar"
)

// Func computes ẋ = f(t, x) and returns a freshly allocated result.
type Func[T scalar.Number[T]] func(t float64, x []poly.Poly[T]) ([]poly.Poly[T], error)

// InPlace computes ẋ = f(t, x) by writing into the caller-supplied xdot.
type InPlace[T scalar.Number[T]] func(t float64, x, xdot []poly.Poly[T]) error

// RHS is the uniform interface the driver calls: implemented by wrapping
// either a Func or an InPlace with WrapFunc/WrapInPlace.
type RHS[T scalar.Number[T]] interface {
	Eval(t float64, x, xdot []poly.Poly[T]) error
}

type funcRHS[T scalar.Number[T]] struct{ f Func[T] }

func (r funcRHS[T]) Eval(t float64, x, xdot []poly.Poly[T]) error {
	res, err := r.f(t, x)
	if err != nil {
		return err
	}
	if len(res) != len(xdot) {
		chk.Panic("jet: RHS returned %d coordinates, expected %d", len(res), len(xdot))
	}
	copy(xdot, res)
	return nil
}

type inplaceRHS[T scalar.Number[T]] struct{ f InPlace[T] }

func (r inplaceRHS[T]) Eval(t float64, x, xdot []poly.Poly[T]) error {
	return r.f(t, x, xdot)
}

// WrapFunc adapts a value-returning RHS to the uniform RHS interface.
func WrapFunc[T scalar.Number[T]](f Func[T]) RHS[T] { return funcRHS[T]{f: f} }

// WrapInPlace adapts an in-place RHS to the uniform RHS interface.
func WrapInPlace[T scalar.Number[T]](f InPlace[T]) RHS[T] { return inplaceRHS[T]{f: f} }

// ScalarFunc is the d=1 convenience shape of Func: ẋ = f(t, x).
type ScalarFunc[T scalar.Number[T]] func(t float64, x poly.Poly[T]) (poly.Poly[T], error)

// WrapScalar adapts a scalar RHS to the uniform (length-1 vector) RHS
// interface: a scalar ODE is just the d=1 case with a trivial state
// shape, so no separate driver path exists for it.
func WrapScalar[T scalar.Number[T]](f ScalarFunc[T]) RHS[T] {
	return WrapFunc(func(t float64, x []poly.Poly[T]) ([]poly.Poly[T], error) {
		xd, err := f(t, x[0])
		if err != nil {
			return nil, err
		}
		return []poly.Poly[T]{xd}, nil
	})
}

// Driver keeps no state between calls other than its reusable scratch
// buffers for Populate, reallocated lazily to the state's width/order.
type Driver[T scalar.Number[T]] struct {
	xdot   []poly.Poly[T]
	prefix []poly.Poly[T]
}

// Populate fills coefficients 1..N of every coordinate of x in place,
// given that x[j].Coeff(0) already holds the current numerical state for
// every coordinate j. All members of x must share the same order N.
func (d *Driver[T]) Populate(rhs RHS[T], t0 float64, x []poly.Poly[T]) error {
	if len(x) == 0 {
		chk.Panic("jet: empty state vector")
	}
	n := x[0].Order()
	for j, p := range x {
		if p.Order() != n {
			chk.Panic("jet: state coordinate %d has order %d, expected %d", j, p.Order(), n)
		}
	}
	if len(d.xdot) != len(x) || (len(d.xdot) > 0 && d.xdot[0].Order() != n) {
		d.xdot = make([]poly.Poly[T], len(x))
		d.prefix = make([]poly.Poly[T], len(x))
	}
	for i := range d.xdot {
		d.xdot[i] = poly.Const(n, x[i].Coeff(0).Zero())
	}
	for ord := 1; ord <= n; ord++ {
		for j, p := range x {
			d.prefix[j] = p.Prefix(ord)
		}
		if err := rhs.Eval(t0, d.prefix, d.xdot); err != nil {
			return err
		}
		for j := range x {
			v := d.xdot[j].Coeff(ord - 1).Scale(1.0 / float64(ord))
			x[j].SetCoeff(ord, v)
		}
	}
	return nil
}
