// Copyright 2026 The Tayser Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tayint

import (
	"github.com/cpmech/gosl/fun"

	"github.com/gotaylor/tayser/jet"
	"github.com/gotaylor/tayser/poly"
	"github.com/gotaylor/tayser/scalar"
)

// PendulumRHS builds the simple-pendulum right-hand side ẋ = v, v̇ = -w2·sin(x)
// from a database of named material parameters, the same idiom
// mdl/diffusion.M1.Init uses for its conductivity coefficients
// (prms.Connect binds a field to a named parameter or panics if missing).
func PendulumRHS(prms fun.Prms) (jet.RHS[scalar.Float64], error) {
	var w2 float64
	prms.Connect(&w2, "w2", "pendulum: squared angular frequency g/L")
	return jet.WrapFunc(func(t float64, x []poly.Poly[scalar.Float64]) ([]poly.Poly[scalar.Float64], error) {
		xdot := x[1].Clone()
		vdot := poly.Scale(x[0].Sin(), -w2)
		return []poly.Poly[scalar.Float64]{xdot, vdot}, nil
	}), nil
}

// KeplerRHS builds the planar two-body right-hand side q̈ = -mu·q/|q|^3,
// expanded into the four-coordinate state (qx, qy, vx, vy), parameterised
// by the gravitational parameter mu the same way PendulumRHS threads w2.
func KeplerRHS(prms fun.Prms) (jet.RHS[scalar.Float64], error) {
	var mu float64
	prms.Connect(&mu, "mu", "Kepler: gravitational parameter")
	return jet.WrapFunc(func(t float64, x []poly.Poly[scalar.Float64]) ([]poly.Poly[scalar.Float64], error) {
		qx, qy, vx, vy := x[0], x[1], x[2], x[3]
		r2 := poly.Add(poly.Mul(qx, qx), poly.Mul(qy, qy))
		r3, err := poly.PowReal(r2, 1.5)
		if err != nil {
			return nil, err
		}
		axOverMu, err := poly.Div(qx, r3)
		if err != nil {
			return nil, err
		}
		ayOverMu, err := poly.Div(qy, r3)
		if err != nil {
			return nil, err
		}
		ax := poly.Scale(axOverMu, -mu)
		ay := poly.Scale(ayOverMu, -mu)
		return []poly.Poly[scalar.Float64]{vx, vy, ax, ay}, nil
	}), nil
}

// defaultPrms builds a single-parameter fun.Prms database, the shape the
// example constructors above expect.
func defaultPrms(name string, v float64) fun.Prms {
	return fun.Prms{&fun.Prm{N: name, V: v}}
}
