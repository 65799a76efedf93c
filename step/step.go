// Copyright 2026 The Tayser Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package step implements component C: picks a step size from the tail
// coefficients of a finished order-N jet so that the local truncation
// error stays under a user tolerance, in both the absolute-tolerance and
// relative-plus-absolute-tolerance forms.
package step

import "math"

// absSafety shrinks the raw tail-coefficient estimate into the region
// where the truncated series actually converges.
const absSafety = 0.36787944117144233 / 7.38905609893065 // exp(-1)/exp(2)

// Normer is the minimal capability step needs from a coordinate's
// coefficient: its real-valued magnitude and a zero test. Every
// scalar.Number[T] instance satisfies it, so callers hand step a plain
// func(coord, k int) step.Normer without step importing package poly.
type Normer interface {
	Norm() float64
	IsZero() bool
}

// tailMin returns min over k in ks of (eps/|a_k|)^(1/k) across all
// coordinates, skipping zero tail coefficients; +Inf if every tail
// coefficient considered is zero (convergence failure).
func tailMin(coeffAt func(coord, k int) Normer, ncoord int, ks []int, eps float64) float64 {
	best := math.Inf(1)
	for _, k := range ks {
		if k < 1 {
			continue
		}
		for c := 0; c < ncoord; c++ {
			a := coeffAt(c, k)
			if a.IsZero() {
				continue
			}
			dt := math.Pow(eps/a.Norm(), 1.0/float64(k))
			if dt < best {
				best = dt
			}
		}
	}
	return best
}

// Abs computes the absolute-tolerance step size. order is the shared
// degree bound N of the jet; coeffAt(c, k) must return coordinate c's
// k-th Taylor coefficient. Returns +Inf if both tail orders vanish
// everywhere (convergence failure; the caller falls back to the
// remaining-time clamp).
func Abs(order, ncoord int, coeffAt func(coord, k int) Normer, tol float64) float64 {
	dt := tailMin(coeffAt, ncoord, []int{order - 1, order}, tol)
	if math.IsInf(dt, 1) {
		return dt
	}
	return dt * absSafety
}

// Rel computes the step size for the relative+absolute tolerance variant.
// rho is the infinity-norm of the coordinates' 0th coefficients.
func Rel(order, ncoord int, coeffAt func(coord, k int) Normer, tolAbs, tolRel, rho float64) float64 {
	eps := tolAbs
	absRegime := true
	if tolRel*rho > tolAbs {
		eps = rho
		absRegime = false
	}
	dt := tailMin(coeffAt, ncoord, []int{order - 1, order}, eps)
	if math.IsInf(dt, 1) {
		return dt
	}
	var safety float64
	if absRegime || order <= 1 {
		safety = absSafety
	} else {
		safety = math.Exp(-7.0/(10.0*float64(order-1))) / math.Exp(2)
	}
	return dt * safety
}

// Clamp shortens dt to land exactly on a requested target time t1 (or on
// remaining-time when dt is the convergence-failure +Inf sentinel).
func Clamp(dt, t0, t1 float64) float64 {
	remaining := t1 - t0
	if math.IsInf(dt, 1) || dt > remaining {
		return remaining
	}
	return dt
}
