// Copyright 2026 The Tayser Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package variational drives the SAME jet/step machinery as package
// tayint, but over MultiDual[T]-valued coordinates, so that a single pass
// produces both the physical trajectory and the flow Jacobian Φ by
// automatic differentiation. After every accepted step it
// reorthonormalizes the tracked columns of Φ via Gram-Schmidt and
// accumulates log|R_ii| into running Lyapunov-exponent estimates.
//
// Config.VarDirs/VarState let the caller choose which state coordinates
// seed perturbation directions and whose rows of Φ are reorthonormalized,
// so the number of tracked variational directions is
// independent of the physical state's dimension — a fixed subset of a
// much larger state (a handful of orbital elements out of a many-body
// system, say) is tracked just as easily as the full square Jacobian.
package variational

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/gotaylor/tayser/jet"
	"github.com/gotaylor/tayser/poly"
	"github.com/gotaylor/tayser/scalar"
	"github.com/gotaylor/tayser/step"
)

// Config selects which state coordinates seed unit perturbation
// directions (VarDirs) and which state coordinates' rows of Φ are
// reorthonormalized (VarState); one Lyapunov exponent is reported per
// VarDirs entry. Both default to "every
// physical coordinate" when left nil, which recovers the classical
// square-Jacobian Lyapunov spectrum.
type Config struct {
	VarDirs  []int
	VarState []int
	Method   GSMethod
}

func (c Config) resolve(d int) ([]int, []int) {
	dirs, st := c.VarDirs, c.VarState
	if len(dirs) == 0 {
		dirs = seqUpTo(d)
	}
	if len(st) == 0 {
		st = seqUpTo(d)
	}
	return dirs, st
}

func seqUpTo(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// Lyapunov integrates rhs (a jet.RHS written generically over any
// scalar.Number[T] and instantiated here at MultiDual[T]) from x0 at t0
// to tmax, returning the physical trajectory alongside a running
// Lyapunov-exponent estimate per tracked direction at every accepted
// step.
func Lyapunov[T scalar.Number[T]](rhs jet.RHS[MultiDual[T]], x0 []T, t0, tmax float64, order int, absTol float64, maxSteps int, cfg Config) (times []float64, states [][]T, lyaps [][]float64, err error) {
	d := len(x0)
	if d == 0 {
		return nil, nil, nil, chk.Err("variational: state vector is empty")
	}
	if order < 1 {
		return nil, nil, nil, chk.Err("variational: order must be >= 1, got %d", order)
	}
	if absTol <= 0 {
		return nil, nil, nil, chk.Err("variational: tolerance must be positive, got %v", absTol)
	}
	if tmax < t0 {
		return nil, nil, nil, chk.Err("variational: tmax (%v) must be >= t0 (%v)", tmax, t0)
	}
	dirs, st := cfg.resolve(d)
	ndirs := len(dirs)
	nst := len(st)

	dirIndex := make(map[int]int, ndirs)
	for j, c := range dirs {
		dirIndex[c] = j
	}

	grad := make([][]T, d)
	for i := range grad {
		dir := -1
		if j, ok := dirIndex[i]; ok {
			dir = j
		}
		grad[i] = Seed[T](x0[i], ndirs, dir).Grad
	}
	x := make([]T, d)
	copy(x, x0)

	logSum := make([]float64, ndirs)

	times = []float64{t0}
	states = [][]T{cloneT(x0)}
	lyaps = [][]float64{make([]float64, ndirs)}

	var driver jet.Driver[MultiDual[T]]
	t := t0
	steps := 0
	for t < tmax {
		if maxSteps > 0 && steps >= maxSteps {
			io.Pfyel("variational: step cap (%d steps) reached before tmax=%v; returning partial trajectory at t=%v\n", maxSteps, tmax, t)
			return times, states, lyaps, nil
		}
		xs := make([]poly.Poly[MultiDual[T]], d)
		for i := range xs {
			xs[i] = poly.Const(order, MultiDual[T]{Val: x[i], Grad: grad[i]})
		}
		if jerr := driver.Populate(rhs, t, xs); jerr != nil {
			return times, states, lyaps, jerr
		}
		coeffAt := func(c, k int) step.Normer { return xs[c].Coeff(k) }
		dt := step.Clamp(step.Abs(order, d, coeffAt, absTol), t, tmax)

		next := poly.EvalVec(xs, dt)
		for i := range x {
			x[i] = next[i].Val
			grad[i] = next[i].Grad
		}
		t += dt
		steps++

		// build Φ restricted to the tracked state rows, reorthonormalize.
		Phi := matAlloc(nst, ndirs, x0[0].Zero())
		for r, si := range st {
			copy(Phi[r], grad[si])
		}
		Q, R, qrErr := QR(Phi, cfg.Method)
		if qrErr != nil {
			return times, states, lyaps, qrErr
		}
		for j := 0; j < ndirs; j++ {
			rjj := R[j][j]
			if !rjj.IsZero() {
				logSum[j] += math.Log(rjj.Norm())
			}
		}
		// write Q back into the tracked rows, replacing the raw
		// propagated Φ columns with their reorthonormalized versions.
		for r, si := range st {
			row := make([]T, ndirs)
			for j := 0; j < ndirs; j++ {
				row[j] = Q[r][j]
			}
			grad[si] = row
		}

		elapsed := t - t0
		lam := make([]float64, ndirs)
		if elapsed > 0 {
			for j := range lam {
				lam[j] = logSum[j] / elapsed
			}
		}
		times = append(times, t)
		states = append(states, cloneT(x))
		lyaps = append(lyaps, lam)
	}
	return times, states, lyaps, nil
}

func cloneT[T any](x []T) []T {
	c := make([]T, len(x))
	copy(c, x)
	return c
}
