// Copyright 2026 The Tayser Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tayint is component D, the public integrator loop: it drives
// package jet to build successive order-N jets, consults package step for
// the step size, evaluates the jet at that step to advance the state, and
// records the trajectory — either up to a final time (Integrate) or onto
// a prescribed ascending grid (IntegrateGrid), in both the pure
// absolute-tolerance form and the relative+absolute form with dynamically
// chosen order.
//
// This mirrors the Init/Solve split gosl/ode.Solver uses (see
// ana/colpresfluid.go and mdl/retention/model.go): an Integrator is built
// once around an RHS and reused across calls, and the jet driver's scratch
// buffers live in the Integrator and are reused from call to call.
package tayint

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/gotaylor/tayser/jet"
	"github.com/gotaylor/tayser/poly"
	"github.com/gotaylor/tayser/scalar"
	"github.com/gotaylor/tayser/step"
)

// Integrator drives repeated Taylor-jet integrations of a fixed RHS.
type Integrator[T scalar.Number[T]] struct {
	RHS     jet.RHS[T]
	Verbose bool // trace every accepted step via gosl/io.Pf

	driver jet.Driver[T]
}

// New builds an Integrator around the given RHS, accepted in either the
// functional or in-place form (wrap with jet.WrapFunc / jet.WrapInPlace).
func New[T scalar.Number[T]](rhs jet.RHS[T]) *Integrator[T] {
	return &Integrator[T]{RHS: rhs}
}

func cloneState[T any](x []T) []T {
	c := make([]T, len(x))
	copy(c, x)
	return c
}

func coeffFunc[T scalar.Number[T]](xs []poly.Poly[T]) func(c, k int) step.Normer {
	return func(c, k int) step.Normer { return xs[c].Coeff(k) }
}

func coeff0Norm[T scalar.Number[T]](xs []poly.Poly[T]) float64 {
	rho := 0.0
	for _, p := range xs {
		if n := p.Coeff(0).Norm(); n > rho {
			rho = n
		}
	}
	return rho
}

// dynamicOrder picks the expansion order for the relative-tolerance
// variants before the first step.
func dynamicOrder[T scalar.Number[T]](absTol, relTol float64, x0 []T) int {
	rho := 0.0
	for _, v := range x0 {
		if n := v.Norm(); n > rho {
			rho = n
		}
	}
	m := math.Min(absTol, relTol*rho)
	if m <= 0 {
		m = absTol
	}
	n := int(math.Ceil(1 - math.Log(m)/2))
	if n < 1 {
		n = 1
	}
	return n
}

func (o *Integrator[T]) jetAt(order int, t0 float64, x []T) ([]poly.Poly[T], error) {
	xs := make([]poly.Poly[T], len(x))
	for i, v := range x {
		xs[i] = poly.Const(order, v)
	}
	if err := o.driver.Populate(o.RHS, t0, xs); err != nil {
		return xs, err
	}
	return xs, nil
}

// checkBasic validates the inputs common to every entry point.
func checkBasic(order, d int, tol float64) error {
	if order < 1 {
		return chk.Err("tayint: order must be >= 1, got %d", order)
	}
	if d == 0 {
		return chk.Err("tayint: state vector is empty")
	}
	if tol <= 0 {
		return chk.Err("tayint: tolerance must be positive, got %v", tol)
	}
	return nil
}

// Integrate advances the solution from x0 at t0 to tmax, recording every
// accepted step, using a fixed expansion order and absolute tolerance.
// A maxSteps <= 0 means unbounded. If the step cap is hit first, the
// trajectory accumulated so far is returned with a nil error, after a
// diagnostic. A kernel failure (division by a zero-constant polynomial,
// log/pow/sqrt domain error) is returned alongside the trajectory
// accumulated up to the failing step.
func (o *Integrator[T]) Integrate(x0 []T, t0, tmax float64, order int, absTol float64, maxSteps int) (times []float64, states [][]T, err error) {
	if err = checkBasic(order, len(x0), absTol); err != nil {
		return nil, nil, err
	}
	if tmax < t0 {
		return nil, nil, chk.Err("tayint: tmax (%v) must be >= t0 (%v); backward integration is not supported", tmax, t0)
	}
	return o.runToTmax(x0, t0, tmax, order, maxSteps, func(xs []poly.Poly[T]) float64 {
		return step.Abs(order, len(xs), coeffFunc(xs), absTol)
	})
}

// IntegrateRel is the relative+absolute tolerance variant of Integrate:
// the expansion order is chosen dynamically from the tolerances and the
// initial condition before the first step.
func (o *Integrator[T]) IntegrateRel(x0 []T, t0, tmax, absTol, relTol float64, maxSteps int) (times []float64, states [][]T, err error) {
	if err = checkBasic(1, len(x0), absTol); err != nil {
		return nil, nil, err
	}
	if relTol < 0 {
		return nil, nil, chk.Err("tayint: relative tolerance must be >= 0, got %v", relTol)
	}
	if tmax < t0 {
		return nil, nil, chk.Err("tayint: tmax (%v) must be >= t0 (%v); backward integration is not supported", tmax, t0)
	}
	order := dynamicOrder(absTol, relTol, x0)
	return o.runToTmax(x0, t0, tmax, order, maxSteps, func(xs []poly.Poly[T]) float64 {
		rho := coeff0Norm(xs)
		return step.Rel(order, len(xs), coeffFunc(xs), absTol, relTol, rho)
	})
}

func (o *Integrator[T]) runToTmax(x0 []T, t0, tmax float64, order, maxSteps int, pickDt func(xs []poly.Poly[T]) float64) (times []float64, states [][]T, err error) {
	x := cloneState(x0)
	t := t0
	times = []float64{t0}
	states = [][]T{cloneState(x0)}
	steps := 0
	for t < tmax {
		if maxSteps > 0 && steps >= maxSteps {
			io.Pfyel("tayint: step cap (%d steps) reached before tmax=%v; returning partial trajectory at t=%v\n", maxSteps, tmax, t)
			return times, states, nil
		}
		xs, jerr := o.jetAt(order, t, x)
		if jerr != nil {
			return times, states, jerr
		}
		dt := step.Clamp(pickDt(xs), t, tmax)
		x = poly.EvalVec(xs, dt)
		t += dt
		steps++
		times = append(times, t)
		states = append(states, cloneState(x))
		if o.Verbose {
			io.Pf("tayint: step %d  t=%v  dt=%v\n", steps, t, dt)
		}
	}
	return times, states, nil
}

// IntegrateGrid integrates from x0 (at grid[0]) onto every subsequent
// point of the strictly ascending grid, returning one state per grid
// point (position 0 is x0 itself).
func (o *Integrator[T]) IntegrateGrid(x0 []T, grid []float64, order int, absTol float64, maxSteps int) (states [][]T, err error) {
	if err = checkBasic(order, len(x0), absTol); err != nil {
		return nil, err
	}
	if err = checkGrid(grid); err != nil {
		return nil, err
	}
	return o.runGrid(x0, grid, order, maxSteps, func(xs []poly.Poly[T]) float64 {
		return step.Abs(order, len(xs), coeffFunc(xs), absTol)
	})
}

// IntegrateGridRel is the relative+absolute tolerance variant of
// IntegrateGrid.
func (o *Integrator[T]) IntegrateGridRel(x0 []T, grid []float64, absTol, relTol float64, maxSteps int) (states [][]T, err error) {
	if err = checkBasic(1, len(x0), absTol); err != nil {
		return nil, err
	}
	if err = checkGrid(grid); err != nil {
		return nil, err
	}
	if relTol < 0 {
		return nil, chk.Err("tayint: relative tolerance must be >= 0, got %v", relTol)
	}
	order := dynamicOrder(absTol, relTol, x0)
	return o.runGrid(x0, grid, order, maxSteps, func(xs []poly.Poly[T]) float64 {
		rho := coeff0Norm(xs)
		return step.Rel(order, len(xs), coeffFunc(xs), absTol, relTol, rho)
	})
}

func checkGrid(grid []float64) error {
	if len(grid) == 0 {
		return chk.Err("tayint: grid must have at least one point")
	}
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			return chk.Err("tayint: grid must be strictly ascending; grid[%d]=%v <= grid[%d]=%v", i, grid[i], i-1, grid[i-1])
		}
	}
	return nil
}

func (o *Integrator[T]) runGrid(x0 []T, grid []float64, order, maxSteps int, pickDt func(xs []poly.Poly[T]) float64) (states [][]T, err error) {
	x := cloneState(x0)
	t := grid[0]
	states = [][]T{cloneState(x0)}
	steps := 0
	for gi := 1; gi < len(grid); gi++ {
		target := grid[gi]
		for t < target {
			if maxSteps > 0 && steps >= maxSteps {
				io.Pfyel("tayint: step cap (%d steps) reached before grid point %v; returning partial trajectory at t=%v\n", maxSteps, target, t)
				return states, nil
			}
			xs, jerr := o.jetAt(order, t, x)
			if jerr != nil {
				return states, jerr
			}
			dt := pickDt(xs)
			// land exactly on the grid point instead of overshooting it:
			// if the proposed step would reach or cross the next grid
			// point, clamp it to land on it before stepping.
			if t+dt >= target || math.IsInf(dt, 1) {
				dt = step.Clamp(dt, t, target)
			}
			x = poly.EvalVec(xs, dt)
			t += dt
			steps++
			if o.Verbose {
				io.Pf("tayint: step %d  t=%v  dt=%v\n", steps, t, dt)
			}
		}
		states = append(states, cloneState(x))
	}
	return states, nil
}
