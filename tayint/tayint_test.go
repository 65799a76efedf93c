// Copyright 2026 The Tayser Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tayint

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/gotaylor/tayser/jet"
	"github.com/gotaylor/tayser/poly"
	"github.com/gotaylor/tayser/scalar"
)

// scenario 1: ẋ = 3 - x^2, x(0) = 1; solution tends to sqrt(3).
func TestScenarioQuadraticScalar(tst *testing.T) {
	chk.PrintTitle("scenario 1: quadratic scalar x' = 3 - x^2")
	rhs := jet.WrapScalar(func(t float64, x poly.Poly[scalar.Float64]) (poly.Poly[scalar.Float64], error) {
		three := poly.Const(x.Order(), scalar.Float64(3.0))
		return poly.Sub(three, poly.Mul(x, x)), nil
	})
	integ := New[scalar.Float64](rhs)
	times, states, err := integ.Integrate([]scalar.Float64{1.0}, 0, 1000, 20, 1e-20, 100000)
	if err != nil {
		tst.Fatalf("Integrate failed: %v", err)
	}
	xFinal := float64(states[len(states)-1][0])
	chk.Scalar(tst, "x_final vs sqrt(3)", 1e-12, xFinal, math.Sqrt(3))
	checkMonotonic(tst, times)
	chk.Scalar(tst, "last time == tmax", 1e-12, times[len(times)-1], 1000)
}

// scenario 2: ẋ = -9.81, x(1) = 10; exact x(t) = 10 - 9.81(t-1).
func TestScenarioConstantDrift(tst *testing.T) {
	chk.PrintTitle("scenario 2: constant drift x' = -9.81")
	rhs := jet.WrapScalar(func(t float64, x poly.Poly[scalar.Float64]) (poly.Poly[scalar.Float64], error) {
		return poly.Const(x.Order(), scalar.Float64(-9.81)), nil
	})
	integ := New[scalar.Float64](rhs)
	times, states, err := integ.Integrate([]scalar.Float64{10.0}, 1, 1000, 20, 1e-20, 100000)
	if err != nil {
		tst.Fatalf("Integrate failed: %v", err)
	}
	for i, t := range times {
		want := 10 - 9.81*(t-1)
		chk.Scalar(tst, "x(t) vs exact drift", 1e-12, float64(states[i][0]), want)
	}
	checkMonotonic(tst, times)
}

// scenario 3: simple pendulum, energy E = v^2/2 - cos(x) must be conserved.
func TestScenarioPendulumEnergyConservation(tst *testing.T) {
	chk.PrintTitle("scenario 3: simple pendulum energy conservation")
	rhs := jet.WrapFunc(func(t float64, x []poly.Poly[scalar.Float64]) ([]poly.Poly[scalar.Float64], error) {
		xdot := x[1].Clone()
		vdot := poly.Scale(x[0].Sin(), -1.0)
		return []poly.Poly[scalar.Float64]{xdot, vdot}, nil
	})
	integ := New[scalar.Float64](rhs)
	x0 := []scalar.Float64{scalar.Float64(math.Pi - 1e-3), 0}
	times, states, err := integ.Integrate(x0, 0, 100, 20, 1e-20, 1000000)
	if err != nil {
		tst.Fatalf("Integrate failed: %v", err)
	}
	e0 := float64(x0[1])*float64(x0[1])/2 - math.Cos(float64(x0[0]))
	maxDrift := 0.0
	for _, s := range states {
		x, v := float64(s[0]), float64(s[1])
		e := v*v/2 - math.Cos(x)
		if d := math.Abs(e - e0); d > maxDrift {
			maxDrift = d
		}
	}
	if maxDrift > 1e-10 {
		tst.Fatalf("energy drift %v exceeds tolerance", maxDrift)
	}
	checkMonotonic(tst, times)
}

// scenario 4: complex oscillator x' = i*x, x(0) = 1; exact x(t) = e^{it}.
func TestScenarioComplexOscillator(tst *testing.T) {
	chk.PrintTitle("scenario 4: complex oscillator x' = i*x")
	rhs := jet.WrapScalar(func(t float64, x poly.Poly[scalar.Complex128]) (poly.Poly[scalar.Complex128], error) {
		i := scalar.Complex128(complex(0, 1))
		return poly.Mul(x, poly.Const(x.Order(), i)), nil
	})
	integ := New[scalar.Complex128](rhs)
	times, states, err := integ.Integrate([]scalar.Complex128{1}, 0, 1000, 20, 1e-20, 1000000)
	if err != nil {
		tst.Fatalf("Integrate failed: %v", err)
	}
	maxErr := 0.0
	for i, t := range times {
		exact := cmplx.Exp(complex(0, t))
		got := complex128(states[i][0])
		if d := cmplx.Abs(got - exact); d > maxErr {
			maxErr = d
		}
	}
	if maxErr > 1e-12 {
		tst.Fatalf("||x_k - e^{it_k}||_inf = %v exceeds tolerance", maxErr)
	}
	checkMonotonic(tst, times)
}

// Equivalence of RHS forms: functional and in-place must give bit-identical
// trajectories on the same problem.
func TestFunctionalAndInPlaceRHSAgree(tst *testing.T) {
	chk.PrintTitle("functional vs in-place RHS forms: bit-identical trajectories")
	funcRHS := jet.WrapFunc(func(t float64, x []poly.Poly[scalar.Float64]) ([]poly.Poly[scalar.Float64], error) {
		return []poly.Poly[scalar.Float64]{x[1].Clone(), poly.Scale(x[0], -1.0)}, nil
	})
	inplaceRHS := jet.WrapInPlace(func(t float64, x, xdot []poly.Poly[scalar.Float64]) error {
		xdot[0] = x[1].Clone()
		xdot[1] = poly.Scale(x[0], -1.0)
		return nil
	})
	x0 := []scalar.Float64{1.0, 0.0}
	ta, sa, erra := New[scalar.Float64](funcRHS).Integrate(append([]scalar.Float64{}, x0...), 0, 20, 12, 1e-15, 10000)
	tb, sb, errb := New[scalar.Float64](inplaceRHS).Integrate(append([]scalar.Float64{}, x0...), 0, 20, 12, 1e-15, 10000)
	if erra != nil || errb != nil {
		tst.Fatalf("Integrate failed: %v / %v", erra, errb)
	}
	if len(ta) != len(tb) {
		tst.Fatalf("trajectory lengths differ: %d vs %d", len(ta), len(tb))
	}
	for i := range ta {
		if ta[i] != tb[i] {
			tst.Fatalf("time[%d] differs: %v vs %v", i, ta[i], tb[i])
		}
		for c := range sa[i] {
			if sa[i][c] != sb[i][c] {
				tst.Fatalf("state[%d][%d] differs: %v vs %v", i, c, sa[i][c], sb[i][c])
			}
		}
	}
}

// Kepler 2D (scenario 5): conserved energy and angular momentum.
func TestScenarioKeplerConservation(tst *testing.T) {
	chk.PrintTitle("scenario 5: Kepler 2D energy and angular momentum conservation")
	rhs, err := KeplerRHS(defaultPrms("mu", 1.0))
	if err != nil {
		tst.Fatalf("KeplerRHS failed: %v", err)
	}
	integ := New[scalar.Float64](rhs)
	x0 := []scalar.Float64{0.2, 0, 0, 3}
	times, states, ierr := integ.Integrate(x0, 0, 2000*math.Pi, 28, 1e-20, 4000000)
	if ierr != nil {
		tst.Fatalf("Integrate failed: %v", ierr)
	}
	energy := func(s []scalar.Float64) float64 {
		qx, qy, vx, vy := float64(s[0]), float64(s[1]), float64(s[2]), float64(s[3])
		r := math.Hypot(qx, qy)
		return 0.5*(vx*vx+vy*vy) - 1.0/r
	}
	angmom := func(s []scalar.Float64) float64 {
		qx, qy, vx, vy := float64(s[0]), float64(s[1]), float64(s[2]), float64(s[3])
		return qx*vy - qy*vx
	}
	e0, l0 := energy(x0), angmom(x0)
	maxEdrift, maxLdrift := 0.0, 0.0
	for _, s := range states {
		if d := math.Abs(energy(s) - e0); d > maxEdrift {
			maxEdrift = d
		}
		if d := math.Abs(angmom(s) - l0); d > maxLdrift {
			maxLdrift = d
		}
	}
	if maxEdrift > 1e-10 {
		tst.Fatalf("energy drift %v exceeds 1e-10", maxEdrift)
	}
	if maxLdrift > 1e-10 {
		tst.Fatalf("angular momentum drift %v exceeds 1e-10", maxLdrift)
	}
	checkMonotonic(tst, times)
}

func checkMonotonic(tst *testing.T, times []float64) {
	tst.Helper()
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			tst.Fatalf("times not strictly increasing at index %d: %v <= %v", i, times[i], times[i-1])
		}
	}
}

func TestIntegrateGridLandsExactlyOnGridPoints(tst *testing.T) {
	chk.PrintTitle("IntegrateGrid lands exactly on every grid point")
	rhs := jet.WrapScalar(func(t float64, x poly.Poly[scalar.Float64]) (poly.Poly[scalar.Float64], error) {
		return x, nil
	})
	integ := New[scalar.Float64](rhs)
	grid := []float64{0, 0.5, 1.0, 1.7, 2.0}
	states, err := integ.IntegrateGrid([]scalar.Float64{1.0}, grid, 12, 1e-16, 100000)
	if err != nil {
		tst.Fatalf("IntegrateGrid failed: %v", err)
	}
	if len(states) != len(grid) {
		tst.Fatalf("expected %d states, got %d", len(grid), len(states))
	}
	for i, t := range grid {
		chk.Scalar(tst, "grid point exact solution", 1e-9, float64(states[i][0]), math.Exp(t))
	}
}

func TestInvalidInputsRejected(tst *testing.T) {
	chk.PrintTitle("invalid inputs are rejected immediately")
	rhs := jet.WrapScalar(func(t float64, x poly.Poly[scalar.Float64]) (poly.Poly[scalar.Float64], error) {
		return x, nil
	})
	integ := New[scalar.Float64](rhs)
	if _, _, err := integ.Integrate([]scalar.Float64{1.0}, 0, 1, 0, 1e-10, 100); err == nil {
		tst.Fatalf("expected error for order < 1")
	}
	if _, _, err := integ.Integrate([]scalar.Float64{1.0}, 0, 1, 5, -1, 100); err == nil {
		tst.Fatalf("expected error for non-positive tolerance")
	}
	if _, _, err := integ.Integrate([]scalar.Float64{1.0}, 5, 1, 5, 1e-10, 100); err == nil {
		tst.Fatalf("expected error for tmax < t0")
	}
	if _, err := integ.IntegrateGrid([]scalar.Float64{1.0}, []float64{1, 0.5}, 5, 1e-10, 100); err == nil {
		tst.Fatalf("expected error for non-ascending grid")
	}
}

func TestStepCapReturnsPartialTrajectoryNoError(tst *testing.T) {
	chk.PrintTitle("hitting maxSteps returns a partial trajectory, no error")
	// x' = 1 + x has non-zero tail coefficients at every order, so each
	// step stays short; a polynomial solution would finish in one step.
	rhs := jet.WrapScalar(func(t float64, x poly.Poly[scalar.Float64]) (poly.Poly[scalar.Float64], error) {
		return poly.Add(poly.Const(x.Order(), scalar.Float64(1.0)), x), nil
	})
	integ := New[scalar.Float64](rhs)
	times, _, err := integ.Integrate([]scalar.Float64{0.0}, 0, 1e9, 4, 1e-20, 5)
	if err != nil {
		tst.Fatalf("step cap should not surface as an error: %v", err)
	}
	if len(times) != 6 { // t0 plus 5 accepted steps
		tst.Fatalf("expected 6 recorded times, got %d", len(times))
	}
	if times[len(times)-1] >= 1e9 {
		tst.Fatalf("step cap should have stopped well short of tmax")
	}
}
