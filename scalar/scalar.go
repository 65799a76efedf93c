// Copyright 2026 The Tayser Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalar defines the numeric capability set that the polynomial
// kernel (package poly) is generic over, plus the concrete scalars TAYSER
// ships: Float64, Complex128 and BigFloat. A type participates in a Taylor
// jet by implementing Number[T]; poly.Poly[T] itself satisfies
// Number[Poly[T]] (see poly.go), so polynomials can nest.
package scalar

import (
	"math"
	"math/big"
	"math/cmplx"

	"github.com/cpmech/gosl/chk"
)

// Number is the field-plus-transcendentals contract every coefficient type
// of a poly.Poly[T] must satisfy. It is deliberately a capability set, not
// an inheritance tree: a type only needs the operations its RHS actually
// calls to compile as a jet coordinate.
type Number[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Neg() T
	Scale(k float64) T // multiply by a real scalar (1/k, j/k, safety factors, ...)
	IsZero() bool
	Norm() float64 // real-valued magnitude used for tolerance and step-size checks
	Pow(p float64) (T, error)
	Exp() T
	Log() (T, error)
	Sin() T
	Cos() T
	Sqrt() (T, error)
	Zero() T
	One() T
}

// Float64 is the native double-precision scalar.
type Float64 float64

func (a Float64) Add(b Float64) Float64 { return a + b }
func (a Float64) Sub(b Float64) Float64 { return a - b }
func (a Float64) Mul(b Float64) Float64 { return a * b }
func (a Float64) Div(b Float64) Float64 { return a / b }
func (a Float64) Neg() Float64          { return -a }
func (a Float64) Scale(k float64) Float64 { return Float64(float64(a) * k) }
func (a Float64) IsZero() bool          { return a == 0 }
func (a Float64) Norm() float64         { return math.Abs(float64(a)) }
func (a Float64) Zero() Float64         { return 0 }
func (a Float64) One() Float64          { return 1 }
func (a Float64) Exp() Float64          { return Float64(math.Exp(float64(a))) }
func (a Float64) Sin() Float64          { return Float64(math.Sin(float64(a))) }
func (a Float64) Cos() Float64          { return Float64(math.Cos(float64(a))) }

func (a Float64) Pow(p float64) (Float64, error) {
	if p != math.Trunc(p) {
		if a == 0 {
			return 0, chk.Err("Float64.Pow: zero base with non-integer exponent %v is not defined", p)
		}
		if a < 0 {
			return 0, chk.Err("Float64.Pow: negative base %v with non-integer exponent %v is not defined", float64(a), p)
		}
	}
	return Float64(math.Pow(float64(a), p)), nil
}

func (a Float64) Log() (Float64, error) {
	if a <= 0 {
		return 0, chk.Err("Float64.Log: argument %v is not positive", float64(a))
	}
	return Float64(math.Log(float64(a))), nil
}

func (a Float64) Sqrt() (Float64, error) {
	if a < 0 {
		return 0, chk.Err("Float64.Sqrt: argument %v is negative", float64(a))
	}
	return Float64(math.Sqrt(float64(a))), nil
}

// Complex128 is the native complex scalar, used for problems whose state is
// naturally complex (e.g. the unit-circle oscillator ẋ = i·x).
type Complex128 complex128

func (a Complex128) Add(b Complex128) Complex128 { return a + b }
func (a Complex128) Sub(b Complex128) Complex128 { return a - b }
func (a Complex128) Mul(b Complex128) Complex128 { return a * b }
func (a Complex128) Div(b Complex128) Complex128 { return a / b }
func (a Complex128) Neg() Complex128              { return -a }
func (a Complex128) Scale(k float64) Complex128 {
	return Complex128(complex128(a) * complex(k, 0))
}
func (a Complex128) IsZero() bool  { return a == 0 }
func (a Complex128) Norm() float64 { return cmplx.Abs(complex128(a)) }
func (a Complex128) Zero() Complex128 { return 0 }
func (a Complex128) One() Complex128  { return 1 }
func (a Complex128) Exp() Complex128  { return Complex128(cmplx.Exp(complex128(a))) }
func (a Complex128) Sin() Complex128  { return Complex128(cmplx.Sin(complex128(a))) }
func (a Complex128) Cos() Complex128  { return Complex128(cmplx.Cos(complex128(a))) }

func (a Complex128) Pow(p float64) (Complex128, error) {
	if a == 0 && p != math.Trunc(p) {
		return 0, chk.Err("Complex128.Pow: zero base with non-integer exponent %v is not defined", p)
	}
	return Complex128(cmplx.Pow(complex128(a), complex(p, 0))), nil
}

func (a Complex128) Log() (Complex128, error) {
	if a == 0 {
		return 0, chk.Err("Complex128.Log: argument is zero")
	}
	return Complex128(cmplx.Log(complex128(a))), nil
}

func (a Complex128) Sqrt() (Complex128, error) {
	return Complex128(cmplx.Sqrt(complex128(a))), nil
}

// BigFloat is an arbitrary-precision scalar built on math/big.Float. The
// field operations (Add, Sub, Mul, Div) keep full big.Float precision; the
// transcendentals (Exp, Log, Sin, Cos, Pow, Sqrt except for Sqrt itself,
// which big.Float supports natively) round-trip through float64, since
// math/big does not provide them and no library in the example pack ships
// arbitrary-precision transcendentals either (see DESIGN.md). Callers that
// need a transcendental RHS at full big.Float precision should not pick
// this scalar for that coordinate.
type BigFloat struct{ V *big.Float }

// NewBigFloat wraps a float64 at the given precision (in bits).
func NewBigFloat(v float64, prec uint) BigFloat {
	return BigFloat{V: new(big.Float).SetPrec(prec).SetFloat64(v)}
}

func (a BigFloat) prec() uint {
	if a.V == nil {
		return 53
	}
	return a.V.Prec()
}

func (a BigFloat) Add(b BigFloat) BigFloat {
	return BigFloat{V: new(big.Float).SetPrec(a.prec()).Add(a.V, b.V)}
}
func (a BigFloat) Sub(b BigFloat) BigFloat {
	return BigFloat{V: new(big.Float).SetPrec(a.prec()).Sub(a.V, b.V)}
}
func (a BigFloat) Mul(b BigFloat) BigFloat {
	return BigFloat{V: new(big.Float).SetPrec(a.prec()).Mul(a.V, b.V)}
}
func (a BigFloat) Div(b BigFloat) BigFloat {
	return BigFloat{V: new(big.Float).SetPrec(a.prec()).Quo(a.V, b.V)}
}
func (a BigFloat) Neg() BigFloat {
	return BigFloat{V: new(big.Float).SetPrec(a.prec()).Neg(a.V)}
}
func (a BigFloat) Scale(k float64) BigFloat {
	kk := new(big.Float).SetPrec(a.prec()).SetFloat64(k)
	return BigFloat{V: new(big.Float).SetPrec(a.prec()).Mul(a.V, kk)}
}
func (a BigFloat) IsZero() bool {
	return a.V == nil || a.V.Sign() == 0
}
func (a BigFloat) Norm() float64 {
	f, _ := new(big.Float).Abs(a.V).Float64()
	return f
}
func (a BigFloat) Zero() BigFloat { return NewBigFloat(0, a.prec()) }
func (a BigFloat) One() BigFloat  { return NewBigFloat(1, a.prec()) }

func (a BigFloat) f64() float64 {
	f, _ := a.V.Float64()
	return f
}

func (a BigFloat) Exp() BigFloat { return NewBigFloat(math.Exp(a.f64()), a.prec()) }
func (a BigFloat) Sin() BigFloat { return NewBigFloat(math.Sin(a.f64()), a.prec()) }
func (a BigFloat) Cos() BigFloat { return NewBigFloat(math.Cos(a.f64()), a.prec()) }

func (a BigFloat) Pow(p float64) (BigFloat, error) {
	v := a.f64()
	if p != math.Trunc(p) {
		if v == 0 {
			return BigFloat{}, chk.Err("BigFloat.Pow: zero base with non-integer exponent %v is not defined", p)
		}
		if v < 0 {
			return BigFloat{}, chk.Err("BigFloat.Pow: negative base %v with non-integer exponent %v is not defined", v, p)
		}
	}
	return NewBigFloat(math.Pow(v, p), a.prec()), nil
}

func (a BigFloat) Log() (BigFloat, error) {
	if a.V.Sign() <= 0 {
		return BigFloat{}, chk.Err("BigFloat.Log: argument is not positive")
	}
	return NewBigFloat(math.Log(a.f64()), a.prec()), nil
}

func (a BigFloat) Sqrt() (BigFloat, error) {
	if a.V.Sign() < 0 {
		return BigFloat{}, chk.Err("BigFloat.Sqrt: argument is negative")
	}
	return BigFloat{V: new(big.Float).SetPrec(a.prec()).Sqrt(a.V)}, nil
}
