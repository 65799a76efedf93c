// Copyright 2026 The Tayser Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package variational

import (
	"github.com/cpmech/gosl/chk"

	"github.com/gotaylor/tayser/scalar"
)

// matAlloc mirrors gosl/la.MatAlloc's "rows x cols dense buffer" shape,
// generalised to any scalar.Number[T] since la.MatAlloc itself is
// float64-only (see DESIGN.md).
func matAlloc[T scalar.Number[T]](rows, cols int, zero T) [][]T {
	m := make([][]T, rows)
	for i := range m {
		row := make([]T, cols)
		for j := range row {
			row[j] = zero
		}
		m[i] = row
	}
	return m
}

func getCol[T scalar.Number[T]](m [][]T, j int) []T {
	v := make([]T, len(m))
	for i := range m {
		v[i] = m[i][j]
	}
	return v
}

func setCol[T scalar.Number[T]](m [][]T, j int, v []T) {
	for i := range m {
		m[i][j] = v[i]
	}
}

func dot[T scalar.Number[T]](a, b []T) T {
	s := a[0].Zero()
	for i := range a {
		s = s.Add(a[i].Mul(b[i]))
	}
	return s
}

func colNorm[T scalar.Number[T]](v []T) (T, error) {
	return dot(v, v).Sqrt()
}

func subScaled[T scalar.Number[T]](v, q []T, r T) []T {
	out := make([]T, len(v))
	for i := range v {
		out[i] = v[i].Sub(q[i].Mul(r))
	}
	return out
}

func scaleVec[T scalar.Number[T]](v []T, inv T) []T {
	out := make([]T, len(v))
	for i := range v {
		out[i] = v[i].Div(inv)
	}
	return out
}

// GSMethod selects which Gram-Schmidt variant reorthonormalizes Φ.
type GSMethod int

const (
	// Modified is the numerically stable variant, and the default choice.
	Modified GSMethod = iota
	// Classical is kept because the repository's own tests exercise both.
	Classical
)

// QR factors the rows x cols matrix A (rows >= cols) into Q (orthonormal
// columns) and R (cols x cols, upper triangular), using whichever
// Gram-Schmidt variant method selects. A zero-norm column (a genuinely
// rank-deficient Φ) leaves that Q column as the zero vector and that R
// diagonal entry as zero; the caller (Lyapunov) skips the corresponding
// log|R_ii| contribution for that step rather than taking log(0).
func QR[T scalar.Number[T]](A [][]T, method GSMethod) (Q, R [][]T, err error) {
	rows := len(A)
	if rows == 0 {
		chk.Panic("variational: QR called on an empty matrix")
	}
	cols := len(A[0])
	if cols == 0 {
		chk.Panic("variational: QR called on a matrix with zero columns")
	}
	if method == Classical {
		return classicalGS(A, rows, cols)
	}
	return modifiedGS(A, rows, cols)
}

func modifiedGS[T scalar.Number[T]](A [][]T, rows, cols int) (Q, R [][]T, err error) {
	zero := A[0][0].Zero()
	Q = matAlloc(rows, cols, zero)
	R = matAlloc(cols, cols, zero)
	for j := 0; j < cols; j++ {
		v := getCol(A, j)
		for i := 0; i < j; i++ {
			qi := getCol(Q, i)
			R[i][j] = dot(qi, v)
			v = subScaled(v, qi, R[i][j])
		}
		nrm, e := colNorm(v)
		if e != nil {
			return nil, nil, e
		}
		R[j][j] = nrm
		if nrm.IsZero() {
			setCol(Q, j, v)
			continue
		}
		setCol(Q, j, scaleVec(v, nrm))
	}
	return Q, R, nil
}

func classicalGS[T scalar.Number[T]](A [][]T, rows, cols int) (Q, R [][]T, err error) {
	zero := A[0][0].Zero()
	Q = matAlloc(rows, cols, zero)
	R = matAlloc(cols, cols, zero)
	for j := 0; j < cols; j++ {
		v := getCol(A, j)
		rcol := make([]T, j)
		for i := 0; i < j; i++ {
			rcol[i] = dot(getCol(Q, i), getCol(A, j))
		}
		for i := 0; i < j; i++ {
			v = subScaled(v, getCol(Q, i), rcol[i])
			R[i][j] = rcol[i]
		}
		nrm, e := colNorm(v)
		if e != nil {
			return nil, nil, e
		}
		R[j][j] = nrm
		if nrm.IsZero() {
			setCol(Q, j, v)
			continue
		}
		setCol(Q, j, scaleVec(v, nrm))
	}
	return Q, R, nil
}
