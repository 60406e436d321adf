// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/neffective/matrix"
)

func TestDot_TailAndUnrolledBody(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 9; n++ {
		a := make([]float64, n)
		b := make([]float64, n)
		var want float64
		for k := 0; k < n; k++ {
			a[k] = float64(k + 1)
			b[k] = float64(2*k - 3)
			want += a[k] * b[k]
		}
		assert.Equal(t, want, matrix.Dot(a, b), "n=%d", n)
	}
}

func TestDot_UsesCommonPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 14.0, matrix.Dot([]float64{1, 2, 3}, []float64{1, 2, 3, 100}))
}

func TestRowDot(t *testing.T) {
	t.Parallel()

	Z := NewFilledDense(t, 3, 2, []float64{1, 2, 3, 4, -1, 0.5})
	v, err := matrix.RowDot(Z, 1, 0)
	if err != nil {
		t.Fatalf("RowDot(1,0): %v", err)
	}
	assert.Equal(t, 11.0, v)
	v, err = matrix.RowDot(Z, 2, 2)
	if err != nil {
		t.Fatalf("RowDot(2,2): %v", err)
	}
	assert.Equal(t, 1.25, v)

	_, err = matrix.RowDot(Z, 3, 0)
	AssertErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = matrix.RowDot(Z, 0, -1)
	AssertErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = matrix.RowDot(nil, 0, 0)
	AssertErrorIs(t, err, matrix.ErrNilMatrix)
}
