package physics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/attsim/internal/attitude"
)

var (
	ErrNotSymmetric        = errors.New("physics: inertia tensor is not symmetric")
	ErrNotPositiveDefinite = errors.New("physics: inertia tensor is not positive definite")
)

const symmetryTol = 1e-9

// Inertia holds an inertia tensor together with its precomputed inverse.
type Inertia struct {
	J   attitude.Mat3
	Inv attitude.Mat3
}

// NewInertia validates a row-major tensor and inverts it once.
func NewInertia(values [9]float64) (Inertia, error) {
	dense := mat.NewDense(3, 3, values[:])
	if !mat.EqualApprox(dense, dense.T(), symmetryTol) {
		return Inertia{}, fmt.Errorf("%w: %v", ErrNotSymmetric, values)
	}

	sym := mat.NewSymDense(3, []float64{
		values[0], values[1], values[2],
		values[1], values[4], values[5],
		values[2], values[5], values[8],
	})
	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return Inertia{}, fmt.Errorf("%w: %v", ErrNotPositiveDefinite, values)
	}

	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return Inertia{}, fmt.Errorf("invert inertia: %w", err)
	}

	in := Inertia{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			in.J[i][j] = values[i*3+j]
			in.Inv[i][j] = inv.At(i, j)
		}
	}
	return in, nil
}

// DiagInertia builds a principal-axes inertia.
func DiagInertia(i1, i2, i3 float64) (Inertia, error) {
	return NewInertia([9]float64{i1, 0, 0, 0, i2, 0, 0, 0, i3})
}

// MustInertia is NewInertia for tensors known to be valid.
func MustInertia(values [9]float64) Inertia {
	in, err := NewInertia(values)
	if err != nil {
		panic(err)
	}
	return in
}

// Values returns the row-major entries of J.
func (in Inertia) Values() [9]float64 {
	var v [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v[i*3+j] = in.J[i][j]
		}
	}
	return v
}
