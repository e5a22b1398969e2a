package control

import "github.com/san-kum/attsim/internal/dynamo"

// None commands zero torque, leaving the body to its free motion.
type None struct {
	dim int
}

func NewNone(dim int) *None {
	return &None{
		dim: dim,
	}
}

func (n *None) Compute(x dynamo.State, t float64) dynamo.Control {
	return make(dynamo.Control, n.dim)
}
