package control

import "github.com/san-kum/attsim/internal/dynamo"

// LQR applies u = −K(x − Target). Gains are computed offline; state entries
// beyond len(Target) are regulated to zero.
type LQR struct {
	K      [][]float64
	Target dynamo.State
}

func NewLQR(k [][]float64, target dynamo.State) *LQR {
	return &LQR{K: k, Target: target}
}

func (l *LQR) Compute(x dynamo.State, t float64) dynamo.Control {
	u := make(dynamo.Control, len(l.K))
	for i := range u {
		for j := range x {
			target := 0.0
			if j < len(l.Target) {
				target = l.Target[j]
			}
			if j < len(l.K[i]) {
				u[i] -= l.K[i][j] * (x[j] - target)
			}
		}
	}
	return u
}

// NewAttitudeLQR regulates the body to rest at the inertial frame with the
// gain matrix [kI₃ pI₃] of the model linearised about σ = 0, ω = 0.
// Unlike MRPFeedback it does not switch to the short rotation.
func NewAttitudeLQR(k, p float64) *LQR {
	gains := make([][]float64, 3)
	for i := range gains {
		gains[i] = make([]float64, 6)
		gains[i][i] = k
		gains[i][i+3] = p
	}
	return NewLQR(gains, make(dynamo.State, 6))
}
