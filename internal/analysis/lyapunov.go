package analysis

import (
	"math"

	"github.com/san-kum/attsim/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent of torque-free
// rotation from x0, in 1/s. A companion trajectory starts displaced by
// perturbation along rate component idx (3..5) and is pulled back to that
// separation after every step.
//
// Torque-free Euler dynamics do not depend on σ, so the companion shares
// the reference attitude and separation is measured on ω alone. This keeps
// shadow-set switching out of the estimate.
func LyapunovExponent(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	idx int,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) != 6 || idx < 3 || idx >= 6 || perturbation <= 0 || dt <= 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[idx] += perturbation

	ctrl := make(dynamo.Control, dyn.ControlDim())
	normalizer, _ := dyn.(dynamo.Normalizer)

	sumLog := 0.0
	t := 0.0
	steps := 0

	for t < duration {
		x = integ.Step(dyn, x, ctrl, t, dt)
		xp = integ.Step(dyn, xp, ctrl, t, dt)
		t += dt
		steps++

		sep := rateSeparation(x, xp)
		if sep == 0 || math.IsNaN(sep) {
			return 0
		}
		sumLog += math.Log(sep / perturbation)

		if normalizer != nil {
			x = normalizer.Normalize(x)
		}
		scale := perturbation / sep
		for i := 3; i < 6; i++ {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
		copy(xp[:3], x[:3])
	}

	return sumLog / (float64(steps) * dt)
}

func rateSeparation(a, b dynamo.State) float64 {
	return a[3:6].Distance(b[3:6])
}
