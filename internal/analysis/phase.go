package analysis

import "github.com/san-kum/attsim/internal/dynamo"

// PhasePortrait2D holds the projection of a trajectory onto two state
// components.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []struct{ X, Y float64 }
}

// GeneratePhasePortrait projects recorded states onto components xIdx, yIdx.
func GeneratePhasePortrait(states []dynamo.State, xIdx, yIdx int) *PhasePortrait2D {
	if len(states) == 0 || xIdx >= len(states[0]) || yIdx >= len(states[0]) {
		return nil
	}

	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]struct{ X, Y float64 }, 0, len(states)),
	}
	for _, x := range states {
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{X: x[xIdx], Y: x[yIdx]})
	}
	return portrait
}

// Polhode projects the body rate onto axes i and j (0-based). Torque-free
// motion traces a closed curve.
func Polhode(states []dynamo.State, i, j int) *PhasePortrait2D {
	return GeneratePhasePortrait(states, 3+i, 3+j)
}
