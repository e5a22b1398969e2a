package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/attsim/internal/dynamo"
)

// ErrIrregularTimes is returned for sample times that are too few or not
// strictly increasing.
var ErrIrregularTimes = errors.New("analysis: sample times must be strictly increasing")

// UniformSeries returns component idx of states linearly interpolated onto a
// grid of spacing dt starting at times[0]. Variable-step runs must go
// through this before any spectral analysis.
func UniformSeries(times []float64, states []dynamo.State, idx int, dt float64) ([]float64, error) {
	if len(times) != len(states) || len(times) < 2 {
		return nil, fmt.Errorf("%w: %d times for %d states", ErrIrregularTimes, len(times), len(states))
	}
	if !(dt > 0) || math.IsInf(dt, 1) {
		return nil, fmt.Errorf("%w: spacing %g", ErrIrregularTimes, dt)
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return nil, fmt.Errorf("%w: t[%d]=%g after %g", ErrIrregularTimes, i, times[i], times[i-1])
		}
	}

	ys := make([]float64, len(states))
	for i, x := range states {
		ys[i] = x[idx]
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(times, ys); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIrregularTimes, err)
	}

	span := times[len(times)-1] - times[0]
	n := int(math.Floor(span/dt+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = pl.Predict(times[0] + float64(i)*dt)
	}
	return out, nil
}

// MeanSpacing is the average interval between consecutive sample times.
func MeanSpacing(times []float64) float64 {
	if len(times) < 2 {
		return 0
	}
	return (times[len(times)-1] - times[0]) / float64(len(times)-1)
}
