package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the one-sided magnitude spectrum of data. The mean
// is removed first so bin 0 only carries numerical residue.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	centered := append([]float64(nil), data...)
	floats.AddConst(-stat.Mean(data, nil), centered)

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-zero frequency, in Hz, of data
// sampled every dt seconds.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) / (float64(len(data)) * dt)
}

// NutationPeriod converts DominantFrequency into a period in seconds, or
// +Inf when no oscillation is present.
func NutationPeriod(data []float64, dt float64) float64 {
	f := DominantFrequency(data, dt)
	if f == 0 {
		return math.Inf(1)
	}
	return 1 / f
}
