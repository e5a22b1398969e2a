package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/attsim/internal/dynamo"
)

// Summary describes the spread of one metric across an ensemble.
type Summary struct {
	Name string
	Runs int
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Summarize collects the named metric from every result that recorded it.
// Std is NaN for fewer than two runs.
func Summarize(results []*dynamo.Result, name string) Summary {
	values := make([]float64, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		if v, ok := r.Metrics[name]; ok {
			values = append(values, v)
		}
	}

	s := Summary{Name: name, Runs: len(values)}
	if len(values) == 0 {
		s.Mean, s.Std = math.NaN(), math.NaN()
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(values, nil)
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	return s
}
