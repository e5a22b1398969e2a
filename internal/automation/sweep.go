package automation

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/attsim/internal/config"
)

// Sweep varies one parameter of Base linearly over [Min, Max].
type Sweep struct {
	Base   Step
	Param  string
	Min    float64
	Max    float64
	Points int
	Metric string
}

// SweepPoint is the outcome at one parameter value. Value is NaN when the
// run did not record Metric.
type SweepPoint struct {
	Param    float64
	Value    float64
	Switches int
	Final    []float64
}

// Values returns the parameter values visited by s.
func (s *Sweep) Values() []float64 {
	if s.Points == 1 {
		return []float64{s.Min}
	}
	vals := make([]float64, s.Points)
	step := (s.Max - s.Min) / float64(s.Points-1)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	return vals
}

func (r *Runner) Sweep(ctx context.Context, s *Sweep) ([]SweepPoint, error) {
	if s.Points < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one point", config.ErrInvalid)
	}

	points := make([]SweepPoint, 0, s.Points)
	for i, v := range s.Values() {
		step := s.Base
		step.Params = make(map[string]float64, len(s.Base.Params)+1)
		for k, pv := range s.Base.Params {
			step.Params[k] = pv
		}
		step.Params[s.Param] = v

		exp, err := step.Build(r.Registry)
		if err != nil {
			return points, fmt.Errorf("sweep %s=%g: %w", s.Param, v, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return points, fmt.Errorf("sweep %s=%g: %w", s.Param, v, err)
		}

		value, ok := result.Metrics[s.Metric]
		if !ok {
			value = math.NaN()
		}
		points = append(points, SweepPoint{
			Param:    v,
			Value:    value,
			Switches: result.Switches,
			Final:    result.Final(),
		})
		r.Log.Debug(ctx, "sweep point", "index", i+1, "param", s.Param, "value", v, s.Metric, value)
	}
	return points, nil
}
