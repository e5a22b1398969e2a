package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/attsim/internal/experiment"
)

var ErrNoFeasiblePoint = errors.New("no grid point produced the metric")

// BuildFunc creates a fresh experiment for one grid point.
type BuildFunc func(params map[string]float64) (*experiment.Experiment, error)

// Trial is the outcome of one grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Points enumerates the grid with the last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	points := []map[string]float64{{}}
	for depth, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(points)*len(g.ranges[depth]))
		for _, p := range points {
			for _, val := range g.ranges[depth] {
				np := make(map[string]float64, len(p)+1)
				for k, v := range p {
					np[k] = v
				}
				np[name] = val
				next = append(next, np)
			}
		}
		points = next
	}
	return points
}

// Search evaluates every grid point concurrently and returns the parameters
// minimising metricName. Ties go to the earlier point. Points whose build or
// run fails, or whose metric is missing or NaN, are skipped.
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, metricName string) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("grid has %d names but %d ranges", len(g.paramNames), len(g.ranges))
	}

	points := g.Points()
	trials := make([]Trial, len(points))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, p := range points {
		eg.Go(func() error {
			trials[i] = evaluate(ctx, build, p, metricName)
			return ctx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, trials, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	for _, tr := range trials {
		if tr.Err == nil && tr.Value < best {
			best = tr.Value
			bestParams = tr.Params
		}
	}
	if bestParams == nil {
		return nil, 0, trials, ErrNoFeasiblePoint
	}
	return bestParams, best, trials, nil
}

func evaluate(ctx context.Context, build BuildFunc, params map[string]float64, metricName string) Trial {
	tr := Trial{Params: params, Value: math.NaN()}

	exp, err := build(params)
	if err != nil {
		tr.Err = err
		return tr
	}
	result, err := exp.Run(ctx)
	if err != nil {
		tr.Err = err
		return tr
	}
	val, ok := result.Metrics[metricName]
	if !ok || math.IsNaN(val) {
		tr.Err = fmt.Errorf("metric %q not recorded", metricName)
		return tr
	}
	tr.Value = val
	return tr
}
