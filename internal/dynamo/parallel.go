package dynamo

import (
	"context"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs dispersed copies of a base simulation concurrently. Each run
// perturbs x0 with zero-mean Gaussian noise of the given spread, seeded by
// seedStart+run so a dispersion study is reproducible.
type Ensemble struct {
	base      *Simulator
	numRuns   int
	seedStart int64
	spread    State

	// Factories build per-run components. Components that keep scratch
	// buffers or controller memory (RK4, MRPFeedback) must not be shared.
	NewSystem     func() System
	NewController func() Controller
	NewIntegrator func() Integrator
	NewMetrics    func(System) []Metric
}

func NewEnsemble(s *Simulator, numRuns int, seedStart int64, spread State) *Ensemble {
	return &Ensemble{base: s, numRuns: numRuns, seedStart: seedStart, spread: spread}
}

// Perturb returns x0 dispersed with the run's seed.
func (e *Ensemble) Perturb(x0 State, run int) State {
	rng := rand.New(rand.NewSource(e.seedStart + int64(run)))
	x := x0.Clone()
	for i := range x {
		if i < len(e.spread) {
			x[i] += rng.NormFloat64() * e.spread[i]
		}
	}
	return x
}

func (e *Ensemble) Run(ctx context.Context, x0 State, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			dyn := e.system()
			s := New(dyn, e.integrator(), e.controller())
			for _, m := range e.metrics(dyn) {
				s.AddMetric(m)
			}

			res, err := s.Run(ctx, e.Perturb(x0, idx), cfgCopy)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Ensemble) system() System {
	if e.NewSystem != nil {
		return e.NewSystem()
	}
	return e.base.dyn
}

func (e *Ensemble) integrator() Integrator {
	if e.NewIntegrator != nil {
		return e.NewIntegrator()
	}
	return e.base.integrator
}

func (e *Ensemble) controller() Controller {
	if e.NewController != nil {
		return e.NewController()
	}
	return e.base.controller
}

func (e *Ensemble) metrics(dyn System) []Metric {
	if e.NewMetrics != nil {
		return e.NewMetrics(dyn)
	}
	return nil
}
