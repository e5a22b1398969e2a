package metrics

import (
	"math"

	"github.com/san-kum/attsim/internal/attitude"
	"github.com/san-kum/attsim/internal/dynamo"
	"github.com/san-kum/attsim/internal/physics"
)

func pointingDeg(x dynamo.State, sigmaRef attitude.Vec3) float64 {
	sigmaBR := attitude.Short(attitude.Relative(physics.ToAttitude(x).Sigma(), sigmaRef))
	return attitude.PrincipalAngle(sigmaBR) * 180 / math.Pi
}

// PointingError reports the principal angle, in degrees, between the body
// and the reference attitude at the last observed sample.
type PointingError struct {
	sigmaRef attitude.Vec3
	last     float64
}

func NewPointingError(sigmaRef attitude.Vec3) *PointingError {
	return &PointingError{sigmaRef: sigmaRef}
}

func (p *PointingError) Name() string { return "pointing_error_deg" }

func (p *PointingError) Observe(x dynamo.State, u dynamo.Control, t float64) {
	p.last = pointingDeg(x, p.sigmaRef)
}

func (p *PointingError) Value() float64 { return p.last }

func (p *PointingError) Reset() { p.last = 0 }

// SettlingTime is the earliest time after which the pointing error stayed
// within the threshold, or -1 if it never settled.
type SettlingTime struct {
	sigmaRef  attitude.Vec3
	threshold float64
	since     float64
	inside    bool
}

func NewSettlingTime(sigmaRef attitude.Vec3, thresholdDeg float64) *SettlingTime {
	return &SettlingTime{sigmaRef: sigmaRef, threshold: thresholdDeg}
}

func (s *SettlingTime) Name() string { return "settling_time" }

func (s *SettlingTime) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if pointingDeg(x, s.sigmaRef) > s.threshold {
		s.inside = false
		return
	}
	if !s.inside {
		s.inside = true
		s.since = t
	}
}

func (s *SettlingTime) Value() float64 {
	if !s.inside {
		return -1
	}
	return s.since
}

func (s *SettlingTime) Reset() {
	s.inside = false
	s.since = 0
}
