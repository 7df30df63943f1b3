package metrics

import (
	"github.com/san-kum/nbody/internal/dynamo"
)

// Stability is the fraction of samples in which every body stays within
// radius AU of the origin.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(_ dynamo.Conserving, sample dynamo.Sample) {
	s.samples++
	for _, p := range sample.Positions {
		if p.Norm() > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
