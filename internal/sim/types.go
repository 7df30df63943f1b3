package sim

import (
	"math"
	"time"

	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/physics"
)

type Result struct {
	EnergyBefore float64
	EnergyAfter  float64
	StepsTaken   int
	Trace        []dynamo.Sample
	Metrics      map[string]float64
	Elapsed      time.Duration
	Final        physics.System
}

// Drift is the relative change between the two energy observations.
func (r *Result) Drift() float64 {
	if r.EnergyBefore == 0 {
		return 0
	}
	return math.Abs(r.EnergyAfter-r.EnergyBefore) / math.Abs(r.EnergyBefore)
}

func (r *Result) StepsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.StepsTaken) / r.Elapsed.Seconds()
}
