package metrics

import (
	"math"

	"github.com/san-kum/nbody/internal/dynamo"
)

// EnergyDrift tracks the largest relative departure from the first
// observed energy.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(_ dynamo.Conserving, s dynamo.Sample) {
	if e.samples == 0 {
		e.initialEnergy = s.Energy
	}

	e.currentEnergy = s.Energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(s.Energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumResidual is the largest net momentum norm seen at any sample.
type MomentumResidual struct {
	name string
	max  float64
}

func NewMomentumResidual() *MomentumResidual {
	return &MomentumResidual{name: "momentum_residual"}
}

func (m *MomentumResidual) Name() string { return m.name }

func (m *MomentumResidual) Observe(sys dynamo.Conserving, _ dynamo.Sample) {
	m.max = math.Max(m.max, sys.Momentum().Norm())
}

func (m *MomentumResidual) Value() float64 { return m.max }

func (m *MomentumResidual) Reset() { m.max = 0 }

// Defaults is the metric set attached to CLI runs.
func Defaults() []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(),
		NewMomentumResidual(),
		NewStability(50.0),
	}
}
