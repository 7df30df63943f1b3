package dynamo

import (
	"fmt"
	"math"
)

type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v[0] * f, v[1] * f, v[2] * f}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (v Vec3) IsValid() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

type Hamiltonian interface {
	Energy() float64
}

// Conserving is a system whose energy and momentum should stay (nearly)
// constant under integration. Momentum is expressed in solar-mass units.
type Conserving interface {
	Hamiltonian
	Momentum() Vec3
}

// Sample is one point of the energy trace. Positions are indexed like the
// body system.
type Sample struct {
	Step      int
	Time      float64
	Energy    float64
	Positions []Vec3
}

type Metric interface {
	Name() string
	Observe(sys Conserving, s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s Sample)
}

// StepSize is the fixed per-step time increment in years.
const StepSize = 0.01

// Config holds the parameters of one run. Dt exists so tests can drive the
// integrator to extreme states; the reference energies are only reproduced
// with StepSize, and every CLI path sets it.
type Config struct {
	Steps         int
	Dt            float64
	SampleEvery   int
	Reference     int
	ValidateState bool
}

// DefaultConfig uses the fixed StepSize.
func DefaultConfig() Config {
	return Config{
		Steps:         1000,
		Dt:            StepSize,
		SampleEvery:   0,
		Reference:     0,
		ValidateState: false,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive and finite, got %v", ErrInvalidConfig, c.Dt)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, c.SampleEvery)
	}
	if c.Reference < 0 {
		return fmt.Errorf("%w: reference body index must not be negative, got %d", ErrInvalidConfig, c.Reference)
	}
	return nil
}
