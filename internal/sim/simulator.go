package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/physics"
)

// ctxCheckInterval bounds how many steps run between cancellation checks
// when no sample interval is configured.
const ctxCheckInterval = 4096

type Simulator struct {
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run builds a fresh Jovian system, zeroes its momentum, records the
// energy, advances it cfg.Steps times and records the energy again. A
// negative step count performs no advances.
func (s *Simulator) Run(ctx context.Context, cfg dynamo.Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps
	if steps < 0 {
		steps = 0
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	sys := physics.Jovian()
	sys.OffsetMomentumAt(cfg.Reference)

	result := &Result{
		Trace:   make([]dynamo.Sample, 0, traceCapacity(steps, cfg.SampleEvery)),
		Metrics: make(map[string]float64),
	}
	result.EnergyBefore = sys.Energy()
	s.observe(&sys, result, 0, cfg.Dt, result.EnergyBefore)

	check := cfg.SampleEvery
	if check <= 0 {
		check = ctxCheckInterval
	}

	if err := ctx.Err(); err != nil {
		return result, &dynamo.SimulationError{Step: 0, Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)}
	}

	start := time.Now()
	for i := 1; i <= steps; i++ {
		sys.Advance(cfg.Dt)

		if i%check != 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			result.StepsTaken = i
			result.Elapsed = time.Since(start)
			return result, &dynamo.SimulationError{Step: i, Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)}
		}
		if cfg.ValidateState && !sys.IsValid() {
			result.StepsTaken = i
			return result, &dynamo.SimulationError{Step: i, Wrapped: dynamo.ErrInvalidState}
		}
		if cfg.SampleEvery > 0 && i != steps {
			s.observe(&sys, result, i, cfg.Dt, sys.Energy())
		}
	}
	result.Elapsed = time.Since(start)
	result.StepsTaken = steps
	if cfg.ValidateState && !sys.IsValid() {
		return result, &dynamo.SimulationError{Step: steps, Wrapped: dynamo.ErrInvalidState}
	}

	result.EnergyAfter = sys.Energy()
	s.observe(&sys, result, steps, cfg.Dt, result.EnergyAfter)
	result.Final = sys

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg dynamo.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Reference >= physics.NumBodies {
		return fmt.Errorf("%w: reference body index %d out of range", dynamo.ErrInvalidConfig, cfg.Reference)
	}
	return nil
}

func (s *Simulator) observe(sys *physics.System, result *Result, step int, dt, energy float64) {
	sample := dynamo.Sample{
		Step:      step,
		Time:      float64(step) * dt,
		Energy:    energy,
		Positions: sys.Positions(),
	}
	result.Trace = append(result.Trace, sample)

	for _, m := range s.metrics {
		m.Observe(sys, sample)
	}
	for _, obs := range s.observers {
		obs.OnSample(sample)
	}
}

func traceCapacity(steps, every int) int {
	if every <= 0 {
		return 2
	}
	return steps/every + 2
}
