package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/physics"
)

type countingMetric struct {
	samples int
}

func (c *countingMetric) Name() string { return "count" }

func (c *countingMetric) Observe(_ dynamo.Conserving, _ dynamo.Sample) {
	c.samples++
}

func (c *countingMetric) Value() float64 { return float64(c.samples) }

func (c *countingMetric) Reset() { c.samples = 0 }

type recordingObserver struct {
	steps []int
}

func (r *recordingObserver) OnSample(s dynamo.Sample) { r.steps = append(r.steps, s.Step) }

func TestDefaultConfigUsesFixedStep(t *testing.T) {
	if got := dynamo.DefaultConfig().Dt; got != physics.Dt {
		t.Errorf("default dt = %v, want %v", got, physics.Dt)
	}
}

func TestSimulatorRun(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.Steps = 1000

	result, err := New().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 1000 {
		t.Errorf("expected 1000 steps, got %d", result.StepsTaken)
	}
	if len(result.Trace) != 2 {
		t.Errorf("expected endpoint-only trace, got %d samples", len(result.Trace))
	}
	if result.Trace[0].Energy != result.EnergyBefore || result.Trace[1].Energy != result.EnergyAfter {
		t.Error("trace endpoints do not match reported energies")
	}
	if d := result.Drift(); d <= 0 || d > 1e-3 {
		t.Errorf("unexpected relative drift %.3e", d)
	}
}

func TestSimulatorRun_ZeroSteps(t *testing.T) {
	for _, steps := range []int{0, -5} {
		cfg := dynamo.DefaultConfig()
		cfg.Steps = steps

		result, err := New().Run(context.Background(), cfg)
		if err != nil {
			t.Fatalf("steps=%d: run failed: %v", steps, err)
		}
		if result.EnergyBefore != result.EnergyAfter {
			t.Errorf("steps=%d: energies differ: %v vs %v", steps, result.EnergyBefore, result.EnergyAfter)
		}
		if result.StepsTaken != 0 {
			t.Errorf("steps=%d: expected 0 steps taken, got %d", steps, result.StepsTaken)
		}
	}
}

func TestSimulatorRun_Sampling(t *testing.T) {
	tests := []struct {
		name  string
		steps int
		every int
		want  []int
	}{
		{"exact multiple", 100, 25, []int{0, 25, 50, 75, 100}},
		{"remainder", 110, 25, []int{0, 25, 50, 75, 100, 110}},
		{"interval larger than run", 10, 25, []int{0, 10}},
		{"disabled", 100, 0, []int{0, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := dynamo.DefaultConfig()
			cfg.Steps = tt.steps
			cfg.SampleEvery = tt.every

			metric := &countingMetric{}
			obs := &recordingObserver{}
			s := New()
			s.AddMetric(metric)
			s.AddObserver(obs)

			result, err := s.Run(context.Background(), cfg)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}

			if len(obs.steps) != len(tt.want) {
				t.Fatalf("observed steps %v, want %v", obs.steps, tt.want)
			}
			for i := range tt.want {
				if obs.steps[i] != tt.want[i] {
					t.Errorf("observed steps %v, want %v", obs.steps, tt.want)
					break
				}
			}
			if got := result.Metrics["count"]; got != float64(len(tt.want)) {
				t.Errorf("metric saw %v samples, want %d", got, len(tt.want))
			}
			last := result.Trace[len(result.Trace)-1]
			if last.Time != float64(tt.steps)*cfg.Dt {
				t.Errorf("last sample time = %v, want %v", last.Time, float64(tt.steps)*cfg.Dt)
			}
		})
	}
}

func TestSimulatorRun_MetricsResetBetweenRuns(t *testing.T) {
	metric := &countingMetric{}
	s := New()
	s.AddMetric(metric)

	cfg := dynamo.DefaultConfig()
	cfg.Steps = 10
	for i := 0; i < 2; i++ {
		result, err := s.Run(context.Background(), cfg)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if result.Metrics["count"] != 2 {
			t.Errorf("run %d: metric saw %v samples, want 2", i, result.Metrics["count"])
		}
	}
}

func TestSimulatorRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := dynamo.DefaultConfig()
	cfg.Steps = 10_000

	_, err := New().Run(ctx, cfg)
	if !errors.Is(err, dynamo.ErrContextCanceled) {
		t.Fatalf("expected ErrContextCanceled, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected SimulationError, got %T", err)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dynamo.Config)
	}{
		{"zero dt", func(c *dynamo.Config) { c.Dt = 0 }},
		{"negative dt", func(c *dynamo.Config) { c.Dt = -0.01 }},
		{"negative sample interval", func(c *dynamo.Config) { c.SampleEvery = -1 }},
		{"reference out of range", func(c *dynamo.Config) { c.Reference = physics.NumBodies }},
		{"negative reference", func(c *dynamo.Config) { c.Reference = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := dynamo.DefaultConfig()
			tt.mutate(&cfg)
			_, err := New().Run(context.Background(), cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorRun_Deterministic(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.Steps = 2000

	a, err := New().Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New().Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if a.EnergyAfter != b.EnergyAfter || a.Final != b.Final {
		t.Error("identical runs diverged")
	}
}

func TestSimulatorRun_ValidateState(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.Steps = 500
	cfg.SampleEvery = 100
	cfg.ValidateState = true

	if _, err := New().Run(context.Background(), cfg); err != nil {
		t.Fatalf("valid run rejected: %v", err)
	}

	// a step this large overflows the positions on the first advance
	cfg.Dt = 1e200
	cfg.Steps = 7
	cfg.SampleEvery = 5
	_, err := New().Run(context.Background(), cfg)
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) || simErr.Step != 5 {
		t.Errorf("expected failure at step 5, got %v", err)
	}

	cfg.SampleEvery = 0
	_, err = New().Run(context.Background(), cfg)
	if !errors.As(err, &simErr) || simErr.Step != 7 {
		t.Errorf("expected failure at the final step, got %v", err)
	}
}
