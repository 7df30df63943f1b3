package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/nbody/internal/dynamo"
)

type Summary struct {
	Samples  int
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
	MaxDrift float64 // relative to the first sample
}

func EnergySeries(trace []dynamo.Sample) []float64 {
	out := make([]float64, len(trace))
	for i, s := range trace {
		out[i] = s.Energy
	}
	return out
}

// CoordinateSeries extracts one axis (0=x, 1=y, 2=z) of one body. Samples
// without positions for that body are skipped.
func CoordinateSeries(trace []dynamo.Sample, body, axis int) []float64 {
	out := make([]float64, 0, len(trace))
	for _, s := range trace {
		if body < len(s.Positions) {
			out = append(out, s.Positions[body][axis])
		}
	}
	return out
}

func Summarize(energies []float64) Summary {
	if len(energies) == 0 {
		return Summary{}
	}

	mean, std := stat.MeanStdDev(energies, nil)
	if len(energies) == 1 {
		std = 0
	}
	sum := Summary{
		Samples: len(energies),
		Mean:    mean,
		StdDev:  std,
		Min:     floats.Min(energies),
		Max:     floats.Max(energies),
	}

	if e0 := energies[0]; e0 != 0 {
		for _, e := range energies {
			sum.MaxDrift = math.Max(sum.MaxDrift, math.Abs(e-e0)/math.Abs(e0))
		}
	}
	return sum
}
