package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/nbody/internal/dynamo"
)

// PowerSpectrum returns the magnitude of the non-negative frequency bins of
// the mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod finds the strongest non-zero frequency in data and returns
// its period in the units of spacing.
func DominantPeriod(data []float64, spacing float64) (float64, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("%w: need at least 4 samples, got %d", dynamo.ErrNoData, len(data))
	}
	if spacing <= 0 {
		return 0, fmt.Errorf("%w: sample spacing must be positive", dynamo.ErrInvalidConfig)
	}

	ps := PowerSpectrum(data)
	best := 0
	for k := 1; k < len(ps); k++ {
		if best == 0 || ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] == 0 {
		return 0, fmt.Errorf("%w: series is constant", dynamo.ErrNoData)
	}

	return float64(len(data)) * spacing / float64(best), nil
}
