package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/san-kum/nbody/internal/dynamo"
)

const (
	StartMarker = "start of nbody run"
	EndMarker   = "end of nbody run"
)

// WriteReport prints the start marker, the energy before and after
// integration to nine decimals, and the end marker.
func WriteReport(w io.Writer, r *Result) error {
	if _, err := fmt.Fprintln(w, StartMarker); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%.9f\n%.9f\n", r.EnergyBefore, r.EnergyAfter); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, EndMarker)
	return err
}

// RunSteps is the plain entry point: steps advances at the fixed time step,
// reported to w.
func RunSteps(ctx context.Context, w io.Writer, steps int) (*Result, error) {
	cfg := dynamo.DefaultConfig()
	cfg.Steps = steps

	result, err := New().Run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return result, WriteReport(w, result)
}
