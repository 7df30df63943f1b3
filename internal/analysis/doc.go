// Package analysis provides post-processing for stored energy traces.
//
//   - [Summarize]: mean, spread and drift of the energy series
//   - [DominantPeriod]: strongest periodic component of a coordinate series
//   - [NewOrbitPortrait]: x-y projection of body trajectories
//
// # Orbital Periods
//
// Jupiter's x coordinate sampled over a long run exposes its orbital period:
//
//	xs := analysis.CoordinateSeries(trace, physics.Jupiter, 0)
//	period, _ := analysis.DominantPeriod(xs, sampleSpacingYears)
package analysis
