// Package dynamo provides the shared primitives used around the N-body
// integrator.
//
// The package defines the small vocabulary that the simulation layers
// exchange:
//
//   - [Vec3]: a 3-vector in AU or AU/year
//   - [Hamiltonian] and [Conserving]: systems with an energy and a momentum
//   - [Sample]: one observation of the energy trace
//   - [Metric] and [Observer]: hooks notified at every sample
//   - [Config]: runtime parameters of a run
//
// # Example
//
//	cfg := dynamo.DefaultConfig()
//	cfg.Steps = 1000
//	result, _ := sim.New().Run(ctx, cfg)
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. A run owns its
// body system exclusively.
package dynamo
