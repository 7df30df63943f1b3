// Package physics implements the five-body Jovian integrator.
//
// The system is a fixed-length array: the sun at index 0 followed by
// Jupiter, Saturn, Uranus and Neptune. Three operations make up the core:
//
//   - [System.OffsetMomentum]: zero the net momentum through the sun
//   - [System.Advance]: one symplectic step over the ten unique pairs
//   - [System.Energy]: kinetic plus gravitational potential energy
//
// Units are AU, years and solar masses scaled by 4π², so G is 1.
//
// # Energy Conservation
//
// The energy is expected to drift only slightly over a run:
//
//	sys := physics.Jovian()
//	sys.OffsetMomentum()
//	before := sys.Energy()
//	for i := 0; i < 1000; i++ {
//	    sys.Advance(physics.Dt)
//	}
//	after := sys.Energy()
package physics
