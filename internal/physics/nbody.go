package physics

import (
	"math"
	"strings"

	"github.com/san-kum/nbody/internal/dynamo"
)

const (
	SolarMass   = 4 * math.Pi * math.Pi
	DaysPerYear = 365.24
	// Dt is the per-step time increment in years.
	Dt        = dynamo.StepSize
	NumBodies = 5
)

// Body indices in the Jovian system.
const (
	Sun = iota
	Jupiter
	Saturn
	Uranus
	Neptune
)

var Names = [NumBodies]string{"sun", "jupiter", "saturn", "uranus", "neptune"}

// IndexOf resolves a body name, ignoring case, to its index in the system.
func IndexOf(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, n := range Names {
		if strings.EqualFold(n, name) {
			return i, true
		}
	}
	return 0, false
}

// Body is a point mass. Position is in AU and velocity in AU/year; the mass
// fields are fixed at construction.
type Body struct {
	X, Y, Z    float64
	VX, VY, VZ float64

	massRatio float64
	mass      float64
	massHalf  float64
}

// NewBody builds a body from a position, a velocity in AU/day and a mass
// expressed in solar masses.
func NewBody(x, y, z, vx, vy, vz, massRatio float64) Body {
	mass := massRatio * SolarMass
	return Body{
		X: x, Y: y, Z: z,
		VX: vx * DaysPerYear, VY: vy * DaysPerYear, VZ: vz * DaysPerYear,
		massRatio: massRatio,
		mass:      mass,
		massHalf:  mass * 0.5,
	}
}

func (b *Body) MassRatio() float64 { return b.massRatio }
func (b *Body) Mass() float64      { return b.mass }

func (b *Body) Position() dynamo.Vec3 { return dynamo.Vec3{b.X, b.Y, b.Z} }
func (b *Body) Velocity() dynamo.Vec3 { return dynamo.Vec3{b.VX, b.VY, b.VZ} }

// System is the fixed set of five bodies. Index 0 is the sun.
type System [NumBodies]Body

// OffsetMomentum zeroes the net momentum by replacing the sun's velocity.
func (s *System) OffsetMomentum() {
	s.OffsetMomentumAt(Sun)
}

// OffsetMomentumAt replaces the velocity of body ref so that the total
// momentum of the system is zero. The other velocities are left untouched.
func (s *System) OffsetMomentumAt(ref int) {
	var px, py, pz float64
	for i := range s {
		if i == ref {
			continue
		}
		b := &s[i]
		px -= b.VX * b.massRatio
		py -= b.VY * b.massRatio
		pz -= b.VZ * b.massRatio
	}
	r := &s[ref]
	r.VX = px / r.massRatio
	r.VY = py / r.massRatio
	r.VZ = pz / r.massRatio
}

// Advance moves the system forward by dt. Every pair (i, j) with i < j is
// visited once and the impulse is applied to both bodies. Body i's fields
// are held in locals while its inner loop runs and written back once; its
// position is advanced only after all of its pairs are done, so every
// velocity increment uses positions from the start of the step.
func (s *System) Advance(dt float64) {
	for i := 0; i < NumBodies-1; i++ {
		bi := &s[i]
		x, y, z := bi.X, bi.Y, bi.Z
		vx, vy, vz := bi.VX, bi.VY, bi.VZ
		mi := bi.mass

		for j := i + 1; j < NumBodies; j++ {
			bj := &s[j]
			dx := x - bj.X
			dy := y - bj.Y
			dz := z - bj.Z

			d2 := dx*dx + dy*dy + dz*dz
			mag := dt / (d2 * math.Sqrt(d2))

			mjMag := bj.mass * mag
			vx -= dx * mjMag
			vy -= dy * mjMag
			vz -= dz * mjMag

			miMag := mi * mag
			bj.VX += dx * miMag
			bj.VY += dy * miMag
			bj.VZ += dz * miMag
		}

		bi.VX, bi.VY, bi.VZ = vx, vy, vz
		bi.X += vx * dt
		bi.Y += vy * dt
		bi.Z += vz * dt
	}

	// The last body is never i, so its position is advanced here.
	last := &s[NumBodies-1]
	last.X += last.VX * dt
	last.Y += last.VY * dt
	last.Z += last.VZ * dt
}

// Energy returns kinetic plus potential energy, each pair counted once.
func (s *System) Energy() float64 {
	e := 0.0
	for i := range s {
		bi := &s[i]
		e += (bi.VX*bi.VX + bi.VY*bi.VY + bi.VZ*bi.VZ) * bi.massHalf

		for j := i + 1; j < NumBodies; j++ {
			bj := &s[j]
			dx := bi.X - bj.X
			dy := bi.Y - bj.Y
			dz := bi.Z - bj.Z
			e -= bi.mass * bj.mass / math.Sqrt(dx*dx+dy*dy+dz*dz)
		}
	}
	return e
}

// Momentum is the vector sum of velocity times mass ratio.
func (s *System) Momentum() dynamo.Vec3 {
	var p dynamo.Vec3
	for i := range s {
		p = p.Add(s[i].Velocity().Scale(s[i].massRatio))
	}
	return p
}

func (s *System) Positions() []dynamo.Vec3 {
	out := make([]dynamo.Vec3, NumBodies)
	for i := range s {
		out[i] = s[i].Position()
	}
	return out
}

func (s *System) IsValid() bool {
	for i := range s {
		if !s[i].Position().IsValid() || !s[i].Velocity().IsValid() {
			return false
		}
	}
	return true
}
