package boxlite

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PairKey identifies a body pair, lower id first.
type PairKey struct {
	A, B int
}

func MakePairKey(a, b *Body) PairKey {
	if a.ID < b.ID {
		return PairKey{a.ID, b.ID}
	}
	return PairKey{b.ID, a.ID}
}

// ContactSolver (arbiter) owns the manifold of one body pair and resolves
// it with sequential impulses.
type ContactSolver struct {
	BodyA, BodyB *Body
	Manifold     Manifold
}

// NewContactSolver orders the pair by id and collides it once. The
// manifold may be empty; the world discards such solvers.
func NewContactSolver(a, b *Body) *ContactSolver {
	if b.ID < a.ID {
		a, b = b, a
	}
	s := &ContactSolver{BodyA: a, BodyB: b}
	s.Manifold.Count = Collide(&s.Manifold.Points, a, b)
	s.Manifold.Friction = math.Sqrt(a.Friction * b.Friction)
	return s
}

func (s *ContactSolver) Key() PairKey {
	return PairKey{s.BodyA.ID, s.BodyB.ID}
}

func (s *ContactSolver) Contacts() []ContactPoint {
	return s.Manifold.Contacts()
}

func (s *ContactSolver) NumContacts() int {
	return s.Manifold.Count
}

func (s *ContactSolver) Friction() float64 {
	return s.Manifold.Friction
}

// Refresh re-collides the pair and merges the result into the manifold.
// It reports true when no contacts remain.
func (s *ContactSolver) Refresh(cfg SolverConfig) bool {
	var fresh [MaxContactPoints]ContactPoint
	n := Collide(&fresh, s.BodyA, s.BodyB)
	if n == 0 {
		s.Manifold.Count = 0
		return true
	}
	s.MergeContacts(fresh[:n], cfg.WarmStarting)
	return false
}

// MergeContacts replaces the manifold with points, carrying accumulated
// impulses over from old points with the same feature.
func (s *ContactSolver) MergeContacts(points []ContactPoint, warmStarting bool) {
	var merged [MaxContactPoints]ContactPoint
	old := s.Manifold.Contacts()

	n := min(len(points), MaxContactPoints)
	for i := 0; i < n; i++ {
		merged[i] = points[i]
		cNew := &merged[i]

		k := -1
		for j := range old {
			if old[j].Feature == cNew.Feature {
				k = j
				break
			}
		}

		if k > -1 && warmStarting {
			cNew.NormalImpulse = old[k].NormalImpulse
			cNew.TangentImpulse = old[k].TangentImpulse
			cNew.NormalBiasImpulse = old[k].NormalBiasImpulse
		} else {
			cNew.resetImpulses()
		}
	}

	s.Manifold.Points = merged
	s.Manifold.Count = n
}

// PreStep computes the effective masses and bias of each contact and, when
// accumulating, re-applies last step's impulses.
func (s *ContactSolver) PreStep(invDt float64, cfg SolverConfig) {
	a, b := s.BodyA, s.BodyB
	invIA, invIB := a.invI(), b.invI()

	for i := range s.Manifold.Contacts() {
		c := &s.Manifold.Points[i]

		rA := c.Position.Sub(a.Position)
		rB := c.Position.Sub(b.Position)
		c.rA, c.rB = rA, rB

		rnA := rA.Dot(c.Normal)
		rnB := rB.Dot(c.Normal)
		kNormal := a.InvMass + b.InvMass
		kNormal += invIA*(rA.Dot(rA)-rnA*rnA) + invIB*(rB.Dot(rB)-rnB*rnB)
		c.MassNormal = 1 / kNormal

		tangent := CrossVS(c.Normal, 1)
		rtA := rA.Dot(tangent)
		rtB := rB.Dot(tangent)
		kTangent := a.InvMass + b.InvMass
		kTangent += invIA*(rA.Dot(rA)-rtA*rtA) + invIB*(rB.Dot(rB)-rtB*rtB)
		c.MassTangent = 1 / kTangent

		c.Bias = -cfg.BiasFactor * invDt * math.Min(0, c.Separation+cfg.AllowedPenetration)

		if cfg.AccumulateImpulses {
			p := c.Normal.Mul(c.NormalImpulse).Add(tangent.Mul(c.TangentImpulse))
			s.apply(c, p, invIA, invIB)
		}
	}
}

// ApplyImpulse runs one Gauss-Seidel pass over the pair's contacts.
func (s *ContactSolver) ApplyImpulse(cfg SolverConfig) {
	a, b := s.BodyA, s.BodyB
	invIA, invIB := a.invI(), b.invI()

	for i := range s.Manifold.Contacts() {
		c := &s.Manifold.Points[i]

		dv := s.relativeVelocity(c)

		// normal impulse
		vn := dv.Dot(c.Normal)
		dPn := c.MassNormal * (-vn + c.Bias)

		if cfg.AccumulateImpulses {
			pn0 := c.NormalImpulse
			c.NormalImpulse = math.Max(pn0+dPn, 0)
			dPn = c.NormalImpulse - pn0
		} else {
			dPn = math.Max(dPn, 0)
		}

		s.apply(c, c.Normal.Mul(dPn), invIA, invIB)

		// friction impulse
		dv = s.relativeVelocity(c)
		tangent := CrossVS(c.Normal, 1)
		vt := dv.Dot(tangent)
		dPt := c.MassTangent * (-vt)

		if cfg.AccumulateImpulses {
			maxPt := s.Manifold.Friction * c.NormalImpulse
			pt0 := c.TangentImpulse
			c.TangentImpulse = clamp(pt0+dPt, -maxPt, maxPt)
			dPt = c.TangentImpulse - pt0
		} else {
			maxPt := s.Manifold.Friction * dPn
			dPt = clamp(dPt, -maxPt, maxPt)
		}

		s.apply(c, tangent.Mul(dPt), invIA, invIB)
	}
}

// relativeVelocity of B with respect to A at the contact.
func (s *ContactSolver) relativeVelocity(c *ContactPoint) mgl64.Vec2 {
	a, b := s.BodyA, s.BodyB
	return b.Velocity.Add(CrossSV(b.AngularVelocity, c.rB)).
		Sub(a.Velocity).
		Sub(CrossSV(a.AngularVelocity, c.rA))
}

// apply pushes A by -p and B by +p at the contact.
func (s *ContactSolver) apply(c *ContactPoint, p mgl64.Vec2, invIA, invIB float64) {
	a, b := s.BodyA, s.BodyB

	a.Velocity = a.Velocity.Sub(p.Mul(a.InvMass))
	a.AngularVelocity -= invIA * Cross(c.rA, p)

	b.Velocity = b.Velocity.Add(p.Mul(b.InvMass))
	b.AngularVelocity += invIB * Cross(c.rB, p)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
