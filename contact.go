package boxlite

import "github.com/go-gl/mathgl/mgl64"

const MaxContactPoints = 2

type ContactPoint struct {
	Position mgl64.Vec2
	// Normal points from body A to body B.
	Normal     mgl64.Vec2
	Separation float64

	// accumulated impulses
	NormalImpulse     float64
	TangentImpulse    float64
	NormalBiasImpulse float64

	MassNormal  float64
	MassTangent float64
	Bias        float64

	Feature FeaturePair

	// lever arms from each body center, valid between PreStep and the end
	// of the step
	rA, rB mgl64.Vec2
}

func (c *ContactPoint) resetImpulses() {
	c.NormalImpulse = 0
	c.TangentImpulse = 0
	c.NormalBiasImpulse = 0
}

// Manifold holds the live contacts of one body pair.
type Manifold struct {
	Points   [MaxContactPoints]ContactPoint
	Count    int
	Friction float64
}

// Contacts returns the live points. The slice aliases the manifold.
func (m *Manifold) Contacts() []ContactPoint {
	return m.Points[:m.Count]
}
