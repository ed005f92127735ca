package boxlite

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// InfiniteMass marks a static body. Any mass at or above it gets zero
// inverse mass and inertia.
const InfiniteMass = math.MaxFloat64

const DefaultFriction = 0.2

var ErrInvalidBody = errors.New("boxlite: invalid body")

type Body struct {
	Position        mgl64.Vec2
	Rotation        float64
	Velocity        mgl64.Vec2
	AngularVelocity float64

	Force  mgl64.Vec2
	Torque float64

	HalfExtents mgl64.Vec2
	Friction    float64

	Mass       float64
	InvMass    float64
	Inertia    float64
	InvInertia float64

	FixedRotation bool

	// ID is assigned by World.AddBody; 0 means unregistered.
	ID int

	Bounds BoundingBox
}

// NewBody returns a box of the given full width and height. Pass
// InfiniteMass for a static body.
func NewBody(width, height, mass float64) *Body {
	b := &Body{Friction: DefaultFriction}
	b.Bounds = newBodyBounds(b)
	b.Set(width, height, mass)
	return b
}

// Set reconfigures dimensions and mass and precomputes the inverse terms.
func (b *Body) Set(width, height, mass float64) *Body {
	b.HalfExtents = mgl64.Vec2{width * 0.5, height * 0.5}
	b.Mass = mass

	if mass < InfiniteMass {
		b.InvMass = 1 / mass
		b.Inertia = mass * (width*width + height*height) / 12
		b.InvInertia = 1 / b.Inertia
	} else {
		b.InvMass = 0
		b.Inertia = InfiniteMass
		b.InvInertia = 0
	}

	b.Bounds.lastAngle = math.NaN()
	b.Bounds.Update()
	return b
}

// SetPosition moves the body and refreshes its bounds.
func (b *Body) SetPosition(p mgl64.Vec2) *Body {
	b.Position = p
	b.Bounds.Update()
	return b
}

func (b *Body) SetRotation(theta float64) *Body {
	b.Rotation = theta
	b.Bounds.Update()
	return b
}

func (b *Body) IsStatic() bool {
	return b.InvMass == 0
}

func (b *Body) Width() float64  { return b.HalfExtents[0] * 2 }
func (b *Body) Height() float64 { return b.HalfExtents[1] * 2 }

// invI is the inverse inertia seen by the solvers.
func (b *Body) invI() float64 {
	if b.FixedRotation {
		return 0
	}
	return b.InvInertia
}

func (b *Body) AddForce(f mgl64.Vec2) *Body {
	b.Force = b.Force.Add(f)
	return b
}

func (b *Body) AddTorque(t float64) *Body {
	b.Torque += t
	return b
}

// ApplyImpulseAt changes velocity immediately as if impulse were applied
// at the world point.
func (b *Body) ApplyImpulseAt(impulse, point mgl64.Vec2) {
	b.Velocity = b.Velocity.Add(impulse.Mul(b.InvMass))
	b.AngularVelocity += b.invI() * Cross(point.Sub(b.Position), impulse)
}

// IntegrateForces advances velocity by gravity and the accumulated force.
func (b *Body) IntegrateForces(dt float64, gravity mgl64.Vec2) {
	if b.InvMass == 0 {
		return
	}
	b.Velocity = b.Velocity.Add(gravity.Add(b.Force.Mul(b.InvMass)).Mul(dt))
	if !b.FixedRotation {
		b.AngularVelocity += dt * b.InvInertia * b.Torque
	}
}

// IntegratePose advances the pose, clears the accumulators and refreshes
// the bounds.
func (b *Body) IntegratePose(dt float64) {
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	if !b.FixedRotation {
		b.Rotation += dt * b.AngularVelocity
	}
	b.Force = mgl64.Vec2{}
	b.Torque = 0
	b.Bounds.Update()
}

// Validate checks construction-time invariants. Step never calls it.
func (b *Body) Validate() error {
	h := b.HalfExtents
	switch {
	case !(h[0] > 0) || !(h[1] > 0) || math.IsInf(h[0], 0) || math.IsInf(h[1], 0):
		return fmt.Errorf("%w: half extents %v must be positive and finite", ErrInvalidBody, h)
	case !(b.Mass > 0):
		return fmt.Errorf("%w: mass %v must be positive", ErrInvalidBody, b.Mass)
	case b.Friction < 0 || math.IsNaN(b.Friction):
		return fmt.Errorf("%w: friction %v must be non-negative", ErrInvalidBody, b.Friction)
	}
	return nil
}
