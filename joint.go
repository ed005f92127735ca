package boxlite

import "github.com/go-gl/mathgl/mgl64"

// Joint pins a point of BodyA to a point of BodyB.
type Joint struct {
	BodyA, BodyB *Body

	// anchors in each body's un-rotated frame
	LocalAnchorA mgl64.Vec2
	LocalAnchorB mgl64.Vec2

	// P is the accumulated impulse.
	P mgl64.Vec2

	BiasFactor float64
	// Softness > 0 turns the pin into a spring-like link.
	Softness float64

	// per-step state
	m      mgl64.Mat2
	rA, rB mgl64.Vec2
	bias   mgl64.Vec2
}

func NewJoint(a, b *Body, anchor mgl64.Vec2) *Joint {
	j := &Joint{BiasFactor: DefaultBiasFactor}
	j.Set(a, b, anchor)
	return j
}

// Set attaches the joint to a and b at the world point anchor, using their
// current poses.
func (j *Joint) Set(a, b *Body, anchor mgl64.Vec2) *Joint {
	j.BodyA, j.BodyB = a, b

	rotAT := MatFromAngle(a.Rotation).Transpose()
	rotBT := MatFromAngle(b.Rotation).Transpose()

	j.LocalAnchorA = rotAT.Mul2x1(anchor.Sub(a.Position))
	j.LocalAnchorB = rotBT.Mul2x1(anchor.Sub(b.Position))
	j.P = mgl64.Vec2{}
	return j
}

// AnchorA returns the world position of the anchor on BodyA.
func (j *Joint) AnchorA() mgl64.Vec2 {
	return j.BodyA.Position.Add(MatFromAngle(j.BodyA.Rotation).Mul2x1(j.LocalAnchorA))
}

func (j *Joint) AnchorB() mgl64.Vec2 {
	return j.BodyB.Position.Add(MatFromAngle(j.BodyB.Rotation).Mul2x1(j.LocalAnchorB))
}

// Separation is the world distance between the two anchors.
func (j *Joint) Separation() float64 {
	return j.AnchorB().Sub(j.AnchorA()).Len()
}

func (j *Joint) PreStep(invDt float64, cfg SolverConfig) {
	a, b := j.BodyA, j.BodyB
	invIA, invIB := a.invI(), b.invI()

	j.rA = MatFromAngle(a.Rotation).Mul2x1(j.LocalAnchorA)
	j.rB = MatFromAngle(b.Rotation).Mul2x1(j.LocalAnchorB)
	rA, rB := j.rA, j.rB

	invMass := a.InvMass + b.InvMass
	k1 := mgl64.Mat2{invMass, 0, 0, invMass}

	// rotational terms; symmetric so the column-major order doesn't matter
	k2 := mgl64.Mat2{
		invIA * rA[1] * rA[1], -invIA * rA[0] * rA[1],
		-invIA * rA[0] * rA[1], invIA * rA[0] * rA[0],
	}
	k3 := mgl64.Mat2{
		invIB * rB[1] * rB[1], -invIB * rB[0] * rB[1],
		-invIB * rB[0] * rB[1], invIB * rB[0] * rB[0],
	}

	k := k1.Add(k2).Add(k3)
	k[0] += j.Softness
	k[3] += j.Softness
	j.m = Invert(k)

	dp := b.Position.Add(rB).Sub(a.Position.Add(rA))

	if cfg.PositionCorrection {
		j.bias = dp.Mul(-j.BiasFactor * invDt)
	} else {
		j.bias = mgl64.Vec2{}
	}

	if cfg.WarmStarting {
		a.Velocity = a.Velocity.Sub(j.P.Mul(a.InvMass))
		a.AngularVelocity -= invIA * Cross(rA, j.P)

		b.Velocity = b.Velocity.Add(j.P.Mul(b.InvMass))
		b.AngularVelocity += invIB * Cross(rB, j.P)
	} else {
		j.P = mgl64.Vec2{}
	}
}

func (j *Joint) ApplyImpulse() {
	a, b := j.BodyA, j.BodyB
	invIA, invIB := a.invI(), b.invI()

	dv := b.Velocity.Add(CrossSV(b.AngularVelocity, j.rB)).
		Sub(a.Velocity).
		Sub(CrossSV(a.AngularVelocity, j.rA))

	impulse := j.m.Mul2x1(j.bias.Sub(dv).Sub(j.P.Mul(j.Softness)))

	a.Velocity = a.Velocity.Sub(impulse.Mul(a.InvMass))
	a.AngularVelocity -= invIA * Cross(j.rA, impulse)

	b.Velocity = b.Velocity.Add(impulse.Mul(b.InvMass))
	b.AngularVelocity += invIB * Cross(j.rB, impulse)

	j.P = j.P.Add(impulse)
}
