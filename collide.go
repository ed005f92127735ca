package boxlite

import "github.com/go-gl/mathgl/mgl64"

type axis int

const (
	faceAX axis = iota
	faceAY
	faceBX
	faceBY
)

// Hysteresis on axis selection. A later axis only wins if it beats the
// current one by a relative and an absolute margin, which keeps features
// stable between frames.
const (
	relativeTol = 0.95
	absoluteTol = 0.01
)

// Collide writes up to two contact points between boxes a and b to out and
// returns how many it wrote. Normals point from a to b.
func Collide(out *[MaxContactPoints]ContactPoint, a, b *Body) int {
	hA, hB := a.HalfExtents, b.HalfExtents
	posA, posB := a.Position, b.Position

	rotA := MatFromAngle(a.Rotation)
	rotB := MatFromAngle(b.Rotation)
	rotAT := rotA.Transpose()
	rotBT := rotB.Transpose()

	dp := posB.Sub(posA)
	dA := rotAT.Mul2x1(dp)
	dB := rotBT.Mul2x1(dp)

	c := rotAT.Mul2(rotB)
	absC := AbsMat(c)
	absCT := absC.Transpose()

	faceA := AbsVec(dA).Sub(hA).Sub(absC.Mul2x1(hB))
	if faceA[0] > 0 || faceA[1] > 0 {
		return 0
	}

	faceB := AbsVec(dB).Sub(absCT.Mul2x1(hA)).Sub(hB)
	if faceB[0] > 0 || faceB[1] > 0 {
		return 0
	}

	// Find the axis of least penetration.
	ax := faceAX
	separation := faceA[0]
	normal := signedAxis(rotA.Col(0), dA[0])

	if faceA[1] > relativeTol*separation+absoluteTol*hA[1] {
		ax = faceAY
		separation = faceA[1]
		normal = signedAxis(rotA.Col(1), dA[1])
	}
	if faceB[0] > relativeTol*separation+absoluteTol*hB[0] {
		ax = faceBX
		separation = faceB[0]
		normal = signedAxis(rotB.Col(0), dB[0])
	}
	if faceB[1] > relativeTol*separation+absoluteTol*hB[1] {
		ax = faceBY
		normal = signedAxis(rotB.Col(1), dB[1])
	}

	// Reference face planes and the incident segment.
	var (
		frontNormal, sideNormal mgl64.Vec2
		front, negSide, posSide float64
		negEdge, posEdge        Edge
		incident                [2]clipVertex
	)

	switch ax {
	case faceAX:
		frontNormal = normal
		front = posA.Dot(frontNormal) + hA[0]
		sideNormal = rotA.Col(1)
		side := posA.Dot(sideNormal)
		negSide, posSide = -side+hA[1], side+hA[1]
		negEdge, posEdge = Edge3, Edge1
		incident = computeIncidentEdge(hB, posB, rotB, frontNormal)
	case faceAY:
		frontNormal = normal
		front = posA.Dot(frontNormal) + hA[1]
		sideNormal = rotA.Col(0)
		side := posA.Dot(sideNormal)
		negSide, posSide = -side+hA[0], side+hA[0]
		negEdge, posEdge = Edge2, Edge4
		incident = computeIncidentEdge(hB, posB, rotB, frontNormal)
	case faceBX:
		frontNormal = Neg(normal)
		front = posB.Dot(frontNormal) + hB[0]
		sideNormal = rotB.Col(1)
		side := posB.Dot(sideNormal)
		negSide, posSide = -side+hB[1], side+hB[1]
		negEdge, posEdge = Edge3, Edge1
		incident = computeIncidentEdge(hA, posA, rotA, frontNormal)
	case faceBY:
		frontNormal = Neg(normal)
		front = posB.Dot(frontNormal) + hB[1]
		sideNormal = rotB.Col(0)
		side := posB.Dot(sideNormal)
		negSide, posSide = -side+hB[0], side+hB[0]
		negEdge, posEdge = Edge2, Edge4
		incident = computeIncidentEdge(hA, posA, rotA, frontNormal)
	}

	var clip1, clip2 [2]clipVertex

	if clipSegmentToLine(&clip1, incident, Neg(sideNormal), negSide, negEdge) < 2 {
		return 0
	}
	if clipSegmentToLine(&clip2, clip1, sideNormal, posSide, posEdge) < 2 {
		return 0
	}

	// Roundoff can push both clipped points in front of the face.
	n := 0
	for i := range clip2 {
		sep := frontNormal.Dot(clip2[i].v) - front
		if sep > 0 {
			continue
		}
		cp := &out[n]
		*cp = ContactPoint{
			Separation: sep,
			Normal:     normal,
			// slide onto the reference face
			Position: clip2[i].v.Sub(frontNormal.Mul(sep)),
			Feature:  clip2[i].fp,
		}
		if ax == faceBX || ax == faceBY {
			cp.Feature.Flip()
		}
		n++
	}
	return n
}

func signedAxis(dir mgl64.Vec2, d float64) mgl64.Vec2 {
	if d > 0 {
		return dir
	}
	return Neg(dir)
}
