package boxlite

import "github.com/go-gl/mathgl/mgl64"

type clipVertex struct {
	v  mgl64.Vec2
	fp FeaturePair
}

// clipSegmentToLine keeps the part of in that lies on the non-positive side
// of the line normal·p = offset. A crossing point inherits the feature of
// the clipped vertex with clipEdge stamped on the reference side.
func clipSegmentToLine(out *[2]clipVertex, in [2]clipVertex, normal mgl64.Vec2, offset float64, clipEdge Edge) int {
	n := 0

	d0 := normal.Dot(in[0].v) - offset
	d1 := normal.Dot(in[1].v) - offset

	if d0 <= 0 {
		out[n] = in[0]
		n++
	}
	if d1 <= 0 {
		out[n] = in[1]
		n++
	}

	if d0*d1 < 0 {
		t := d0 / (d0 - d1)
		cv := clipVertex{v: in[0].v.Add(in[1].v.Sub(in[0].v).Mul(t))}
		if d0 > 0 {
			cv.fp = in[0].fp
			cv.fp.InEdge1 = clipEdge
			cv.fp.InEdge2 = NoEdge
		} else {
			cv.fp = in[1].fp
			cv.fp.OutEdge1 = clipEdge
			cv.fp.OutEdge2 = NoEdge
		}
		out[n] = cv
		n++
	}

	return n
}

// computeIncidentEdge returns, in world space, the edge of the box (h, pos,
// rot) whose outward normal is most anti-parallel to the reference normal.
func computeIncidentEdge(h, pos mgl64.Vec2, rot mgl64.Mat2, normal mgl64.Vec2) [2]clipVertex {
	var c [2]clipVertex

	// reference normal in the incident box frame, flipped
	n := Neg(rot.Transpose().Mul2x1(normal))
	nAbs := AbsVec(n)

	if nAbs[0] > nAbs[1] {
		if n[0] > 0 {
			c[0].v = mgl64.Vec2{h[0], -h[1]}
			c[0].fp.InEdge2, c[0].fp.OutEdge2 = Edge3, Edge4
			c[1].v = mgl64.Vec2{h[0], h[1]}
			c[1].fp.InEdge2, c[1].fp.OutEdge2 = Edge4, Edge1
		} else {
			c[0].v = mgl64.Vec2{-h[0], h[1]}
			c[0].fp.InEdge2, c[0].fp.OutEdge2 = Edge1, Edge2
			c[1].v = mgl64.Vec2{-h[0], -h[1]}
			c[1].fp.InEdge2, c[1].fp.OutEdge2 = Edge2, Edge3
		}
	} else {
		if n[1] > 0 {
			c[0].v = mgl64.Vec2{h[0], h[1]}
			c[0].fp.InEdge2, c[0].fp.OutEdge2 = Edge4, Edge1
			c[1].v = mgl64.Vec2{-h[0], h[1]}
			c[1].fp.InEdge2, c[1].fp.OutEdge2 = Edge1, Edge2
		} else {
			c[0].v = mgl64.Vec2{-h[0], -h[1]}
			c[0].fp.InEdge2, c[0].fp.OutEdge2 = Edge2, Edge3
			c[1].v = mgl64.Vec2{h[0], -h[1]}
			c[1].fp.InEdge2, c[1].fp.OutEdge2 = Edge3, Edge4
		}
	}

	c[0].v = pos.Add(rot.Mul2x1(c[0].v))
	c[1].v = pos.Add(rot.Mul2x1(c[1].v))
	return c
}
