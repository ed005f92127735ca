package boxlite

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundingBox is the world-space AABB of a body. Min is the top-left
// corner in y-down screen terms.
type BoundingBox struct {
	Center      mgl64.Vec2
	HalfExtents mgl64.Vec2
	Min         mgl64.Vec2
	Max         mgl64.Vec2

	body      *Body
	lastAngle float64
}

// NewRegion returns a free-standing box covering min..max, used for
// queries and index regions.
func NewRegion(min, max mgl64.Vec2) BoundingBox {
	half := max.Sub(min).Mul(0.5)
	return BoundingBox{
		Center:      min.Add(half),
		HalfExtents: half,
		Min:         min,
		Max:         max,
		lastAngle:   math.NaN(),
	}
}

func newBodyBounds(b *Body) BoundingBox {
	return BoundingBox{body: b, lastAngle: math.NaN()}
}

// Body returns the owning body, nil for a region.
func (bb *BoundingBox) Body() *Body {
	return bb.body
}

// Update recomputes the box from the owner's pose. The rotated extents are
// only recomputed when the rotation changed since the last call.
func (bb *BoundingBox) Update() {
	b := bb.body
	if b == nil {
		return
	}
	bb.Center = b.Position

	if b.Rotation != bb.lastAngle {
		h := b.HalfExtents
		rot := MatFromAngle(b.Rotation)
		// corners (hx,-hy) and (hx,hy); the other two are their negations
		c1 := rot.Mul2x1(mgl64.Vec2{h[0], -h[1]})
		c2 := rot.Mul2x1(h)
		bb.HalfExtents = mgl64.Vec2{
			math.Max(math.Abs(c1[0]), math.Abs(c2[0])),
			math.Max(math.Abs(c1[1]), math.Abs(c2[1])),
		}
		bb.lastAngle = b.Rotation
	}

	bb.Min = bb.Center.Sub(bb.HalfExtents)
	bb.Max = bb.Center.Add(bb.HalfExtents)
}

// Intersects reports whether the boxes overlap. Touching edges overlap.
func (bb *BoundingBox) Intersects(other *BoundingBox) bool {
	return !(other.Min[0] > bb.Max[0] ||
		other.Max[0] < bb.Min[0] ||
		other.Min[1] > bb.Max[1] ||
		other.Max[1] < bb.Min[1])
}

// ContainsBox reports whether other lies entirely inside bb.
func (bb *BoundingBox) ContainsBox(other *BoundingBox) bool {
	return other.Min[0] >= bb.Min[0] && other.Max[0] <= bb.Max[0] &&
		other.Min[1] >= bb.Min[1] && other.Max[1] <= bb.Max[1]
}

func (bb *BoundingBox) Width() float64 {
	return bb.Max[0] - bb.Min[0]
}

func (bb *BoundingBox) Height() float64 {
	return bb.Max[1] - bb.Min[1]
}
