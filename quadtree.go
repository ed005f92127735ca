package boxlite

import "github.com/go-gl/mathgl/mgl64"

const (
	DefaultQuadMaxObjects = 10
	DefaultQuadMaxLevels  = 4
)

// Quadtree is a region quadtree over bounding boxes. A box lives in the
// deepest node whose quadrant fully contains it; boxes straddling a split
// line stay in the parent.
type Quadtree struct {
	region     BoundingBox
	maxObjects int
	maxLevels  int
	level      int

	objects []*BoundingBox
	nodes   []*Quadtree // nil or exactly four

	total int
}

// NewQuadtree returns an empty root covering region. Non-positive limits
// fall back to the defaults.
func NewQuadtree(region BoundingBox, maxObjects, maxLevels int) *Quadtree {
	if maxObjects <= 0 {
		maxObjects = DefaultQuadMaxObjects
	}
	if maxLevels <= 0 {
		maxLevels = DefaultQuadMaxLevels
	}
	return newQuadNode(region, maxObjects, maxLevels, 0)
}

func newQuadNode(region BoundingBox, maxObjects, maxLevels, level int) *Quadtree {
	return &Quadtree{
		region:     region,
		maxObjects: maxObjects,
		maxLevels:  maxLevels,
		level:      level,
	}
}

func (q *Quadtree) Region() BoundingBox { return q.region }

func (q *Quadtree) Len() int { return q.total }

// NodeCount returns the number of nodes below q, q excluded.
func (q *Quadtree) NodeCount() int {
	total := 0
	for _, n := range q.nodes {
		total += 1 + n.NodeCount()
	}
	return total
}

// Depth returns the deepest level in the tree.
func (q *Quadtree) Depth() int {
	d := q.level
	for _, n := range q.nodes {
		d = max(d, n.Depth())
	}
	return d
}

func (q *Quadtree) Insert(bb *BoundingBox) {
	q.total++

	if q.nodes != nil {
		if idx := q.index(bb); idx != -1 {
			q.nodes[idx].Insert(bb)
			return
		}
	}

	q.objects = append(q.objects, bb)

	if len(q.objects) > q.maxObjects && q.level < q.maxLevels {
		if q.nodes == nil {
			q.split()
		}

		kept := q.objects[:0]
		for _, o := range q.objects {
			if idx := q.index(o); idx != -1 {
				q.nodes[idx].Insert(o)
			} else {
				kept = append(kept, o)
			}
		}
		clear(q.objects[len(kept):])
		q.objects = kept
	}
}

func (q *Quadtree) QueryIntersecting(region *BoundingBox, dst []*BoundingBox) []*BoundingBox {
	return q.collect(region, dst)
}

func (q *Quadtree) collect(region *BoundingBox, dst []*BoundingBox) []*BoundingBox {
	for _, o := range q.objects {
		if o.Intersects(region) {
			dst = append(dst, o)
		}
	}
	if q.nodes == nil {
		return dst
	}
	if idx := q.index(region); idx != -1 {
		return q.nodes[idx].collect(region, dst)
	}
	for _, n := range q.nodes {
		dst = n.collect(region, dst)
	}
	return dst
}

func (q *Quadtree) Clear() {
	clear(q.objects)
	q.objects = q.objects[:0]
	q.total = 0
	for _, n := range q.nodes {
		n.Clear()
	}
	q.nodes = nil
}

// index returns the quadrant that fully contains bb, or -1 if it straddles
// a split line. 0 top-right, 1 top-left, 2 bottom-left, 3 bottom-right
// (y grows downward).
func (q *Quadtree) index(bb *BoundingBox) int {
	mid := q.region.Center

	top := bb.Max[1] < mid[1]
	bottom := bb.Min[1] > mid[1]

	switch {
	case bb.Max[0] < mid[0]:
		if top {
			return 1
		} else if bottom {
			return 2
		}
	case bb.Min[0] > mid[0]:
		if top {
			return 0
		} else if bottom {
			return 3
		}
	}
	return -1
}

func (q *Quadtree) split() {
	lo, mid, hi := q.region.Min, q.region.Center, q.region.Max
	next := q.level + 1

	q.nodes = []*Quadtree{
		newQuadNode(NewRegion(mgl64.Vec2{mid[0], lo[1]}, mgl64.Vec2{hi[0], mid[1]}), q.maxObjects, q.maxLevels, next),
		newQuadNode(NewRegion(lo, mid), q.maxObjects, q.maxLevels, next),
		newQuadNode(NewRegion(mgl64.Vec2{lo[0], mid[1]}, mgl64.Vec2{mid[0], hi[1]}), q.maxObjects, q.maxLevels, next),
		newQuadNode(NewRegion(mid, hi), q.maxObjects, q.maxLevels, next),
	}
}
