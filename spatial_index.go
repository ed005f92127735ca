package boxlite

// SpatialIndex answers approximate overlap queries over body bounds. The
// world rebuilds it from scratch every step, so no removal is needed.
type SpatialIndex interface {
	Clear()
	Insert(bb *BoundingBox)
	// QueryIntersecting appends every stored box that intersects region
	// to dst, each at most once, and returns the extended slice.
	QueryIntersecting(region *BoundingBox, dst []*BoundingBox) []*BoundingBox
	Len() int
}

type BroadPhase int

const (
	BroadPhaseQuadtree BroadPhase = iota
	BroadPhaseHashGrid
	BroadPhaseList
)

func (bp BroadPhase) String() string {
	switch bp {
	case BroadPhaseQuadtree:
		return "quadtree"
	case BroadPhaseHashGrid:
		return "hashgrid"
	case BroadPhaseList:
		return "list"
	}
	return "unknown"
}

func newSpatialIndex(cfg Config) SpatialIndex {
	switch cfg.BroadPhase {
	case BroadPhaseHashGrid:
		return NewSpatialHashGrid(cfg.GridCellSize)
	case BroadPhaseList:
		return &ListIndex{}
	default:
		return NewQuadtree(cfg.Bounds, cfg.QuadMaxObjects, cfg.QuadMaxLevels)
	}
}

// ListIndex is the all-pairs index: every query scans every box.
type ListIndex struct {
	objects []*BoundingBox
}

func (l *ListIndex) Clear() {
	clear(l.objects)
	l.objects = l.objects[:0]
}

func (l *ListIndex) Insert(bb *BoundingBox) {
	l.objects = append(l.objects, bb)
}

func (l *ListIndex) QueryIntersecting(region *BoundingBox, dst []*BoundingBox) []*BoundingBox {
	for _, o := range l.objects {
		if o.Intersects(region) {
			dst = append(dst, o)
		}
	}
	return dst
}

func (l *ListIndex) Len() int {
	return len(l.objects)
}
