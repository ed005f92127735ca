package boxlite

import "math"

const DefaultGridCellSize = 64.0

// SpatialHashGrid buckets boxes into uniform square cells. A box is stored
// in every cell it covers, so queries de-duplicate.
type SpatialHashGrid struct {
	cellSize float64
	cells    map[uint64][]*BoundingBox
	total    int

	seen map[*BoundingBox]struct{}
}

func NewSpatialHashGrid(cellSize float64) *SpatialHashGrid {
	if cellSize <= 0 {
		cellSize = DefaultGridCellSize
	}
	return &SpatialHashGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]*BoundingBox),
		seen:     make(map[*BoundingBox]struct{}),
	}
}

func (grid *SpatialHashGrid) CellSize() float64 { return grid.cellSize }

// Clear keeps the per-cell slices for reuse on the next rebuild.
func (grid *SpatialHashGrid) Clear() {
	for k, bucket := range grid.cells {
		clear(bucket)
		grid.cells[k] = bucket[:0]
	}
	grid.total = 0
}

func (grid *SpatialHashGrid) Insert(bb *BoundingBox) {
	minX, maxX := grid.cellIndex(bb.Min[0]), grid.cellIndex(bb.Max[0])
	minY, maxY := grid.cellIndex(bb.Min[1]), grid.cellIndex(bb.Max[1])

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := hashCell(x, y)
			grid.cells[key] = append(grid.cells[key], bb)
		}
	}
	grid.total++
}

func (grid *SpatialHashGrid) QueryIntersecting(region *BoundingBox, dst []*BoundingBox) []*BoundingBox {
	minX, maxX := grid.cellIndex(region.Min[0]), grid.cellIndex(region.Max[0])
	minY, maxY := grid.cellIndex(region.Min[1]), grid.cellIndex(region.Max[1])

	clear(grid.seen)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for _, o := range grid.cells[hashCell(x, y)] {
				if _, ok := grid.seen[o]; ok {
					continue
				}
				grid.seen[o] = struct{}{}
				if o.Intersects(region) {
					dst = append(dst, o)
				}
			}
		}
	}
	return dst
}

func (grid *SpatialHashGrid) Len() int {
	return grid.total
}

func (grid *SpatialHashGrid) cellIndex(pos float64) int {
	return int(math.Floor(pos / grid.cellSize))
}

// hashCell mixes cell coordinates with large primes. Collisions only cost
// extra Intersects checks.
func hashCell(x, y int) uint64 {
	const p1 = 73856093
	const p2 = 19349663
	return uint64(x*p1 ^ y*p2)
}
