package boxlite

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func allIndexes() map[string]SpatialIndex {
	return map[string]SpatialIndex{
		"quadtree": NewQuadtree(NewRegion(mgl64.Vec2{0, 0}, mgl64.Vec2{512, 512}), 0, 0),
		"hashgrid": NewSpatialHashGrid(16),
		"list":     &ListIndex{},
	}
}

func randomScene(rng *rand.Rand, n int) []*Body {
	bodies := make([]*Body, n)
	for i := range bodies {
		// some land outside the quadtree root
		b := boxAt(rng.Float64()*600-40, rng.Float64()*600-40, 1+rng.Float64()*30, 1+rng.Float64()*30)
		b.SetRotation(rng.Float64() * 3)
		bodies[i] = b
	}
	return bodies
}

// Every index must report every truly overlapping box, exactly once.
func TestSpatialIndexCompleteness(t *testing.T) {
	bodies := randomScene(rand.New(rand.NewSource(7)), 300)

	for name, idx := range allIndexes() {
		t.Run(name, func(t *testing.T) {
			for _, b := range bodies {
				idx.Insert(&b.Bounds)
			}
			assert.Equal(t, len(bodies), idx.Len())

			var dst []*BoundingBox
			for _, a := range bodies {
				var want []*BoundingBox
				for _, b := range bodies {
					if a.Bounds.Intersects(&b.Bounds) {
						want = append(want, &b.Bounds)
					}
				}
				dst = idx.QueryIntersecting(&a.Bounds, dst[:0])
				assert.ElementsMatch(t, want, dst)
			}

			idx.Clear()
			assert.Zero(t, idx.Len())
			assert.Empty(t, idx.QueryIntersecting(&bodies[0].Bounds, nil))
		})
	}
}

func TestSpatialIndexAppends(t *testing.T) {
	b := boxAt(10, 10, 2, 2)
	sentinel := &boxAt(400, 400, 1, 1).Bounds

	for name, idx := range allIndexes() {
		t.Run(name, func(t *testing.T) {
			idx.Insert(&b.Bounds)
			got := idx.QueryIntersecting(&b.Bounds, []*BoundingBox{sentinel})
			assert.Equal(t, []*BoundingBox{sentinel, &b.Bounds}, got)
		})
	}
}

func TestNewSpatialIndex(t *testing.T) {
	cfg := DefaultConfig()

	cfg.BroadPhase = BroadPhaseQuadtree
	assert.IsType(t, &Quadtree{}, newSpatialIndex(cfg))
	cfg.BroadPhase = BroadPhaseHashGrid
	assert.IsType(t, &SpatialHashGrid{}, newSpatialIndex(cfg))
	cfg.BroadPhase = BroadPhaseList
	assert.IsType(t, &ListIndex{}, newSpatialIndex(cfg))

	assert.Equal(t, "hashgrid", BroadPhaseHashGrid.String())
	assert.Equal(t, "unknown", BroadPhase(42).String())
}
