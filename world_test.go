package boxlite

import (
	"bytes"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDt = 1.0 / 60

func newTestWorld(t *testing.T, tweak func(*Config)) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Gravity = mgl64.Vec2{0, 10}
	if tweak != nil {
		tweak(&cfg)
	}
	w, err := NewWorld(cfg)
	require.NoError(t, err)
	return w
}

// addFloor adds a static 40x1 slab whose top face is at y = 10.5.
func addFloor(w *World) *Body {
	floor := NewBody(40, 1, InfiniteMass).SetPosition(mgl64.Vec2{20, 11})
	w.AddBody(floor)
	return floor
}

// A box dropped from rest onto the floor settles without sinking past the
// allowed penetration.
func TestWorldRestingBox(t *testing.T) {
	for _, bp := range []BroadPhase{BroadPhaseQuadtree, BroadPhaseHashGrid, BroadPhaseList} {
		t.Run(bp.String(), func(t *testing.T) {
			w := newTestWorld(t, func(c *Config) { c.BroadPhase = bp })
			floor := addFloor(w)

			// bottom face exactly on the floor's top face
			box := NewBody(1, 1, 1).SetPosition(mgl64.Vec2{10, 10})
			w.AddBody(box)

			limit := w.Config.AllowedPenetration + 1e-6
			var out [MaxContactPoints]ContactPoint
			for i := 0; i < 120; i++ {
				w.Step(testDt)

				n := Collide(&out, floor, box)
				for _, c := range out[:n] {
					assert.GreaterOrEqual(t, c.Separation, -limit, "step %d", i)
				}
			}

			assert.Less(t, math.Abs(box.Velocity[1]), 0.05)
			assert.InDelta(t, 10, box.Position[1], w.Config.AllowedPenetration)
			assert.InDelta(t, 0, box.Rotation, 1e-3)
			assert.Equal(t, uint64(120), w.StepCount())
		})
	}
}

// A box that starts past the slop is pushed back out and never sinks
// deeper than where it started.
func TestWorldRecoversFromPenetration(t *testing.T) {
	w := newTestWorld(t, nil)
	addFloor(w)

	box := NewBody(1, 1, 1).SetPosition(mgl64.Vec2{10, 10.02})
	w.AddBody(box)

	var contacts []ContactView
	for i := 0; i < 120; i++ {
		w.Step(testDt)

		contacts = w.Contacts(contacts[:0])
		for _, c := range contacts {
			assert.GreaterOrEqual(t, c.Separation, -0.021, "step %d", i)
		}
	}

	assert.Less(t, math.Abs(box.Velocity[1]), 0.05)
	assert.InDelta(t, 10.01, box.Position[1], 0.01)
	require.Len(t, w.Solvers(), 1)
	assert.Equal(t, 2, w.Solvers()[0].NumContacts())
}

func TestWorldFrictionCone(t *testing.T) {
	w := newTestWorld(t, nil)
	addFloor(w)

	box := NewBody(1, 1, 1).SetPosition(mgl64.Vec2{10, 10.02})
	box.Velocity = mgl64.Vec2{3, 0}
	w.AddBody(box)

	for i := 0; i < 30; i++ {
		w.Step(testDt)
		for _, s := range w.Solvers() {
			for _, c := range s.Contacts() {
				limit := s.Friction()*c.NormalImpulse + 1e-9
				assert.LessOrEqual(t, math.Abs(c.TangentImpulse), limit, "step %d", i)
			}
		}
	}

	// sliding, slowed by friction but not yet stopped
	assert.Less(t, box.Velocity[0], 3.0)
	assert.Greater(t, box.Velocity[0], 0.0)
}

func TestWorldWarmStartContinuity(t *testing.T) {
	w := newTestWorld(t, nil)
	addFloor(w)
	w.AddBody(NewBody(1, 1, 1).SetPosition(mgl64.Vec2{10, 10.02}))

	for i := 0; i < 30; i++ {
		w.Step(testDt)
	}
	require.Len(t, w.Solvers(), 1)
	s := w.Solvers()[0]

	before := map[FeaturePair]float64{}
	for _, c := range s.Contacts() {
		require.Positive(t, c.NormalImpulse)
		before[c.Feature] = c.NormalImpulse
	}

	cfg := w.Config.Solver()
	require.False(t, s.Refresh(cfg))
	require.Equal(t, len(before), s.NumContacts())
	for _, c := range s.Contacts() {
		want, ok := before[c.Feature]
		require.True(t, ok, "feature %v survived", c.Feature)
		assert.Equal(t, want, c.NormalImpulse)
	}

	cfg.WarmStarting = false
	require.False(t, s.Refresh(cfg))
	for _, c := range s.Contacts() {
		assert.Zero(t, c.NormalImpulse)
		assert.Zero(t, c.TangentImpulse)
	}
}

func TestWorldJointRigidity(t *testing.T) {
	w := newTestWorld(t, func(c *Config) { c.Gravity = mgl64.Vec2{0, 9.807} })

	a := NewBody(1, 1, 1).SetPosition(mgl64.Vec2{100, 100})
	b := NewBody(1, 1, 1).SetPosition(mgl64.Vec2{103, 100})
	a.Velocity = mgl64.Vec2{0, -1}
	b.Velocity = mgl64.Vec2{0, 1}
	a.AngularVelocity = 0.5
	b.AngularVelocity = 0.5
	w.AddBody(a)
	w.AddBody(b)

	j := NewJoint(a, b, mgl64.Vec2{101.5, 100})
	w.AddJoint(j)

	worst := 0.0
	for i := 0; i < 300; i++ {
		w.Step(testDt)
		worst = math.Max(worst, j.Separation())
	}

	assert.Less(t, worst, 1e-2)
	assert.Empty(t, w.Solvers(), "the pinned boxes never touch")
	// the pair fell together
	assert.Greater(t, (a.Position[1]+b.Position[1])/2, 150.0)
}

func TestWorldSkipsStaticPairs(t *testing.T) {
	w := newTestWorld(t, nil)
	w.AddBody(NewBody(2, 2, InfiniteMass).SetPosition(mgl64.Vec2{10, 10}))
	w.AddBody(NewBody(2, 2, InfiniteMass).SetPosition(mgl64.Vec2{10.5, 10}))

	w.Step(testDt)
	assert.Empty(t, w.Solvers())
}

func TestWorldOneSolverPerPair(t *testing.T) {
	w := newTestWorld(t, func(c *Config) { c.Gravity = mgl64.Vec2{} })
	a := NewBody(1, 1, 1).SetPosition(mgl64.Vec2{10, 10})
	b := NewBody(1, 1, 1).SetPosition(mgl64.Vec2{10, 10.9})
	idA := w.AddBody(a)
	idB := w.AddBody(b)

	w.Step(testDt)
	require.Len(t, w.Solvers(), 1)
	s := w.Solver(PairKey{idA, idB})
	require.NotNil(t, s)
	assert.Same(t, a, s.BodyA)

	// survivors are kept, not recreated
	w.Step(testDt)
	require.Len(t, w.Solvers(), 1)
	assert.Same(t, s, w.Solvers()[0])

	// pull them apart: the solver is dropped on the next refresh
	b.SetPosition(mgl64.Vec2{10, 20})
	b.Velocity = mgl64.Vec2{}
	w.Step(testDt)
	assert.Empty(t, w.Solvers())
	assert.Nil(t, w.Solver(PairKey{idA, idB}))
}

func TestWorldZeroDt(t *testing.T) {
	w := newTestWorld(t, nil)
	addFloor(w)
	box := NewBody(1, 1, 1).SetPosition(mgl64.Vec2{10, 10.05})
	w.AddBody(box)

	assert.NotPanics(t, func() { w.Step(0) })
	assertVec(t, mgl64.Vec2{10, 10.05}, box.Position)
	for _, c := range w.Solvers()[0].Contacts() {
		assert.Zero(t, c.Bias)
	}
}

func TestWorldIDsAndClear(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWorld(t, func(c *Config) { c.Logger = NewWriterLogger("phys", false, &buf, &buf) })

	assert.Equal(t, 1, w.AddBody(NewBody(1, 1, 1)))
	assert.Equal(t, 2, w.AddBody(NewBody(1, 1, 1)))
	w.AddJoint(NewJoint(w.Bodies()[0], w.Bodies()[1], mgl64.Vec2{}))
	w.Step(testDt)

	epoch := w.Epoch()
	w.Clear()

	assert.Empty(t, w.Bodies())
	assert.Empty(t, w.Joints())
	assert.Empty(t, w.Solvers())
	assert.Zero(t, w.Index().Len())
	assert.NotEqual(t, epoch, w.Epoch())
	assert.Contains(t, buf.String(), "cleared")

	// ids keep counting
	assert.Equal(t, 3, w.AddBody(NewBody(1, 1, 1)))
}

func TestWorldDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWorld(t, func(c *Config) {
		c.Gravity = mgl64.Vec2{}
		c.Logger = NewWriterLogger("phys", true, &buf, &buf)
	})
	w.AddBody(NewBody(1, 1, 1).SetPosition(mgl64.Vec2{10, 10}))
	b := NewBody(1, 1, 1).SetPosition(mgl64.Vec2{10, 10.9})
	w.AddBody(b)

	w.Step(testDt)
	assert.Contains(t, buf.String(), "touching with 2 contacts")

	b.SetPosition(mgl64.Vec2{10, 30})
	w.Step(testDt)
	assert.Contains(t, buf.String(), "separated")
}

func TestWorldBodyLiteral(t *testing.T) {
	w := newTestWorld(t, nil)

	// a body built without NewBody still gets working bounds
	b := &Body{HalfExtents: mgl64.Vec2{1, 1}, Position: mgl64.Vec2{5, 5}, Mass: 1, InvMass: 1}
	w.AddBody(b)
	assert.Same(t, b, b.Bounds.Body())
	assertVec(t, mgl64.Vec2{6, 6}, b.Bounds.Max)
}

func TestNewWorldInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Iterations = -1

	w, err := NewWorld(cfg)
	assert.Nil(t, w)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
