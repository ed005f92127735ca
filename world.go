package boxlite

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// World owns bodies, joints and the live contact solvers and advances them
// with Step. It is not safe for concurrent use; hand snapshots to other
// goroutines instead.
type World struct {
	// Config may be edited between steps. Bounds and the broad-phase
	// settings only take effect at construction.
	Config Config

	bodies  []*Body
	joints  []*Joint
	solvers []*ContactSolver
	pairs   map[PairKey]*ContactSolver

	index   SpatialIndex
	tested  map[PairKey]struct{}
	scratch []*BoundingBox

	idSeed    int
	stepCount uint64
	epoch     uuid.UUID
	log       Logger
}

func NewWorld(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		Config: cfg,
		pairs:  make(map[PairKey]*ContactSolver),
		tested: make(map[PairKey]struct{}),
		index:  newSpatialIndex(cfg),
		epoch:  uuid.New(),
		log:    loggerOrNop(cfg.Logger),
	}
	w.log.Infof("world %s created: broad phase %s, %d iterations", w.epoch, cfg.BroadPhase, cfg.Iterations)
	return w, nil
}

// AddBody registers b and returns its id. Ids start at 1 and are never
// reused, not even after Clear.
func (w *World) AddBody(b *Body) int {
	w.idSeed++
	b.ID = w.idSeed
	b.Bounds.body = b
	b.Bounds.lastAngle = math.NaN()
	b.Bounds.Update()
	w.bodies = append(w.bodies, b)
	return b.ID
}

func (w *World) AddJoint(j *Joint) {
	w.joints = append(w.joints, j)
}

// Clear drops all bodies, joints and contacts and starts a new epoch.
func (w *World) Clear() {
	clear(w.bodies)
	w.bodies = w.bodies[:0]
	clear(w.joints)
	w.joints = w.joints[:0]
	clear(w.solvers)
	w.solvers = w.solvers[:0]
	clear(w.pairs)
	w.index.Clear()

	prev := w.epoch
	w.epoch = uuid.New()
	w.log.Infof("world %s cleared, new epoch %s", prev, w.epoch)
}

func (w *World) Bodies() []*Body                   { return w.bodies }
func (w *World) Joints() []*Joint                  { return w.joints }
func (w *World) Solvers() []*ContactSolver         { return w.solvers }
func (w *World) Index() SpatialIndex               { return w.index }
func (w *World) StepCount() uint64                 { return w.stepCount }
func (w *World) Epoch() uuid.UUID                  { return w.epoch }
func (w *World) Logger() Logger                    { return w.log }
func (w *World) Solver(key PairKey) *ContactSolver { return w.pairs[key] }

// Step advances the world by dt. A non-positive dt still runs the solver
// but without position correction.
func (w *World) Step(dt float64) {
	invDt := 0.0
	if dt > 0 {
		invDt = 1 / dt
	}
	cfg := w.Config.Solver()

	// 1. Existing pairs first, so survivors are merged rather than
	// recreated by the broad phase.
	w.refreshSolvers(cfg)

	// 2. New pairs.
	w.broadPhase()

	// 3. Forces.
	for _, b := range w.bodies {
		b.IntegrateForces(dt, w.Config.Gravity)
	}

	// 4. Pre-steps.
	for _, s := range w.solvers {
		s.PreStep(invDt, cfg)
	}
	for _, j := range w.joints {
		j.PreStep(invDt, cfg)
	}

	// 5. Sequential impulses.
	for i := 0; i < w.Config.Iterations; i++ {
		for _, s := range w.solvers {
			s.ApplyImpulse(cfg)
		}
		for _, j := range w.joints {
			j.ApplyImpulse()
		}
	}

	// 6. Poses.
	for _, b := range w.bodies {
		b.IntegratePose(dt)
	}

	w.stepCount++
}

func (w *World) refreshSolvers(cfg SolverConfig) {
	debug := w.log.DebugEnabled()

	kept := w.solvers[:0]
	for _, s := range w.solvers {
		if s.Refresh(cfg) {
			delete(w.pairs, s.Key())
			if debug {
				w.log.Debugf("step %d: pair %v separated", w.stepCount, s.Key())
			}
			continue
		}
		kept = append(kept, s)
	}
	clear(w.solvers[len(kept):])
	w.solvers = kept
}

func (w *World) broadPhase() {
	debug := w.log.DebugEnabled()

	w.index.Clear()
	for _, b := range w.bodies {
		w.index.Insert(&b.Bounds)
	}

	clear(w.tested)
	for _, a := range w.bodies {
		w.scratch = w.index.QueryIntersecting(&a.Bounds, w.scratch[:0])

		for _, bb := range w.scratch {
			b := bb.Body()
			if b == nil || b == a {
				continue
			}
			if a.InvMass == 0 && b.InvMass == 0 {
				continue
			}

			key := MakePairKey(a, b)
			if _, ok := w.pairs[key]; ok {
				continue
			}
			if _, ok := w.tested[key]; ok {
				continue
			}
			w.tested[key] = struct{}{}

			s := NewContactSolver(a, b)
			if s.NumContacts() == 0 {
				continue
			}
			w.solvers = append(w.solvers, s)
			w.pairs[key] = s
			if debug {
				w.log.Debugf("step %d: pair %v touching with %d contacts", w.stepCount, key, s.NumContacts())
			}
		}
	}
	clear(w.scratch)
}

// ContactView is a read-only copy of one live contact.
type ContactView struct {
	Pair       PairKey
	Position   mgl64.Vec2
	Normal     mgl64.Vec2
	Separation float64
}

// Contacts appends a copy of every live contact to dst.
func (w *World) Contacts(dst []ContactView) []ContactView {
	for _, s := range w.solvers {
		for _, c := range s.Contacts() {
			dst = append(dst, ContactView{
				Pair:       s.Key(),
				Position:   c.Position,
				Normal:     c.Normal,
				Separation: c.Separation,
			})
		}
	}
	return dst
}
