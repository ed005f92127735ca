package boxlite

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Snapshot is a deep copy of the world state after a step. It shares no
// memory with the world and may be read from any goroutine.
type Snapshot struct {
	Epoch    uuid.UUID
	Step     uint64
	Bodies   []BodyState
	Contacts []ContactView
	Joints   []JointState
}

type BodyState struct {
	ID              int
	Position        mgl64.Vec2
	Rotation        float64
	Velocity        mgl64.Vec2
	AngularVelocity float64
	HalfExtents     mgl64.Vec2
	Static          bool
}

type JointState struct {
	BodyA, BodyB int
	AnchorA      mgl64.Vec2
	AnchorB      mgl64.Vec2
	Impulse      mgl64.Vec2
}

// Snapshot copies the current state.
func (w *World) Snapshot() *Snapshot {
	snap := &Snapshot{
		Epoch:  w.epoch,
		Step:   w.stepCount,
		Bodies: make([]BodyState, 0, len(w.bodies)),
		Joints: make([]JointState, 0, len(w.joints)),
	}
	for _, b := range w.bodies {
		snap.Bodies = append(snap.Bodies, BodyState{
			ID:              b.ID,
			Position:        b.Position,
			Rotation:        b.Rotation,
			Velocity:        b.Velocity,
			AngularVelocity: b.AngularVelocity,
			HalfExtents:     b.HalfExtents,
			Static:          b.IsStatic(),
		})
	}
	for _, j := range w.joints {
		snap.Joints = append(snap.Joints, JointState{
			BodyA:   j.BodyA.ID,
			BodyB:   j.BodyB.ID,
			AnchorA: j.AnchorA(),
			AnchorB: j.AnchorB(),
			Impulse: j.P,
		})
	}
	snap.Contacts = w.Contacts(nil)
	return snap
}

// Body looks up a body state by id.
func (s *Snapshot) Body(id int) (BodyState, bool) {
	for _, b := range s.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return BodyState{}, false
}

// SnapshotProxy hands the latest snapshot from the simulation goroutine to
// readers without locking.
type SnapshotProxy struct {
	latest atomic.Pointer[Snapshot]
}

func (p *SnapshotProxy) Publish(s *Snapshot) {
	p.latest.Store(s)
}

// Latest returns the most recent snapshot, or nil, leaving it in place.
func (p *SnapshotProxy) Latest() *Snapshot {
	return p.latest.Load()
}

// Take returns the most recent snapshot and clears it, so each snapshot is
// consumed at most once.
func (p *SnapshotProxy) Take() *Snapshot {
	return p.latest.Swap(nil)
}
