package boxlite

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultIterations         = 10
	DefaultBiasFactor         = 0.2
	DefaultAllowedPenetration = 0.01
)

var ErrInvalidConfig = errors.New("boxlite: invalid config")

type Config struct {
	Gravity    mgl64.Vec2
	Iterations int

	// Bounds is the root region of the quadtree. Bodies outside it are
	// still indexed, only less efficiently.
	Bounds BoundingBox

	AccumulateImpulses bool
	WarmStarting       bool
	PositionCorrection bool

	BiasFactor         float64
	AllowedPenetration float64

	BroadPhase     BroadPhase
	QuadMaxObjects int
	QuadMaxLevels  int
	GridCellSize   float64

	Logger Logger
}

// DefaultConfig uses y-down gravity and a 512x512 root region.
func DefaultConfig() Config {
	return Config{
		Gravity:            mgl64.Vec2{0, 9.807},
		Iterations:         DefaultIterations,
		Bounds:             NewRegion(mgl64.Vec2{0, 0}, mgl64.Vec2{512, 512}),
		AccumulateImpulses: true,
		WarmStarting:       true,
		PositionCorrection: true,
		BiasFactor:         DefaultBiasFactor,
		AllowedPenetration: DefaultAllowedPenetration,
		BroadPhase:         BroadPhaseQuadtree,
		QuadMaxObjects:     DefaultQuadMaxObjects,
		QuadMaxLevels:      DefaultQuadMaxLevels,
		GridCellSize:       DefaultGridCellSize,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Iterations < 0:
		return fmt.Errorf("%w: iterations %d must not be negative", ErrInvalidConfig, c.Iterations)
	case c.BiasFactor < 0 || c.BiasFactor > 1 || math.IsNaN(c.BiasFactor):
		return fmt.Errorf("%w: bias factor %v outside [0, 1]", ErrInvalidConfig, c.BiasFactor)
	case c.AllowedPenetration < 0 || math.IsNaN(c.AllowedPenetration):
		return fmt.Errorf("%w: allowed penetration %v must not be negative", ErrInvalidConfig, c.AllowedPenetration)
	case !(c.Bounds.Max[0] > c.Bounds.Min[0]) || !(c.Bounds.Max[1] > c.Bounds.Min[1]):
		return fmt.Errorf("%w: empty bounds %v..%v", ErrInvalidConfig, c.Bounds.Min, c.Bounds.Max)
	case c.BroadPhase < BroadPhaseQuadtree || c.BroadPhase > BroadPhaseList:
		return fmt.Errorf("%w: unknown broad phase %d", ErrInvalidConfig, int(c.BroadPhase))
	case c.BroadPhase == BroadPhaseHashGrid && c.GridCellSize < 0:
		return fmt.Errorf("%w: grid cell size %v must not be negative", ErrInvalidConfig, c.GridCellSize)
	}
	return nil
}

// Solver returns the per-step flags handed to the contact and joint
// solvers.
func (c Config) Solver() SolverConfig {
	bias := 0.0
	if c.PositionCorrection {
		bias = c.BiasFactor
	}
	return SolverConfig{
		AccumulateImpulses: c.AccumulateImpulses,
		WarmStarting:       c.WarmStarting,
		PositionCorrection: c.PositionCorrection,
		BiasFactor:         bias,
		AllowedPenetration: c.AllowedPenetration,
	}
}

// SolverConfig is an immutable copy of the solver switches for one step.
// BiasFactor is already zero when position correction is off.
type SolverConfig struct {
	AccumulateImpulses bool
	WarmStarting       bool
	PositionCorrection bool
	BiasFactor         float64
	AllowedPenetration float64
}

func DefaultSolverConfig() SolverConfig {
	return DefaultConfig().Solver()
}
