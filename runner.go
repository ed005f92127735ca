package boxlite

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultFrequency = 60.0
	// MaxStepsPerFrame caps catch-up steps after a long frame.
	MaxStepsPerFrame = 8
)

// Runner steps a World at a fixed frequency on its own goroutine and
// publishes a Snapshot after every step.
type Runner struct {
	World     *World
	Proxy     *SnapshotProxy
	Frequency float64

	mu      sync.Mutex
	pending []func(*World)
}

func NewRunner(w *World, freq float64) *Runner {
	return &Runner{World: w, Proxy: &SnapshotProxy{}, Frequency: freq}
}

// Do queues fn to run against the world before the next step. It is the
// only safe way to touch the world while Run is active.
func (r *Runner) Do(fn func(*World)) {
	r.mu.Lock()
	r.pending = append(r.pending, fn)
	r.mu.Unlock()
}

// Run blocks until ctx is done and returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	log := r.logger()

	freq := r.Frequency
	if !(freq > 0) {
		log.Warnf("runner frequency %v not positive, using %v", freq, DefaultFrequency)
		freq = DefaultFrequency
	}
	if r.Proxy == nil {
		r.Proxy = &SnapshotProxy{}
	}

	dt := 1 / freq
	ticker := time.NewTicker(time.Duration(float64(time.Second) / freq))
	defer ticker.Stop()

	log.Infof("runner started at %v Hz", freq)
	for {
		select {
		case <-ctx.Done():
			log.Infof("runner stopped after %d steps", r.World.StepCount())
			return ctx.Err()
		case <-ticker.C:
			r.drain()
			r.World.Step(dt)
			r.Proxy.Publish(r.World.Snapshot())
		}
	}
}

func (r *Runner) logger() Logger {
	if dl, ok := r.World.Logger().(*DefaultLogger); ok {
		return dl.Named("runner")
	}
	return r.World.Logger()
}

func (r *Runner) drain() {
	r.mu.Lock()
	fns := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, fn := range fns {
		fn(r.World)
	}
}

// Clock converts variable frame times into a whole number of fixed steps.
type Clock struct {
	Step time.Duration
	Max  int

	last  time.Time
	accum time.Duration
}

func NewClock(freq float64) *Clock {
	if !(freq > 0) {
		freq = DefaultFrequency
	}
	return &Clock{Step: time.Duration(float64(time.Second) / freq), Max: MaxStepsPerFrame}
}

// Advance adds elapsed to the accumulator and returns how many fixed steps
// to run. Whole steps beyond Max are dropped; the sub-step remainder is
// kept.
func (c *Clock) Advance(elapsed time.Duration) int {
	if c.Step <= 0 {
		return 0
	}
	if elapsed > 0 {
		c.accum += elapsed
	}
	n := 0
	for c.accum >= c.Step && (c.Max <= 0 || n < c.Max) {
		c.accum -= c.Step
		n++
	}
	if c.accum >= c.Step {
		c.accum = 0
	}
	return n
}

// Tick advances by the wall time since the previous Tick. The first call
// returns 0.
func (c *Clock) Tick(now time.Time) int {
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	elapsed := now.Sub(c.last)
	c.last = now
	return c.Advance(elapsed)
}

// Alpha is the leftover fraction of a step, for interpolating poses.
func (c *Clock) Alpha() float64 {
	return float64(c.accum) / float64(c.Step)
}

// Dt is the fixed step in seconds.
func (c *Clock) Dt() float64 {
	return c.Step.Seconds()
}
