package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/vortshed/internal/integrators"
	"github.com/san-kum/vortshed/internal/vortex"
)

// Config carries the numerical parameters of one run.
type Config struct {
	Dt       float64
	Duration float64

	// Delta is the blob regularization radius, fixed for the whole run.
	Delta float64

	// ShedFraction places a new blob this far from the previous blob
	// toward the edge point.
	ShedFraction float64

	// InitialOffset pushes the seed pair radially off the edge
	// preimages before the first step.
	InitialOffset float64

	// SampleInterval spaces history snapshots; zero captures every step.
	SampleInterval float64

	// Scheme selects the position update: "euler" (default) or
	// "midpoint".
	Scheme string

	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:             5e-3,
		Duration:       0.5,
		Delta:          0.1,
		ShedFraction:   1.0 / 3.0,
		InitialOffset:  0.2,
		SampleInterval: 0,
		Scheme:         "euler",
		ValidateState:  true,
	}
}

// Validate rejects non-physical or out-of-range numerical parameters.
func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.Delta <= 0 {
		return fmt.Errorf("regularization radius must be positive, got %g", c.Delta)
	}
	if c.ShedFraction <= 0 || c.ShedFraction >= 1 {
		return fmt.Errorf("shed fraction must sit in (0,1), got %g", c.ShedFraction)
	}
	if c.InitialOffset <= 0 {
		return fmt.Errorf("initial offset must be positive, got %g", c.InitialOffset)
	}
	if _, ok := integrators.ByName(c.Scheme); !ok {
		return fmt.Errorf("unknown scheme %q", c.Scheme)
	}
	return nil
}

// Snapshot is one captured simulation state: body placement, the full
// ordered blob list in physical coordinates, and derived diagnostics.
type Snapshot struct {
	Time      float64
	BodyPos   complex128
	BodyAngle float64

	// Blobs holds physical-plane positions with strengths, in shed
	// order; an independent copy, never an alias of the live wake.
	Blobs []vortex.Blob

	// Impulse is the wake linear impulse i·ΣΓₖ(zₖ − body center).
	Impulse complex128

	WakeCirculation  float64
	BoundCirculation float64

	// EdgeSpeeds is the post-shed tangential speed at each edge
	// preimage; NaN for suppressed edges.
	EdgeSpeeds []float64
}

// Metric accumulates a scalar diagnostic over the run.
type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(s Snapshot)
}

// Result collects the sampled history of a run.
type Result struct {
	Snapshots  []Snapshot
	Times      []float64
	Impulses   []complex128
	Metrics    map[string]float64
	StepsTaken int
}

// FinalWakeSize is the blob count at the end of the run.
func (r *Result) FinalWakeSize() int {
	if len(r.Snapshots) == 0 {
		return 0
	}
	return len(r.Snapshots[len(r.Snapshots)-1].Blobs)
}

// StepError ties a failure to the step it aborted.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e StepError) Unwrap() error { return e.Err }

func validPositions(pos []complex128) bool {
	for _, p := range pos {
		if math.IsNaN(real(p)) || math.IsNaN(imag(p)) ||
			math.IsInf(real(p), 0) || math.IsInf(imag(p), 0) {
			return false
		}
	}
	return true
}
