// Package metrics provides running diagnostics over simulation
// snapshots.
package metrics

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/vortshed/internal/sim"
)

// CirculationDrift tracks how far the total (wake + body-bound)
// circulation wanders from its value at the first observation.
type CirculationDrift struct {
	initial float64
	set     bool
	max     float64
}

func NewCirculationDrift() *CirculationDrift { return &CirculationDrift{} }

func (c *CirculationDrift) Name() string { return "circulation_drift" }

func (c *CirculationDrift) Observe(s sim.Snapshot) {
	total := s.WakeCirculation + s.BoundCirculation
	if !c.set {
		c.initial = total
		c.set = true
		return
	}
	if d := math.Abs(total - c.initial); d > c.max {
		c.max = d
	}
}

func (c *CirculationDrift) Value() float64 { return c.max }

func (c *CirculationDrift) Reset() {
	c.initial = 0
	c.set = false
	c.max = 0
}

// ImpulseJump records the largest impulse change between consecutive
// observations; a proxy for history smoothness.
type ImpulseJump struct {
	prev complex128
	set  bool
	max  float64
}

func NewImpulseJump() *ImpulseJump { return &ImpulseJump{} }

func (m *ImpulseJump) Name() string { return "impulse_jump" }

func (m *ImpulseJump) Observe(s sim.Snapshot) {
	if m.set {
		if j := cmplx.Abs(s.Impulse - m.prev); j > m.max {
			m.max = j
		}
	}
	m.prev = s.Impulse
	m.set = true
}

func (m *ImpulseJump) Value() float64 { return m.max }

func (m *ImpulseJump) Reset() {
	m.prev = 0
	m.set = false
	m.max = 0
}

// EdgeResidual tracks the worst post-shed tangential speed offset over
// the active edges. Suppressed edges (NaN entries) are skipped.
type EdgeResidual struct {
	targets []float64
	max     float64
}

// NewEdgeResidual takes the suction target per edge, aligned with the
// snapshot's EdgeSpeeds.
func NewEdgeResidual(targets []float64) *EdgeResidual {
	return &EdgeResidual{targets: targets}
}

func (e *EdgeResidual) Name() string { return "edge_residual" }

func (e *EdgeResidual) Observe(s sim.Snapshot) {
	for i, v := range s.EdgeSpeeds {
		if math.IsNaN(v) || i >= len(e.targets) {
			continue
		}
		if r := math.Abs(v - e.targets[i]); r > e.max {
			e.max = r
		}
	}
}

func (e *EdgeResidual) Value() float64 { return e.max }

func (e *EdgeResidual) Reset() { e.max = 0 }
