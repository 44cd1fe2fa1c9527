package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/vortshed/internal/sim"
)

func TestCirculationDrift(t *testing.T) {
	m := NewCirculationDrift()

	m.Observe(sim.Snapshot{WakeCirculation: 0.5, BoundCirculation: -0.5})
	m.Observe(sim.Snapshot{WakeCirculation: 0.8, BoundCirculation: -0.8})
	m.Observe(sim.Snapshot{WakeCirculation: 0.8, BoundCirculation: -0.79})

	if got := m.Value(); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("drift %v, want 0.01", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear the metric")
	}
}

func TestImpulseJump(t *testing.T) {
	m := NewImpulseJump()

	m.Observe(sim.Snapshot{Impulse: complex(0, 0)})
	m.Observe(sim.Snapshot{Impulse: complex(0.1, 0)})
	m.Observe(sim.Snapshot{Impulse: complex(0.1, 0.4)})

	if got := m.Value(); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("max jump %v, want 0.4", got)
	}
}

func TestEdgeResidualSkipsSuppressed(t *testing.T) {
	m := NewEdgeResidual([]float64{0, 0})

	m.Observe(sim.Snapshot{EdgeSpeeds: []float64{1e-3, math.NaN()}})

	if got := m.Value(); math.Abs(got-1e-3) > 1e-15 {
		t.Errorf("residual %v, want 1e-3", got)
	}
}
