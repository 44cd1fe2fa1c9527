// Package sim marches the vortex-shedding simulation through time.
//
// Each step evaluates the body kinematics, rebuilds the image system,
// advects the whole blob population, advances the body placement, then
// sheds one new blob per designated edge with strengths from the edge
// condition solve. The wake grows by one generation per step and is
// never pruned.
package sim

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/san-kum/vortshed/internal/body"
	"github.com/san-kum/vortshed/internal/integrators"
	"github.com/san-kum/vortshed/internal/kutta"
	"github.com/san-kum/vortshed/internal/vortex"
)

// Marcher owns the evolving simulation state for the duration of a run.
type Marcher struct {
	body    *body.Body
	edges   []kutta.Edge
	stepper integrators.Stepper

	wake *vortex.Wake

	metrics   []Metric
	observers []Observer
}

func New(b *body.Body, edges []kutta.Edge) *Marcher {
	return &Marcher{body: b, edges: edges}
}

func (m *Marcher) AddMetric(mt Metric)    { m.metrics = append(m.metrics, mt) }
func (m *Marcher) AddObserver(o Observer) { m.observers = append(m.observers, o) }

// Wake exposes the live blob system; read-only use between steps.
func (m *Marcher) Wake() *vortex.Wake { return m.wake }

func (m *Marcher) validate(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(m.edges) == 0 || len(m.edges) > 2 {
		return fmt.Errorf("need 1 or 2 shedding edges, got %d", len(m.edges))
	}
	for _, e := range m.edges {
		if e.Index < 0 || e.Index >= m.body.NumEdges() {
			return fmt.Errorf("edge index %d outside the map's %d designated edges", e.Index, m.body.NumEdges())
		}
	}
	return nil
}

// Run marches from t=0 until the configured final time.
func (m *Marcher) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := m.validate(cfg); err != nil {
		return nil, err
	}
	m.stepper, _ = integrators.ByName(cfg.Scheme)

	for _, mt := range m.metrics {
		mt.Reset()
	}

	m.wake = vortex.NewWake(cfg.Delta)
	m.body.Update(0)
	m.seed(cfg)

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Snapshots: make([]Snapshot, 0, steps+1),
		Times:     make([]float64, 0, steps+1),
		Impulses:  make([]complex128, 0, steps+1),
		Metrics:   make(map[string]float64),
	}

	t := 0.0
	snap := m.snapshot(t)
	m.record(result, snap)
	nextSample := cfg.SampleInterval

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := m.step(i, t, cfg); err != nil {
			return result, err
		}
		t += cfg.Dt
		result.StepsTaken++

		snap = m.snapshot(t)
		for _, mt := range m.metrics {
			mt.Observe(snap)
		}
		for _, o := range m.observers {
			o.OnStep(snap)
		}

		if cfg.SampleInterval <= 0 || t+1e-9 >= nextSample {
			m.record(result, snap)
			nextSample += cfg.SampleInterval
		}
	}

	for _, mt := range m.metrics {
		result.Metrics[mt.Name()] = mt.Value()
	}
	return result, nil
}

// step runs one full marching cycle at time t.
func (m *Marcher) step(i int, t float64, cfg Config) error {
	m.body.Update(t)

	// advect the blob population; the rate closure rebuilds the image
	// system for whatever positions the stepper probes
	rate := func(pos []complex128, tt float64) ([]complex128, error) {
		work := m.wake.WithPositions(pos)
		img := vortex.Enforce(work, m.body)
		return vortex.Rates(work, img, m.body)
	}

	newPos, err := m.stepper.Step(rate, m.wake.Positions(), t, cfg.Dt)
	if err != nil {
		return StepError{Step: i, Time: t, Err: err}
	}
	if cfg.ValidateState && !validPositions(newPos) {
		return StepError{Step: i, Time: t, Err: fmt.Errorf("invalid blob position (NaN/Inf)")}
	}
	m.wake.SetPositions(newPos)

	// body placement follows its prescribed rates
	m.body.Pos += m.body.Vel * complex(cfg.Dt, 0)
	m.body.Angle += m.body.AngVel * cfg.Dt

	// shed at the advanced time
	m.body.Update(t + cfg.Dt)
	if err := m.shed(cfg); err != nil {
		return StepError{Step: i, Time: t + cfg.Dt, Err: err}
	}
	return nil
}

// seed places the initial pair: one zero-strength blob per edge, pushed
// radially off the edge preimage.
func (m *Marcher) seed(cfg Config) {
	gen := make([]vortex.Blob, len(m.edges))
	for i, e := range m.edges {
		zetaE := m.body.EdgeZeta(e.Index)
		gen[i] = vortex.Blob{Pos: zetaE * complex(1+cfg.InitialOffset, 0)}
	}
	m.wake.AppendGeneration(gen)
}

// shed appends one blob per edge, positioned between the previous blob
// at that edge and the edge point, with strengths from the edge
// condition solve.
func (m *Marcher) shed(cfg Config) error {
	pos := make([]complex128, len(m.edges))
	for i, e := range m.edges {
		zetaE := m.body.EdgeZeta(e.Index)
		zEdge := m.body.Transform(zetaE)

		prev, ok := m.wake.Recent(i)
		if !ok {
			pos[i] = zetaE * complex(1+cfg.InitialOffset, 0)
			continue
		}

		zPrev := m.body.Transform(prev.Pos)
		zNew := zPrev + complex(cfg.ShedFraction, 0)*(zEdge-zPrev)

		zeta, err := m.body.Inverse(zNew)
		if err != nil {
			return err
		}
		// the inverse may land on the interior sheet; reflect back out
		if cmplx.Abs(zeta) < 1 {
			zeta = 1 / cmplx.Conj(zeta)
		}
		pos[i] = zeta
	}

	img := vortex.Enforce(m.wake, m.body)
	gam, err := kutta.Strengths(m.body, m.wake, img, m.edges, pos)
	if err != nil {
		return err
	}

	gen := make([]vortex.Blob, len(m.edges))
	for i := range m.edges {
		gen[i] = vortex.Blob{Pos: pos[i], Gamma: gam[i]}
	}
	m.wake.AppendGeneration(gen)
	return nil
}

// snapshot captures an independent copy of the current state plus the
// diagnostics derived from a fresh enforcement.
func (m *Marcher) snapshot(t float64) Snapshot {
	img := vortex.Enforce(m.wake, m.body)

	blobs := make([]vortex.Blob, m.wake.Len())
	impulse := complex(0, 0)
	for i, b := range m.wake.Blobs {
		z := m.body.Transform(b.Pos)
		blobs[i] = vortex.Blob{Pos: z, Gamma: b.Gamma}
		impulse += complex(0, b.Gamma) * (z - m.body.Pos)
	}

	speeds := make([]float64, len(m.edges))
	for i, e := range m.edges {
		if e.Suppressed() {
			speeds[i] = math.NaN()
			continue
		}
		speeds[i] = kutta.Residual(m.body, m.wake, img, e)
	}

	return Snapshot{
		Time:             t,
		BodyPos:          m.body.Pos,
		BodyAngle:        m.body.Angle,
		Blobs:            blobs,
		Impulse:          impulse,
		WakeCirculation:  m.wake.TotalCirculation(),
		BoundCirculation: img.BoundCirculation(),
		EdgeSpeeds:       speeds,
	}
}

func (m *Marcher) record(r *Result, s Snapshot) {
	r.Snapshots = append(r.Snapshots, s)
	r.Times = append(r.Times, s.Time)
	r.Impulses = append(r.Impulses, s.Impulse)
}
