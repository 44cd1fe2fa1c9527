package kutta

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/vortshed/internal/body"
	"github.com/san-kum/vortshed/internal/conformal"
	"github.com/san-kum/vortshed/internal/vortex"
)

func plateBody(t *testing.T) *body.Body {
	t.Helper()
	m, err := conformal.NewPolygon([]complex128{complex(-0.5, 0), complex(0.5, 0)}, 0)
	if err != nil {
		t.Fatalf("NewPolygon: %v", err)
	}
	return body.New(m, 0, 20*math.Pi/180, body.Steady(complex(-1, 0), 0))
}

// shedAndEnforce appends the solved blobs and rebuilds the image system
// so residuals can be checked against the complete flow.
func shedAndEnforce(b *body.Body, w *vortex.Wake, edges []Edge, pos []complex128, gam []float64) *vortex.ImageSystem {
	gen := make([]vortex.Blob, len(pos))
	for i := range pos {
		gen[i] = vortex.Blob{Pos: pos[i], Gamma: gam[i]}
	}
	w.AppendGeneration(gen)
	return vortex.Enforce(w, b)
}

func TestSingleActiveEdge(t *testing.T) {
	b := plateBody(t)
	w := vortex.NewWake(0.05)
	img := vortex.Enforce(w, b)

	edges := []Edge{
		{Index: 0, Suction: 0},
		{Index: 1, Suction: math.Inf(1)},
	}
	pos := []complex128{complex(1.05, 0), complex(-1.05, 0)}

	gam, err := Strengths(b, w, img, edges, pos)
	if err != nil {
		t.Fatalf("Strengths: %v", err)
	}
	if gam[0] == 0 {
		t.Error("active edge solved to zero strength under a unit stream")
	}
	if gam[1] != 0 {
		t.Errorf("suppressed edge strength %v, want 0", gam[1])
	}

	img = shedAndEnforce(b, w, edges, pos, gam)
	if r := Residual(b, w, img, edges[0]); math.Abs(r) > 1e-9 {
		t.Errorf("active edge residual %.3e", r)
	}
}

func TestTwoActiveEdges(t *testing.T) {
	b := plateBody(t)
	w := vortex.NewWake(0.05)
	w.AppendGeneration([]vortex.Blob{
		{Pos: complex(1.3, 0.2), Gamma: 0.4},
		{Pos: complex(-1.3, 0.2), Gamma: -0.3},
	})
	img := vortex.Enforce(w, b)

	edges := []Edge{
		{Index: 0, Suction: 0},
		{Index: 1, Suction: 0.1},
	}
	pos := []complex128{complex(1.06, 0.01), complex(-1.06, 0.01)}

	gam, err := Strengths(b, w, img, edges, pos)
	if err != nil {
		t.Fatalf("Strengths: %v", err)
	}

	img = shedAndEnforce(b, w, edges, pos, gam)
	if r := Residual(b, w, img, edges[0]); math.Abs(r-0) > 1e-9 {
		t.Errorf("edge 0 residual %.3e, want 0", r)
	}
	if r := Residual(b, w, img, edges[1]); math.Abs(r-0.1) > 1e-9 {
		t.Errorf("edge 1 tangential speed %.6f, want suction target 0.1", r)
	}
}

func TestAllSuppressed(t *testing.T) {
	b := plateBody(t)
	w := vortex.NewWake(0.05)
	img := vortex.Enforce(w, b)

	edges := []Edge{
		{Index: 0, Suction: math.Inf(1)},
		{Index: 1, Suction: math.Inf(1)},
	}
	gam, err := Strengths(b, w, img, edges, []complex128{complex(1.05, 0), complex(-1.05, 0)})
	if err != nil {
		t.Fatalf("Strengths: %v", err)
	}
	for i, g := range gam {
		if g != 0 {
			t.Errorf("edge %d strength %v, want 0", i, g)
		}
	}
}

func TestDegenerateSystem(t *testing.T) {
	b := plateBody(t)
	w := vortex.NewWake(0.05)
	img := vortex.Enforce(w, b)

	// identical edges with identical trial positions give identical
	// rows: singular
	edges := []Edge{
		{Index: 0, Suction: 0},
		{Index: 0, Suction: 0},
	}
	pos := []complex128{complex(1.05, 0), complex(1.05, 0)}

	_, err := Strengths(b, w, img, edges, pos)
	if err == nil {
		t.Fatal("expected error for singular system")
	}
	if !errors.Is(err, ErrDegenerateEdgeSystem) {
		t.Errorf("expected ErrDegenerateEdgeSystem, got %v", err)
	}
}

func TestMismatchedPositions(t *testing.T) {
	b := plateBody(t)
	w := vortex.NewWake(0.05)
	img := vortex.Enforce(w, b)

	_, err := Strengths(b, w, img, []Edge{{Index: 0, Suction: 0}}, nil)
	if !errors.Is(err, ErrDegenerateEdgeSystem) {
		t.Errorf("expected ErrDegenerateEdgeSystem, got %v", err)
	}
}

func TestSuppressedEdgeUnaffected(t *testing.T) {
	b := plateBody(t)
	w := vortex.NewWake(0.05)
	img := vortex.Enforce(w, b)

	edges := []Edge{
		{Index: 0, Suction: 0},
		{Index: 1, Suction: math.Inf(1)},
	}
	pos := []complex128{complex(1.05, 0), complex(-1.05, 0)}
	gam, err := Strengths(b, w, img, edges, pos)
	if err != nil {
		t.Fatalf("Strengths: %v", err)
	}

	before := Residual(b, w, img, Edge{Index: 1})
	img = shedAndEnforce(b, w, edges, pos, gam)
	after := Residual(b, w, img, Edge{Index: 1})

	// the suppressed edge carries no condition; its tangential speed is
	// whatever the rest of the flow makes it, and the zero-strength
	// paired blob must not move it
	if math.Abs(after-before) > 0.5 {
		t.Errorf("suppressed edge speed moved from %.4f to %.4f", before, after)
	}
}
