// Package kutta determines the strengths of newly shed vortex blobs so
// that the velocity stays finite at designated sharp edges.
//
// At a sharp corner the map derivative vanishes, so a finite physical
// velocity requires the circle-plane tangential velocity at the edge
// preimage to hit a prescribed target, the critical suction parameter.
// One unit-strength trial blob (with its image) per active edge gives a
// linear influence system, at most 2×2, solved directly.
package kutta

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/san-kum/vortshed/internal/body"
	"github.com/san-kum/vortshed/internal/vortex"
)

// ErrDegenerateEdgeSystem reports a singular or ill-conditioned edge
// influence system: degenerate geometry or coincident points.
var ErrDegenerateEdgeSystem = errors.New("kutta: degenerate edge system")

const detTol = 1e-14

// Edge designates a shedding corner: an index into the map's edge list
// and its critical suction parameter. A +Inf suction suppresses the
// edge: no condition is imposed and its paired blob gets zero strength.
type Edge struct {
	Index   int
	Suction float64
}

func (e Edge) Suppressed() bool { return math.IsInf(e.Suction, 1) }

// Strengths solves for the circulations of blobs newly placed at newPos
// (one per edge, circle plane) so that the tangential velocity at every
// active edge equals its suction target. The existing wake and image
// system supply the known contribution; suppressed edges produce zero.
func Strengths(b *body.Body, w *vortex.Wake, img *vortex.ImageSystem, edges []Edge, newPos []complex128) ([]float64, error) {
	if len(newPos) != len(edges) {
		return nil, fmt.Errorf("%d trial positions for %d edges: %w", len(newPos), len(edges), ErrDegenerateEdgeSystem)
	}

	gam := make([]float64, len(edges))

	active := make([]int, 0, len(edges))
	for i, e := range edges {
		if !e.Suppressed() {
			active = append(active, i)
		}
	}
	if len(active) == 0 {
		return gam, nil
	}
	if len(active) > 2 {
		return nil, fmt.Errorf("%d active edges, at most 2 supported: %w", len(active), ErrDegenerateEdgeSystem)
	}

	d2 := w.Delta * w.Delta

	var a [2][2]float64
	var rhs [2]float64
	for ai, ei := range active {
		zetaE := b.EdgeZeta(edges[ei].Index)
		base := vortex.CircleVelocity(zetaE, w, img)
		rhs[ai] = edges[ei].Suction - vortex.TangentSpeed(zetaE, base)

		for aj, ej := range active {
			unit := vortex.Induced(zetaE, newPos[ej], 1, d2) +
				vortex.Induced(zetaE, 1/cmplx.Conj(newPos[ej]), -1, 0)
			a[ai][aj] = vortex.TangentSpeed(zetaE, unit)
		}
	}

	switch len(active) {
	case 1:
		if math.Abs(a[0][0]) < detTol {
			return nil, fmt.Errorf("influence %.3e at edge %d: %w", a[0][0], edges[active[0]].Index, ErrDegenerateEdgeSystem)
		}
		gam[active[0]] = rhs[0] / a[0][0]
	case 2:
		det := a[0][0]*a[1][1] - a[0][1]*a[1][0]
		scale := math.Max(math.Abs(a[0][0]*a[1][1]), math.Abs(a[0][1]*a[1][0]))
		if math.Abs(det) < detTol || (scale > 0 && math.Abs(det) < 1e-12*scale) {
			return nil, fmt.Errorf("determinant %.3e: %w", det, ErrDegenerateEdgeSystem)
		}
		gam[active[0]] = (rhs[0]*a[1][1] - rhs[1]*a[0][1]) / det
		gam[active[1]] = (rhs[1]*a[0][0] - rhs[0]*a[1][0]) / det
	}

	return gam, nil
}

// Residual evaluates the tangential velocity at edge i for the combined
// flow, for checking the edge condition after shedding.
func Residual(b *body.Body, w *vortex.Wake, img *vortex.ImageSystem, e Edge) float64 {
	zetaE := b.EdgeZeta(e.Index)
	return vortex.TangentSpeed(zetaE, vortex.CircleVelocity(zetaE, w, img))
}
