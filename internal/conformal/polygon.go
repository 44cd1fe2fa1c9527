package conformal

import (
	"fmt"
	"math/cmplx"
)

// Polygon maps the unit circle onto a polygonal body. Conformal mapping
// data is derived only for the two-vertex polygon, the flat plate: with
// midpoint m, chord c and span direction d,
//
//	z(ζ) = m + d·(c/4)·(ζ + 1/ζ)
//
// so ζ = 1 lands on the second vertex and ζ = −1 on the first. Other
// vertex counts are rejected, as is any self-intersecting or degenerate
// vertex list.
type Polygon struct {
	vertices []complex128
	mid      complex128
	scale    complex128 // d·(c/4)
	boundary []complex128
	edges    []int
}

// NewPolygon builds the map for an ordered vertex list. nBoundary
// controls the boundary discretization (0 selects the default).
func NewPolygon(vertices []complex128, nBoundary int) (*Polygon, error) {
	if err := validatePolygon(vertices); err != nil {
		return nil, err
	}
	if len(vertices) != 2 {
		return nil, fmt.Errorf("%d vertices, mapping data only derived for 2: %w",
			len(vertices), ErrInvalidGeometry)
	}
	if nBoundary == 0 {
		nBoundary = DefaultBoundaryPoints
	}
	if nBoundary < 8 || nBoundary%2 != 0 {
		return nil, fmt.Errorf("boundary discretization %d: %w", nBoundary, ErrInvalidGeometry)
	}

	span := vertices[1] - vertices[0]
	m := &Polygon{
		vertices: append([]complex128(nil), vertices...),
		mid:      (vertices[0] + vertices[1]) / 2,
		scale:    span / 4,
		boundary: circlePoints(nBoundary),
		// ζ=1 (trailing, second vertex) first, ζ=−1 (leading) second
		edges: []int{0, nBoundary / 2},
	}
	return m, nil
}

func validatePolygon(vertices []complex128) error {
	if len(vertices) < 2 {
		return fmt.Errorf("%d vertices: %w", len(vertices), ErrInvalidGeometry)
	}
	for i := 1; i < len(vertices); i++ {
		if cmplx.Abs(vertices[i]-vertices[i-1]) < MinDerivative {
			return fmt.Errorf("repeated vertex %d: %w", i, ErrInvalidGeometry)
		}
	}
	n := len(vertices)
	if n < 4 {
		return nil
	}
	// closed-loop edge pairs; adjacent edges share an endpoint and are skipped
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsCross(vertices[i], vertices[(i+1)%n], vertices[j], vertices[(j+1)%n]) {
				return fmt.Errorf("edges %d and %d intersect: %w", i, j, ErrInvalidGeometry)
			}
		}
	}
	return nil
}

func segmentsCross(a, b, c, d complex128) bool {
	o1 := orient(a, b, c)
	o2 := orient(a, b, d)
	o3 := orient(c, d, a)
	o4 := orient(c, d, b)
	return o1*o2 < 0 && o3*o4 < 0
}

func orient(a, b, c complex128) float64 {
	u := b - a
	v := c - a
	return real(u)*imag(v) - imag(u)*real(v)
}

func (m *Polygon) Transform(zeta complex128) complex128 {
	return m.mid + m.scale*(zeta+1/zeta)
}

func (m *Polygon) Derivative(zeta complex128) complex128 {
	return m.scale * (1 - 1/(zeta*zeta))
}

// Inverse uses the closed form ζ = (w ± sqrt(w² − 4))/2 with
// w = (z − m)/scale, picking the exterior branch.
func (m *Polygon) Inverse(z complex128) (complex128, error) {
	w := (z - m.mid) / m.scale
	s := cmplx.Sqrt(w*w - 4)
	z1 := (w + s) / 2
	z2 := (w - s) / 2
	if cmplx.Abs(z1) >= cmplx.Abs(z2) {
		return z1, nil
	}
	return z2, nil
}

func (m *Polygon) Leading() complex128    { return m.scale }
func (m *Polygon) Boundary() []complex128 { return m.boundary }
func (m *Polygon) Edges() []int           { return m.edges }

// Vertices returns the physical-plane (body frame) corner points.
func (m *Polygon) Vertices() []complex128 { return m.vertices }
