package conformal

import (
	"fmt"
	"math/cmplx"
)

// PowerSeries maps the unit circle through a truncated Laurent series
//
//	z(ζ) = a·ζ + c₀ + c₁/ζ + c₂/ζ² + …
//
// The leading coefficient a must be nonzero or the map is degenerate at
// infinity. The Joukowski flat plate is a=1, c=[0, 1]; replacing c₁ by
// e^{2iβ} cambers the plate into a circular arc with sharp edges at
// ζ = ±e^{iβ}.
type PowerSeries struct {
	leading  complex128
	coeffs   []complex128
	boundary []complex128
	edges    []int
}

// NewPowerSeries builds a Laurent-series map. edgeAngles gives the
// circle-plane angles of the designated shedding corners; nBoundary
// controls the boundary discretization (0 selects the default).
func NewPowerSeries(leading complex128, coeffs []complex128, edgeAngles []float64, nBoundary int) (*PowerSeries, error) {
	if cmplx.Abs(leading) < MinDerivative {
		return nil, fmt.Errorf("leading coefficient %v: %w", leading, ErrInvalidGeometry)
	}
	if len(edgeAngles) > 2 {
		return nil, fmt.Errorf("%d edge angles, at most 2 supported: %w", len(edgeAngles), ErrInvalidGeometry)
	}
	if nBoundary == 0 {
		nBoundary = DefaultBoundaryPoints
	}
	if nBoundary < 8 {
		return nil, fmt.Errorf("boundary discretization %d too coarse: %w", nBoundary, ErrInvalidGeometry)
	}

	m := &PowerSeries{
		leading:  leading,
		coeffs:   append([]complex128(nil), coeffs...),
		boundary: circlePoints(nBoundary),
	}
	for _, a := range edgeAngles {
		m.edges = append(m.edges, nearestBoundaryIndex(a, nBoundary))
	}
	return m, nil
}

func (m *PowerSeries) Transform(zeta complex128) complex128 {
	z := m.leading * zeta
	inv := complex(1, 0)
	for _, c := range m.coeffs {
		z += c * inv
		inv /= zeta
	}
	return z
}

func (m *PowerSeries) Derivative(zeta complex128) complex128 {
	d := m.leading
	inv := 1 / (zeta * zeta)
	for n := 1; n < len(m.coeffs); n++ {
		d -= complex(float64(n), 0) * m.coeffs[n] * inv
		inv /= zeta
	}
	return d
}

// Inverse inverts the series by damped Newton seeded from the far-field
// behavior z ≈ a·ζ, with the seed pushed outside the circle where the
// map is single valued.
func (m *PowerSeries) Inverse(z complex128) (complex128, error) {
	seed := z / m.leading
	if len(m.coeffs) > 0 {
		seed = (z - m.coeffs[0]) / m.leading
	}
	if r := cmplx.Abs(seed); r < 1.05 {
		if r < MinDerivative {
			seed = complex(1.05, 0)
		} else {
			seed *= complex(1.05/r, 0)
		}
	}
	return newtonInverse(m, z, seed)
}

func (m *PowerSeries) Leading() complex128    { return m.leading }
func (m *PowerSeries) Boundary() []complex128 { return m.boundary }
func (m *PowerSeries) Edges() []int           { return m.edges }
