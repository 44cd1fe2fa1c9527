package conformal

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

var (
	// ErrNonConvergence reports an inverse-map iteration that did not
	// reduce its residual below tolerance within the iteration bound.
	ErrNonConvergence = errors.New("conformal: inverse map did not converge")

	// ErrDegenerateMap reports a (near) zero map derivative at a point
	// where a finite derivative is required.
	ErrDegenerateMap = errors.New("conformal: map derivative vanishes")

	// ErrInvalidGeometry reports a malformed shape descriptor; rejected
	// at construction, before any stepping begins.
	ErrInvalidGeometry = errors.New("conformal: invalid geometry")
)

const (
	// MinDerivative is the smallest |dz/dζ| accepted when dividing by
	// the map derivative.
	MinDerivative = 1e-12

	inverseTol     = 1e-12
	inverseMaxIter = 50

	// DefaultBoundaryPoints is the boundary discretization used when a
	// constructor is given zero.
	DefaultBoundaryPoints = 64
)

// Map is a conformal transform from the unit circle plane to body-frame
// physical coordinates.
type Map interface {
	// Transform evaluates the map at ζ.
	Transform(zeta complex128) complex128

	// Inverse finds ζ with Transform(ζ) = z, preferring the exterior
	// branch |ζ| ≥ 1. Fails with ErrNonConvergence when iterative.
	Inverse(z complex128) (complex128, error)

	// Derivative evaluates dz/dζ. It is zero exactly at sharp corners
	// on the boundary; callers dividing by it must check MinDerivative.
	Derivative(zeta complex128) complex128

	// Leading is the leading coefficient of the map, the limit of
	// Derivative as ζ → ∞. It scales a circle-plane freestream into the
	// physical plane and is never zero for a valid map.
	Leading() complex128

	// Boundary returns the ordered circle-plane boundary sample points.
	Boundary() []complex128

	// Edges returns indices into Boundary() of the sharp corners where
	// shedding is permitted.
	Edges() []int
}

// EdgeZeta returns the circle-plane location of the i'th designated edge.
func EdgeZeta(m Map, i int) complex128 {
	return m.Boundary()[m.Edges()[i]]
}

func circlePoints(n int) []complex128 {
	pts := make([]complex128, n)
	for k := 0; k < n; k++ {
		theta := 2 * math.Pi * float64(k) / float64(n)
		pts[k] = cmplx.Exp(complex(0, theta))
	}
	return pts
}

func nearestBoundaryIndex(angle float64, n int) int {
	a := math.Mod(angle, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	idx := int(math.Round(a*float64(n)/(2*math.Pi))) % n
	return idx
}

// newtonInverse inverts m.Transform near seed by damped Newton. The
// step is halved while the residual grows, so the iteration cannot run
// away from a good seed.
func newtonInverse(m Map, z, seed complex128) (complex128, error) {
	zeta := seed
	res := m.Transform(zeta) - z

	for i := 0; i < inverseMaxIter; i++ {
		if cmplx.Abs(res) < inverseTol {
			return zeta, nil
		}

		d := m.Derivative(zeta)
		if cmplx.Abs(d) < MinDerivative {
			return 0, fmt.Errorf("inverse at ζ=%v: %w", zeta, ErrDegenerateMap)
		}

		step := res / d
		next := zeta - step
		nres := m.Transform(next) - z
		for h := 0; h < 8 && cmplx.Abs(nres) > cmplx.Abs(res); h++ {
			step /= 2
			next = zeta - step
			nres = m.Transform(next) - z
		}

		zeta, res = next, nres
	}

	if cmplx.Abs(res) < inverseTol {
		return zeta, nil
	}
	return 0, fmt.Errorf("residual %.3e after %d iterations: %w",
		cmplx.Abs(res), inverseMaxIter, ErrNonConvergence)
}
