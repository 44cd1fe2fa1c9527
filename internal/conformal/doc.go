// Package conformal maps the unit circle onto rigid body shapes.
//
// Every shape is expressed as a conformal transform between the circle
// plane, where the body boundary is |ζ| = 1, and body-frame physical
// coordinates. Positions and velocities use the convention real = x,
// imag = y, complex velocity w = u − i·v. Two representations are
// provided:
//
//   - [PowerSeries]: a truncated Laurent series a·ζ + Σ cₙ·ζ⁻ⁿ, which
//     covers the Joukowski family (flat plates and circular arcs when a
//     coefficient of unit modulus sits at n = 1)
//   - [Polygon]: a two-vertex polygon, the flat plate, with a
//     closed-form inverse
//
// Forward evaluation is exact; inversion is a damped Newton iteration
// except where a closed form exists. Shedding corners are exposed as
// indices into an ordered list of boundary sample points.
package conformal
