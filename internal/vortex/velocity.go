package vortex

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/san-kum/vortshed/internal/body"
	"github.com/san-kum/vortshed/internal/conformal"
)

// parallelMinChunk is the blob count below which the pairwise summation
// runs serially.
const parallelMinChunk = 64

// Induced is the regularized Biot–Savart kernel: the complex velocity
// w = u − i·v at ζ due to a vortex of strength gamma at pos,
//
//	w = −iγ/(2π) · conj(ζ−pos) / (|ζ−pos|² + δ²)
//
// With delta2 = 0 this is the exact point vortex −iγ/(2π(ζ−pos)); with
// delta2 > 0 the self-term at ζ = pos vanishes.
func Induced(zeta, pos complex128, gamma, delta2 float64) complex128 {
	d := zeta - pos
	r2 := real(d)*real(d) + imag(d)*imag(d) + delta2
	if r2 == 0 {
		return 0
	}
	return complex(0, -gamma/(2*math.Pi)) * cmplx.Conj(d) / complex(r2, 0)
}

// CircleVelocity evaluates the total circle-plane complex velocity at ζ
// induced by the ambient wake and an image system, including the
// relative freestream.
func CircleVelocity(zeta complex128, w *Wake, img *ImageSystem) complex128 {
	v := cmplx.Conj(img.Stream)
	v -= img.Dipole / (zeta * zeta)
	if img.Bound != 0 {
		v += complex(0, -img.Bound/(2*math.Pi)) / zeta
	}

	d2 := w.Delta * w.Delta
	for _, b := range w.Blobs {
		v += Induced(zeta, b.Pos, b.Gamma, d2)
	}
	for _, im := range img.Images {
		v += Induced(zeta, im.Pos, im.Gamma, 0)
	}
	return v
}

// NormalSpeed is the outward normal velocity component at a boundary
// point ζ on the unit circle, for the combined flow w.
func NormalSpeed(zeta, w complex128) float64 {
	return real(zeta * w)
}

// TangentSpeed projects the combined flow w onto the counterclockwise
// tangent at a boundary point ζ on the unit circle.
func TangentSpeed(zeta, w complex128) float64 {
	return real(complex(0, 1) * zeta * w)
}

// Rates computes dζ/dt for every wake blob: the circle-plane velocity
// obtained from the physical-plane flow through the map derivative,
// plus the rotating-frame term. The pairwise summation is chunked
// across workers; each blob's accumulator is owned by one chunk.
func Rates(w *Wake, img *ImageSystem, b *body.Body) ([]complex128, error) {
	n := w.Len()
	out := make([]complex128, n)
	errs := make([]error, n)

	ParallelFor(n, parallelMinChunk, func(start, end int) {
		for i := start; i < end; i++ {
			zeta := w.Blobs[i].Pos

			d := b.Shape.Derivative(zeta)
			m2 := real(d)*real(d) + imag(d)*imag(d)
			if m2 < conformal.MinDerivative*conformal.MinDerivative {
				errs[i] = fmt.Errorf("blob %d at ζ=%v: %w", i, zeta, conformal.ErrDegenerateMap)
				continue
			}

			wz := CircleVelocity(zeta, w, img)
			rate := cmplx.Conj(wz) / complex(m2, 0)
			if b.AngVel != 0 {
				rate -= complex(0, b.AngVel) * b.Shape.Transform(zeta) / d
			}
			out[i] = rate
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
