package vortex

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/vortshed/internal/body"
)

// circleRadius is the reference circle radius. The maps in
// internal/conformal are all normalized to the unit circle.
const circleRadius = 1.0

// ImageSystem is the interior singularity set that cancels the outward
// normal flow on |ζ| = 1. It is rebuilt from scratch by every Enforce
// call and never persisted across steps.
type ImageSystem struct {
	// Images mirrors each ambient blob at 1/conj(ζ) with opposite
	// strength, so every blob/image pair carries zero net circulation.
	Images []Blob

	// Stream is the circle-plane freestream coefficient: the relative
	// body-frame velocity −(body velocity) scaled by conj(a), where a
	// is the map's leading coefficient, so that the far-field physical
	// velocity recovered through the chain rule matches the configured
	// motion. Dipole is the center doublet strength Stream·R² that
	// cancels the stream's normal component on the circle.
	Stream complex128
	Dipole complex128

	// Bound is the central bound vortex strength −2πΩR² induced by the
	// body rotation rate.
	Bound float64
}

// Enforce builds the image system for the current wake and body motion.
func Enforce(w *Wake, b *body.Body) *ImageSystem {
	img := &ImageSystem{Images: make([]Blob, 0, w.Len())}

	for _, bl := range w.Blobs {
		img.Images = append(img.Images, Blob{
			Pos:   1 / cmplx.Conj(bl.Pos),
			Gamma: -bl.Gamma,
		})
	}

	u := -b.FrameVel() * cmplx.Conj(b.Shape.Leading())
	img.Stream = u
	img.Dipole = u * complex(circleRadius*circleRadius, 0)
	img.Bound = -2 * math.Pi * b.AngVel * circleRadius * circleRadius

	return img
}

// BoundCirculation is the circulation attached to the body: the image
// vortices plus the rotation-induced central vortex. The motion dipole
// carries none.
func (img *ImageSystem) BoundCirculation() float64 {
	sum := img.Bound
	for _, im := range img.Images {
		sum += im.Gamma
	}
	return sum
}
