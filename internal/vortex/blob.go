// Package vortex holds the discrete vortex-blob wake and the image
// system that enforces no flow through the unit circle.
package vortex

import "math"

// Blob is a regularized point vortex. Pos is a circle-plane coordinate;
// the regularization radius is shared by the whole wake.
type Blob struct {
	Pos   complex128
	Gamma float64
}

// Wake is the ambient blob system: strictly append-only, insertion
// order preserved. Blobs are appended one generation at a time (one
// blob per shedding edge) and the start index of the newest generation
// is tracked explicitly.
type Wake struct {
	Blobs []Blob
	Delta float64

	genStart int
}

func NewWake(delta float64) *Wake {
	return &Wake{Delta: delta, genStart: -1}
}

// AppendGeneration appends the blobs shed in one step and marks them as
// the most recent generation.
func (w *Wake) AppendGeneration(bs []Blob) {
	w.genStart = len(w.Blobs)
	w.Blobs = append(w.Blobs, bs...)
}

// Recent returns the i'th blob of the newest generation, i.e. the blob
// most recently shed at edge i.
func (w *Wake) Recent(i int) (Blob, bool) {
	if w.genStart < 0 || w.genStart+i >= len(w.Blobs) {
		return Blob{}, false
	}
	return w.Blobs[w.genStart+i], true
}

func (w *Wake) Len() int { return len(w.Blobs) }

// Positions copies out the blob positions in insertion order.
func (w *Wake) Positions() []complex128 {
	pos := make([]complex128, len(w.Blobs))
	for i, b := range w.Blobs {
		pos[i] = b.Pos
	}
	return pos
}

// SetPositions overwrites blob positions in place, preserving strengths
// and order.
func (w *Wake) SetPositions(pos []complex128) {
	for i := range w.Blobs {
		w.Blobs[i].Pos = pos[i]
	}
}

// WithPositions returns a shallow working copy of the wake whose blobs
// sit at pos. Strengths and generation bookkeeping are preserved; the
// receiver is untouched.
func (w *Wake) WithPositions(pos []complex128) *Wake {
	c := &Wake{Delta: w.Delta, genStart: w.genStart, Blobs: make([]Blob, len(w.Blobs))}
	for i, b := range w.Blobs {
		c.Blobs[i] = Blob{Pos: pos[i], Gamma: b.Gamma}
	}
	return c
}

// Clone makes a full independent copy, safe to retain across steps.
func (w *Wake) Clone() *Wake {
	c := &Wake{Delta: w.Delta, genStart: w.genStart, Blobs: make([]Blob, len(w.Blobs))}
	copy(c.Blobs, w.Blobs)
	return c
}

// TotalCirculation sums the ambient blob strengths.
func (w *Wake) TotalCirculation() float64 {
	sum := 0.0
	for _, b := range w.Blobs {
		sum += b.Gamma
	}
	return sum
}

// MaxAbsGamma reports the largest blob strength magnitude.
func (w *Wake) MaxAbsGamma() float64 {
	max := 0.0
	for _, b := range w.Blobs {
		if g := math.Abs(b.Gamma); g > max {
			max = g
		}
	}
	return max
}
