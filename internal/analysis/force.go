package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/san-kum/vortshed/internal/sim"
)

var ErrTooFewSamples = errors.New("analysis: need at least three samples")

// ForceHistory differentiates the wake impulse to get the force on the
// body, F = dP/dt at unit density, using central differences in the
// interior and one-sided differences at the ends. The returned slice is
// aligned with result.Times.
func ForceHistory(result *sim.Result) ([]complex128, error) {
	n := len(result.Impulses)
	if n < 3 || len(result.Times) != n {
		return nil, ErrTooFewSamples
	}

	forces := make([]complex128, n)
	forces[0] = diff(result.Impulses[1], result.Impulses[0], result.Times[1]-result.Times[0])
	for i := 1; i < n-1; i++ {
		forces[i] = diff(result.Impulses[i+1], result.Impulses[i-1], result.Times[i+1]-result.Times[i-1])
	}
	forces[n-1] = diff(result.Impulses[n-1], result.Impulses[n-2], result.Times[n-1]-result.Times[n-2])
	return forces, nil
}

func diff(a, b complex128, dt float64) complex128 {
	if dt == 0 {
		return 0
	}
	return (a - b) / complex(dt, 0)
}

// LiftDrag resolves each force sample against the effective freestream,
// the negative of the body velocity at that instant. Drag acts along
// the freestream, lift 90 degrees counterclockwise from it. A body at
// rest at some sample yields zeros there.
func LiftDrag(forces []complex128, bodyVel []complex128) (lift, drag []float64, err error) {
	if len(forces) != len(bodyVel) {
		return nil, nil, errors.New("analysis: force and velocity lengths differ")
	}
	lift = make([]float64, len(forces))
	drag = make([]float64, len(forces))
	for i, force := range forces {
		u := -bodyVel[i]
		speed := cmplx.Abs(u)
		if speed == 0 {
			continue
		}
		dir := u / complex(speed, 0)
		// components via rotation into the freestream frame
		rel := force * cmplx.Conj(dir)
		drag[i] = real(rel)
		lift[i] = imag(rel)
	}
	return lift, drag, nil
}
