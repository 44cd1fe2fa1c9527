// Package integrators advances vortex blob positions through one time
// step. The blob population only changes between steps, so a stepper
// sees a fixed-size position vector and a rate function that rebuilds
// the image system for whatever positions it is handed.
package integrators

// RateFunc evaluates dζ/dt for every blob at the given positions.
type RateFunc func(pos []complex128, t float64) ([]complex128, error)

// Stepper advances positions from t to t+dt.
type Stepper interface {
	Step(f RateFunc, pos []complex128, t, dt float64) ([]complex128, error)
}

// Euler is the explicit forward Euler scheme, the baseline marching
// scheme for the shedding loop.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Step(f RateFunc, pos []complex128, t, dt float64) ([]complex128, error) {
	rates, err := f(pos, t)
	if err != nil {
		return nil, err
	}
	out := make([]complex128, len(pos))
	for i := range pos {
		out[i] = pos[i] + complex(dt, 0)*rates[i]
	}
	return out, nil
}

// Midpoint is the explicit second-order midpoint scheme.
type Midpoint struct{}

func NewMidpoint() *Midpoint { return &Midpoint{} }

func (m *Midpoint) Step(f RateFunc, pos []complex128, t, dt float64) ([]complex128, error) {
	k1, err := f(pos, t)
	if err != nil {
		return nil, err
	}

	half := make([]complex128, len(pos))
	for i := range pos {
		half[i] = pos[i] + complex(dt/2, 0)*k1[i]
	}

	k2, err := f(half, t+dt/2)
	if err != nil {
		return nil, err
	}

	out := make([]complex128, len(pos))
	for i := range pos {
		out[i] = pos[i] + complex(dt, 0)*k2[i]
	}
	return out, nil
}

// ByName selects a stepper; empty defaults to euler.
func ByName(name string) (Stepper, bool) {
	switch name {
	case "", "euler":
		return NewEuler(), true
	case "midpoint":
		return NewMidpoint(), true
	}
	return nil, false
}
