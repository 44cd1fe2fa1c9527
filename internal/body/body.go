// Package body places a conformal shape in the physical plane and
// drives it with a prescribed rigid-body motion law.
package body

import (
	"math/cmplx"

	"github.com/san-kum/vortshed/internal/conformal"
)

// Motion is a kinematics law: it returns the translational velocity and
// acceleration of the map center and the angular velocity and
// acceleration about it, all at time t. Convention: real = x, imag = y.
type Motion func(t float64) (vel, acc complex128, angVel, angAcc float64)

// Steady returns a motion law with constant rates.
func Steady(vel complex128, angVel float64) Motion {
	return func(float64) (complex128, complex128, float64, float64) {
		return vel, 0, angVel, 0
	}
}

// Body couples a circle-plane shape map with its placement and
// kinematic rates. Placement fields are mutated once per time step;
// the shape itself is immutable.
type Body struct {
	Shape conformal.Map

	Pos   complex128
	Angle float64

	Vel    complex128
	Acc    complex128
	AngVel float64
	AngAcc float64

	motion Motion
}

func New(shape conformal.Map, pos complex128, angle float64, motion Motion) *Body {
	if motion == nil {
		motion = Steady(0, 0)
	}
	b := &Body{Shape: shape, Pos: pos, Angle: angle, motion: motion}
	b.Update(0)
	return b
}

// Update evaluates the motion law at t, refreshing the rate fields.
func (b *Body) Update(t float64) {
	b.Vel, b.Acc, b.AngVel, b.AngAcc = b.motion(t)
}

func (b *Body) rot() complex128 {
	return cmplx.Exp(complex(0, b.Angle))
}

// Transform maps a circle-plane point into the physical plane, applying
// the body rotation and translation on top of the shape map.
func (b *Body) Transform(zeta complex128) complex128 {
	return b.Pos + b.rot()*b.Shape.Transform(zeta)
}

// Inverse maps a physical-plane point back to the circle plane.
func (b *Body) Inverse(z complex128) (complex128, error) {
	return b.Shape.Inverse((z - b.Pos) / b.rot())
}

// Derivative is dz/dζ of the full placement map.
func (b *Body) Derivative(zeta complex128) complex128 {
	return b.rot() * b.Shape.Derivative(zeta)
}

// FrameVel is the body velocity expressed in body-frame axes.
func (b *Body) FrameVel() complex128 {
	return b.Vel / b.rot()
}

func (b *Body) NumEdges() int { return len(b.Shape.Edges()) }

// EdgeZeta returns the circle-plane location of the i'th shedding edge.
func (b *Body) EdgeZeta(i int) complex128 {
	return conformal.EdgeZeta(b.Shape, i)
}

// Clone copies the placement state; the shape map is shared (immutable).
func (b *Body) Clone() *Body {
	c := *b
	return &c
}
