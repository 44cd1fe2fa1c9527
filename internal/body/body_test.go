package body

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/san-kum/vortshed/internal/conformal"
)

func plate(t *testing.T) conformal.Map {
	t.Helper()
	m, err := conformal.NewPolygon([]complex128{complex(-0.5, 0), complex(0.5, 0)}, 0)
	if err != nil {
		t.Fatalf("NewPolygon: %v", err)
	}
	return m
}

func TestTransformPlacement(t *testing.T) {
	alpha := 20 * math.Pi / 180
	pos := complex(2, -1)
	b := New(plate(t), pos, alpha, nil)

	// trailing vertex rotated about the center and translated
	want := pos + cmplx.Exp(complex(0, alpha))*complex(0.5, 0)
	got := b.Transform(complex(1, 0))
	if cmplx.Abs(got-want) > 1e-12 {
		t.Errorf("trailing vertex at %v, want %v", got, want)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	b := New(plate(t), complex(1, 2), 0.4, nil)

	for _, zeta := range []complex128{complex(1.3, 0.2), complex(-0.4, 1.5), complex(2, -2)} {
		z := b.Transform(zeta)
		back, err := b.Inverse(z)
		if err != nil {
			t.Fatalf("Inverse: %v", err)
		}
		if cmplx.Abs(back-zeta) > 1e-10 {
			t.Errorf("round trip ζ=%v: got %v", zeta, back)
		}
	}
}

func TestUpdateEvaluatesMotion(t *testing.T) {
	motion := func(t float64) (complex128, complex128, float64, float64) {
		return complex(-1, 0) * complex(t, 0), complex(-1, 0), 0.5, 0
	}
	b := New(plate(t), 0, 0, motion)

	b.Update(2)
	if b.Vel != complex(-2, 0) {
		t.Errorf("vel %v", b.Vel)
	}
	if b.AngVel != 0.5 {
		t.Errorf("angvel %v", b.AngVel)
	}
}

func TestFrameVel(t *testing.T) {
	b := New(plate(t), 0, math.Pi/2, Steady(complex(0, 1), 0))
	// moving +y while rotated 90°: body-frame velocity is +x
	if cmplx.Abs(b.FrameVel()-complex(1, 0)) > 1e-12 {
		t.Errorf("frame velocity %v, want 1+0i", b.FrameVel())
	}
}
