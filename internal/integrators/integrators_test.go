package integrators

import (
	"errors"
	"math/cmplx"
	"testing"
)

// dζ/dt = iζ: exact solution rotates on the unit circle
func rotation(pos []complex128, t float64) ([]complex128, error) {
	out := make([]complex128, len(pos))
	for i, p := range pos {
		out[i] = complex(0, 1) * p
	}
	return out, nil
}

func TestEulerOrder(t *testing.T) {
	e := NewEuler()
	pos := []complex128{1}
	dt := 0.001
	var err error
	for i := 0; i < 1000; i++ {
		pos, err = e.Step(rotation, pos, float64(i)*dt, dt)
		if err != nil {
			t.Fatal(err)
		}
	}
	exact := cmplx.Exp(complex(0, 1))
	if cmplx.Abs(pos[0]-exact) > 5e-3 {
		t.Errorf("euler error %.2e too large", cmplx.Abs(pos[0]-exact))
	}
}

func TestMidpointBeatsEuler(t *testing.T) {
	dt := 0.01
	steps := 100

	run := func(s Stepper) float64 {
		pos := []complex128{1}
		var err error
		for i := 0; i < steps; i++ {
			pos, err = s.Step(rotation, pos, float64(i)*dt, dt)
			if err != nil {
				t.Fatal(err)
			}
		}
		return cmplx.Abs(pos[0] - cmplx.Exp(complex(0, 1)))
	}

	eulerErr := run(NewEuler())
	midErr := run(NewMidpoint())
	if midErr > eulerErr/10 {
		t.Errorf("midpoint error %.2e not clearly better than euler %.2e", midErr, eulerErr)
	}
	if midErr > 1e-4 {
		t.Errorf("midpoint error %.2e", midErr)
	}
}

func TestErrorPropagation(t *testing.T) {
	boom := errors.New("boom")
	fail := func([]complex128, float64) ([]complex128, error) { return nil, boom }

	for _, s := range []Stepper{NewEuler(), NewMidpoint()} {
		if _, err := s.Step(fail, []complex128{1}, 0, 0.1); !errors.Is(err, boom) {
			t.Errorf("%T: expected rate error, got %v", s, err)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "euler", "midpoint"} {
		if _, ok := ByName(name); !ok {
			t.Errorf("ByName(%q) not found", name)
		}
	}
	if _, ok := ByName("rk9"); ok {
		t.Error("unknown scheme accepted")
	}
}
