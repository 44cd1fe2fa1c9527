package config

import (
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/vortshed/internal/conformal"
)

func TestDefaultBuilds(t *testing.T) {
	cfg := DefaultConfig()

	b, err := cfg.BuildBody()
	if err != nil {
		t.Fatalf("BuildBody: %v", err)
	}
	if b.NumEdges() != 2 {
		t.Fatalf("plate edges = %d, want 2", b.NumEdges())
	}
	if got := b.Angle; math.Abs(got-20*math.Pi/180) > 1e-12 {
		t.Errorf("incidence = %v rad", got)
	}

	edges := cfg.BuildEdges()
	if len(edges) != 2 {
		t.Fatalf("edges = %d", len(edges))
	}
	if edges[0].Suppressed() {
		t.Error("trailing edge should be active")
	}
	if !edges[1].Suppressed() {
		t.Error("leading edge should be suppressed")
	}

	sc := cfg.BuildSim()
	if err := sc.Validate(); err != nil {
		t.Fatalf("default numerics invalid: %v", err)
	}
}

func TestLoadInfSuction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	text := `
shape:
  kind: plate
  vertices: [[-0.5, 0], [0.5, 0]]
  incidence: 30
motion:
  velocity: [-1, 0]
edges:
  - index: 0
    suction: 0.2
  - index: 1
    suction: .inf
numerics:
  dt: 0.002
  duration: 0.1
  scheme: midpoint
`
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	edges := cfg.BuildEdges()
	if edges[0].Suction != 0.2 {
		t.Errorf("suction = %v", edges[0].Suction)
	}
	if !edges[1].Suppressed() {
		t.Error(".inf suction should suppress")
	}
	sc := cfg.BuildSim()
	if sc.Dt != 0.002 || sc.Duration != 0.1 || sc.Scheme != "midpoint" {
		t.Errorf("numerics not applied: %+v", sc)
	}
	// untouched knobs keep defaults
	if sc.Delta != DefaultDelta {
		t.Errorf("delta = %v", sc.Delta)
	}
}

func TestPerStepSamplingFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	text := `
numerics:
  sample_interval: 0
`
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.BuildSim().SampleInterval; got != 0 {
		t.Errorf("sample interval = %v, want 0 (capture every step)", got)
	}
}

func TestAngularAccelerationMotion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Motion.AngularVelocity = 0.5
	cfg.Motion.AngularAcceleration = 2.0

	b, err := cfg.BuildBody()
	if err != nil {
		t.Fatalf("BuildBody: %v", err)
	}

	b.Update(0)
	if b.AngVel != 0.5 || b.AngAcc != 2.0 {
		t.Errorf("at t=0: angvel=%v angacc=%v", b.AngVel, b.AngAcc)
	}
	b.Update(0.25)
	if math.Abs(b.AngVel-1.0) > 1e-12 {
		t.Errorf("at t=0.25: angvel=%v, want 1.0", b.AngVel)
	}
	if b.AngAcc != 2.0 {
		t.Errorf("at t=0.25: angacc=%v, want 2.0", b.AngAcc)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Numerics.Dt = 0.001
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Numerics.Dt != 0.001 {
		t.Errorf("dt = %v", back.Numerics.Dt)
	}
	if !math.IsInf(back.Edges[1].Suction, 1) {
		t.Error("suppressed edge lost in round trip")
	}
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		cfg, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%s): %v", name, err)
		}
		if _, err := cfg.BuildBody(); err != nil {
			t.Errorf("preset %s body: %v", name, err)
		}
		if err := cfg.BuildSim().Validate(); err != nil {
			t.Errorf("preset %s numerics: %v", name, err)
		}

		// every designated shedding point must be a genuine corner
		shape, err := cfg.BuildShape()
		if err != nil {
			t.Fatalf("preset %s shape: %v", name, err)
		}
		for i := range shape.Edges() {
			zeta := conformal.EdgeZeta(shape, i)
			if d := cmplx.Abs(shape.Derivative(zeta)); d > 1e-9 {
				t.Errorf("preset %s edge %d: |dz/dζ| = %.3e at ζ=%v, want 0",
					name, i, d, zeta)
			}
		}
	}
	if _, err := Preset("nope"); err == nil {
		t.Error("unknown preset should error")
	}
}

func TestBadShapeKind(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shape.Kind = "blob"
	if _, err := cfg.BuildShape(); err == nil {
		t.Error("unknown shape kind should error")
	}
}
