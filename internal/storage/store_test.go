package storage

import (
	"math"
	"testing"

	"github.com/san-kum/vortshed/internal/sim"
	"github.com/san-kum/vortshed/internal/vortex"
)

func sampleResult() *sim.Result {
	snaps := []sim.Snapshot{
		{
			Time:    0,
			BodyPos: complex(0, 0),
			Blobs: []vortex.Blob{
				{Pos: complex(0.5, 0.1), Gamma: 0},
				{Pos: complex(-0.5, 0.1), Gamma: 0},
			},
		},
		{
			Time:      0.05,
			BodyPos:   complex(-0.05, 0),
			BodyAngle: 0.1,
			Blobs: []vortex.Blob{
				{Pos: complex(0.5, 0.1), Gamma: 0},
				{Pos: complex(-0.5, 0.1), Gamma: 0},
				{Pos: complex(0.55, 0.12), Gamma: 0.3},
			},
			Impulse:          complex(0.1, -0.2),
			WakeCirculation:  0.3,
			BoundCirculation: -0.3,
		},
	}
	return &sim.Result{
		Snapshots:  snaps,
		Times:      []float64{0, 0.05},
		Impulses:   []complex128{0, complex(0.1, -0.2)},
		Metrics:    map[string]float64{"circulation_drift": 1e-12},
		StepsTaken: 10,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := sim.DefaultConfig()
	runID, err := store.Save("impulsive20", cfg, sampleResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Preset != "impulsive20" || meta.Dt != cfg.Dt || meta.NumBlobs != 3 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Metrics["circulation_drift"] != 1e-12 {
		t.Errorf("metrics lost: %v", meta.Metrics)
	}

	rows, err := store.LoadHistory(runID)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("history rows = %d, want 2", len(rows))
	}
	last := rows[1]
	if last.NumBlobs != 3 || last.WakeCirculation != 0.3 {
		t.Errorf("history row mismatch: %+v", last)
	}
	if math.Abs(real(last.Impulse)-0.1) > 1e-9 || math.Abs(imag(last.Impulse)+0.2) > 1e-9 {
		t.Errorf("impulse = %v", last.Impulse)
	}

	blobs, err := store.LoadWake(runID)
	if err != nil {
		t.Fatalf("LoadWake: %v", err)
	}
	if len(blobs) != 3 {
		t.Fatalf("wake blobs = %d, want 3", len(blobs))
	}
	if blobs[2].Gamma != 0.3 {
		t.Errorf("gamma = %v", blobs[2].Gamma)
	}
}

func TestListEmptyAndPopulated(t *testing.T) {
	store := New(t.TempDir())

	runs, err := store.List()
	if err != nil {
		t.Fatalf("List before init: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}

	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save("a", sim.DefaultConfig(), sampleResult()); err != nil {
		t.Fatal(err)
	}

	runs, err = store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
}

func TestLoadMissingRun(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("ghost"); err == nil {
		t.Error("missing run should error")
	}
	if _, err := store.LoadHistory("ghost"); err == nil {
		t.Error("missing history should error")
	}
}
