package config

import (
	"fmt"
	"math"
	"sort"
)

// Presets returns the built-in study configurations keyed by name.
func Presets() map[string]*Config {
	impulsive20 := DefaultConfig()

	impulsive45 := DefaultConfig()
	impulsive45.Shape.Incidence = 45
	impulsive45.Edges = []EdgeConfig{
		{Index: 0, Suction: 0},
		{Index: 1, Suction: 0},
	}

	arc := DefaultConfig()
	beta := 15 * math.Pi / 180
	// coefficient slots are c₀, c₁, …; the camber term e^{2iβ}·a lives
	// at c₁ so the derivative vanishes at ζ = ±e^{iβ}. 48 boundary
	// points put grid samples exactly on the 15° and 195° corners.
	arc.Shape = ShapeConfig{
		Kind:       "series",
		Leading:    [2]float64{0.25, 0},
		Coeffs:     [][2]float64{{0, 0}, {0.25 * math.Cos(2*beta), 0.25 * math.Sin(2*beta)}},
		EdgeAngles: []float64{beta * 180 / math.Pi, 180 + beta*180/math.Pi},

		BoundaryPoints: 48,
		Incidence:      10,
	}
	arc.Edges = []EdgeConfig{
		{Index: 0, Suction: 0},
		{Index: 1, Suction: math.Inf(1)},
	}

	pitching := DefaultConfig()
	pitching.Shape.Incidence = 5
	pitching.Motion.AngularVelocity = 0.5
	pitching.Numerics.Duration = 1.0

	return map[string]*Config{
		"impulsive20":  impulsive20,
		"impulsive45":  impulsive45,
		"circular-arc": arc,
		"pitching":     pitching,
	}
}

// Preset looks up a named preset.
func Preset(name string) (*Config, error) {
	cfg, ok := Presets()[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (have %v)", name, PresetNames())
	}
	return cfg, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(Presets()))
	for name := range Presets() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
