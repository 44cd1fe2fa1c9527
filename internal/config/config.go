package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/vortshed/internal/body"
	"github.com/san-kum/vortshed/internal/conformal"
	"github.com/san-kum/vortshed/internal/kutta"
	"github.com/san-kum/vortshed/internal/sim"
)

const (
	DefaultDt             = 5e-3
	DefaultDuration       = 0.5
	DefaultDelta          = 0.1
	DefaultShedFraction   = 1.0 / 3.0
	DefaultInitialOffset  = 0.2
	DefaultSampleInterval = 0.05
)

// Config is the full simulation setup. Angles are degrees in the file;
// complex quantities are [x, y] pairs. A suction of .inf suppresses an
// edge.
type Config struct {
	Shape    ShapeConfig    `yaml:"shape"`
	Motion   MotionConfig   `yaml:"motion"`
	Edges    []EdgeConfig   `yaml:"edges"`
	Numerics NumericsConfig `yaml:"numerics"`
}

type ShapeConfig struct {
	Kind string `yaml:"kind"` // "plate" or "series"

	// plate
	Vertices [][2]float64 `yaml:"vertices,omitempty"`

	// series
	Leading    [2]float64   `yaml:"leading,omitempty"`
	Coeffs     [][2]float64 `yaml:"coeffs,omitempty"`
	EdgeAngles []float64    `yaml:"edge_angles,omitempty"` // degrees

	BoundaryPoints int        `yaml:"boundary_points,omitempty"`
	Center         [2]float64 `yaml:"center"`
	Incidence      float64    `yaml:"incidence"` // degrees
}

type MotionConfig struct {
	Velocity            [2]float64 `yaml:"velocity"`
	Acceleration        [2]float64 `yaml:"acceleration,omitempty"`
	AngularVelocity     float64    `yaml:"angular_velocity,omitempty"`     // rad/s
	AngularAcceleration float64    `yaml:"angular_acceleration,omitempty"` // rad/s²
}

type EdgeConfig struct {
	Index   int     `yaml:"index"`
	Suction float64 `yaml:"suction"` // .inf suppresses
}

type NumericsConfig struct {
	Dt             float64 `yaml:"dt"`
	Duration       float64 `yaml:"duration"`
	Delta          float64 `yaml:"delta"`
	ShedFraction   float64 `yaml:"shed_fraction"`
	InitialOffset  float64 `yaml:"initial_offset"`
	SampleInterval float64 `yaml:"sample_interval"`
	Scheme         string  `yaml:"scheme"`
}

func DefaultConfig() *Config {
	return &Config{
		Shape: ShapeConfig{
			Kind:      "plate",
			Vertices:  [][2]float64{{-0.5, 0}, {0.5, 0}},
			Incidence: 20,
		},
		Motion: MotionConfig{Velocity: [2]float64{-1, 0}},
		Edges: []EdgeConfig{
			{Index: 0, Suction: 0},
			{Index: 1, Suction: math.Inf(1)},
		},
		Numerics: NumericsConfig{
			Dt:             DefaultDt,
			Duration:       DefaultDuration,
			Delta:          DefaultDelta,
			ShedFraction:   DefaultShedFraction,
			InitialOffset:  DefaultInitialOffset,
			SampleInterval: DefaultSampleInterval,
			Scheme:         "euler",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func pair(p [2]float64) complex128 { return complex(p[0], p[1]) }

// BuildShape constructs the conformal map described by the shape block.
func (c *Config) BuildShape() (conformal.Map, error) {
	s := c.Shape
	switch s.Kind {
	case "plate", "":
		vertices := make([]complex128, len(s.Vertices))
		for i, v := range s.Vertices {
			vertices[i] = pair(v)
		}
		return conformal.NewPolygon(vertices, s.BoundaryPoints)
	case "series":
		coeffs := make([]complex128, len(s.Coeffs))
		for i, v := range s.Coeffs {
			coeffs[i] = pair(v)
		}
		angles := make([]float64, len(s.EdgeAngles))
		for i, a := range s.EdgeAngles {
			angles[i] = a * math.Pi / 180
		}
		return conformal.NewPowerSeries(pair(s.Leading), coeffs, angles, s.BoundaryPoints)
	default:
		return nil, fmt.Errorf("shape kind %q: %w", s.Kind, conformal.ErrInvalidGeometry)
	}
}

// BuildBody places the shape and attaches the motion law.
func (c *Config) BuildBody() (*body.Body, error) {
	shape, err := c.BuildShape()
	if err != nil {
		return nil, err
	}

	vel := pair(c.Motion.Velocity)
	acc := pair(c.Motion.Acceleration)
	angVel := c.Motion.AngularVelocity
	angAcc := c.Motion.AngularAcceleration
	motion := func(t float64) (complex128, complex128, float64, float64) {
		return vel + acc*complex(t, 0), acc, angVel + angAcc*t, angAcc
	}

	angle := c.Shape.Incidence * math.Pi / 180
	return body.New(shape, pair(c.Shape.Center), angle, motion), nil
}

// BuildEdges converts the edge designations.
func (c *Config) BuildEdges() []kutta.Edge {
	edges := make([]kutta.Edge, len(c.Edges))
	for i, e := range c.Edges {
		edges[i] = kutta.Edge{Index: e.Index, Suction: e.Suction}
	}
	return edges
}

// BuildSim maps the numerics block onto the marcher configuration.
func (c *Config) BuildSim() sim.Config {
	out := sim.DefaultConfig()
	n := c.Numerics
	if n.Dt > 0 {
		out.Dt = n.Dt
	}
	if n.Duration > 0 {
		out.Duration = n.Duration
	}
	if n.Delta > 0 {
		out.Delta = n.Delta
	}
	if n.ShedFraction > 0 {
		out.ShedFraction = n.ShedFraction
	}
	if n.InitialOffset > 0 {
		out.InitialOffset = n.InitialOffset
	}
	if n.SampleInterval > 0 {
		out.SampleInterval = n.SampleInterval
	}
	if n.Scheme != "" {
		out.Scheme = n.Scheme
	}
	return out
}
