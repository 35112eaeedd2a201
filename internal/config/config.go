package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gzsim/internal/hydro"
	"gopkg.in/yaml.v3"
)

const (
	DensitySaltwater  = 1025.0
	DensityFreshwater = 1000.0

	DefaultPoints          = 1000
	DefaultAngleStart      = 0.0
	DefaultAngleStop       = 180.0
	DefaultAngleStep       = 5.0
	DefaultWorkers         = 4
	DefaultMaxBatches      = 10000
	DefaultMaxEmptyBatches = 50
)

type Config struct {
	Hull            HullConfig  `yaml:"hull"`
	Mass            float64     `yaml:"mass"`
	Density         float64     `yaml:"density"`
	CenterOfMass    [3]float64  `yaml:"center_of_mass"`
	Points          int         `yaml:"points"`
	Seed            int64       `yaml:"seed"`
	Angles          AngleConfig `yaml:"angles"`
	Convention      string      `yaml:"convention"`
	Workers         int         `yaml:"workers"`
	MaxBatches      int         `yaml:"max_batches"`
	MaxEmptyBatches int         `yaml:"max_empty_batches"`
}

// HullConfig selects a solid. Which dimensions apply depends on Kind:
// box uses beam/length/depth, sphere uses radius, cylinder uses
// radius/length, section uses section/length.
type HullConfig struct {
	Kind    string       `yaml:"kind"`
	Beam    float64      `yaml:"beam,omitempty"`
	Length  float64      `yaml:"length,omitempty"`
	Depth   float64      `yaml:"depth,omitempty"`
	Radius  float64      `yaml:"radius,omitempty"`
	Section [][2]float64 `yaml:"section,omitempty"`
}

// AngleConfig is either an explicit list or a start/stop/step range.
type AngleConfig struct {
	List  []float64 `yaml:"list,omitempty"`
	Start float64   `yaml:"start"`
	Stop  float64   `yaml:"stop"`
	Step  float64   `yaml:"step"`
}

func (a AngleConfig) Values() []float64 {
	if len(a.List) > 0 {
		out := make([]float64, len(a.List))
		copy(out, a.List)
		return out
	}
	return hydro.AngleRange(a.Start, a.Stop, a.Step)
}

func DefaultConfig() *Config {
	return &Config{
		Hull: HullConfig{
			Kind:   "box",
			Beam:   2,
			Length: 4,
			Depth:  1,
		},
		Mass:    4100,
		Density: DensitySaltwater,
		Points:  DefaultPoints,
		Angles: AngleConfig{
			Start: DefaultAngleStart,
			Stop:  DefaultAngleStop,
			Step:  DefaultAngleStep,
		},
		Convention:      string(hydro.ConventionOffset),
		Workers:         DefaultWorkers,
		MaxBatches:      DefaultMaxBatches,
		MaxEmptyBatches: DefaultMaxEmptyBatches,
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

// Hydro converts the file form into the runtime configuration.
func (c *Config) Hydro() (hydro.Config, error) {
	conv, err := hydro.ParseConvention(c.Convention)
	if err != nil {
		return hydro.Config{}, err
	}
	angles := c.Angles.Values()
	if len(angles) == 0 {
		return hydro.Config{}, fmt.Errorf("%w: no heel angles configured", hydro.ErrInvalidInput)
	}

	cfg := hydro.DefaultConfig()
	cfg.NumPoints = c.Points
	cfg.Mass = c.Mass
	cfg.Density = c.Density
	cfg.CenterOfMass = mgl64.Vec3(c.CenterOfMass)
	cfg.Angles = angles
	cfg.Seed = c.Seed
	cfg.Convention = conv
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	if c.MaxBatches > 0 {
		cfg.MaxBatches = c.MaxBatches
	}
	if c.MaxEmptyBatches > 0 {
		cfg.MaxEmptyBatches = c.MaxEmptyBatches
	}
	return cfg, nil
}
