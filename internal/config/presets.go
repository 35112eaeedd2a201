package config

import "sort"

var Presets = map[string]*Config{
	"barge": {
		Hull: HullConfig{Kind: "box", Beam: 2, Length: 4, Depth: 1},
		Mass: 4100, Density: DensitySaltwater, Points: 3000,
		Angles: AngleConfig{Start: 0, Stop: 90, Step: 5},
	},
	"buoy": {
		Hull: HullConfig{Kind: "sphere", Radius: 1},
		Mass: 2146.75, Density: DensitySaltwater, Points: 2000,
		CenterOfMass: [3]float64{0, 0, -0.3},
		Angles:       AngleConfig{Start: 0, Stop: 90, Step: 10},
	},
	"pontoon": {
		Hull: HullConfig{Kind: "cylinder", Radius: 0.5, Length: 6},
		Mass: 2400, Density: DensityFreshwater, Points: 3000,
		CenterOfMass: [3]float64{0, 0, -0.2},
		Angles:       AngleConfig{Start: 0, Stop: 180, Step: 10},
	},
	"fishing_boat": {
		Hull: HullConfig{
			Kind:   "section",
			Length: 18,
			Section: [][2]float64{
				{-3, 1.5}, {-3, 0}, {-1, -1.5}, {1, -1.5}, {3, 0}, {3, 1.5},
			},
		},
		Mass: 50000, Density: DensitySaltwater, Points: 3000,
		CenterOfMass: [3]float64{0, 0, -0.5},
		Angles:       AngleConfig{Start: 0, Stop: 180, Step: 5},
	},
	"sailboat": {
		Hull: HullConfig{
			Kind:   "section",
			Length: 10,
			Section: [][2]float64{
				{-1.5, 0.8}, {-1.5, 0}, {0, -0.8}, {1.5, 0}, {1.5, 0.8},
			},
		},
		Mass: 5000, Density: DensitySaltwater, Points: 3000,
		CenterOfMass: [3]float64{0, 0, -0.3},
		Angles:       AngleConfig{Start: 0, Stop: 180, Step: 5},
	},
}

// GetPreset returns a copy of the named preset with unset fields filled from
// DefaultConfig, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Hull = p.Hull
	cfg.Hull.Section = append([][2]float64(nil), p.Hull.Section...)
	cfg.Mass = p.Mass
	cfg.Density = p.Density
	cfg.CenterOfMass = p.CenterOfMass
	cfg.Points = p.Points
	cfg.Angles = p.Angles
	if p.Seed != 0 {
		cfg.Seed = p.Seed
	}
	if p.Convention != "" {
		cfg.Convention = p.Convention
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
