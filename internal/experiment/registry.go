package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gzsim/internal/config"
	"github.com/san-kum/gzsim/internal/hull"
	"github.com/san-kum/gzsim/internal/metrics"
)

type Registry struct {
	hulls map[string]func(config.HullConfig) (*hull.Solid, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		hulls: make(map[string]func(config.HullConfig) (*hull.Solid, error)),
	}

	r.hulls["box"] = func(h config.HullConfig) (*hull.Solid, error) { return hull.Box(h.Beam, h.Length, h.Depth) }
	r.hulls["sphere"] = func(h config.HullConfig) (*hull.Solid, error) { return hull.Sphere(h.Radius) }
	r.hulls["cylinder"] = func(h config.HullConfig) (*hull.Solid, error) { return hull.Cylinder(h.Radius, h.Length) }
	r.hulls["section"] = func(h config.HullConfig) (*hull.Solid, error) { return hull.Section(h.Section, h.Length) }

	return r
}

func (r *Registry) GetHull(h config.HullConfig) (*hull.Solid, error) {
	fn, ok := r.hulls[h.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown hull: %s", h.Kind)
	}
	return fn(h)
}

func (r *Registry) ListHulls() []string {
	names := make([]string, 0, len(r.hulls))
	for name := range r.hulls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []metrics.Metric {
	return metrics.Default()
}
