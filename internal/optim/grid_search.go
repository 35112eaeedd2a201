// Package optim sweeps configuration parameters and ranks the resulting
// curves by one metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/san-kum/gzsim/internal/config"
	"github.com/san-kum/gzsim/internal/experiment"
	"github.com/san-kum/gzsim/internal/hydro"
	"github.com/san-kum/gzsim/internal/metrics"
)

// Setters maps sweepable parameter names to the config field they write.
var Setters = map[string]func(*config.Config, float64){
	"mass":    func(c *config.Config, v float64) { c.Mass = v },
	"density": func(c *config.Config, v float64) { c.Density = v },
	"com_x":   func(c *config.Config, v float64) { c.CenterOfMass[0] = v },
	"com_y":   func(c *config.Config, v float64) { c.CenterOfMass[1] = v },
	"com_z":   func(c *config.Config, v float64) { c.CenterOfMass[2] = v },
}

func ParamNames() []string {
	names := make([]string, 0, len(Setters))
	for name := range Setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluation is one grid cell. Err is set when the curve could not be
// computed, e.g. for a non-positive mass.
type Evaluation struct {
	Params  map[string]float64
	Metrics map[string]float64
	Err     error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64, maximize bool) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d params, %d ranges", hydro.ErrInvalidInput, len(params), len(ranges))
	}
	for i, p := range params {
		if _, ok := Setters[p]; !ok {
			return nil, fmt.Errorf("%w: unknown parameter %s (available: %v)", hydro.ErrInvalidInput, p, ParamNames())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("%w: empty range for %s", hydro.ErrInvalidInput, p)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, maximize: maximize}, nil
}

// Search runs every grid cell on a copy of base, reusing one sampled cloud
// across cells, and returns the best cell by metricName plus all cells in
// grid order. Cells that fail are recorded but never ranked.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (*Evaluation, []Evaluation, error) {
	if !slices.Contains(metrics.Names(), metricName) {
		return nil, nil, fmt.Errorf("%w: unknown metric %s (available: %v)", hydro.ErrInvalidInput, metricName, metrics.Names())
	}

	registry := experiment.NewRegistry()
	solid, err := registry.GetHull(base.Hull)
	if err != nil {
		return nil, nil, err
	}

	seed, err := experiment.New(base)
	if err != nil {
		return nil, nil, err
	}
	if err := seed.Setup(solid, nil); err != nil {
		return nil, nil, err
	}
	cloud, err := seed.Sample(ctx)
	if err != nil {
		return nil, nil, err
	}

	s := &search{
		g:        g,
		base:     base,
		solid:    solid,
		cloud:    cloud,
		metric:   metricName,
		registry: registry,
		best:     math.Inf(1),
		bestIdx:  -1,
	}
	if g.maximize {
		s.best = math.Inf(-1)
	}

	if err := s.recurse(ctx, 0, make(map[string]float64)); err != nil {
		return nil, nil, err
	}
	if s.bestIdx < 0 {
		return nil, s.evals, fmt.Errorf("no grid cell produced %s", metricName)
	}

	return &s.evals[s.bestIdx], s.evals, nil
}

type search struct {
	g        *GridSearch
	base     *config.Config
	solid    hydro.Solid
	cloud    hydro.PointCloud
	metric   string
	registry *experiment.Registry
	evals    []Evaluation
	best     float64
	bestIdx  int
}

func (s *search) recurse(ctx context.Context, depth int, current map[string]float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(s.g.paramNames) {
		s.evals = append(s.evals, s.evaluate(ctx, current))
		eval := s.evals[len(s.evals)-1]
		if eval.Err != nil {
			return nil
		}

		val := eval.Metrics[s.metric]
		if (s.g.maximize && val > s.best) || (!s.g.maximize && val < s.best) {
			s.best = val
			s.bestIdx = len(s.evals) - 1
		}
		return nil
	}

	name := s.g.paramNames[depth]
	for _, val := range s.g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val

		if err := s.recurse(ctx, depth+1, next); err != nil {
			return err
		}
	}
	return nil
}

func (s *search) evaluate(ctx context.Context, params map[string]float64) Evaluation {
	cfg := *s.base
	for name, v := range params {
		Setters[name](&cfg, v)
	}

	eval := Evaluation{Params: params}
	exp, err := experiment.New(&cfg)
	if err != nil {
		eval.Err = err
		return eval
	}
	if err := exp.Setup(s.solid, s.registry.DefaultMetrics()); err != nil {
		eval.Err = err
		return eval
	}

	result, err := exp.Run(ctx, s.cloud)
	if err != nil {
		eval.Err = err
		return eval
	}
	eval.Metrics = result.Metrics
	return eval
}
