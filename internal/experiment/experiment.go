package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/gzsim/internal/config"
	"github.com/san-kum/gzsim/internal/hydro"
	"github.com/san-kum/gzsim/internal/metrics"
	"github.com/san-kum/gzsim/internal/sampling"
)

type Result struct {
	Curve   *hydro.Curve
	Cloud   hydro.PointCloud
	Metrics map[string]float64
	Elapsed time.Duration
}

type Experiment struct {
	cfg        hydro.Config
	solid      hydro.Solid
	sampler    *sampling.Sampler
	metrics    []metrics.Metric
	randSource *rand.Rand
}

func New(cfg *config.Config) (*Experiment, error) {
	hc, err := cfg.Hydro()
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(hc.Seed))
	return &Experiment{
		cfg:        hc,
		randSource: rng,
		sampler:    sampling.NewSampler(rng).WithLimits(hc.MaxBatches, hc.MaxEmptyBatches),
	}, nil
}

func (e *Experiment) Setup(solid hydro.Solid, ms []metrics.Metric) error {
	if solid == nil {
		return fmt.Errorf("%w: no solid", hydro.ErrInvalidInput)
	}
	e.solid = solid
	e.metrics = ms
	return nil
}

// AddObserver forwards sampling progress to o.
func (e *Experiment) AddObserver(o sampling.Observer) { e.sampler.AddObserver(o) }

func (e *Experiment) Config() hydro.Config { return e.cfg }

// Sample draws the configured number of points from the solid.
func (e *Experiment) Sample(ctx context.Context) (hydro.PointCloud, error) {
	if e.solid == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	cloud, err := e.sampler.Sample(ctx, e.solid, e.cfg.NumPoints)
	if err != nil {
		return nil, &hydro.StageError{Stage: hydro.StageSample, Wrapped: err}
	}
	return cloud, nil
}

// Run computes the curve. A nil cloud is sampled first and returned in the
// result so it can be stored and reused.
func (e *Experiment) Run(ctx context.Context, cloud hydro.PointCloud) (*Result, error) {
	if e.solid == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	start := time.Now()

	if cloud == nil {
		sampled, err := e.Sample(ctx)
		if err != nil {
			return nil, err
		}
		cloud = sampled
	}

	curve, err := sampling.NewGenerator(e.solid, e.cfg, e.sampler).Run(ctx, cloud)
	if err != nil {
		return nil, err
	}

	return &Result{
		Curve:   curve,
		Cloud:   cloud,
		Metrics: metrics.Evaluate(curve, e.metrics),
		Elapsed: time.Since(start),
	}, nil
}
