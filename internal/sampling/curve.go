package sampling

import (
	"context"
	"fmt"

	"github.com/san-kum/gzsim/internal/hydro"
	"golang.org/x/sync/errgroup"
)

// Generator assembles a GZ curve for one solid and loading condition.
type Generator struct {
	solid   hydro.Solid
	cfg     hydro.Config
	sampler *Sampler
}

func NewGenerator(solid hydro.Solid, cfg hydro.Config, sampler *Sampler) *Generator {
	return &Generator{solid: solid, cfg: cfg, sampler: sampler}
}

func (g *Generator) validateConfig(cloud hydro.PointCloud) error {
	if cloud == nil && g.cfg.NumPoints <= 0 {
		return fmt.Errorf("%w: point count must be positive, got %d", hydro.ErrInvalidInput, g.cfg.NumPoints)
	}
	if cloud == nil && g.sampler == nil {
		return fmt.Errorf("%w: no sampler and no point cloud", hydro.ErrInvalidInput)
	}
	if cloud != nil && len(cloud) == 0 {
		return fmt.Errorf("%w: empty point cloud", hydro.ErrInvalidInput)
	}
	if !(g.cfg.Mass > 0) {
		return fmt.Errorf("%w: mass must be positive, got %g", hydro.ErrInvalidInput, g.cfg.Mass)
	}
	if !(g.cfg.Density > 0) {
		return fmt.Errorf("%w: density must be positive, got %g", hydro.ErrInvalidInput, g.cfg.Density)
	}
	if v := g.solid.Volume(); !(v > 0) {
		return fmt.Errorf("%w: solid volume must be positive, got %g", hydro.ErrInvalidInput, v)
	}
	if _, err := hydro.ParseConvention(string(g.cfg.Convention)); err != nil {
		return err
	}
	return nil
}

// Run computes the curve for every configured angle. A nil cloud is sampled
// once from the solid; a non-nil cloud is used as is. Either every angle
// succeeds or Run returns the first failure as a *hydro.StageError.
func (g *Generator) Run(ctx context.Context, cloud hydro.PointCloud) (*hydro.Curve, error) {
	if err := g.validateConfig(cloud); err != nil {
		return nil, err
	}

	if cloud == nil {
		sampled, err := g.sampler.Sample(ctx, g.solid, g.cfg.NumPoints)
		if err != nil {
			return nil, &hydro.StageError{Stage: hydro.StageSample, Wrapped: err}
		}
		cloud = sampled
	}

	tol := g.cfg.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	curve := &hydro.Curve{
		Points:     make([]hydro.CurvePoint, len(g.cfg.Angles)),
		Convention: g.cfg.Convention,
		NumPoints:  len(cloud),
	}
	if curve.Convention == "" {
		curve.Convention = hydro.ConventionOffset
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if g.cfg.Workers > 0 {
		eg.SetLimit(g.cfg.Workers)
	}

	for i, angle := range g.cfg.Angles {
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}

			pt, err := g.equilibrium(cloud, angle, tol)
			if err != nil {
				return err
			}
			curve.Points[i] = pt
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return curve, nil
}

// equilibrium rolls the cloud to angle degrees and finds the waterline and
// center of buoyancy in the mass-centered frame.
func (g *Generator) equilibrium(cloud hydro.PointCloud, angle, tol float64) (hydro.CurvePoint, error) {
	rolled := cloud.Heel(g.cfg.CenterOfMass, angle)

	z, err := locateWaterline(rolled, g.cfg.Mass, g.solid.Volume(), g.cfg.Density, tol)
	if err != nil {
		return hydro.CurvePoint{}, &hydro.StageError{Stage: hydro.StageWaterline, Angle: angle, HasAngle: true, Wrapped: err}
	}

	cob, err := BuoyancyCenter(rolled, z)
	if err != nil {
		return hydro.CurvePoint{}, &hydro.StageError{Stage: hydro.StageBuoyancy, Angle: angle, HasAngle: true, Wrapped: err}
	}

	// The center of mass is the pivot, which sits at the origin of the
	// rolled frame, so the transverse offset is cob.x.
	offset := cob.X()

	return hydro.CurvePoint{
		Angle:     angle,
		Arm:       g.cfg.Convention.Arm(angle, offset),
		Waterline: z,
		Buoyancy:  cob,
	}, nil
}
