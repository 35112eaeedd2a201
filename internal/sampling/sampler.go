package sampling

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gzsim/internal/hydro"
)

const (
	DefaultMaxBatches      = 10000
	DefaultMaxEmptyBatches = 50
)

// Observer receives sampling progress after every batch. accepted never
// decreases and never exceeds target.
type Observer interface {
	OnProgress(accepted, target int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(accepted, target int)

func (f ObserverFunc) OnProgress(accepted, target int) { f(accepted, target) }

// Sampler draws points uniformly inside a solid by rejection against its
// bounding box. A Sampler owns its random source and is not safe for
// concurrent use.
type Sampler struct {
	rng             *rand.Rand
	maxBatches      int
	maxEmptyBatches int
	observers       []Observer
}

func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{
		rng:             rng,
		maxBatches:      DefaultMaxBatches,
		maxEmptyBatches: DefaultMaxEmptyBatches,
		observers:       make([]Observer, 0),
	}
}

// WithLimits bounds the number of batches drawn in total and the number of
// consecutive batches allowed to accept nothing. Non-positive values keep the
// current limit.
func (s *Sampler) WithLimits(maxBatches, maxEmptyBatches int) *Sampler {
	if maxBatches > 0 {
		s.maxBatches = maxBatches
	}
	if maxEmptyBatches > 0 {
		s.maxEmptyBatches = maxEmptyBatches
	}
	return s
}

func (s *Sampler) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Sample returns exactly n points inside solid, in the order they were
// accepted.
func (s *Sampler) Sample(ctx context.Context, solid hydro.Solid, n int) (hydro.PointCloud, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: point count must be positive, got %d", hydro.ErrInvalidInput, n)
	}

	lo, hi := solid.Bounds()
	extent := hi.Sub(lo)
	for i := 0; i < 3; i++ {
		if !(extent[i] > 0) || math.IsInf(extent[i], 0) {
			return nil, fmt.Errorf("%w: bounding box extent %v", hydro.ErrDegenerateGeometry, extent)
		}
	}

	points := make(hydro.PointCloud, 0, n)
	batch := make([]mgl64.Vec3, n)
	empty := 0

	for b := 0; len(points) < n; b++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if b >= s.maxBatches {
			return nil, fmt.Errorf("%w: %d of %d points accepted after %d batches",
				hydro.ErrDegenerateGeometry, len(points), n, b)
		}

		for i := range batch {
			batch[i] = mgl64.Vec3{
				lo.X() + s.rng.Float64()*extent.X(),
				lo.Y() + s.rng.Float64()*extent.Y(),
				lo.Z() + s.rng.Float64()*extent.Z(),
			}
		}

		inside := solid.Contains(batch)
		accepted := 0
		for i, ok := range inside {
			if ok {
				points = append(points, batch[i])
				accepted++
			}
		}

		if accepted == 0 {
			empty++
			if empty >= s.maxEmptyBatches {
				return nil, fmt.Errorf("%w: no points accepted in %d consecutive batches",
					hydro.ErrDegenerateGeometry, empty)
			}
		} else {
			empty = 0
		}

		s.notify(min(len(points), n), n)
	}

	return points[:n:n], nil
}

func (s *Sampler) notify(accepted, target int) {
	for _, o := range s.observers {
		o.OnProgress(accepted, target)
	}
}
