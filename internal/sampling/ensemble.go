package sampling

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/san-kum/gzsim/internal/hydro"
)

// Ensemble repeats a curve computation over consecutive seeds, each with
// its own freshly sampled cloud.
type Ensemble struct {
	solid     hydro.Solid
	cfg       hydro.Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(solid hydro.Solid, cfg hydro.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{solid: solid, cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context) ([]*hydro.Curve, error) {
	results := make([]*hydro.Curve, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			sampler := NewSampler(rand.New(rand.NewSource(cfgCopy.Seed))).
				WithLimits(cfgCopy.MaxBatches, cfgCopy.MaxEmptyBatches)
			results[idx], errs[idx] = NewGenerator(e.solid, cfgCopy, sampler).Run(ctx, nil)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Spread is the per-angle mean and standard deviation of an ensemble.
type Spread struct {
	Angles []float64
	Mean   []float64
	StdDev []float64
}

// Summarize reduces curves computed over the same angles.
func Summarize(curves []*hydro.Curve) Spread {
	if len(curves) == 0 {
		return Spread{}
	}

	n := len(curves[0].Points)
	s := Spread{
		Angles: curves[0].Angles(),
		Mean:   make([]float64, n),
		StdDev: make([]float64, n),
	}

	for i := 0; i < n; i++ {
		sum := 0.0
		for _, c := range curves {
			sum += c.Points[i].Arm
		}
		mean := sum / float64(len(curves))

		sq := 0.0
		for _, c := range curves {
			d := c.Points[i].Arm - mean
			sq += d * d
		}

		s.Mean[i] = mean
		if len(curves) > 1 {
			s.StdDev[i] = math.Sqrt(sq / float64(len(curves)-1))
		}
	}

	return s
}
