// Package hydro provides the core types for hydrostatic stability analysis.
//
// The package defines the shared vocabulary of the sampling pipeline:
//
//   - [Solid]: geometric oracle (containment, bounds, enclosed volume)
//   - [PointCloud]: sampled interior points of a solid
//   - [Config]: parameters of a GZ curve computation
//   - [Curve]: righting arm per heel angle
//   - [Convention]: sign convention applied to the transverse offset
//
// # Frame
//
// x is transverse (beam), y is longitudinal (the roll axis) and z points up.
// Lengths are meters, masses kilograms, densities kg/m^3. Angles are degrees
// at every exported boundary and radians internally.
//
// # Example
//
//	solid, _ := hull.Box(2, 4, 1)
//	cfg := hydro.DefaultConfig()
//	cfg.Mass = 4100
//	gen := sampling.NewGenerator(solid, cfg, sampling.NewSampler(rand.New(rand.NewSource(1))))
//	curve, _ := gen.Run(ctx, nil)
//
// # Thread Safety
//
// PointCloud values are never mutated once sampled, so a single cloud may be
// read from many goroutines. Solid implementations must tolerate concurrent
// Contains calls.
package hydro
