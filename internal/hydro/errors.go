package hydro

import (
	"errors"
	"fmt"
)

// Domain errors for stability computations.
var (
	// ErrInvalidInput indicates a non-positive count, mass, density or volume.
	ErrInvalidInput = errors.New("hydro: invalid input")

	// ErrDegenerateGeometry indicates the sampler cannot make progress on a solid.
	ErrDegenerateGeometry = errors.New("hydro: degenerate geometry")

	// ErrEmptySubmergedSet indicates no sampled point lies below the waterline.
	ErrEmptySubmergedSet = errors.New("hydro: no points below waterline")

	// ErrVolumeConsistency indicates the waterline interpolation bracket does not
	// contain the required submerged volume.
	ErrVolumeConsistency = errors.New("hydro: waterline bracket does not contain submerged volume")
)

// Stage names the pipeline step that produced an error.
type Stage string

const (
	StageSample    Stage = "sample"
	StageWaterline Stage = "waterline"
	StageBuoyancy  Stage = "buoyancy"
)

// StageError wraps an error with the pipeline stage and heel angle.
type StageError struct {
	Stage    Stage
	Angle    float64 // degrees, valid when HasAngle
	HasAngle bool
	Wrapped  error
}

func (e *StageError) Error() string {
	if e.HasAngle {
		return fmt.Sprintf("%s at %.2f deg: %v", e.Stage, e.Angle, e.Wrapped)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Wrapped)
}

func (e *StageError) Unwrap() error {
	return e.Wrapped
}
