// Package metrics summarizes a GZ curve into stability criteria.
package metrics

import (
	"math"

	"github.com/san-kum/gzsim/internal/hydro"
)

// Metric accumulates (angle, arm) observations in curve order. Angles are
// degrees and are expected in increasing order.
type Metric interface {
	Name() string
	Observe(angle, arm float64)
	Value() float64
	Reset()
}

// Default returns the standard set of curve metrics.
func Default() []Metric {
	return []Metric{
		NewMaxArm(),
		NewAngleOfMaxArm(),
		NewVanishingAngle(),
		NewDynamicStability(),
		NewInitialSlope(),
	}
}

// Names lists the default metric names in display order.
func Names() []string {
	ms := Default()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name()
	}
	return names
}

// Evaluate resets every metric, feeds it the curve and collects the values.
func Evaluate(curve *hydro.Curve, ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for _, p := range curve.Points {
			m.Observe(p.Angle, p.Arm)
		}
		out[m.Name()] = m.Value()
	}
	return out
}

type MaxArm struct {
	max  float64
	seen bool
}

func NewMaxArm() *MaxArm { return &MaxArm{} }

func (m *MaxArm) Name() string { return "max_arm" }

func (m *MaxArm) Observe(angle, arm float64) {
	if !m.seen || arm > m.max {
		m.max = arm
		m.seen = true
	}
}

func (m *MaxArm) Value() float64 { return m.max }

func (m *MaxArm) Reset() { *m = MaxArm{} }

type AngleOfMaxArm struct {
	inner MaxArm
	angle float64
}

func NewAngleOfMaxArm() *AngleOfMaxArm { return &AngleOfMaxArm{} }

func (m *AngleOfMaxArm) Name() string { return "angle_of_max_arm" }

func (m *AngleOfMaxArm) Observe(angle, arm float64) {
	prev := m.inner.max
	first := !m.inner.seen
	m.inner.Observe(angle, arm)
	if first || m.inner.max != prev {
		m.angle = angle
	}
}

func (m *AngleOfMaxArm) Value() float64 { return m.angle }

func (m *AngleOfMaxArm) Reset() { *m = AngleOfMaxArm{} }

// VanishingAngle is the first positive angle where a positive arm drops to
// zero, interpolated between observations. It reports 0 while the arm has not
// vanished.
type VanishingAngle struct {
	prevAngle, prevArm float64
	havePrev           bool
	positive           bool
	angle              float64
	found              bool
}

func NewVanishingAngle() *VanishingAngle { return &VanishingAngle{} }

func (m *VanishingAngle) Name() string { return "vanishing_angle" }

func (m *VanishingAngle) Observe(angle, arm float64) {
	if m.found || angle <= 0 {
		m.prevAngle, m.prevArm, m.havePrev = angle, arm, true
		return
	}
	if arm > 0 {
		m.positive = true
	} else if m.positive && m.havePrev && m.prevArm > 0 {
		frac := m.prevArm / (m.prevArm - arm)
		m.angle = m.prevAngle + frac*(angle-m.prevAngle)
		m.found = true
	}
	m.prevAngle, m.prevArm, m.havePrev = angle, arm, true
}

func (m *VanishingAngle) Value() float64 { return m.angle }

func (m *VanishingAngle) Reset() { *m = VanishingAngle{} }

// DynamicStability is the trapezoidal area under the curve in m*rad.
type DynamicStability struct {
	prevAngle, prevArm float64
	havePrev           bool
	area               float64
}

func NewDynamicStability() *DynamicStability { return &DynamicStability{} }

func (m *DynamicStability) Name() string { return "dynamic_stability" }

func (m *DynamicStability) Observe(angle, arm float64) {
	if m.havePrev {
		dphi := (angle - m.prevAngle) * math.Pi / 180
		m.area += 0.5 * (arm + m.prevArm) * dphi
	}
	m.prevAngle, m.prevArm, m.havePrev = angle, arm, true
}

func (m *DynamicStability) Value() float64 { return m.area }

func (m *DynamicStability) Reset() { *m = DynamicStability{} }

// InitialSlope is dGZ/dphi (m/rad) between the first two observations, an
// estimate of the metacentric height when the curve starts at upright.
type InitialSlope struct {
	angles, arms [2]float64
	count        int
}

func NewInitialSlope() *InitialSlope { return &InitialSlope{} }

func (m *InitialSlope) Name() string { return "initial_slope" }

func (m *InitialSlope) Observe(angle, arm float64) {
	if m.count < 2 {
		m.angles[m.count] = angle
		m.arms[m.count] = arm
		m.count++
	}
}

func (m *InitialSlope) Value() float64 {
	if m.count < 2 || m.angles[1] == m.angles[0] {
		return 0
	}
	return (m.arms[1] - m.arms[0]) / ((m.angles[1] - m.angles[0]) * math.Pi / 180)
}

func (m *InitialSlope) Reset() { *m = InitialSlope{} }
