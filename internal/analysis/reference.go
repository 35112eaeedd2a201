package analysis

import "math"

// SphereWaterline returns the waterline height, relative to the center of a
// sphere of radius r, at which fraction of its volume is submerged.
func SphereWaterline(r, fraction float64) float64 {
	switch {
	case fraction <= 0:
		return -r
	case fraction >= 1:
		return r
	}

	target := fraction * 4.0 / 3.0 * math.Pi * r * r * r
	lo, hi := 0.0, 2*r
	for i := 0; i < 200; i++ {
		h := (lo + hi) / 2
		if capVolume(r, h) < target {
			lo = h
		} else {
			hi = h
		}
	}
	return (lo+hi)/2 - r
}

func capVolume(r, h float64) float64 {
	return math.Pi * h * h * (3*r - h) / 3
}

// BoxDraft is the even-keel draft of a box barge.
func BoxDraft(mass, density, beam, length float64) float64 {
	return mass / (density * beam * length)
}

// BoxMetacentricHeight is GM = KB + BM - KG with kg measured from the keel.
func BoxMetacentricHeight(beam, draft, kg float64) float64 {
	kb := draft / 2
	bm := beam * beam / (12 * draft)
	return kb + bm - kg
}

// BoxRightingArm applies the wall-sided formula at angle degrees. ok is
// false once the deck edge immerses or the bilge emerges, where the formula
// no longer holds.
func BoxRightingArm(beam, depth, draft, kg, angle float64) (arm float64, ok bool) {
	phi := angle * math.Pi / 180
	tan := math.Abs(math.Tan(phi))
	limit := math.Min(2*(depth-draft)/beam, 2*draft/beam)

	bm := beam * beam / (12 * draft)
	gm := BoxMetacentricHeight(beam, draft, kg)
	arm = math.Sin(phi) * (gm + bm/2*math.Tan(phi)*math.Tan(phi))
	return arm, tan <= limit
}
