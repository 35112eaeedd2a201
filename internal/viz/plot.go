package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gzsim/internal/hydro"
)

// PlotCurve charts the righting arm at each sampled angle. The x axis is the
// sample index, so the caption carries the angle range.
func PlotCurve(curve *hydro.Curve, width, height int) string {
	if curve == nil || len(curve.Points) == 0 {
		return ""
	}

	arms := curve.Arms()
	first, last := curve.Points[0].Angle, curve.Points[len(curve.Points)-1].Angle
	caption := fmt.Sprintf("GZ [m] vs heel %.0f..%.0f deg (%s)", first, last, curve.Convention)

	return asciigraph.Plot(arms,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	)
}
