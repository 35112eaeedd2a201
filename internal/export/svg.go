package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gzsim/internal/hydro"
)

// CurveToSVG draws the righting arm against heel angle with a zero line and
// the axis extents as labels.
func CurveToSVG(curve *hydro.Curve, width, height int, strokeColor string) string {
	if curve == nil || len(curve.Points) < 2 {
		return ""
	}

	minX, maxX := curve.Points[0].Angle, curve.Points[0].Angle
	minY, maxY := 0.0, 0.0
	for _, p := range curve.Points {
		minX = min(minX, p.Angle)
		maxX = max(maxX, p.Angle)
		minY = min(minY, p.Arm)
		maxY = max(maxY, p.Arm)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	project := func(x, y float64) (float64, float64) {
		px := (x - minX) / rangeX * float64(width)
		py := float64(height) - (y-minY)/rangeY*float64(height)
		return px, py
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	_, zy := project(minX, 0)
	sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-dasharray="4 4"/>
`, zy, width, zy))

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, p := range curve.Points {
		x, y := project(p.Angle, p.Arm)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
`)

	sb.WriteString(fmt.Sprintf(`<g fill="#888899" font-family="monospace" font-size="11">
<text x="4" y="%d">%.0f°</text>
<text x="%d" y="%d" text-anchor="end">%.0f°</text>
<text x="4" y="12">GZ %.3f m</text>
</g>
</svg>`, height-4, minX, width-4, height-4, maxX, maxY))

	return sb.String()
}
