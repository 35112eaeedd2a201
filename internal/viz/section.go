package viz

import (
	"math"
	"strings"

	"github.com/san-kum/gzsim/internal/hydro"
)

// Section projects a heeled, mass-centered cloud onto the transverse (x, z)
// plane. Points at or below the waterline are drawn in Wet, the rest in Dry,
// and the waterline itself is a full-width line.
func Section(cloud hydro.PointCloud, waterline float64, width, height int) string {
	if len(cloud) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := waterline, waterline
	for _, p := range cloud {
		minX = min(minX, p.X())
		maxX = max(maxX, p.X())
		minZ = min(minZ, p.Z())
		maxZ = max(maxZ, p.Z())
	}

	// equal scale on both axes keeps the heel angle visible
	span := max(maxX-minX, maxZ-minZ)
	if span == 0 {
		span = 1
	}
	cx, cz := (minX+maxX)/2, (minZ+maxZ)/2
	dotsW, dotsH := width*2, height*4
	scale := float64(min(dotsW, dotsH)-1) / span

	project := func(x, z float64) (int, int) {
		px := int(math.Round(float64(dotsW)/2 + (x-cx)*scale))
		py := int(math.Round(float64(dotsH)/2 - (z-cz)*scale))
		return px, py
	}

	wet := NewCanvas(width, height)
	dry := NewCanvas(width, height)
	line := NewCanvas(width, height)

	for _, p := range cloud {
		x, y := project(p.X(), p.Z())
		if p.Z() <= waterline {
			wet.Set(x, y)
		} else {
			dry.Set(x, y)
		}
	}
	_, wy := project(0, waterline)
	line.DrawLine(0, wy, dotsW-1, wy)

	var b strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			cell := string(wet.Grid[row][col] | dry.Grid[row][col] | line.Grid[row][col])
			switch {
			case !line.Empty(row, col):
				b.WriteString(Water.Render(cell))
			case !wet.Empty(row, col):
				b.WriteString(Wet.Render(cell))
			case !dry.Empty(row, col):
				b.WriteString(Dry.Render(cell))
			default:
				b.WriteString(cell)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
