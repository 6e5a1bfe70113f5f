package export

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/geom"
	"github.com/san-kum/celestial/internal/sim"
	"github.com/san-kum/celestial/internal/viz"
)

const (
	background = "#0a0a0a"
	bodyFill   = "#00ccff"
	starFill   = "#ffdc50"
)

// CanvasToSVG converts a braille canvas to SVG, one circle per dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	pw, ph := canvas.Pixels()
	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.Get(x, y) {
				continue
			}
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SnapshotToSVG draws the bodies of snap and the fixed bodies at their true
// radii, with area scaled to fit width by height.
func SnapshotToSVG(snap sim.Snapshot, fixed []sim.BodyState, area geom.Rect, width, height int) string {
	scale := math.Min(float64(width)/area.Width(), float64(height)/area.Height())
	ox := (float64(width) - area.Width()*scale) / 2
	oy := (float64(height) - area.Height()*scale) / 2

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	circle := func(b sim.BodyState, fill string) {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s"/>`+"\n",
			(b.Position.X-area.Left)*scale+ox, (b.Position.Y-area.Up)*scale+oy, b.Radius*scale, fill)
	}
	for _, b := range fixed {
		circle(b, starFill)
	}
	for _, b := range snap.Bodies {
		circle(b, bodyFill)
	}
	fmt.Fprintf(&sb, `<text x="8" y="16" fill="#888899" font-family="monospace" font-size="12">t=%.2f bodies=%d</text>`+"\n",
		snap.Time, len(snap.Bodies))
	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws points as a polyline fitted to width by height with
// ten percent padding. Screen y grows downward, matching world coordinates.
func TrajectoryToSVG(points []r2.Vec, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := (p.Y - minY) / rangeY * float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>` + "\n</svg>")
	return sb.String()
}

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}
