package viz

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/geom"
	"github.com/san-kum/celestial/internal/sim"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBase = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells. Pixel coordinates address the dots,
// so the canvas is (Width*2) x (Height*4) pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Pixels returns the canvas size in dots.
func (c *Canvas) Pixels() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set turns on the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Get reports whether the dot at (x, y) is on.
func (c *Canvas) Get(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws the outline of a circle with the midpoint algorithm.
// A radius below one dot draws a single dot.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r < 1 {
		c.Set(cx, cy)
		return
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		c.Set(cx+x, cy+y)
		c.Set(cx+y, cy+x)
		c.Set(cx-y, cy+x)
		c.Set(cx-x, cy+y)
		c.Set(cx-x, cy-y)
		c.Set(cx-y, cy-x)
		c.Set(cx+y, cy-x)
		c.Set(cx+x, cy-y)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) DrawRect(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps a world rectangle onto the canvas, preserving aspect ratio
// and centering the shorter axis.
type Viewport struct {
	Area  geom.Rect
	scale float64
	ox    float64
	oy    float64
}

func NewViewport(area geom.Rect, c *Canvas) Viewport {
	pw, ph := c.Pixels()
	scale := math.Min(float64(pw)/area.Width(), float64(ph)/area.Height())
	return Viewport{
		Area:  area,
		scale: scale,
		ox:    (float64(pw) - area.Width()*scale) / 2,
		oy:    (float64(ph) - area.Height()*scale) / 2,
	}
}

// Project returns the canvas dot under world point p.
func (v Viewport) Project(p r2.Vec) (int, int) {
	x := (p.X-v.Area.Left)*v.scale + v.ox
	y := (p.Y-v.Area.Up)*v.scale + v.oy
	return int(math.Floor(x)), int(math.Floor(y))
}

// Unproject returns the world point at the center of dot (x, y).
func (v Viewport) Unproject(x, y int) r2.Vec {
	return r2.Vec{
		X: (float64(x)+0.5-v.ox)/v.scale + v.Area.Left,
		Y: (float64(y)+0.5-v.oy)/v.scale + v.Area.Up,
	}
}

// Length converts a world distance to dots.
func (v Viewport) Length(d float64) int {
	return int(math.Round(d * v.scale))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// DrawSnapshot outlines every body of snap through v.
func DrawSnapshot(c *Canvas, v Viewport, snap sim.Snapshot) {
	for _, b := range snap.Bodies {
		x, y := v.Project(b.Position)
		c.DrawCircle(x, y, v.Length(b.Radius))
	}
}
