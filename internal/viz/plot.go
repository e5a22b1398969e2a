package viz

import (
	"errors"
	"math"
)

var errTooFewPoints = errors.New("need at least two points")

// frame maps data coordinates into a square viewport with 10% margin and
// y pointing up.
type frame struct {
	cx, cy float64
	scale  float64
	size   float64
}

func fitSquare(pts []struct{ X, Y float64 }, size float64) frame {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	return frame{
		cx:    (minX + maxX) / 2,
		cy:    (minY + maxY) / 2,
		scale: 0.8 * size / span,
		size:  size,
	}
}

func (f frame) apply(x, y float64) (float64, float64) {
	return f.size/2 + (x-f.cx)*f.scale, f.size/2 - (y-f.cy)*f.scale
}

// PlotPath clears c and draws pts as a connected path, keeping equal axis
// scaling so a polhode keeps its shape. Axes through the origin are dotted
// in when they are in view.
func PlotPath(c *Canvas, pts []struct{ X, Y float64 }) error {
	if len(pts) < 2 {
		return errTooFewPoints
	}
	c.Clear()

	sw, sh := c.Dots()
	side := math.Min(float64(sw), float64(sh))
	f := fitSquare(pts, side)
	ox := (float64(sw) - side) / 2
	oy := (float64(sh) - side) / 2
	dot := func(x, y float64) (int, int) {
		px, py := f.apply(x, y)
		return int(math.Round(ox + px)), int(math.Round(oy + py))
	}

	zx, zy := dot(0, 0)
	for y := 0; y < sh; y += 3 {
		c.Set(zx, y)
	}
	for x := 0; x < sw; x += 3 {
		c.Set(x, zy)
	}

	px, py := dot(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		x, y := dot(p.X, p.Y)
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
	return nil
}
