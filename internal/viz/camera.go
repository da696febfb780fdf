package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is an orthographic view of a body. It frames a fixed box so the
// picture does not rescale as the body moves; Yaw and Pitch orbit the box
// centre and only matter for 3D bodies.
type Camera struct {
	Center     r3.Vec
	Extent     float64
	Yaw, Pitch float64
	Zoom       float64
}

// Frame returns a camera fitted to the box [lo, hi] with a margin.
func Frame(lo, hi r3.Vec, margin float64) *Camera {
	ext := math.Max(hi.X-lo.X, math.Max(hi.Y-lo.Y, hi.Z-lo.Z))
	if ext == 0 {
		ext = 1
	}
	return &Camera{
		Center: r3.Scale(0.5, r3.Add(lo, hi)),
		Extent: ext * (1 + 2*margin),
		Zoom:   1,
	}
}

func (c *Camera) Orbit(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+dpitch))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p r3.Vec) r3.Vec {
	p = r3.Sub(p, c.Center)
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	p.Y, p.Z = p.Y*cp-p.Z*sp, p.Y*sp+p.Z*cp
	return p
}

// Project maps p onto a w x h pixel raster with y pointing down. ok is
// false when the point falls outside the raster.
func (c *Camera) Project(p r3.Vec, w, h int) (x, y int, depth float64, ok bool) {
	q := c.rotate(p)
	scale := c.Zoom * float64(min(w, h)) / c.Extent
	x = int(math.Round(q.X*scale)) + w/2
	y = h/2 - int(math.Round(q.Y*scale))
	return x, y, q.Z, x >= 0 && x < w && y >= 0 && y < h
}
