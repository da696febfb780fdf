package viz

import (
	"github.com/san-kum/corosph/internal/contact"
	"gonum.org/v1/gonum/spatial/r3"
)

// DrawParticles plots every position as a single dot.
func DrawParticles(c *Canvas, cam *Camera, positions []r3.Vec) {
	w, h := c.Pixels()
	for _, p := range positions {
		if x, y, _, ok := cam.Project(p, w, h); ok {
			c.Set(x, y)
		}
	}
}

// DrawContacts draws a line for every contact of g between the current
// positions, giving a wireframe of the body's rest topology.
func DrawContacts(c *Canvas, cam *Camera, positions []r3.Vec, g *contact.Graph) {
	if g == nil || g.NumParticles() != len(positions) {
		return
	}
	w, h := c.Pixels()
	for _, ct := range g.Contacts() {
		x0, y0, _, ok0 := cam.Project(positions[ct.I], w, h)
		x1, y1, _, ok1 := cam.Project(positions[ct.J], w, h)
		if ok0 || ok1 {
			c.DrawLine(x0, y0, x1, y1)
		}
	}
}
