package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/corosph/internal/sim"
	"github.com/san-kum/corosph/internal/viz"
)

const svgBackground = "#0a0a0a"

func svgHeader(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, svgBackground)
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	w, h := canvas.Pixels()

	var sb strings.Builder
	svgHeader(&sb, float64(w)*scale, float64(h)*scale)
	sb.WriteString(`<g fill="#00ff00">` + "\n")
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if canvas.Lit(x, y) {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
					(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, scale*0.4)
			}
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b *bounds) pad(frac float64) {
	rx, ry := b.maxX-b.minX, b.maxY-b.minY
	if rx == 0 {
		rx = 1
	}
	if ry == 0 {
		ry = 1
	}
	b.minX -= rx * frac
	b.maxX += rx * frac
	b.minY -= ry * frac
	b.maxY += ry * frac
}

// fit maps (x, y) into a w x h picture with y pointing up, keeping the
// aspect ratio when equal is set.
func (b bounds) fit(w, h float64, equal bool) func(x, y float64) (float64, float64) {
	sx, sy := w/(b.maxX-b.minX), h/(b.maxY-b.minY)
	if equal {
		sx = math.Min(sx, sy)
		sy = sx
	}
	return func(x, y float64) (float64, float64) {
		return (x - b.minX) * sx, h - (y-b.minY)*sy
	}
}

// StressColor maps a value in [0, 1] onto a blue-green-red ramp.
func StressColor(t float64) string {
	t = math.Max(0, math.Min(1, t))
	var r, g, b float64
	if t < 0.5 {
		u := t * 2
		r, g, b = 0, u, 1-u
	} else {
		u := (t - 0.5) * 2
		r, g, b = u, 1-u, 0
	}
	return fmt.Sprintf("#%02x%02x%02x", int(r*255+0.5), int(g*255+0.5), int(b*255+0.5))
}

// ParticlesToSVG draws the final particle positions, coloured by von Mises
// stress relative to the largest value. Pinned particles are outlined.
func ParticlesToSVG(particles []sim.Particle, width, height int) string {
	if len(particles) == 0 {
		return ""
	}
	bb := bounds{particles[0].X, particles[0].X, particles[0].Y, particles[0].Y}
	var peak float64
	for _, p := range particles {
		bb.minX, bb.maxX = math.Min(bb.minX, p.X), math.Max(bb.maxX, p.X)
		bb.minY, bb.maxY = math.Min(bb.minY, p.Y), math.Max(bb.maxY, p.Y)
		peak = math.Max(peak, p.VonMises)
	}
	bb.pad(0.1)
	w, h := float64(width), float64(height)
	project := bb.fit(w, h, true)

	radius := math.Max(1.5, math.Min(w, h)/math.Sqrt(float64(len(particles)))/4)

	var sb strings.Builder
	svgHeader(&sb, w, h)
	for _, p := range particles {
		x, y := project(p.X, p.Y)
		t := 0.0
		if peak > 0 {
			t = p.VonMises / peak
		}
		stroke := ""
		if p.Pinned {
			stroke = ` stroke="#ffffff" stroke-width="1"`
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"%s/>`+"\n", x, y, radius, StressColor(t), stroke)
	}
	fmt.Fprintf(&sb, `<text x="8" y="16" fill="#cccccc" font-family="monospace" font-size="12">max von Mises %.4g Pa</text>`+"\n", peak)
	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots y against x as a polyline.
func SeriesToSVG(xs, ys []float64, width, height int, strokeColor string) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}
	bb := bounds{xs[0], xs[0], ys[0], ys[0]}
	for i := 0; i < n; i++ {
		bb.minX, bb.maxX = math.Min(bb.minX, xs[i]), math.Max(bb.maxX, xs[i])
		bb.minY, bb.maxY = math.Min(bb.minY, ys[i]), math.Max(bb.maxY, ys[i])
	}
	bb.pad(0.1)
	project := bb.fit(float64(width), float64(height), false)

	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, strokeColor)
	for i := 0; i < n; i++ {
		x, y := project(xs[i], ys[i])
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>` + "\n</svg>")
	return sb.String()
}
