package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/corosph/internal/config"
	"github.com/san-kum/corosph/internal/particle"
	"github.com/san-kum/corosph/internal/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

type shapeFunc func(s config.SceneConfig, rho float64) *particle.Set

// pinFunc selects particles to clamp, given the body's bounding box.
type pinFunc func(lo, hi r3.Vec, spacing float64) func(r3.Vec) bool

type Registry struct {
	shapes map[string]shapeFunc
	pins   map[string]pinFunc
}

func NewRegistry() *Registry {
	r := &Registry{
		shapes: make(map[string]shapeFunc),
		pins:   make(map[string]pinFunc),
	}

	r.shapes["block"] = func(s config.SceneConfig, rho float64) *particle.Set {
		return particle.Block(tensor.Dim(s.Dim), s.Spacing, s.NX, s.NY, s.NZ, rho)
	}
	r.shapes["ring"] = func(s config.SceneConfig, rho float64) *particle.Set {
		radius := float64(s.NX) * s.Spacing / (2 * math.Pi)
		return particle.Ring(s.NX, radius, s.Spacing*s.Spacing, rho)
	}

	r.pins["none"] = func(lo, hi r3.Vec, spacing float64) func(r3.Vec) bool {
		return nil
	}
	r.pins["left"] = func(lo, hi r3.Vec, spacing float64) func(r3.Vec) bool {
		return func(p r3.Vec) bool { return p.X < lo.X+spacing/2 }
	}
	r.pins["bottom"] = func(lo, hi r3.Vec, spacing float64) func(r3.Vec) bool {
		return func(p r3.Vec) bool { return p.Y < lo.Y+spacing/2 }
	}

	return r
}

// Body builds the particle set of a scene and clamps its pinned particles.
func (r *Registry) Body(s config.SceneConfig, rho float64) (*particle.Set, error) {
	shape, ok := r.shapes[s.Shape]
	if !ok {
		return nil, fmt.Errorf("unknown shape: %s", s.Shape)
	}
	pin, ok := r.pins[s.Pin]
	if !ok {
		return nil, fmt.Errorf("unknown pin mode: %s", s.Pin)
	}
	body := shape(s, rho)
	lo, hi := body.Bounds()
	if sel := pin(lo, hi, s.Spacing); sel != nil {
		body.Pin(sel)
	}
	return body, nil
}

func (r *Registry) ListShapes() []string {
	names := make([]string, 0, len(r.shapes))
	for name := range r.shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tip picks the particle reported as the tip: the one farthest along +X,
// ties broken by the highest Y.
func Tip(b *particle.Set) int {
	best := -1
	for i, p := range b.Positions {
		if best < 0 {
			best = i
			continue
		}
		q := b.Positions[best]
		if p.X > q.X || (p.X == q.X && p.Y > q.Y) {
			best = i
		}
	}
	return best
}
