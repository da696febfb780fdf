package metrics

import (
	"math"

	"github.com/san-kum/corosph/internal/particle"
	"gonum.org/v1/gonum/spatial/r3"
)

// Locate returns the current slot of the particle whose original index is
// id, or -1.
func Locate(b *particle.Set, id int) int {
	for i, v := range b.IDs {
		if v == id {
			return i
		}
	}
	return -1
}

// TipDisplacement is the largest distance a tracked particle moves from
// where it was first observed.
type TipDisplacement struct {
	name    string
	id      int
	start   r3.Vec
	started bool
	peak    float64
}

func NewTipDisplacement(id int) *TipDisplacement {
	return &TipDisplacement{name: "tip_displacement", id: id}
}

func (d *TipDisplacement) Name() string { return d.name }

func (d *TipDisplacement) Observe(s Snapshot) {
	slot := Locate(s.Body, d.id)
	if slot < 0 {
		return
	}
	p := s.Body.Positions[slot]
	if !d.started {
		d.start = p
		d.started = true
	}
	d.peak = math.Max(d.peak, r3.Norm(r3.Sub(p, d.start)))
}

func (d *TipDisplacement) Value() float64 { return d.peak }

func (d *TipDisplacement) Reset() {
	d.started = false
	d.start = r3.Vec{}
	d.peak = 0
}
