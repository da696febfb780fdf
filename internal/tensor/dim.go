package tensor

import "fmt"

// Dim is the spatial dimensionality of a simulation. It is fixed once at
// startup and threaded through kernels, tensors and the stress law.
type Dim int

const (
	Dim2 Dim = 2
	Dim3 Dim = 3
)

func (d Dim) Valid() bool { return d == Dim2 || d == Dim3 }

func (d Dim) String() string {
	switch d {
	case Dim2:
		return "2d"
	case Dim3:
		return "3d"
	}
	return fmt.Sprintf("Dim(%d)", int(d))
}

// ParseDim accepts 2, 3, "2d" or "3d".
func ParseDim(s string) (Dim, error) {
	switch s {
	case "2", "2d", "2D":
		return Dim2, nil
	case "3", "3d", "3D":
		return Dim3, nil
	}
	return 0, fmt.Errorf("tensor: unsupported dimension %q", s)
}

// Slot addresses one entry of a 3x3 matrix.
type Slot struct{ Row, Col int }

// Layout is the packing of a symmetric tensor for one dimension: the
// diagonal entries come first, followed by the off-diagonal (shear) entries
// in the listed order.
type Layout struct {
	Components int
	Diagonal   []Slot
	Shear      []Slot
}

// Slots returns the packed order, diagonal first.
func (l Layout) Slots() []Slot {
	out := make([]Slot, 0, l.Components)
	out = append(out, l.Diagonal...)
	return append(out, l.Shear...)
}

var layouts = map[Dim]Layout{
	Dim2: {
		Components: 3,
		Diagonal:   []Slot{{0, 0}, {1, 1}},
		Shear:      []Slot{{0, 1}},
	},
	Dim3: {
		Components: 6,
		Diagonal:   []Slot{{0, 0}, {1, 1}, {2, 2}},
		Shear:      []Slot{{0, 1}, {0, 2}, {1, 2}},
	},
}

// Layout returns the symmetric-tensor packing for d. It panics on an
// unsupported dimension.
func (d Dim) Layout() Layout {
	l, ok := layouts[d]
	if !ok {
		panic(fmt.Sprintf("tensor: no layout for %v", d))
	}
	return l
}
