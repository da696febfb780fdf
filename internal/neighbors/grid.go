package neighbors

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type cell struct{ x, y, z int }

// Grid buckets points into cubic cells of edge radius, so each query only
// visits the 27 cells around a point (9 in the plane).
type Grid struct{}

func (Grid) Name() string { return "grid" }

func (Grid) SelfPairs(points []r3.Vec, radius float64) []Pair {
	if len(points) == 0 {
		return nil
	}
	r2 := radius * radius
	cellOf := func(p r3.Vec) cell {
		return cell{
			x: int(math.Floor(p.X / radius)),
			y: int(math.Floor(p.Y / radius)),
			z: int(math.Floor(p.Z / radius)),
		}
	}

	cells := make(map[cell][]int, len(points))
	for i, p := range points {
		c := cellOf(p)
		cells[c] = append(cells[c], i)
	}

	var pairs []Pair
	for i, p := range points {
		c := cellOf(p)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					for _, j := range cells[cell{c.x + dx, c.y + dy, c.z + dz}] {
						if j > i && within(p, points[j], r2) {
							pairs = append(pairs, Pair{I: i, J: j})
						}
					}
				}
			}
		}
	}
	return sortPairs(pairs)
}
