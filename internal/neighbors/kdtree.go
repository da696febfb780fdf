package neighbors

import (
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// KDTree answers the self query with one radius search per point on a
// gonum k-d tree.
type KDTree struct{}

func (KDTree) Name() string { return "kdtree" }

func (KDTree) SelfPairs(points []r3.Vec, radius float64) []Pair {
	if len(points) == 0 {
		return nil
	}
	// kdtree.New reorders its input.
	pts := make(indexedPoints, len(points))
	for i, p := range points {
		pts[i] = indexedPoint{Vec: p, index: i}
	}
	tree := kdtree.New(pts, false)

	var pairs []Pair
	r2 := radius * radius
	for i, p := range points {
		keep := kdtree.NewDistKeeper(r2)
		tree.NearestSet(keep, indexedPoint{Vec: p, index: i})
		for _, c := range keep.Heap {
			q, ok := c.Comparable.(indexedPoint)
			if ok && q.index > i {
				pairs = append(pairs, Pair{I: i, J: q.index})
			}
		}
	}
	return sortPairs(pairs)
}

type indexedPoint struct {
	r3.Vec
	index int
}

func (p indexedPoint) coord(d kdtree.Dim) float64 {
	switch d {
	case 0:
		return p.X
	case 1:
		return p.Y
	case 2:
		return p.Z
	}
	panic("neighbors: illegal dimension")
}

func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.coord(d) - c.(indexedPoint).coord(d)
}

func (p indexedPoint) Dims() int { return 3 }

// Distance is squared, as kdtree expects.
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(p.Vec, c.(indexedPoint).Vec))
}

type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p indexedPoints) Len() int                              { return len(p) }
func (p indexedPoints) Pivot(d kdtree.Dim) int                { return plane{indexedPoints: p, Dim: d}.Pivot() }
func (p indexedPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type plane struct {
	kdtree.Dim
	indexedPoints
}

func (p plane) Less(i, j int) bool {
	return p.indexedPoints[i].coord(p.Dim) < p.indexedPoints[j].coord(p.Dim)
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.indexedPoints = p.indexedPoints[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.indexedPoints[i], p.indexedPoints[j] = p.indexedPoints[j], p.indexedPoints[i]
}
