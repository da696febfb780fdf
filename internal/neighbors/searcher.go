package neighbors

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrUnknown = errors.New("neighbors: unknown searcher")

// Pair is an unordered neighbor pair with I < J.
type Pair struct {
	I, J int
}

// Searcher answers a self-neighbor query: every pair of distinct points
// at most radius apart. Results are sorted by (I, J) so that all
// implementations return identical slices.
type Searcher interface {
	Name() string
	SelfPairs(points []r3.Vec, radius float64) []Pair
}

func New(name string) (Searcher, error) {
	switch name {
	case "kdtree":
		return KDTree{}, nil
	case "grid":
		return Grid{}, nil
	case "brute":
		return BruteForce{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
}

func Names() []string { return []string{"brute", "grid", "kdtree"} }

func within(a, b r3.Vec, r2 float64) bool {
	return r3.Norm2(r3.Sub(a, b)) <= r2
}

func sortPairs(pairs []Pair) []Pair {
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].I != pairs[b].I {
			return pairs[a].I < pairs[b].I
		}
		return pairs[a].J < pairs[b].J
	})
	return pairs
}

// BruteForce checks every pair. Reference implementation for small sets.
type BruteForce struct{}

func (BruteForce) Name() string { return "brute" }

func (BruteForce) SelfPairs(points []r3.Vec, radius float64) []Pair {
	r2 := radius * radius
	var pairs []Pair
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if within(points[i], points[j], r2) {
				pairs = append(pairs, Pair{I: i, J: j})
			}
		}
	}
	return pairs
}
