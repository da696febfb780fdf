package contact

import (
	"fmt"

	"github.com/san-kum/corosph/internal/kernel"
	"github.com/san-kum/corosph/internal/neighbors"
	"gonum.org/v1/gonum/spatial/r3"
)

// Contact is an unordered particle pair frozen at rest. Gradient is the
// gradient kernel evaluated at the rest positions with respect to I, so it
// is oriented along p_I - p_J.
type Contact struct {
	I, J     int
	Weight   float64
	Gradient r3.Vec
}

// Link is a contact seen from one of its particles. Gradient is oriented
// along p_self - p_other.
type Link struct {
	Other    int
	Weight   float64
	Gradient r3.Vec
}

// Kernels pairs the kernel used for weights with the one used for
// gradients. They may be the same.
type Kernels struct {
	Density  kernel.Kernel
	Gradient kernel.Kernel
}

// Graph stores each contact once and indexes it from both particles.
type Graph struct {
	contacts []Contact
	adj      [][]int32
}

// Build runs a self-neighbor search over points and caches kernel weights
// and gradients at those positions.
func Build(points []r3.Vec, radius float64, ks Kernels, s neighbors.Searcher) *Graph {
	pairs := s.SelfPairs(points, radius)
	g := &Graph{
		contacts: make([]Contact, len(pairs)),
		adj:      make([][]int32, len(points)),
	}
	for n, p := range pairs {
		pi, pj := points[p.I], points[p.J]
		g.contacts[n] = Contact{
			I:        p.I,
			J:        p.J,
			Weight:   kernel.PointWeight(ks.Density, pi, pj, radius),
			Gradient: kernel.PointGradient(ks.Gradient, pi, pj, radius),
		}
		g.adj[p.I] = append(g.adj[p.I], int32(n))
		g.adj[p.J] = append(g.adj[p.J], int32(n))
	}
	return g
}

// NumParticles is the number of particles the graph was built for.
func (g *Graph) NumParticles() int { return len(g.adj) }

// Len is the number of stored (unordered) contacts.
func (g *Graph) Len() int { return len(g.contacts) }

// Contacts exposes the stored contacts. Callers must not modify them.
func (g *Graph) Contacts() []Contact { return g.contacts }

// Degree is the number of neighbors of particle i.
func (g *Graph) Degree(i int) int { return len(g.adj[i]) }

// Visit calls fn for every neighbor of i, in a fixed order.
func (g *Graph) Visit(i int, fn func(Link)) {
	for _, n := range g.adj[i] {
		fn(g.link(i, &g.contacts[n]))
	}
}

// Links appends the neighbors of i to dst.
func (g *Graph) Links(i int, dst []Link) []Link {
	for _, n := range g.adj[i] {
		dst = append(dst, g.link(i, &g.contacts[n]))
	}
	return dst
}

func (g *Graph) link(i int, c *Contact) Link {
	if c.I == i {
		return Link{Other: c.J, Weight: c.Weight, Gradient: c.Gradient}
	}
	return Link{Other: c.I, Weight: c.Weight, Gradient: r3.Scale(-1, c.Gradient)}
}

// ApplyPermutation renames particle old to perm[old]. It panics if perm
// does not match the graph size.
func (g *Graph) ApplyPermutation(perm []int) {
	if len(perm) != len(g.adj) {
		panic(fmt.Sprintf("contact: permutation of length %d for %d particles", len(perm), len(g.adj)))
	}
	for n := range g.contacts {
		c := &g.contacts[n]
		c.I, c.J = perm[c.I], perm[c.J]
	}
	adj := make([][]int32, len(g.adj))
	for old, list := range g.adj {
		adj[perm[old]] = list
	}
	g.adj = adj
}

// Validate checks that the graph is reflexive-free and that the adjacency
// is symmetric and consistent with the stored contacts.
func (g *Graph) Validate() error {
	refs := make([]int, len(g.contacts))
	for i, list := range g.adj {
		for _, n := range list {
			c := g.contacts[n]
			if c.I != i && c.J != i {
				return fmt.Errorf("contact: particle %d lists contact %d (%d,%d)", i, n, c.I, c.J)
			}
			refs[n]++
		}
	}
	for n, c := range g.contacts {
		if c.I == c.J {
			return fmt.Errorf("contact: self contact on particle %d", c.I)
		}
		if refs[n] != 2 {
			return fmt.Errorf("contact: contact %d referenced %d times", n, refs[n])
		}
	}
	return nil
}
