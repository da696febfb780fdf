package elasticity

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/corosph/internal/compute"
	"github.com/san-kum/corosph/internal/contact"
	"github.com/san-kum/corosph/internal/kernel"
	"github.com/san-kum/corosph/internal/neighbors"
	"github.com/san-kum/corosph/internal/reorder"
	"github.com/san-kum/corosph/internal/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// Body is the particle container the solver reads from and writes
// accelerations into. AddAcceleration is called concurrently for distinct
// indices.
type Body interface {
	Len() int
	Position(i int) r3.Vec
	Mass(i int) float64
	Volume(i int) float64
	RestDensity() float64
	AddAcceleration(i int, a r3.Vec)
}

type Config struct {
	YoungModulus    float64
	PoissonRatio    float64
	NonlinearStrain bool
	Dim             tensor.Dim

	// Kernels default to the cubic spline for both roles.
	Kernels contact.Kernels
	// Searcher defaults to a kd-tree.
	Searcher neighbors.Searcher
	// Backend defaults to compute.GetBackend().
	Backend compute.Backend
	Logger  *slog.Logger
}

// Solver carries the reference configuration of one elastic body and the
// per-particle state derived from it. The reference is captured on the
// first Solve and again whenever the body's particle count changes.
type Solver struct {
	dim       tensor.Dim
	material  Material
	nonlinear bool
	kernels   contact.Kernels
	searcher  neighbors.Searcher
	backend   compute.Backend
	log       *slog.Logger

	graph         *contact.Graph
	restPositions []r3.Vec
	restVolumes   []float64
	rotations     []tensor.Mat3
	gradients     []tensor.Mat3
	stresses      []tensor.Sym

	// per-solve snapshots of the body
	positions []r3.Vec
	masses    []float64
}

// New builds a solver. It panics if the Poisson ratio is outside (-1, 0.5)
// or the dimension is not 2 or 3.
func New(cfg Config) *Solver {
	if !cfg.Dim.Valid() {
		panic(fmt.Sprintf("elasticity: invalid dimension %d", int(cfg.Dim)))
	}
	s := &Solver{
		dim:       cfg.Dim,
		material:  NewMaterial(cfg.YoungModulus, cfg.PoissonRatio),
		nonlinear: cfg.NonlinearStrain,
		kernels:   cfg.Kernels,
		searcher:  cfg.Searcher,
		backend:   cfg.Backend,
		log:       cfg.Logger,
	}
	if s.kernels.Density == nil {
		s.kernels.Density = kernel.CubicSpline{Dim: cfg.Dim}
	}
	if s.kernels.Gradient == nil {
		s.kernels.Gradient = kernel.CubicSpline{Dim: cfg.Dim}
	}
	if s.searcher == nil {
		s.searcher = neighbors.KDTree{}
	}
	if s.backend == nil {
		s.backend = compute.GetBackend()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

func (s *Solver) Dim() tensor.Dim          { return s.dim }
func (s *Solver) Material() Material       { return s.material }
func (s *Solver) Nonlinear() bool          { return s.nonlinear }
func (s *Solver) Len() int                 { return len(s.restPositions) }
func (s *Solver) Graph() *contact.Graph    { return s.graph }
func (s *Solver) Backend() compute.Backend { return s.backend }

// The slices below are owned by the solver and must not be modified.

func (s *Solver) RestPositions() []r3.Vec             { return s.restPositions }
func (s *Solver) RestVolumes() []float64              { return s.restVolumes }
func (s *Solver) Rotations() []tensor.Mat3            { return s.rotations }
func (s *Solver) DeformationGradients() []tensor.Mat3 { return s.gradients }
func (s *Solver) Stresses() []tensor.Sym              { return s.stresses }

// Reset drops the reference configuration; the next Solve captures a new
// one from the body's current positions.
func (s *Solver) Reset() {
	s.graph = nil
	s.restPositions = nil
	s.restVolumes = nil
	s.rotations = nil
	s.gradients = nil
	s.stresses = nil
}

// Solve adds the elastic acceleration of every particle to body. h is the
// kernel support radius; it is only used when the reference is (re)built.
func (s *Solver) Solve(h float64, body Body) {
	n := body.Len()
	s.snapshot(body)
	if n != len(s.restPositions) || s.graph == nil {
		s.init(h, body)
	}
	if n == 0 {
		return
	}
	s.computeRotations()
	s.computeStresses()
	s.accumulateForces(body)
}

func (s *Solver) snapshot(body Body) {
	n := body.Len()
	if cap(s.positions) < n {
		s.positions = make([]r3.Vec, n)
		s.masses = make([]float64, n)
	}
	s.positions = s.positions[:n]
	s.masses = s.masses[:n]
	for i := 0; i < n; i++ {
		s.positions[i] = body.Position(i)
		s.masses[i] = body.Mass(i)
	}
}

func (s *Solver) init(h float64, body Body) {
	n := body.Len()
	s.restPositions = append(s.restPositions[:0], s.positions...)
	s.rotations = make([]tensor.Mat3, n)
	s.gradients = make([]tensor.Mat3, n)
	s.stresses = make([]tensor.Sym, n)
	for i := range s.rotations {
		s.rotations[i] = tensor.Identity()
		s.gradients[i] = tensor.Identity()
	}

	s.graph = contact.Build(s.restPositions, h, s.kernels, s.searcher)

	var self float64
	if n > 0 {
		self = s.kernels.Density.Weight(0, h)
	}
	density := make([]float64, n)
	for i := range density {
		density[i] = s.masses[i] * self
	}
	for _, c := range s.graph.Contacts() {
		density[c.I] += s.masses[c.J] * c.Weight
		density[c.J] += s.masses[c.I] * c.Weight
	}
	s.restVolumes = make([]float64, n)
	for i, rho := range density {
		s.restVolumes[i] = s.masses[i] / rho
	}

	s.log.Debug("elastic reference captured",
		"particles", n,
		"contacts", s.graph.Len(),
		"radius", h,
		"dim", s.dim.String(),
	)
}

func (s *Solver) computeRotations() {
	pos, rest, mass := s.positions, s.restPositions, s.masses
	s.backend.For(len(pos), func(i int) {
		var a tensor.Mat3
		s.graph.Visit(i, func(l contact.Link) {
			j := l.Other
			a = a.Add(tensor.Outer(l.Weight*mass[j], r3.Sub(pos[j], pos[i]), r3.Sub(rest[j], rest[i])))
		})
		s.rotations[i] = tensor.ExtractRotation(s.dim, a, s.rotations[i], tensor.Epsilon, tensor.MaxRotationIterations)
	})
}

func (s *Solver) computeStresses() {
	pos, rest, vol := s.positions, s.restPositions, s.restVolumes
	s.backend.For(len(pos), func(i int) {
		ri := s.rotations[i]
		var g tensor.Mat3
		s.graph.Visit(i, func(l contact.Link) {
			j := l.Other
			u := r3.Sub(ri.MulTransVec(r3.Sub(pos[j], pos[i])), r3.Sub(rest[j], rest[i]))
			g = g.Add(tensor.Outer(vol[j], l.Gradient, u))
		})
		s.gradients[i] = g
		normal, shear := Strain(s.dim, g, s.nonlinear)
		s.stresses[i] = s.material.Stress(s.dim, normal, shear)
	})
}

func (s *Solver) accumulateForces(body Body) {
	vol := s.restVolumes
	rho0 := body.RestDensity()
	s.backend.For(len(s.positions), func(i int) {
		var f r3.Vec
		s.graph.Visit(i, func(l contact.Link) {
			j := l.Other
			sij := s.stresses[i].MulVec(r3.Scale(vol[j], l.Gradient))
			sji := s.stresses[j].MulVec(r3.Scale(-vol[i], l.Gradient))
			if s.nonlinear {
				sij = r3.Add(sij, s.gradients[i].MulVec(sij))
				sji = r3.Add(sji, s.gradients[j].MulVec(sji))
			}
			fji := r3.Scale(-vol[i], sij)
			fij := r3.Scale(-vol[j], sji)
			f = r3.Add(f, r3.Scale(0.5, r3.Sub(s.rotations[j].MulVec(fij), s.rotations[i].MulVec(fji))))
		})
		if f != (r3.Vec{}) {
			body.AddAcceleration(i, r3.Scale(1/(body.Volume(i)*rho0), f))
		}
	})
}

// ApplyPermutation reindexes the per-particle state after the body has been
// reordered with the same permutation (perm[old] = new). It panics if perm
// is not a permutation of the current particle count.
func (s *Solver) ApplyPermutation(perm []int) {
	reorder.MustCheck(perm, len(s.restPositions))
	if len(perm) == 0 {
		return
	}
	s.restPositions = reorder.Apply(perm, s.restPositions)
	s.restVolumes = reorder.Apply(perm, s.restVolumes)
	s.rotations = reorder.Apply(perm, s.rotations)
	s.gradients = reorder.Apply(perm, s.gradients)
	s.stresses = reorder.Apply(perm, s.stresses)
	s.graph.ApplyPermutation(perm)
}

// StrainEnergy returns Σ ½ V0 σ:ε over the body, using the strain measure
// of the last Solve.
func (s *Solver) StrainEnergy() float64 {
	l := s.dim.Layout()
	var e float64
	for i, g := range s.gradients {
		normal, shear := Strain(s.dim, g, s.nonlinear)
		st := s.stresses[i]
		var w float64
		for k, sl := range l.Diagonal {
			w += normal[k] * st.At(sl.Row, sl.Col)
		}
		for k, sl := range l.Shear {
			w += 2 * shear[k] * st.At(sl.Row, sl.Col)
		}
		e += 0.5 * s.restVolumes[i] * w
	}
	return e
}
