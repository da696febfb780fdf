// Package elasticity computes elastic accelerations for a particle body
// using the corotational SPH formulation of Becker et al. (2009).
//
// A Solver captures a reference configuration the first time it sees a
// body: rest positions, a contact graph with kernel weights and gradients
// frozen at rest, and a rest volume per particle estimated from the local
// mass density. Every later Solve runs three data-parallel phases over
// that reference:
//
//  1. Rotations. For each particle the moment matrix of current versus rest
//     neighbor offsets is decomposed, warm-started from the previous
//     rotation, to obtain its local rotation R.
//  2. Stresses. The transposed deformation gradient G is estimated from
//     the unrotated displacements, converted to a strain (linear, or Green
//     strain when NonlinearStrain is set) and mapped to a symmetric Cauchy
//     stress through the isotropic Material.
//  3. Forces. Each contact contributes an equal and opposite pair of
//     forces, rotated back into world space. The resulting acceleration is
//     added to whatever the body already holds.
//
// When the host reorders its particles it must call ApplyPermutation with
// the same permutation so the per-particle state stays aligned. A change in
// particle count rebuilds the reference from the current positions.
package elasticity
