// Package compute provides the loop backends used by the solver.
//
// Two backends are available:
//
//   - CPU: fork-join parallel-for over a fixed goroutine count
//   - Serial: in-order loop on the calling goroutine
//
// Every per-particle pass of the elasticity solver is written as
//
//	backend.For(n, func(i int) { out[i] = ... })
//
// where each iteration writes only its own slot. Because no iteration
// reads another's output, both backends produce bit-identical results.
//
// The process-wide default is a CPU backend sized to runtime.NumCPU();
// override it with [SetBackend] or pass a backend explicitly.
package compute
