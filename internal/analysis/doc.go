// Package analysis characterises recorded time series, mainly the
// oscillation of a tracked particle.
//
//   - [PowerSpectrum]: amplitude spectrum of a mean-removed series
//   - [DominantFrequency]: strongest non-zero frequency, in Hz
//   - [Peaks]: local maxima, for amplitude decay
//   - [Summarize]: mean, spread and range
//
// # Beam vibration
//
// The tip height of a clamped beam oscillates at its first bending mode:
//
//	f, err := analysis.DominantFrequency(sim.Series(frames, "tip_y"), dt)
package analysis
