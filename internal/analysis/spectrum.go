package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// ErrTooShort is returned for series too short to analyse.
var ErrTooShort = errors.New("analysis: series too short")

const minSpectrumLen = 4

// PowerSpectrum returns the amplitude of each non-negative frequency bin
// of data after removing its mean. Bin i has frequency i/len(data) cycles
// per sample.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	fft := fourier.NewFFT(len(data))
	coeffs := fft.Coefficients(nil, centred)
	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest
// non-constant component of data sampled every dt seconds.
func DominantFrequency(data []float64, dt float64) (float64, error) {
	if len(data) < minSpectrumLen {
		return 0, fmt.Errorf("%w: need %d samples, got %d", ErrTooShort, minSpectrumLen, len(data))
	}
	if dt <= 0 {
		return 0, fmt.Errorf("analysis: sample interval must be positive, got %g", dt)
	}
	ps := PowerSpectrum(data)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return fourier.NewFFT(len(data)).Freq(best) / dt, nil
}

// Peaks returns the indices of strict local maxima of data.
func Peaks(data []float64) []int {
	var out []int
	for i := 1; i+1 < len(data); i++ {
		if data[i] > data[i-1] && data[i] >= data[i+1] {
			out = append(out, i)
		}
	}
	return out
}
