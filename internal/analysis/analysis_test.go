package analysis

import (
	"errors"
	"math"
	"testing"
)

func sine(n int, dt, freq, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + math.Sin(2*math.Pi*freq*float64(i)*dt)
	}
	return out
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		n    int
		dt   float64
		freq float64
	}{
		{"power of two", 256, 0.01, 5},
		{"odd length", 301, 0.002, 12.5},
		{"slow", 1000, 0.05, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DominantFrequency(sine(tt.n, tt.dt, tt.freq, 3), tt.dt)
			if err != nil {
				t.Fatal(err)
			}
			// resolution is one bin
			bin := 1 / (float64(tt.n) * tt.dt)
			if math.Abs(got-tt.freq) > bin {
				t.Errorf("expected %.3f Hz, got %.3f Hz (bin %.3f)", tt.freq, got, bin)
			}
		})
	}
}

func TestDominantFrequencyErrors(t *testing.T) {
	if _, err := DominantFrequency([]float64{1, 2}, 0.1); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
	if _, err := DominantFrequency(make([]float64, 10), 0); err == nil {
		t.Error("expected error for zero dt")
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum(sine(64, 1.0/64, 4, 10))
	if len(ps) != 33 {
		t.Fatalf("expected 33 bins, got %d", len(ps))
	}
	if ps[0] > 1e-9 {
		t.Errorf("expected no DC component, got %g", ps[0])
	}
	if math.Abs(ps[4]-32) > 1e-9 {
		t.Errorf("expected amplitude n/2 at bin 4, got %g", ps[4])
	}
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty input")
	}
}

func TestPeaks(t *testing.T) {
	got := Peaks([]float64{0, 1, 0, 2, 2, 1, 3})
	want := []int{1, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{4, 1, 3, 2})
	if s.N != 4 || s.Min != 1 || s.Max != 4 || s.Mean != 2.5 {
		t.Errorf("unexpected summary %+v", s)
	}
	if math.Abs(s.StdDev-math.Sqrt(5.0/3.0)) > 1e-12 {
		t.Errorf("expected sample std dev %f, got %f", math.Sqrt(5.0/3.0), s.StdDev)
	}
	if s.Median != 2 {
		t.Errorf("expected empirical median 2, got %f", s.Median)
	}

	if one := Summarize([]float64{7}); one.Mean != 7 || one.StdDev != 0 {
		t.Errorf("unexpected single-sample summary %+v", one)
	}
	if (Summarize(nil) != Summary{}) {
		t.Error("expected zero summary for empty input")
	}
}
