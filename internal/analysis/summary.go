package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

// Summarize computes descriptive statistics of data. The zero Summary is
// returned for an empty series.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	s := Summary{
		N:      len(data),
		Min:    floats.Min(data),
		Max:    floats.Max(data),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if len(data) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(data, nil)
	} else {
		s.Mean = data[0]
	}
	return s
}
