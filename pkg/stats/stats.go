package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmptyColumn is returned when a statistic is requested over zero values.
	ErrEmptyColumn = errors.New("stats: empty column")
	// ErrQuantileRange is returned for a quantile outside [0, 1].
	ErrQuantileRange = errors.New("stats: quantile out of range [0, 1]")
)

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min, max := x[0], x[0]
	for i := 1; i < len(x); i++ {
		if x[i] < min {
			min = x[i]
		}
		if x[i] > max {
			max = x[i]
		}
	}
	return min, max
}

// Median returns the median value of the slice (allocates a copy).
func Median(x []float64) float64 {
	return Percentile(x, 50)
}

// Percentile returns the p-th percentile value of the slice (0 <= p <= 100).
// Values between ranks are linearly interpolated on rank p/100*(n-1).
func Percentile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	if p <= 0 || p >= 100 {
		min, max := MinMax(x)
		if p <= 0 {
			return min
		}
		return max
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n || weight == 0 {
		return cp[lower]
	}
	return cp[lower]*(1-weight) + cp[upper]*weight
}

// Quantile is Percentile with q expressed as a fraction in [0, 1].
func Quantile(x []float64, q float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyColumn
	}
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, ErrQuantileRange
	}
	return Percentile(x, q*100), nil
}

// Summary holds the descriptive statistics printed when inspecting a
// continuous column.
type Summary struct {
	Count         int
	Min           float64
	LowerQuartile float64
	Median        float64
	Mean          float64
	UpperQuartile float64
	Max           float64
	Skew          float64
	Kurtosis      float64 // excess kurtosis
}

// Describe summarizes a continuous column.
func Describe(x []float64) (Summary, error) {
	if len(x) == 0 {
		return Summary{}, ErrEmptyColumn
	}
	min, max := MinMax(x)
	s := Summary{
		Count:         len(x),
		Min:           min,
		LowerQuartile: Percentile(x, 25),
		Median:        Median(x),
		Mean:          stat.Mean(x, nil),
		UpperQuartile: Percentile(x, 75),
		Max:           max,
	}
	// gonum needs enough samples for the bias-corrected moments.
	if len(x) > 2 {
		s.Skew = stat.Skew(x, nil)
	}
	if len(x) > 3 {
		s.Kurtosis = stat.ExKurtosis(x, nil)
	}
	return s, nil
}
