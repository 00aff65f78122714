package stats

import (
	"errors"
	"fmt"
)

// ErrInvertedBounds is returned when both bounds are set and Lower > Upper.
var ErrInvertedBounds = errors.New("stats: lower bound greater than upper bound")

// Bounds is an optional [Lower, Upper] range. A nil side is unbounded.
type Bounds struct {
	Lower *float64
	Upper *float64
}

// Between returns bounds with both sides set.
func Between(lower, upper float64) Bounds { return Bounds{Lower: &lower, Upper: &upper} }

// UpperOnly returns bounds with only a ceiling.
func UpperOnly(upper float64) Bounds { return Bounds{Upper: &upper} }

// Validate reports ErrInvertedBounds when both sides are set and out of order.
func (b Bounds) Validate() error {
	if b.Lower != nil && b.Upper != nil && *b.Lower > *b.Upper {
		return fmt.Errorf("%w: %g > %g", ErrInvertedBounds, *b.Lower, *b.Upper)
	}
	return nil
}

func (b Bounds) String() string {
	lo, hi := "-inf", "+inf"
	if b.Lower != nil {
		lo = fmt.Sprintf("%g", *b.Lower)
	}
	if b.Upper != nil {
		hi = fmt.Sprintf("%g", *b.Upper)
	}
	return "[" + lo + ", " + hi + "]"
}

// Clamp bounds x into b. The upper side is checked first, so with inverted
// bounds a value above Upper yields Upper; use Validate to reject those.
func Clamp(x float64, b Bounds) float64 {
	if b.Upper != nil && x > *b.Upper {
		return *b.Upper
	}
	if b.Lower != nil && x < *b.Lower {
		return *b.Lower
	}
	return x
}

// ClampColumn returns a clamped copy of col.
func ClampColumn(col []float64, b Bounds) ([]float64, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, v := range col {
		out[i] = Clamp(v, b)
	}
	return out, nil
}

// TrimBounds derives bounds from the empirical quantiles of col. A nil
// quantile leaves that side unbounded.
func TrimBounds(col []float64, lowerQ, upperQ *float64) (Bounds, error) {
	if len(col) == 0 {
		return Bounds{}, ErrEmptyColumn
	}
	var b Bounds
	if lowerQ != nil {
		v, err := Quantile(col, *lowerQ)
		if err != nil {
			return Bounds{}, fmt.Errorf("lower quantile %g: %w", *lowerQ, err)
		}
		b.Lower = &v
	}
	if upperQ != nil {
		v, err := Quantile(col, *upperQ)
		if err != nil {
			return Bounds{}, fmt.Errorf("upper quantile %g: %w", *upperQ, err)
		}
		b.Upper = &v
	}
	return b, b.Validate()
}

// ClipOutliers clips col to its lower and upper quantiles.
func ClipOutliers(col []float64, lowerQ, upperQ *float64) ([]float64, Bounds, error) {
	b, err := TrimBounds(col, lowerQ, upperQ)
	if err != nil {
		return nil, Bounds{}, err
	}
	out, err := ClampColumn(col, b)
	return out, b, err
}
