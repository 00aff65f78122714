package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		b    Bounds
		want float64
	}{
		{"no bounds", 7, Bounds{}, 7},
		{"above upper", 9, Between(2, 5), 5},
		{"below lower", 1, Between(2, 5), 2},
		{"inside", 3, Between(2, 5), 3},
		{"on lower edge", 2, Between(2, 5), 2},
		{"upper only", 100, UpperOnly(50), 50},
		{"upper only below", -100, UpperOnly(50), -100},
		{"lower only", -3, Bounds{Lower: f(0)}, 0},
		{"lower only above", 3, Bounds{Lower: f(0)}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.x, tt.b))
		})
	}
}

func TestClampProperties(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for range 1000 {
		x := r.NormFloat64() * 100
		lo := r.NormFloat64() * 50
		hi := lo + r.Float64()*100
		b := Between(lo, hi)

		got := Clamp(x, b)
		require.GreaterOrEqual(t, got, lo)
		require.LessOrEqual(t, got, hi)
		require.Equal(t, got, Clamp(got, b))
		require.Equal(t, x, Clamp(x, Bounds{}))
	}
}

func TestValidateInverted(t *testing.T) {
	require.NoError(t, Between(1, 1).Validate())
	require.NoError(t, UpperOnly(-1).Validate())
	require.ErrorIs(t, Between(5, 1).Validate(), ErrInvertedBounds)

	_, err := ClampColumn([]float64{1, 2}, Between(5, 1))
	require.ErrorIs(t, err, ErrInvertedBounds)
}

func TestClipOutliers(t *testing.T) {
	col := []float64{10, 20, 30, 40, 50}
	out, b, err := ClipOutliers(col, f(0.25), f(0.75))
	require.NoError(t, err)
	require.Equal(t, []float64{20, 20, 30, 40, 40}, out)
	require.Equal(t, "[20, 40]", b.String())
	// input untouched
	require.Equal(t, []float64{10, 20, 30, 40, 50}, col)
}

func TestClipOutliersUpperOnly(t *testing.T) {
	out, b, err := ClipOutliers([]float64{50, 10, 40, 20, 30}, nil, f(0.75))
	require.NoError(t, err)
	require.Nil(t, b.Lower)
	require.Equal(t, []float64{40, 10, 40, 20, 30}, out)
}

func TestTrimBoundsErrors(t *testing.T) {
	_, err := TrimBounds(nil, f(0.25), nil)
	require.ErrorIs(t, err, ErrEmptyColumn)

	_, err = TrimBounds([]float64{1}, f(-0.1), nil)
	require.ErrorIs(t, err, ErrQuantileRange)

	_, err = TrimBounds([]float64{1, 2, 3}, f(0.9), f(0.1))
	require.ErrorIs(t, err, ErrInvertedBounds)
}

func TestPercentileInterpolates(t *testing.T) {
	x := []float64{4, 1, 3, 2}
	assert.InDelta(t, 1.75, Percentile(x, 25), 1e-12)
	assert.InDelta(t, 2.5, Median(x), 1e-12)
	assert.Equal(t, 1.0, Percentile(x, 0))
	assert.Equal(t, 4.0, Percentile(x, 100))
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 2.0, s.LowerQuartile)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 4.0, s.UpperQuartile)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, 0, s.Skew, 1e-12)
	assert.False(t, math.IsNaN(s.Kurtosis))

	_, err = Describe(nil)
	require.ErrorIs(t, err, ErrEmptyColumn)
}
