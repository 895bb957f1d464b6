package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 1000}

	assert.InDelta(t, 17.5, Percentile(values, 25), 1e-9)
	assert.InDelta(t, 272.5, Percentile(values, 75), 1e-9)
	assert.InDelta(t, 25, Percentile(values, 50), 1e-9)
	assert.Equal(t, 10.0, Percentile(values, 0))
	assert.Equal(t, 1000.0, Percentile(values, 100))

	assert.Equal(t, 7.0, Percentile([]float64{7}, 75), "single value is every percentile")
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

func TestIQRBounds(t *testing.T) {
	lower, upper := IQRBounds([]float64{10, 20, 30, 1000})

	// Q1=17.5, Q3=272.5, IQR=255.
	assert.InDelta(t, -365, lower, 1e-9)
	assert.InDelta(t, 655, upper, 1e-9)
}

func TestClip(t *testing.T) {
	assert.Equal(t, 5.0, Clip(3, 5, 10))
	assert.Equal(t, 10.0, Clip(12, 5, 10))
	assert.Equal(t, 7.0, Clip(7, 5, 10))
}

func TestMinMaxScale(t *testing.T) {
	assert.Equal(t, 0.0, MinMaxScale(10, 10, 20))
	assert.Equal(t, 1.0, MinMaxScale(20, 10, 20))
	assert.Equal(t, 0.5, MinMaxScale(15, 10, 20))
	assert.Equal(t, 0.0, MinMaxScale(10, 10, 10), "zero-variance column maps to 0")
}
