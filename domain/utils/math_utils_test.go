package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(42, 0, 10))

	assert.Equal(t, 1.0, Clamp01(7))
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 100.0, ClampScore(250))
	assert.Equal(t, 0.0, ClampScore(-12))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 4.0, Mean([]float64{2, 4, 6}))
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{7}))
	assert.Equal(t, 0.0, StdDev([]float64{5, 5, 5}))
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.0001)
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 0.0, CoefficientOfVariation(nil))
	assert.Equal(t, 0.0, CoefficientOfVariation([]float64{-5, 5}))
	assert.InDelta(t, 0.4, CoefficientOfVariation([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.0001)
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 0.0, PercentChange(0, 500))
	assert.Equal(t, 50.0, PercentChange(100, 150))
	assert.Equal(t, -25.0, PercentChange(100, 75))
}
