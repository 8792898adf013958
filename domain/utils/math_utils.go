package utils

import "math"

// Clamp bounds a value to the [min, max] range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Clamp01 bounds a value to the [0, 1] range
func Clamp01(value float64) float64 {
	return Clamp(value, 0, 1)
}

// ClampScore bounds a value to the [0, 100] score range
func ClampScore(value float64) float64 {
	return Clamp(value, 0, 100)
}

// Mean returns the arithmetic mean of the values, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of the values
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sumSquares float64
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

// CoefficientOfVariation returns stddev/mean, or 0 when the mean is 0.
// Used as the normalized dispersion measure for consistency and
// seasonality scoring.
func CoefficientOfVariation(values []float64) float64 {
	mean := Mean(values)
	if mean == 0 {
		return 0
	}
	return StdDev(values) / math.Abs(mean)
}

// PercentChange returns the percentage change from a base value. Returns
// 0 when the base is 0 to avoid division blowups on sparse history.
func PercentChange(base, current float64) float64 {
	if base == 0 {
		return 0
	}
	return (current - base) / base * 100
}
