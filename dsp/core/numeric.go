// Package core provides small numeric helpers shared by the smoothing,
// detection and classification packages.
package core

import "math"

// DefaultEpsilon is the relative tolerance used by threshold comparisons.
const DefaultEpsilon = 1e-9

// NearlyEqual reports whether a and b are equal within eps, using an absolute
// test near zero and a relative test otherwise. eps <= 0 selects DefaultEpsilon.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	if a == b {
		return true
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	return diff/largest <= eps
}

// AtLeast reports whether value >= threshold, treating values within eps of
// the threshold as equal. Inclusive decimal boundaries such as 0.13/0.10 >= 1.3
// hold even though the float quotient lands just below.
func AtLeast(value, threshold, eps float64) bool {
	return value >= threshold || NearlyEqual(value, threshold, eps)
}

// AtMost reports whether value <= threshold within eps.
func AtMost(value, threshold, eps float64) bool {
	return value <= threshold || NearlyEqual(value, threshold, eps)
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
