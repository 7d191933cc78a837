package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// ReflectPad writes x into dst with pad samples of half-sample symmetric
// reflection on each side (d c b a | a b c d | d c b a) and returns dst.
// Reflection wraps repeatedly when pad exceeds len(x).
func ReflectPad(dst, x []float64, pad int) []float64 {
	n := len(x)
	dst = EnsureLen(dst, n+2*pad)
	if n == 0 {
		return dst
	}
	for i := range dst {
		dst[i] = x[reflectIndex(i-pad, n)]
	}
	return dst
}

// reflectIndex maps an out-of-range index onto [0, n) by symmetric reflection
// with period 2n.
func reflectIndex(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
