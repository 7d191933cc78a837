package conv

import (
	"errors"
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput  = errors.New("conv: empty input")
	ErrEmptyKernel = errors.New("conv: empty kernel")
)

// DirectThreshold is the kernel length above which [Convolve] switches to the
// FFT path.
const DirectThreshold = 64

// simdThreshold is the kernel length from which the vectorized inner loop pays off.
const simdThreshold = 4

// Direct performs time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b)
	return result, nil
}

// DirectTo performs direct convolution into dst, which must have length
// len(a) + len(b) - 1.
func DirectTo(dst, a, b []float64) {
	for i := range dst {
		dst[i] = 0
	}

	m := len(b)
	if m < simdThreshold {
		for i, x := range a {
			for j, k := range b {
				dst[i+j] += x * k
			}
		}
		return
	}

	// dst[i:i+m] += b * a[i]
	scaled := make([]float64, m)
	for i, x := range a {
		if x == 0 {
			continue
		}
		vecmath.ScaleBlock(scaled, b, x)
		vecmath.AddBlockInPlace(dst[i:i+m], scaled)
	}
}

// FFT performs linear convolution through a single zero-padded FFT block.
// Returns a new slice of length len(a) + len(b) - 1.
func FFT(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	outLen := len(a) + len(b) - 1
	fftSize := nextPowerOf2(outLen)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	aPadded := make([]complex128, fftSize)
	bPadded := make([]complex128, fftSize)
	for i, v := range a {
		aPadded[i] = complex(v, 0)
	}
	for i, v := range b {
		bPadded[i] = complex(v, 0)
	}

	aFreq := make([]complex128, fftSize)
	bFreq := make([]complex128, fftSize)
	if err := plan.Forward(aFreq, aPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	if err := plan.Forward(bFreq, bPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	for i := range aFreq {
		aFreq[i] *= bFreq[i]
	}

	// aPadded is reused as the time-domain result.
	if err := plan.Inverse(aPadded, aFreq); err != nil {
		return nil, fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	result := make([]float64, outLen)
	for i := range result {
		result[i] = real(aPadded[i])
	}
	return result, nil
}

// Convolve performs linear convolution, using [Direct] for kernels up to
// [DirectThreshold] taps and [FFT] above.
func Convolve(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	short := len(b)
	if len(a) < short {
		short = len(a)
	}
	if short <= DirectThreshold {
		return Direct(a, b)
	}
	return FFT(a, b)
}

// Valid returns the part of a full convolution where the kernel overlaps the
// signal completely: length lenA - lenB + 1 (or the reverse when the kernel
// is longer).
func Valid(full []float64, lenA, lenB int) []float64 {
	if lenA >= lenB {
		return full[lenB-1 : lenA]
	}
	return full[lenA-1 : lenB]
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
