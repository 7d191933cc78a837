// Package conv provides the linear convolution routines used for spectrum
// smoothing.
//
// Two strategies are offered:
//
//   - Direct: O(N*M) time-domain convolution with a vectorized inner loop,
//     best for the short Gaussian kernels used at typical smoothing widths
//   - FFT: single-block FFT convolution, efficient once the kernel grows past
//     a few dozen taps
//
// [Convolve] selects between them by kernel length. Both return the full
// convolution of length len(a)+len(b)-1; [Valid] trims a full
// result to the region where the kernel overlaps the signal completely.
//
//	padded := core.ReflectPad(nil, x, len(kernel)/2)
//	full, err := conv.Convolve(padded, kernel)
//	smoothed := conv.Valid(full, len(padded), len(kernel))
package conv
