// Package smooth implements the spectrum preprocessor: Gaussian smoothing
// followed by normalization to the spectrum maximum.
//
// Smoothing suppresses shot noise while keeping band shape; the kernel is a
// sampled, unit-sum Gaussian truncated at Truncate standard deviations, and
// the signal edges are extended by half-sample symmetric reflection so the
// output keeps the input length. Normalization divides by the maximum of the
// smoothed series so that height and prominence thresholds are comparable
// across spectra recorded at different absolute scales.
package smooth
