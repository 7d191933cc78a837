// Package spectra holds the data model shared by the Raman analysis packages:
// a loaded [Spectrum] (wavenumber axis, intensities, temperature) and the
// smoothed, normalized [Series] derived from it.
//
// Spectra are immutable once loaded. The analysis pipeline assigns each
// spectrum its ordinal [Spectrum.Index] after sorting by temperature, and every
// downstream type refers to spectra by that index.
package spectra
