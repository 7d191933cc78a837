// Package testutil builds deterministic synthetic spectra and tolerance
// assertions for the analysis tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-raman/spectra"
)

// Band is one synthetic Raman band.
type Band struct {
	Center     float64 // cm^-1
	Height     float64
	Width      float64 // Gaussian sigma or Lorentzian half width, cm^-1
	Lorentzian bool
}

// At evaluates the band profile at wavenumber x.
func (b Band) At(x float64) float64 {
	d := x - b.Center
	if b.Lorentzian {
		return b.Height / (1 + (d*d)/(b.Width*b.Width))
	}
	return b.Height * math.Exp(-0.5*d*d/(b.Width*b.Width))
}

// Axis returns n equally spaced wavenumbers starting at start.
func Axis(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// DeterministicNoise generates uniform noise in [-amplitude, amplitude) with a
// fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Render sums baseline, bands and seeded noise over axis.
func Render(axis []float64, baseline float64, bands []Band, noise float64, seed int64) []float64 {
	out := make([]float64, len(axis))
	var jitter []float64
	if noise > 0 {
		jitter = DeterministicNoise(seed, noise, len(axis))
	}
	for i, x := range axis {
		v := baseline
		for _, b := range bands {
			v += b.At(x)
		}
		if jitter != nil {
			v += jitter[i]
		}
		out[i] = v
	}
	return out
}

// Spectrum renders a noise-free spectrum at temperature over axis.
func Spectrum(axis []float64, temperature float64, bands ...Band) spectra.Spectrum {
	return spectra.Spectrum{
		Wavenumber:  axis,
		Intensity:   Render(axis, 0, bands, 0, 0),
		Temperature: temperature,
	}
}

// Constant returns a slice of length n filled with value.
func Constant(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}
