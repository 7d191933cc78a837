package smooth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-raman/dsp/conv"
	"github.com/cwbudde/algo-raman/dsp/core"
	"github.com/cwbudde/algo-raman/spectra"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

const (
	defaultSigma    = 1.0
	defaultTruncate = 4.0
)

// Config holds preprocessing parameters.
type Config struct {
	Sigma    float64 // kernel standard deviation in samples; 0 disables smoothing
	Truncate float64 // kernel radius in standard deviations
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns sigma = 1 sample truncated at 4 sigma.
func DefaultConfig() Config {
	return Config{
		Sigma:    defaultSigma,
		Truncate: defaultTruncate,
	}
}

// WithSigma sets the kernel standard deviation in samples. Negative values are ignored.
func WithSigma(sigma float64) Option {
	return func(cfg *Config) {
		if sigma >= 0 {
			cfg.Sigma = sigma
		}
	}
}

// WithTruncate sets the kernel radius in standard deviations. Non-positive values are ignored.
func WithTruncate(truncate float64) Option {
	return func(cfg *Config) {
		if truncate > 0 {
			cfg.Truncate = truncate
		}
	}
}

func applyOptions(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// GaussianKernel returns the unit-sum sampled Gaussian with the given sigma
// and radius int(truncate*sigma + 0.5). A zero radius yields the identity kernel.
func GaussianKernel(sigma, truncate float64) []float64 {
	if sigma <= 0 || truncate <= 0 {
		return []float64{1}
	}
	radius := int(truncate*sigma + 0.5)
	kernel := make([]float64, 2*radius+1)

	inv := -0.5 / (sigma * sigma)
	sum := 0.0
	for i := range kernel {
		x := float64(i - radius)
		kernel[i] = math.Exp(inv * x * x)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// Gaussian smooths x with a Gaussian kernel and reflected edges.
// The result has the same length as x.
func Gaussian(x []float64, opts ...Option) ([]float64, error) {
	if len(x) == 0 {
		return nil, conv.ErrEmptyInput
	}
	cfg := applyOptions(opts)

	kernel := GaussianKernel(cfg.Sigma, cfg.Truncate)
	if len(kernel) == 1 {
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	}

	radius := len(kernel) / 2
	padded := core.ReflectPad(nil, x, radius)
	full, err := conv.Convolve(padded, kernel)
	if err != nil {
		return nil, fmt.Errorf("smooth: %w", err)
	}

	out := make([]float64, len(x))
	copy(out, conv.Valid(full, len(padded), len(kernel)))
	return out, nil
}

// Normalize writes x divided by its maximum into dst and returns that maximum.
// A non-positive maximum leaves the values unscaled and returns 0.
// dst and x must have the same length; dst may alias x.
func Normalize(dst, x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	peak := floats.Max(x)
	if peak <= 0 || !core.Finite(peak) {
		copy(dst, x)
		return 0
	}
	vecmath.ScaleBlock(dst, x, 1/peak)
	return peak
}

// Process smooths and normalizes s. It fails with [spectra.ErrInsufficientData]
// when s has fewer than [spectra.MinSamples] samples and with a
// [spectra.MalformedInputError] when s violates the spectrum invariants.
func Process(s spectra.Spectrum, opts ...Option) (spectra.Series, error) {
	if err := s.Validate(); err != nil {
		return spectra.Series{}, err
	}

	smoothed, err := Gaussian(s.Intensity, opts...)
	if err != nil {
		return spectra.Series{}, fmt.Errorf("%s: %w", s.Name(), err)
	}
	peak := Normalize(smoothed, smoothed)

	return spectra.Series{
		Wavenumber:  s.Wavenumber,
		Values:      smoothed,
		Max:         peak,
		Temperature: s.Temperature,
		Index:       s.Index,
	}, nil
}
