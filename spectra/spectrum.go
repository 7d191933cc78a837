package spectra

import (
	"fmt"
	"math"
)

// MinSamples is the smallest spectrum that can be smoothed and searched for peaks.
const MinSamples = 3

// Spectrum is one measured single-channel spectrum at a fixed temperature.
type Spectrum struct {
	Wavenumber  []float64 // cm^-1, strictly increasing
	Intensity   []float64
	Temperature float64 // kelvin
	Index       int     // ordinal in the analysis sequence
	Source      string  // file name or label used in errors and reports
}

// Len returns the sample count.
func (s Spectrum) Len() int { return len(s.Intensity) }

// Name returns Source, or a temperature-derived label when Source is empty.
func (s Spectrum) Name() string {
	if s.Source != "" {
		return s.Source
	}
	return fmt.Sprintf("%.2f K", s.Temperature)
}

// Validate checks the structural invariants of s.
func (s Spectrum) Validate() error {
	if len(s.Wavenumber) != len(s.Intensity) {
		return &MalformedInputError{
			Source: s.Name(),
			Err:    fmt.Errorf("wavenumber/intensity length mismatch: %d != %d", len(s.Wavenumber), len(s.Intensity)),
		}
	}
	if len(s.Intensity) < MinSamples {
		return fmt.Errorf("%s: %w: %d samples, need at least %d", s.Name(), ErrInsufficientData, len(s.Intensity), MinSamples)
	}
	for i := range s.Intensity {
		if !finite(s.Wavenumber[i]) || !finite(s.Intensity[i]) {
			return &MalformedInputError{Source: s.Name(), Err: fmt.Errorf("non-finite sample at index %d", i)}
		}
		if i > 0 && !(s.Wavenumber[i] > s.Wavenumber[i-1]) {
			return &MalformedInputError{Source: s.Name(), Err: fmt.Errorf("wavenumber must be strictly increasing at index %d", i)}
		}
	}
	if math.IsNaN(s.Temperature) || math.IsInf(s.Temperature, 0) {
		return &MalformedInputError{Source: s.Name(), Err: ErrNoTemperature}
	}
	return nil
}

// Series is the smoothed and max-normalized intensity of a spectrum.
//
// Values shares its axis with Wavenumber. Max is the divisor applied during
// normalization (0 for a series that could not be normalized).
type Series struct {
	Wavenumber  []float64
	Values      []float64
	Max         float64
	Temperature float64
	Index       int
}

// Len returns the sample count.
func (s Series) Len() int { return len(s.Values) }

// PositionAt returns the wavenumber of sample i.
func (s Series) PositionAt(i int) float64 { return s.Wavenumber[i] }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
