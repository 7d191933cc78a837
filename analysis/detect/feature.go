package detect

import (
	"fmt"
	"strings"
)

// Kind distinguishes primary peaks from shoulders.
type Kind int

const (
	KindPeak Kind = iota
	KindShoulder
)

// String returns "peak" or "shoulder".
func (k Kind) String() string {
	switch k {
	case KindPeak:
		return "peak"
	case KindShoulder:
		return "shoulder"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "peak":
		*k = KindPeak
	case "shoulder":
		*k = KindShoulder
	default:
		return fmt.Errorf("detect: unknown feature kind %q", b)
	}
	return nil
}

// Feature is one detected spectral event at one temperature.
type Feature struct {
	Position   float64 `json:"position"`  // cm^-1
	Intensity  float64 `json:"intensity"` // normalized to the spectrum maximum
	Kind       Kind    `json:"kind"`
	Spectrum   int     `json:"spectrum"`   // index of the owning spectrum
	Sample     int     `json:"sample"`     // sample index in the series
	Prominence float64 `json:"prominence"` // 0 for shoulders
	Width      float64 `json:"width"`      // samples at half prominence, 0 for shoulders
	Parent     float64 `json:"parent"`     // parent peak position for shoulders
}

// IsShoulder reports whether f is a shoulder.
func (f Feature) IsShoulder() bool { return f.Kind == KindShoulder }
