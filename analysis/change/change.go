// Package change classifies how a tracked feature evolves between adjacent
// spectra of a temperature sequence.
//
// For each pair of adjacent slots (i, i+1) of a track exactly one event is
// produced, chosen in priority order:
//
//	absent  -> present   appear
//	present -> absent    disappear
//	present -> present   shift     when |Δposition| > Shift
//	                     grow      when ratio >= 1 + Growth
//	                     diminish  when ratio <= 1 - Growth
//	                     persist   otherwise
//
// Pairs where both slots are absent produce nothing. Threshold comparisons
// are inclusive with a relative tolerance of [core.DefaultEpsilon].
package change

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-raman/analysis/detect"
	"github.com/cwbudde/algo-raman/analysis/phase"
	"github.com/cwbudde/algo-raman/analysis/track"
	"github.com/cwbudde/algo-raman/dsp/core"
	"github.com/cwbudde/algo-raman/spectra"
)

// Default thresholds.
const (
	DefaultGrowth = 0.30 // relative intensity change
	DefaultShift  = 2.0  // cm^-1
)

// Kind is the type of a change event.
type Kind int

const (
	Appear Kind = iota
	Disappear
	Grow
	Diminish
	Shift
	Persist
)

var kindNames = [...]string{"appear", "disappear", "grow", "diminish", "shift", "persist"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	for i, name := range kindNames {
		if name == s {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("change: unknown event kind %q", b)
}

// Event is one classified transition of one track between adjacent spectra.
// Position is the earlier position for disappear and the later one for
// appear; for matched pairs it is the earlier position and ToPosition the
// later one.
type Event struct {
	Kind            Kind          `json:"kind"`
	Track           int           `json:"track"`
	From            int           `json:"from"`
	To              int           `json:"to"`
	FromTemperature float64       `json:"from_temperature"`
	ToTemperature   float64       `json:"to_temperature"`
	Position        float64       `json:"position"`
	ToPosition      float64       `json:"to_position,omitempty"`
	FromIntensity   float64       `json:"from_intensity"`
	ToIntensity     float64       `json:"to_intensity"`
	PercentChange   float64       `json:"percent_change"`
	Shift           float64       `json:"shift"`
	Qualifier       string        `json:"qualifier,omitempty"`
	Phases          []phase.Match `json:"phases,omitempty"`
}

// Surfaced reports whether e is worth reporting; persist events are not.
func (e Event) Surfaced() bool { return e.Kind != Persist }

// Shoulder reports whether either side of the transition is a shoulder.
func (e Event) Shoulder() bool { return e.Qualifier == QualifierShoulder }

// QualifierShoulder marks events involving a shoulder feature.
const QualifierShoulder = "shoulder"

// Config holds classification thresholds.
type Config struct {
	Growth float64 // relative intensity change for grow/diminish, in (0, 1]
	Shift  float64 // absolute position change in cm^-1
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{Growth: DefaultGrowth, Shift: DefaultShift}
}

// Validate checks the thresholds.
func (c Config) Validate() error {
	if !(c.Growth > 0) || c.Growth > 1 {
		return spectra.InvalidConfig("growth threshold must be in (0, 1]: %v", c.Growth)
	}
	if !(c.Shift >= 0) || math.IsInf(c.Shift, 0) {
		return spectra.InvalidConfig("shift threshold must be finite and >= 0: %v", c.Shift)
	}
	return nil
}

// Classify returns the events of one track in slot order. temps holds the
// temperature of every spectrum slot and must cover the track's length.
func Classify(t *track.Track, temps []float64, cfg Config) ([]Event, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(temps) < t.Len() {
		return nil, fmt.Errorf("change: track %d has %d slots but only %d temperatures", t.ID, t.Len(), len(temps))
	}

	var events []Event
	for i := 0; i+1 < t.Len(); i++ {
		a, b := t.Entries[i], t.Entries[i+1]
		if a == nil && b == nil {
			continue
		}
		events = append(events, classifyPair(t.ID, i, a, b, temps, cfg))
	}
	return events, nil
}

func classifyPair(id, i int, a, b *detect.Feature, temps []float64, cfg Config) Event {
	e := Event{
		Track:           id,
		From:            i,
		To:              i + 1,
		FromTemperature: temps[i],
		ToTemperature:   temps[i+1],
	}
	if (a != nil && a.IsShoulder()) || (b != nil && b.IsShoulder()) {
		e.Qualifier = QualifierShoulder
	}

	switch {
	case a == nil:
		e.Kind = Appear
		e.Position = b.Position
		e.ToPosition = b.Position
		e.ToIntensity = b.Intensity
		return e
	case b == nil:
		e.Kind = Disappear
		e.Position = a.Position
		e.FromIntensity = a.Intensity
		return e
	}

	e.Position = a.Position
	e.ToPosition = b.Position
	e.FromIntensity = a.Intensity
	e.ToIntensity = b.Intensity
	e.Shift = b.Position - a.Position
	ratio := intensityRatio(a.Intensity, b.Intensity)
	e.PercentChange = (ratio - 1) * 100

	switch {
	case math.Abs(e.Shift) > cfg.Shift && !core.NearlyEqual(math.Abs(e.Shift), cfg.Shift, core.DefaultEpsilon):
		e.Kind = Shift
	case core.AtLeast(ratio, 1+cfg.Growth, core.DefaultEpsilon):
		e.Kind = Grow
	case core.AtMost(ratio, 1-cfg.Growth, core.DefaultEpsilon):
		e.Kind = Diminish
	default:
		e.Kind = Persist
	}
	return e
}

// intensityRatio returns to/from. A zero earlier intensity maps to +Inf for a
// positive later intensity and 1 otherwise.
func intensityRatio(from, to float64) float64 {
	if from == 0 {
		if to > 0 {
			return math.Inf(1)
		}
		return 1
	}
	return to / from
}
