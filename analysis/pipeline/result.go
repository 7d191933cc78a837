package pipeline

import (
	"github.com/cwbudde/algo-raman/analysis/change"
	"github.com/cwbudde/algo-raman/analysis/detect"
	"github.com/cwbudde/algo-raman/analysis/phase"
	"github.com/cwbudde/algo-raman/analysis/track"
)

// Summary describes one analyzed spectrum.
type Summary struct {
	Index       int     `json:"index"`
	Temperature float64 `json:"temperature"`
	Source      string  `json:"source"`
	Samples     int     `json:"samples"`
	Max         float64 `json:"max"` // normalization divisor
	Peaks       int     `json:"peaks"`
	Shoulders   int     `json:"shoulders"`
}

// Features returns the total feature count.
func (s Summary) Features() int { return s.Peaks + s.Shoulders }

// Annotated is a feature with its phase matches.
type Annotated struct {
	detect.Feature
	Phases []phase.Match `json:"phases,omitempty"`
}

// Skip records an input spectrum that was left out of the analysis.
type Skip struct {
	Source      string  `json:"source"`
	Temperature float64 `json:"temperature"`
	Reason      string  `json:"reason"`
}

// Result is the outcome of one analysis run. Spectra, Features and the slots
// of every track share the same index space.
type Result struct {
	Config      Config              `json:"config"`
	Spectra     []Summary           `json:"spectra"`
	Features    [][]Annotated       `json:"features"`
	Tracks      []*track.Track      `json:"tracks"`
	Transitions []change.Transition `json:"transitions"`
	Skipped     []Skip              `json:"skipped,omitempty"`
}

// Temperatures returns the temperature of every analyzed spectrum in order.
func (r *Result) Temperatures() []float64 {
	out := make([]float64, len(r.Spectra))
	for i, s := range r.Spectra {
		out[i] = s.Temperature
	}
	return out
}

// Events returns every classified event in transition order.
func (r *Result) Events() []change.Event {
	return change.Flatten(r.Transitions)
}

// Surfaced returns the events other than persist in transition order.
func (r *Result) Surfaced() []change.Event {
	var out []change.Event
	for _, tr := range r.Transitions {
		out = append(out, tr.Surfaced()...)
	}
	return out
}

// PhasesOf returns the phase matches recorded for f.
func (r *Result) PhasesOf(f *detect.Feature) []phase.Match {
	if f == nil || f.Spectrum < 0 || f.Spectrum >= len(r.Features) {
		return nil
	}
	for _, a := range r.Features[f.Spectrum] {
		if a.Sample == f.Sample {
			return a.Phases
		}
	}
	return nil
}

// TrackAt returns the track with the given ID, or nil.
func (r *Result) TrackAt(id int) *track.Track {
	if id < 0 || id >= len(r.Tracks) {
		return nil
	}
	return r.Tracks[id]
}
