package change

import (
	"sort"

	"github.com/cwbudde/algo-raman/analysis/track"
)

// Transition collects the events between two adjacent spectra.
type Transition struct {
	From            int     `json:"from"`
	To              int     `json:"to"`
	FromTemperature float64 `json:"from_temperature"`
	ToTemperature   float64 `json:"to_temperature"`
	Events          []Event `json:"events"`
}

// Surfaced returns the events other than persist.
func (tr Transition) Surfaced() []Event {
	var out []Event
	for _, e := range tr.Events {
		if e.Surfaced() {
			out = append(out, e)
		}
	}
	return out
}

// Of returns the events of kind k.
func (tr Transition) Of(k Kind) []Event {
	var out []Event
	for _, e := range tr.Events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// ClassifyAll classifies every track and groups the events by transition.
// One Transition is returned per adjacent pair of temps, including pairs
// without events. Events inside a transition are ordered by kind, position
// and track ID.
func ClassifyAll(tracks []*track.Track, temps []float64, cfg Config) ([]Transition, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(temps) < 2 {
		return nil, nil
	}

	out := make([]Transition, len(temps)-1)
	for i := range out {
		out[i] = Transition{From: i, To: i + 1, FromTemperature: temps[i], ToTemperature: temps[i+1]}
	}

	for _, t := range tracks {
		events, err := Classify(t, temps, cfg)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			out[e.From].Events = append(out[e.From].Events, e)
		}
	}

	for i := range out {
		evs := out[i].Events
		sort.SliceStable(evs, func(a, b int) bool {
			if evs[a].Kind != evs[b].Kind {
				return evs[a].Kind < evs[b].Kind
			}
			if evs[a].Position != evs[b].Position {
				return evs[a].Position < evs[b].Position
			}
			return evs[a].Track < evs[b].Track
		})
	}
	return out, nil
}

// Flatten returns all events of ts in transition order.
func Flatten(ts []Transition) []Event {
	var out []Event
	for _, tr := range ts {
		out = append(out, tr.Events...)
	}
	return out
}
