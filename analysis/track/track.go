package track

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-raman/analysis/detect"
	"github.com/cwbudde/algo-raman/spectra"
)

// DefaultTolerance is the default matching tolerance in cm^-1.
const DefaultTolerance = 5.0

// ErrOutOfOrder is returned when features are offered for a spectrum index
// other than the next slot.
var ErrOutOfOrder = errors.New("track: spectrum out of order")

// Track is one physical band followed across the spectrum sequence.
// Entries has one slot per processed spectrum; nil marks an absent feature.
type Track struct {
	ID      int
	Entries []*detect.Feature
}

// Len returns the number of slots.
func (t *Track) Len() int { return len(t.Entries) }

// At returns the feature in slot i, or nil when absent or out of range.
func (t *Track) At(i int) *detect.Feature {
	if i < 0 || i >= len(t.Entries) {
		return nil
	}
	return t.Entries[i]
}

// Last returns the most recent populated entry, or nil.
func (t *Track) Last() *detect.Feature {
	for i := len(t.Entries) - 1; i >= 0; i-- {
		if t.Entries[i] != nil {
			return t.Entries[i]
		}
	}
	return nil
}

// First returns the earliest populated entry, or nil.
func (t *Track) First() *detect.Feature {
	for _, f := range t.Entries {
		if f != nil {
			return f
		}
	}
	return nil
}

// Populated returns the number of non-missing slots.
func (t *Track) Populated() int {
	n := 0
	for _, f := range t.Entries {
		if f != nil {
			n++
		}
	}
	return n
}

// Position returns the mean position of the populated entries.
func (t *Track) Position() float64 {
	sum, n := 0.0, 0
	for _, f := range t.Entries {
		if f != nil {
			sum += f.Position
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Config holds tracker parameters.
type Config struct {
	Tolerance float64
	Matcher   Matcher
}

// Option mutates a Config.
type Option func(*Config)

// WithTolerance sets the matching tolerance in cm^-1.
func WithTolerance(tol float64) Option {
	return func(c *Config) { c.Tolerance = tol }
}

// WithMatcher selects the correspondence algorithm. nil is ignored.
func WithMatcher(m Matcher) Option {
	return func(c *Config) {
		if m != nil {
			c.Matcher = m
		}
	}
}

// Tracker accumulates tracks over a temperature-ordered spectrum sequence.
// It is not safe for concurrent use.
type Tracker struct {
	cfg    Config
	tracks []*Track
	steps  int
}

// New returns an empty tracker. A negative tolerance is rejected.
func New(opts ...Option) (*Tracker, error) {
	cfg := Config{Tolerance: DefaultTolerance, Matcher: Greedy{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Tolerance < 0 {
		return nil, spectra.InvalidConfig("tolerance must be >= 0: %v", cfg.Tolerance)
	}
	return &Tracker{cfg: cfg}, nil
}

// Steps returns the number of spectra consumed so far.
func (tr *Tracker) Steps() int { return tr.steps }

// Tracks returns the tracks in creation order. The slice must not be modified.
func (tr *Tracker) Tracks() []*Track { return tr.tracks }

// Extend consumes the features of the next spectrum. Every feature must carry
// Spectrum == Steps(); an empty slice records a spectrum without features.
func (tr *Tracker) Extend(features []detect.Feature) error {
	slot := tr.steps
	for _, f := range features {
		if f.Spectrum != slot {
			return fmt.Errorf("%w: feature at %.2f belongs to spectrum %d, expected %d", ErrOutOfOrder, f.Position, f.Spectrum, slot)
		}
	}

	feats := make([]detect.Feature, len(features))
	copy(feats, features)
	sort.SliceStable(feats, func(i, j int) bool { return feats[i].Position < feats[j].Position })

	var open []*Track
	var last []float64
	for _, t := range tr.tracks {
		if f := t.Last(); f != nil {
			open = append(open, t)
			last = append(last, f.Position)
		}
	}
	positions := make([]float64, len(feats))
	for i, f := range feats {
		positions[i] = f.Position
	}

	matched := make(map[*Track]*detect.Feature, len(open))
	used := make([]bool, len(feats))
	for _, p := range tr.cfg.Matcher.Match(last, positions, tr.cfg.Tolerance) {
		f := feats[p.Feature]
		matched[open[p.Track]] = &f
		used[p.Feature] = true
	}

	for _, t := range tr.tracks {
		t.Entries = append(t.Entries, matched[t])
	}
	for i := range feats {
		if used[i] {
			continue
		}
		f := feats[i]
		t := &Track{ID: len(tr.tracks), Entries: make([]*detect.Feature, slot+1)}
		t.Entries[slot] = &f
		tr.tracks = append(tr.tracks, t)
	}

	tr.steps++
	return nil
}
