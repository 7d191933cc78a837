// Package phase attributes spectral positions to labeled physical phases by
// nearest-match lookup against a table of reference bands.
package phase

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-raman/dsp/core"
	"github.com/cwbudde/algo-raman/spectra"
)

// DefaultTolerance is the default assignment tolerance in cm^-1.
const DefaultTolerance = 10.0

// Unassigned is the label reports print for a feature without a phase match.
const Unassigned = "unassigned"

// Phase is a named set of reference band positions.
type Phase struct {
	Name  string    `json:"name" yaml:"name"`
	Bands []float64 `json:"bands" yaml:"bands"`
}

// Compound groups the phases of one substance. An empty Name is allowed for
// tables that list phases without a compound header.
type Compound struct {
	Name   string  `json:"name" yaml:"name"`
	Phases []Phase `json:"phases" yaml:"phases"`
}

// Table is an ordered reference band table. It is read-only once built and
// safe for concurrent reads.
type Table struct {
	Compounds []Compound `json:"compounds" yaml:"compounds"`
}

// Add appends bands to the named compound and phase, creating either one on
// first use. Insertion order is preserved.
func (t *Table) Add(compound, phase string, bands ...float64) {
	ci := -1
	for i := range t.Compounds {
		if t.Compounds[i].Name == compound {
			ci = i
			break
		}
	}
	if ci < 0 {
		t.Compounds = append(t.Compounds, Compound{Name: compound})
		ci = len(t.Compounds) - 1
	}

	c := &t.Compounds[ci]
	for i := range c.Phases {
		if c.Phases[i].Name == phase {
			c.Phases[i].Bands = append(c.Phases[i].Bands, bands...)
			return
		}
	}
	c.Phases = append(c.Phases, Phase{Name: phase, Bands: append([]float64(nil), bands...)})
}

// Len returns the total number of reference bands.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, c := range t.Compounds {
		for _, p := range c.Phases {
			n += len(p.Bands)
		}
	}
	return n
}

// Validate rejects unnamed phases and non-finite reference bands.
func (t *Table) Validate() error {
	if t == nil {
		return nil
	}
	for _, c := range t.Compounds {
		for _, p := range c.Phases {
			if p.Name == "" {
				return spectra.InvalidConfig("phase table: compound %q has an unnamed phase", c.Name)
			}
			for _, b := range p.Bands {
				if !core.Finite(b) {
					return spectra.InvalidConfig("phase table: %s has non-finite band %v", label(c.Name, p.Name), b)
				}
			}
		}
	}
	return nil
}

// Match is one phase whose nearest reference band lies within tolerance.
type Match struct {
	Compound  string  `json:"compound,omitempty"`
	Phase     string  `json:"phase"`
	Reference float64 `json:"reference"`
	Distance  float64 `json:"distance"`
}

// Label returns "compound phase", or the phase alone for unnamed compounds.
func (m Match) Label() string { return label(m.Compound, m.Phase) }

// String implements fmt.Stringer.
func (m Match) String() string {
	return fmt.Sprintf("%s (%.0f cm^-1, Δ%.1f)", m.Label(), m.Reference, m.Distance)
}

func label(compound, phase string) string {
	if compound == "" {
		return phase
	}
	return compound + " " + phase
}

// Assign returns every phase having a reference band within tol of pos
// (inclusive), ordered by ascending distance, then compound name, then phase
// name. An empty result means the position is unassigned. A nil table or a
// negative tolerance yields no matches.
func Assign(pos float64, t *Table, tol float64) []Match {
	if t == nil || tol < 0 || !core.Finite(pos) {
		return nil
	}

	var out []Match
	for _, c := range t.Compounds {
		for _, p := range c.Phases {
			ref, dist, ok := nearest(pos, p.Bands)
			if !ok || !core.AtMost(dist, tol, core.DefaultEpsilon) {
				continue
			}
			out = append(out, Match{Compound: c.Name, Phase: p.Name, Reference: ref, Distance: dist})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Compound != b.Compound {
			return a.Compound < b.Compound
		}
		if a.Phase != b.Phase {
			return a.Phase < b.Phase
		}
		return a.Reference < b.Reference
	})
	return out
}

// nearest returns the band closest to pos; equal distances prefer the lower
// band.
func nearest(pos float64, bands []float64) (ref, dist float64, ok bool) {
	dist = math.Inf(1)
	for _, b := range bands {
		d := math.Abs(pos - b)
		if d < dist || (d == dist && b < ref) {
			ref, dist, ok = b, d, true
		}
	}
	return ref, dist, ok
}

// Labels returns the labels of ms in order, or [Unassigned] when ms is empty.
func Labels(ms []Match) []string {
	if len(ms) == 0 {
		return []string{Unassigned}
	}
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Label()
	}
	return out
}
