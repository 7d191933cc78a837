package detect

import (
	"math"
	"sort"

	"github.com/cwbudde/algo-raman/dsp/core"
	"github.com/cwbudde/algo-raman/spectra"
	"gonum.org/v1/gonum/floats"
)

// primary is a peak that passed all filters, with its prominence bases.
type primary struct {
	sample     int
	prominence float64
	width      float64
	left       int
	right      int
}

// flat reports whether x is constant up to rounding. Smoothing leaves ripple
// of a few ulps on a constant input, which zero thresholds would otherwise
// report as peaks.
func flat(x []float64) bool {
	hi, lo := floats.Max(x), floats.Min(x)
	return hi-lo <= core.DefaultEpsilon*math.Max(math.Abs(hi), math.Abs(lo))
}

// Detect returns the features of s ordered by position. A flat series yields
// no features.
func Detect(s spectra.Series, cfg Config) ([]Feature, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	x := s.Values
	if len(x) < spectra.MinSamples || len(s.Wavenumber) != len(x) {
		return nil, nil
	}
	if flat(x) {
		return nil, nil
	}

	peaks := findPeaks(x, cfg)

	features := make([]Feature, 0, len(peaks))
	for _, p := range peaks {
		features = append(features, Feature{
			Position:   s.Wavenumber[p.sample],
			Intensity:  x[p.sample],
			Kind:       KindPeak,
			Spectrum:   s.Index,
			Sample:     p.sample,
			Prominence: p.prominence,
			Width:      p.width,
		})
	}

	if cfg.Shoulders {
		for _, sh := range findShoulders(x, peaks, cfg) {
			features = append(features, Feature{
				Position:  s.Wavenumber[sh.sample],
				Intensity: x[sh.sample],
				Kind:      KindShoulder,
				Spectrum:  s.Index,
				Sample:    sh.sample,
				Parent:    s.Wavenumber[sh.parent],
			})
		}
	}

	sort.Slice(features, func(i, j int) bool {
		return features[i].Sample < features[j].Sample
	})
	return features, nil
}

// findPeaks applies the height, distance, prominence and width filters, in
// that order, to the local maxima of x.
func findPeaks(x []float64, cfg Config) []primary {
	candidates := localMaxima(x)

	filtered := candidates[:0]
	for _, p := range candidates {
		if x[p] > cfg.Height {
			filtered = append(filtered, p)
		}
	}
	filtered = selectByDistance(x, filtered, cfg.Distance)

	var out []primary
	for _, p := range filtered {
		prom, left, right := prominence(x, p)
		if !(prom > cfg.Prominence) {
			continue
		}
		width := halfProminenceWidth(x, p, prom, left, right)
		if width < cfg.MinWidth {
			continue
		}
		out = append(out, primary{sample: p, prominence: prom, width: width, left: left, right: right})
	}
	return out
}
