package pipeline

import (
	"github.com/cwbudde/algo-raman/analysis/phase"
	"go.uber.org/zap"
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConfig replaces the whole configuration. Options applied afterwards
// still override individual fields.
func WithConfig(cfg Config) Option {
	return func(a *Analyzer) { a.cfg = cfg }
}

// WithSigma sets the smoothing kernel sigma in samples; 0 disables smoothing.
func WithSigma(sigma float64) Option {
	return func(a *Analyzer) { a.cfg.Sigma = sigma }
}

// WithProminence sets the minimum peak prominence (normalized scale).
func WithProminence(p float64) Option {
	return func(a *Analyzer) { a.cfg.Prominence = p }
}

// WithHeight sets the minimum peak height (normalized scale).
func WithHeight(h float64) Option {
	return func(a *Analyzer) { a.cfg.Height = h }
}

// WithDistance sets the minimum peak separation in samples.
func WithDistance(d int) Option {
	return func(a *Analyzer) { a.cfg.Distance = d }
}

// WithMinWidth sets the minimum peak width in samples at half prominence.
func WithMinWidth(w float64) Option {
	return func(a *Analyzer) { a.cfg.MinWidth = w }
}

// WithShoulders toggles shoulder detection.
func WithShoulders(enabled bool) Option {
	return func(a *Analyzer) { a.cfg.Shoulders = enabled }
}

// WithShoulderRatio sets the minimum shoulder height relative to its parent.
func WithShoulderRatio(r float64) Option {
	return func(a *Analyzer) { a.cfg.ShoulderRatio = r }
}

// WithTolerance sets the cross-spectrum matching tolerance in cm^-1.
func WithTolerance(tol float64) Option {
	return func(a *Analyzer) { a.cfg.Tolerance = tol }
}

// WithMatcher selects MatcherGreedy or MatcherOptimal.
func WithMatcher(name string) Option {
	return func(a *Analyzer) { a.cfg.Matcher = name }
}

// WithGrowth sets the relative intensity change for grow/diminish.
func WithGrowth(g float64) Option {
	return func(a *Analyzer) { a.cfg.Growth = g }
}

// WithShift sets the position change in cm^-1 above which a band shifts.
func WithShift(s float64) Option {
	return func(a *Analyzer) { a.cfg.Shift = s }
}

// WithPhaseTolerance sets the phase assignment tolerance in cm^-1.
func WithPhaseTolerance(tol float64) Option {
	return func(a *Analyzer) { a.cfg.PhaseTolerance = tol }
}

// WithWorkers bounds the number of spectra processed concurrently. Zero
// selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(a *Analyzer) { a.cfg.Workers = n }
}

// WithMarkers sets the reference band table used for phase annotation.
func WithMarkers(t *phase.Table) Option {
	return func(a *Analyzer) { a.markers = t }
}

// WithLogger sets the logger. nil keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l.Sugar()
		}
	}
}
