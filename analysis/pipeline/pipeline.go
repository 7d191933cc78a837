package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/cwbudde/algo-raman/analysis/change"
	"github.com/cwbudde/algo-raman/analysis/detect"
	"github.com/cwbudde/algo-raman/analysis/phase"
	"github.com/cwbudde/algo-raman/analysis/track"
	"github.com/cwbudde/algo-raman/dsp/smooth"
	"github.com/cwbudde/algo-raman/spectra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Analyzer runs the analysis with a fixed configuration. It is safe for
// concurrent use once constructed.
type Analyzer struct {
	cfg     Config
	markers *phase.Table
	log     *zap.SugaredLogger
}

// New builds an Analyzer from DefaultConfig and opts and validates the result.
func New(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		cfg: DefaultConfig(),
		log: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := a.markers.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Config returns the effective configuration.
func (a *Analyzer) Config() Config { return a.cfg }

// Run is shorthand for New(opts...) followed by Analyze.
func Run(ctx context.Context, in []spectra.Spectrum, opts ...Option) (*Result, error) {
	a, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, in)
}

type slot struct {
	spectrum spectra.Spectrum
	series   spectra.Series
	features []detect.Feature
	err      error
}

// Analyze processes in and returns the full result. The input slice is not
// modified.
func (a *Analyzer) Analyze(ctx context.Context, in []spectra.Spectrum) (*Result, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: no spectra", spectra.ErrInsufficientData)
	}

	sorted := make([]spectra.Spectrum, len(in))
	copy(sorted, in)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Temperature < sorted[j].Temperature
	})

	slots, err := a.detectAll(ctx, sorted)
	if err != nil {
		return nil, err
	}

	res := &Result{Config: a.cfg}
	var kept []*slot
	for _, s := range slots {
		if s.err == nil {
			kept = append(kept, s)
			continue
		}
		if errors.Is(s.err, spectra.ErrInsufficientData) && len(in) > 1 {
			a.log.Warnf("skipping %s: %v", s.spectrum.Name(), s.err)
			res.Skipped = append(res.Skipped, Skip{
				Source:      s.spectrum.Name(),
				Temperature: s.spectrum.Temperature,
				Reason:      s.err.Error(),
			})
			continue
		}
		return nil, s.err
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: all %d spectra were skipped", spectra.ErrInsufficientData, len(in))
	}

	res.Spectra = make([]Summary, len(kept))
	for i, s := range kept {
		for j := range s.features {
			s.features[j].Spectrum = i
		}
		sum := Summary{
			Index:       i,
			Temperature: s.spectrum.Temperature,
			Source:      s.spectrum.Name(),
			Samples:     s.spectrum.Len(),
			Max:         s.series.Max,
		}
		for _, f := range s.features {
			if f.IsShoulder() {
				sum.Shoulders++
			} else {
				sum.Peaks++
			}
		}
		res.Spectra[i] = sum
		a.log.Debugf("%s at %.2f K: %d peaks, %d shoulders", sum.Source, sum.Temperature, sum.Peaks, sum.Shoulders)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Tracks, err = a.track(kept)
	if err != nil {
		return nil, err
	}

	res.Transitions, err = change.ClassifyAll(res.Tracks, res.Temperatures(), a.cfg.Change())
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Features, err = a.annotate(ctx, kept)
	if err != nil {
		return nil, err
	}
	for i := range res.Transitions {
		evs := res.Transitions[i].Events
		for j := range evs {
			evs[j].Phases = phase.Assign(evs[j].Position, a.markers, a.cfg.PhaseTolerance)
		}
	}

	a.log.Infof("analyzed %d spectra (%d skipped): %d tracks, %d reportable events",
		len(res.Spectra), len(res.Skipped), len(res.Tracks), len(res.Surfaced()))
	return res, nil
}

// detectAll smooths and searches every spectrum. Per-spectrum failures are
// stored in the slot; only cancellation is returned.
func (a *Analyzer) detectAll(ctx context.Context, in []spectra.Spectrum) ([]*slot, error) {
	slots := make([]*slot, len(in))
	dcfg := a.cfg.Detect()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())
	for i := range in {
		s := &slot{spectrum: in[i]}
		s.spectrum.Index = i
		slots[i] = s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			series, err := smooth.Process(s.spectrum, smooth.WithSigma(a.cfg.Sigma))
			if err != nil {
				s.err = err
				return nil
			}
			s.series = series
			s.features, s.err = detect.Detect(series, dcfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}

func (a *Analyzer) track(kept []*slot) ([]*track.Track, error) {
	m, err := a.cfg.matcher()
	if err != nil {
		return nil, err
	}
	tr, err := track.New(track.WithTolerance(a.cfg.Tolerance), track.WithMatcher(m))
	if err != nil {
		return nil, err
	}
	for _, s := range kept {
		if err := tr.Extend(s.features); err != nil {
			return nil, err
		}
	}
	return tr.Tracks(), nil
}

// annotate attaches phase matches to every feature, one worker per spectrum.
func (a *Analyzer) annotate(ctx context.Context, kept []*slot) ([][]Annotated, error) {
	out := make([][]Annotated, len(kept))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())
	for i, s := range kept {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := make([]Annotated, len(s.features))
			for j, f := range s.features {
				row[j] = Annotated{Feature: f, Phases: phase.Assign(f.Position, a.markers, a.cfg.PhaseTolerance)}
			}
			out[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Analyzer) workers() int {
	if a.cfg.Workers > 0 {
		return a.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}
