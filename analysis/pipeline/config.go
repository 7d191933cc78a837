package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-raman/analysis/change"
	"github.com/cwbudde/algo-raman/analysis/detect"
	"github.com/cwbudde/algo-raman/analysis/phase"
	"github.com/cwbudde/algo-raman/analysis/track"
	"github.com/cwbudde/algo-raman/dsp/smooth"
	"github.com/cwbudde/algo-raman/spectra"
)

// Matcher names accepted by WithMatcher.
const (
	MatcherGreedy  = "greedy"
	MatcherOptimal = "optimal"
)

// Config is the complete, serializable analysis configuration.
type Config struct {
	Sigma          float64 `json:"sigma" mapstructure:"sigma"`
	Prominence     float64 `json:"prominence" mapstructure:"prominence"`
	Height         float64 `json:"height" mapstructure:"height"`
	Distance       int     `json:"distance" mapstructure:"distance"`
	MinWidth       float64 `json:"min_width" mapstructure:"min-width"`
	Shoulders      bool    `json:"shoulders" mapstructure:"shoulders"`
	ShoulderRatio  float64 `json:"shoulder_ratio" mapstructure:"shoulder-ratio"`
	Tolerance      float64 `json:"tolerance" mapstructure:"tolerance"`
	Matcher        string  `json:"matcher" mapstructure:"matcher"`
	Growth         float64 `json:"growth" mapstructure:"growth"`
	Shift          float64 `json:"shift" mapstructure:"shift"`
	PhaseTolerance float64 `json:"phase_tolerance" mapstructure:"phase-tolerance"`
	Workers        int     `json:"workers" mapstructure:"workers"`
}

// DefaultConfig returns the analysis defaults.
func DefaultConfig() Config {
	d := detect.DefaultConfig()
	c := change.DefaultConfig()
	return Config{
		Sigma:          smooth.DefaultConfig().Sigma,
		Prominence:     d.Prominence,
		Height:         d.Height,
		Distance:       d.Distance,
		MinWidth:       d.MinWidth,
		Shoulders:      d.Shoulders,
		ShoulderRatio:  d.ShoulderRatio,
		Tolerance:      track.DefaultTolerance,
		Matcher:        MatcherGreedy,
		Growth:         c.Growth,
		Shift:          c.Shift,
		PhaseTolerance: phase.DefaultTolerance,
	}
}

// Detect returns the detection part of c.
func (c Config) Detect() detect.Config {
	return detect.Config{
		Prominence:    c.Prominence,
		Height:        c.Height,
		Distance:      c.Distance,
		MinWidth:      c.MinWidth,
		Shoulders:     c.Shoulders,
		ShoulderRatio: c.ShoulderRatio,
	}
}

// Change returns the classification part of c.
func (c Config) Change() change.Config {
	return change.Config{Growth: c.Growth, Shift: c.Shift}
}

func (c Config) matcher() (track.Matcher, error) {
	switch strings.ToLower(c.Matcher) {
	case "", MatcherGreedy:
		return track.Greedy{}, nil
	case MatcherOptimal:
		return track.Optimal{}, nil
	default:
		return nil, spectra.InvalidConfig("unknown matcher %q (want %s or %s)", c.Matcher, MatcherGreedy, MatcherOptimal)
	}
}

// Validate checks every parameter before any processing happens.
func (c Config) Validate() error {
	if !(c.Sigma >= 0) || math.IsInf(c.Sigma, 0) {
		return spectra.InvalidConfig("sigma must be finite and >= 0: %v", c.Sigma)
	}
	if err := c.Detect().Validate(); err != nil {
		return err
	}
	if !(c.Tolerance >= 0) {
		return spectra.InvalidConfig("tolerance must be >= 0: %v", c.Tolerance)
	}
	if !(c.PhaseTolerance >= 0) {
		return spectra.InvalidConfig("phase tolerance must be >= 0: %v", c.PhaseTolerance)
	}
	if c.Workers < 0 {
		return spectra.InvalidConfig("workers must be >= 0: %d", c.Workers)
	}
	if _, err := c.matcher(); err != nil {
		return err
	}
	if err := c.Change().Validate(); err != nil {
		return fmt.Errorf("classification: %w", err)
	}
	return nil
}
