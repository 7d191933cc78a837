package detect

import "github.com/cwbudde/algo-raman/spectra"

const (
	DefaultProminence    = 0.005
	DefaultHeight        = 0.005
	DefaultDistance      = 3
	DefaultMinWidth      = 2.0
	DefaultShoulderRatio = 0.3
)

// Config holds detection thresholds. Heights and prominences are on the
// normalized 0..1 scale; Distance and MinWidth are in samples.
type Config struct {
	Prominence    float64
	Height        float64
	Distance      int
	MinWidth      float64
	Shoulders     bool
	ShoulderRatio float64
}

// DefaultConfig returns the detection defaults.
func DefaultConfig() Config {
	return Config{
		Prominence:    DefaultProminence,
		Height:        DefaultHeight,
		Distance:      DefaultDistance,
		MinWidth:      DefaultMinWidth,
		Shoulders:     true,
		ShoulderRatio: DefaultShoulderRatio,
	}
}

// Validate reports the first invalid threshold.
func (c Config) Validate() error {
	switch {
	case c.Prominence < 0:
		return spectra.InvalidConfig("prominence must be >= 0: %v", c.Prominence)
	case c.Height < 0:
		return spectra.InvalidConfig("height must be >= 0: %v", c.Height)
	case c.Distance < 0:
		return spectra.InvalidConfig("distance must be >= 0: %d", c.Distance)
	case c.MinWidth < 0:
		return spectra.InvalidConfig("min width must be >= 0: %v", c.MinWidth)
	case c.ShoulderRatio < 0 || c.ShoulderRatio > 1:
		return spectra.InvalidConfig("shoulder ratio must be in [0,1]: %v", c.ShoulderRatio)
	}
	return nil
}
