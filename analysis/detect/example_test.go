package detect_test

import (
	"fmt"

	"github.com/cwbudde/algo-raman/analysis/detect"
	"github.com/cwbudde/algo-raman/spectra"
)

func ExampleDetect() {
	s := spectra.Series{
		Wavenumber: []float64{600, 601, 602, 603, 604, 605, 606, 607, 608},
		Values:     []float64{0, 0.1, 0.5, 1, 0.5, 0.1, 0.3, 0.1, 0},
	}
	cfg := detect.DefaultConfig()
	cfg.MinWidth = 0

	features, err := detect.Detect(s, cfg)
	if err != nil {
		panic(err)
	}
	for _, f := range features {
		fmt.Printf("%s at %.0f (%.2f)\n", f.Kind, f.Position, f.Intensity)
	}
	// Output:
	// peak at 603 (1.00)
	// peak at 606 (0.30)
}
