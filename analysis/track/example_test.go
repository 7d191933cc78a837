package track_test

import (
	"fmt"

	"github.com/cwbudde/algo-raman/analysis/detect"
	"github.com/cwbudde/algo-raman/analysis/track"
)

func ExampleTracker() {
	tr, err := track.New(track.WithTolerance(5))
	if err != nil {
		panic(err)
	}

	sequence := [][]float64{
		{1462.0, 919.0},
		{1461.2, 919.5},
		{919.8, 605.0},
	}
	for i, positions := range sequence {
		features := make([]detect.Feature, len(positions))
		for j, p := range positions {
			features[j] = detect.Feature{Position: p, Spectrum: i}
		}
		if err := tr.Extend(features); err != nil {
			panic(err)
		}
	}

	for _, t := range tr.Tracks() {
		fmt.Printf("track %d:", t.ID)
		for _, f := range t.Entries {
			if f == nil {
				fmt.Print(" -")
				continue
			}
			fmt.Printf(" %.1f", f.Position)
		}
		fmt.Println()
	}
	// Output:
	// track 0: 919.0 919.5 919.8
	// track 1: 1462.0 1461.2 -
	// track 2: - - 605.0
}
