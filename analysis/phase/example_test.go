package phase_test

import (
	"fmt"

	"github.com/cwbudde/algo-raman/analysis/phase"
)

func ExampleAssign() {
	table := &phase.Table{}
	table.Add("DEA", "solid", 183, 285, 326, 1025, 1300)
	table.Add("DEA", "liquid", 252, 374, 468)

	for _, pos := range []float64{1027.4, 470, 700} {
		fmt.Println(pos, phase.Labels(phase.Assign(pos, table, phase.DefaultTolerance)))
	}
	// Output:
	// 1027.4 [DEA solid]
	// 470 [DEA liquid]
	// 700 [unassigned]
}
