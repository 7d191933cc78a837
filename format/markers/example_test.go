package markers_test

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-raman/format/markers"
)

func ExampleParse() {
	text := `DEA:
  solid: [183, 285, 326, 1025-1029, 1300 (sh.)]
  liquid: [252, 374, 468–470]
`
	table, err := markers.Parse(strings.NewReader(text))
	if err != nil {
		panic(err)
	}
	for _, c := range table.Compounds {
		for _, p := range c.Phases {
			fmt.Println(c.Name, p.Name, p.Bands)
		}
	}
	// Output:
	// DEA solid [183 285 326 1025 1300]
	// DEA liquid [252 374 468]
}
