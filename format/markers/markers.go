// Package markers reads reference marker-band tables.
//
// The preferred layout is YAML, one mapping per compound with one band list
// per phase:
//
//	DEA:
//	  solid: [183, 285, 326, 1025-1029, 1300 (sh.)]
//	  liquid: [252, 374, 468–470]
//
// Phases listed at the top level belong to the unnamed compound.
// Parenthetical annotations are dropped and ranges reduce to their first
// value. Text that is not valid YAML is scanned line by line for
// "phase: [bands]" entries, with bare "Name:" lines opening a compound.
package markers

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-raman/analysis/phase"
	"github.com/cwbudde/algo-raman/spectra"
	"gopkg.in/yaml.v3"
)

// ErrNoBands is returned when the input contains no marker bands.
var ErrNoBands = errors.New("markers: no marker bands found")

var (
	annotationPattern = regexp.MustCompile(`\([^)\n]*\)`)
	rangePattern      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[-–—]\s*\d+(?:\.\d+)?`)
	numberPattern     = regexp.MustCompile(`\d+(?:\.\d+)?`)
	phaseLinePattern  = regexp.MustCompile(`^\s*-?\s*([\w .+/-]*\w)\s*:\s*\[([^\]]*)\]`)
	headerLinePattern = regexp.MustCompile(`^\s*([\w .+/-]*\w)\s*:\s*$`)
)

// Load reads the table stored at path.
func Load(path string) (*phase.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := parse(data)
	if err != nil {
		return nil, &spectra.MalformedInputError{Source: path, Err: err}
	}
	return t, nil
}

// Parse reads a table from r.
func Parse(r io.Reader) (*phase.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (*phase.Table, error) {
	clean := annotationPattern.ReplaceAll(data, nil)

	t, err := parseYAML(clean)
	if err != nil || t.Len() == 0 {
		t = parseLines(clean)
	}
	if t.Len() == 0 {
		return nil, ErrNoBands
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseYAML(data []byte) (*phase.Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	t := &phase.Table{}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return t, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		addMapping(t, root)
	case yaml.SequenceNode:
		for _, item := range root.Content {
			if item.Kind == yaml.MappingNode {
				addMapping(t, item)
			}
		}
	default:
		return nil, fmt.Errorf("markers: unexpected top-level %s", kindName(root.Kind))
	}
	return t, nil
}

// addMapping adds the entries of a top-level mapping: nested mappings are
// compounds, everything else is a phase of the unnamed compound.
func addMapping(t *phase.Table, m *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := strings.TrimSpace(m.Content[i].Value), m.Content[i+1]
		if val.Kind == yaml.MappingNode {
			for j := 0; j+1 < len(val.Content); j += 2 {
				if bands := nodeBands(val.Content[j+1]); len(bands) > 0 {
					t.Add(key, strings.TrimSpace(val.Content[j].Value), bands...)
				}
			}
			continue
		}
		if bands := nodeBands(val); len(bands) > 0 {
			t.Add("", key, bands...)
		}
	}
}

func nodeBands(n *yaml.Node) []float64 {
	switch n.Kind {
	case yaml.ScalarNode:
		return Bands(n.Value)
	case yaml.SequenceNode:
		var out []float64
		for _, c := range n.Content {
			if c.Kind == yaml.ScalarNode {
				out = append(out, Bands(c.Value)...)
			}
		}
		return out
	}
	return nil
}

// parseLines is the fallback for text that is not YAML.
func parseLines(data []byte) *phase.Table {
	t := &phase.Table{}
	compound := ""
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if m := phaseLinePattern.FindStringSubmatch(line); m != nil {
			if bands := Bands(m[2]); len(bands) > 0 {
				t.Add(compound, strings.TrimSpace(m[1]), bands...)
			}
			continue
		}
		if m := headerLinePattern.FindStringSubmatch(line); m != nil {
			compound = strings.TrimSpace(m[1])
		}
	}
	return t
}

// Bands extracts the band positions of one list or list item. Parenthetical
// annotations are ignored and a range contributes its first value.
func Bands(s string) []float64 {
	s = annotationPattern.ReplaceAllString(s, "")
	s = rangePattern.ReplaceAllString(s, "$1")
	var out []float64
	for _, m := range numberPattern.FindAllString(s, -1) {
		v, err := strconv.ParseFloat(m, 64)
		if err == nil {
			out = append(out, v)
		}
	}
	return out
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("node kind %d", k)
	}
}
