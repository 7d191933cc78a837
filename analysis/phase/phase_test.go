package phase

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/cwbudde/algo-raman/spectra"
)

func deaTable() *Table {
	t := &Table{}
	t.Add("DEA", "solid", 183, 285, 326, 1025, 1300)
	t.Add("DEA", "liquid", 252, 374, 468)
	t.Add("", "solid_I", 1462)
	t.Add("", "liquid", 605)
	return t
}

func TestAdd(t *testing.T) {
	tab := &Table{}
	tab.Add("A", "x", 1)
	tab.Add("B", "y", 2)
	tab.Add("A", "x", 3)
	tab.Add("A", "z", 4)

	want := []Compound{
		{Name: "A", Phases: []Phase{{Name: "x", Bands: []float64{1, 3}}, {Name: "z", Bands: []float64{4}}}},
		{Name: "B", Phases: []Phase{{Name: "y", Bands: []float64{2}}}},
	}
	if !reflect.DeepEqual(tab.Compounds, want) {
		t.Fatalf("Compounds = %+v, want %+v", tab.Compounds, want)
	}
	if tab.Len() != 4 {
		t.Fatalf("Len = %d, want 4", tab.Len())
	}
}

func TestAssignScenarios(t *testing.T) {
	tab := deaTable()
	cases := []struct {
		pos  float64
		want []string
	}{
		{1462, []string{"solid_I"}},
		{1458.5, []string{"solid_I"}},
		{605, []string{"liquid"}},
		{1029, []string{"DEA solid"}},
		{800, []string{Unassigned}},
	}
	for _, tc := range cases {
		got := Labels(Assign(tc.pos, tab, DefaultTolerance))
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Assign(%v) = %q, want %q", tc.pos, got, tc.want)
		}
	}
}

func TestAssignOrdering(t *testing.T) {
	tab := &Table{}
	tab.Add("B", "beta", 100)
	tab.Add("A", "gamma", 104)
	tab.Add("A", "alpha", 96)
	tab.Add("C", "delta", 101)

	got := Assign(100, tab, 5)
	var labels []string
	for _, m := range got {
		labels = append(labels, m.Label())
	}
	want := []string{"B beta", "C delta", "A alpha", "A gamma"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("order = %q, want %q", labels, want)
	}
	if got[2].Distance != 4 || got[2].Reference != 96 {
		t.Fatalf("match %+v, want reference 96 at distance 4", got[2])
	}
}

func TestAssignToleranceSymmetry(t *testing.T) {
	tab := &Table{}
	tab.Add("", "X", 500)
	for _, pos := range []float64{490, 510} {
		if ms := Assign(pos, tab, 10); len(ms) != 1 {
			t.Errorf("Assign(%v): got %d matches, want 1 at the inclusive boundary", pos, len(ms))
		}
	}
	for _, pos := range []float64{489.9, 510.1} {
		if ms := Assign(pos, tab, 10); len(ms) != 0 {
			t.Errorf("Assign(%v): got %+v, want none", pos, ms)
		}
	}
}

func TestAssignMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tab := &Table{}
	for i := 0; i < 12; i++ {
		for j := 0; j < 5; j++ {
			tab.Add(string(rune('A'+i%3)), string(rune('p'+i)), 200+rng.Float64()*800)
		}
	}
	for k := 0; k < 200; k++ {
		pos := 200 + rng.Float64()*800
		tol := rng.Float64() * 20
		got := make(map[string]bool)
		for _, m := range Assign(pos, tab, tol) {
			got[m.Label()] = true
		}
		for _, c := range tab.Compounds {
			for _, p := range c.Phases {
				in := false
				for _, b := range p.Bands {
					if math.Abs(pos-b) <= tol {
						in = true
					}
				}
				if in != got[label(c.Name, p.Name)] {
					t.Fatalf("pos %v tol %v phase %s: assigned=%v, within=%v", pos, tol, label(c.Name, p.Name), got[label(c.Name, p.Name)], in)
				}
			}
		}
	}
}

func TestAssignOrderIndependent(t *testing.T) {
	tab := deaTable()
	tab.Add("", "solid_II", 1466)
	tab.Add("X", "solid", 1460)

	rev := &Table{}
	for i := len(tab.Compounds) - 1; i >= 0; i-- {
		c := tab.Compounds[i]
		for j := len(c.Phases) - 1; j >= 0; j-- {
			p := c.Phases[j]
			bands := append([]float64(nil), p.Bands...)
			for l, r := 0, len(bands)-1; l < r; l, r = l+1, r-1 {
				bands[l], bands[r] = bands[r], bands[l]
			}
			rev.Add(c.Name, p.Name, bands...)
		}
	}

	for _, pos := range []float64{1462, 1463, 1025, 300, 605} {
		a := Assign(pos, tab, DefaultTolerance)
		b := Assign(pos, rev, DefaultTolerance)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Assign(%v) depends on table order:\n%+v\n%+v", pos, a, b)
		}
	}
}

func TestAssignDegenerate(t *testing.T) {
	if ms := Assign(100, nil, 10); ms != nil {
		t.Fatalf("nil table: %+v", ms)
	}
	if ms := Assign(100, deaTable(), -1); ms != nil {
		t.Fatalf("negative tolerance: %+v", ms)
	}
	if ms := Assign(math.NaN(), deaTable(), 10); ms != nil {
		t.Fatalf("NaN position: %+v", ms)
	}
}

func TestValidate(t *testing.T) {
	if err := deaTable().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	bad := &Table{}
	bad.Add("A", "x", math.Inf(1))
	if err := bad.Validate(); !errors.Is(err, spectra.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	unnamed := &Table{Compounds: []Compound{{Name: "A", Phases: []Phase{{Bands: []float64{1}}}}}}
	if err := unnamed.Validate(); !errors.Is(err, spectra.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}
