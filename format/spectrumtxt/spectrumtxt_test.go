package spectrumtxt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cwbudde/algo-raman/spectra"
)

func TestTemperature(t *testing.T) {
	cases := []struct {
		name string
		want float64
	}{
		{"sample_248K.txt", 248},
		{"spectrum_248.15K.txt", 248.15},
		{"dea 203 K.csv", 203},
		{"/data/run1/dea_252K.txt", 252},
		{"dea_253.txt", 253},
		{"x1248K.txt", 248},
	}
	for _, tc := range cases {
		got, err := Temperature(tc.name)
		if err != nil || got != tc.want {
			t.Errorf("Temperature(%q) = %v, %v; want %v", tc.name, got, err, tc.want)
		}
	}
	if _, err := Temperature("cold.txt"); !errors.Is(err, spectra.ErrNoTemperature) {
		t.Fatalf("err = %v, want ErrNoTemperature", err)
	}
}

func TestParseBasic(t *testing.T) {
	s, err := Parse(strings.NewReader("100 0.1\n101 0.2\n"), "sample_248K.txt")
	if err != nil {
		t.Fatal(err)
	}
	if s.Temperature != 248 {
		t.Fatalf("Temperature = %v, want 248", s.Temperature)
	}
	if !reflect.DeepEqual(s.Wavenumber, []float64{100, 101}) || !reflect.DeepEqual(s.Intensity, []float64{0.1, 0.2}) {
		t.Fatalf("got %v / %v", s.Wavenumber, s.Intensity)
	}
	if s.Source != "sample_248K.txt" {
		t.Fatalf("Source = %q", s.Source)
	}
}

func TestParseDelimitersAndHeaders(t *testing.T) {
	inputs := map[string]string{
		"whitespace": "Wavenumber Intensity\n100  1.5\n101\t2.5\n102 3.5\n",
		"comma":      "# exported\nshift,counts\n100,1.5\n101,2.5\n102,3.5\n",
		"tab":        "%header\n100\t1.5\n\n101\t2.5\n102\t3.5\n",
		"semicolon":  "\ufeffcm-1;a.u.\n100;1,5\n101;2,5\n102;3,5\n",
		"descending": "102 3.5\n101 2.5\n100 1.5\n",
	}
	for name, in := range inputs {
		s, err := Parse(strings.NewReader(in), "x", WithTemperature(77))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !reflect.DeepEqual(s.Wavenumber, []float64{100, 101, 102}) || !reflect.DeepEqual(s.Intensity, []float64{1.5, 2.5, 3.5}) {
			t.Errorf("%s: got %v / %v", name, s.Wavenumber, s.Intensity)
		}
		if s.Temperature != 77 {
			t.Errorf("%s: Temperature = %v", name, s.Temperature)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []struct {
		name string
		in   string
		line int
	}{
		{"three columns", "100 1\n101 2 3\n", 2},
		{"one column", "100 1\n101\n", 2},
		{"text after data", "100 1\n101 2\nend of data\n", 3},
		{"non-monotonic", "100 1\n102 2\n101 3\n", 3},
		{"duplicate", "100 1\n100 2\n", 2},
		{"nan", "100 1\n101 NaN\n", 2},
	}
	for _, tc := range cases {
		_, err := Parse(strings.NewReader(tc.in), "bad_200K.txt")
		if !errors.Is(err, spectra.ErrMalformedInput) {
			t.Errorf("%s: err = %v, want ErrMalformedInput", tc.name, err)
			continue
		}
		var mi *spectra.MalformedInputError
		if !errors.As(err, &mi) || mi.Line != tc.line || mi.Source != "bad_200K.txt" {
			t.Errorf("%s: err = %v, want line %d", tc.name, err, tc.line)
		}
	}
}

func TestParseNoTemperature(t *testing.T) {
	_, err := Parse(strings.NewReader("100 1\n"), "room.txt")
	if !errors.Is(err, spectra.ErrNoTemperature) || !errors.Is(err, spectra.ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrNoTemperature inside MalformedInputError", err)
	}
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse(strings.NewReader("# nothing here\n"), "empty_200K.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(s.Validate(), spectra.ErrInsufficientData) {
		t.Fatalf("Validate = %v, want ErrInsufficientData", s.Validate())
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}
	paths := []string{
		write("dea_252K.txt", "100 1\n101 2\n102 1\n"),
		write("dea_203K.txt", "100 2\n101 4\n102 2\n"),
	}

	got, err := LoadAll(context.Background(), paths, WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Temperature != 252 || got[1].Temperature != 203 {
		t.Fatalf("LoadAll = %+v", got)
	}

	paths = append(paths, write("broken_210K.txt", "100 1 1\n"), filepath.Join(dir, "missing_220K.txt"))
	if _, err := LoadAll(context.Background(), paths); !errors.Is(err, spectra.ErrMalformedInput) {
		t.Fatalf("err = %v, want the malformed file reported first", err)
	}
}
