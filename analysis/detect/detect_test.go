package detect

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/cwbudde/algo-raman/dsp/smooth"
	"github.com/cwbudde/algo-raman/internal/testutil"
	"github.com/cwbudde/algo-raman/spectra"
)

func series(t *testing.T, axis []float64, y []float64) spectra.Series {
	t.Helper()
	s, err := smooth.Process(spectra.Spectrum{Wavenumber: axis, Intensity: y, Temperature: 203, Index: 1})
	if err != nil {
		t.Fatalf("smooth.Process() error = %v", err)
	}
	return s
}

func positions(fs []Feature, kind Kind) []float64 {
	var out []float64
	for _, f := range fs {
		if f.Kind == kind {
			out = append(out, f.Position)
		}
	}
	return out
}

func TestDetectSeparatedBands(t *testing.T) {
	axis := testutil.Axis(60, 1, 100)
	y := testutil.Render(axis, 0, []testutil.Band{
		{Center: 90, Height: 1, Width: 3},
		{Center: 125, Height: 0.4, Width: 3},
	}, 0, 0)

	fs, err := Detect(series(t, axis, y), DefaultConfig())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got := positions(fs, KindPeak); !reflect.DeepEqual(got, []float64{90, 125}) {
		t.Fatalf("peaks = %v, want [90 125]", got)
	}
	if got := positions(fs, KindShoulder); len(got) != 0 {
		t.Fatalf("shoulders = %v, want none", got)
	}
	testutil.RequireNear(t, "main intensity", fs[0].Intensity, 1, 1e-12)
	testutil.RequireNear(t, "weak intensity", fs[1].Intensity, 0.4, 1e-3)
	for _, f := range fs {
		if f.Spectrum != 1 {
			t.Fatalf("feature spectrum index = %d, want 1", f.Spectrum)
		}
		if f.Prominence <= 0 || f.Width < DefaultMinWidth {
			t.Fatalf("feature %+v lacks peak properties", f)
		}
	}
}

func TestDetectShoulderOnFlank(t *testing.T) {
	axis := testutil.Axis(60, 1, 100)
	y := testutil.Render(axis, 0, []testutil.Band{
		{Center: 100, Height: 1, Width: 2.5},
		{Center: 106, Height: 0.45, Width: 2.5},
	}, 0, 0)

	fs, err := Detect(series(t, axis, y), DefaultConfig())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(fs) != 2 {
		t.Fatalf("features = %+v, want peak + shoulder", fs)
	}
	peak, sh := fs[0], fs[1]
	if peak.Kind != KindPeak || peak.Position != 100 {
		t.Fatalf("peak = %+v, want peak at 100", peak)
	}
	if sh.Kind != KindShoulder || sh.Parent != 100 {
		t.Fatalf("shoulder = %+v, want shoulder with parent 100", sh)
	}
	if sh.Position < 104 || sh.Position > 107 {
		t.Fatalf("shoulder position = %v, want within [104, 107]", sh.Position)
	}
	if sh.Intensity < DefaultShoulderRatio*peak.Intensity || sh.Intensity >= peak.Intensity {
		t.Fatalf("shoulder intensity %v outside [ratio*parent, parent)", sh.Intensity)
	}

	cfg := DefaultConfig()
	cfg.Shoulders = false
	fs, err = Detect(series(t, axis, y), cfg)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got := positions(fs, KindShoulder); len(got) != 0 {
		t.Fatalf("shoulders disabled but got %v", got)
	}

	cfg = DefaultConfig()
	cfg.ShoulderRatio = 0.9
	fs, err = Detect(series(t, axis, y), cfg)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got := positions(fs, KindShoulder); len(got) != 0 {
		t.Fatalf("ratio 0.9 should reject the shoulder, got %v", got)
	}
}

func TestDetectPureBandHasNoShoulder(t *testing.T) {
	axis := testutil.Axis(60, 0.5, 200)
	for _, b := range []testutil.Band{
		{Center: 110, Height: 1, Width: 3},
		{Center: 110, Height: 1, Width: 3, Lorentzian: true},
	} {
		fs, err := Detect(series(t, axis, testutil.Render(axis, 0, []testutil.Band{b}, 0, 0)), DefaultConfig())
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(fs) != 1 || fs[0].Kind != KindPeak {
			t.Fatalf("lorentzian=%v: features = %+v, want single peak", b.Lorentzian, fs)
		}
	}
}

func TestDetectNoisyBand(t *testing.T) {
	axis := testutil.Axis(60, 1, 100)
	y := testutil.Render(axis, 0.1, []testutil.Band{{Center: 100, Height: 1, Width: 3}}, 0.02, 5)

	cfg := DefaultConfig()
	cfg.Prominence = 0.05
	cfg.Height = 0.05
	fs, err := Detect(series(t, axis, y), cfg)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	peaks := positions(fs, KindPeak)
	if len(peaks) != 1 || math.Abs(peaks[0]-100) > 1 {
		t.Fatalf("peaks = %v, want one peak near 100", peaks)
	}
}

func TestDetectFlatSeries(t *testing.T) {
	s := spectra.Series{Wavenumber: testutil.Axis(0, 1, 16), Values: testutil.Constant(0.5, 16)}
	fs, err := Detect(s, DefaultConfig())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(fs) != 0 {
		t.Fatalf("flat series features = %+v, want none", fs)
	}
}

func TestDetectFlatSpectrumWideKernel(t *testing.T) {
	axis := testutil.Axis(100, 1, 200)
	sp := spectra.Spectrum{Wavenumber: axis, Intensity: testutil.Constant(0.7, 200), Temperature: 203}

	cfg := DefaultConfig()
	cfg.Prominence = 0
	cfg.Height = 0
	cfg.MinWidth = 0

	for _, sigma := range []float64{1, 2.7, 20} {
		s, err := smooth.Process(sp, smooth.WithSigma(sigma))
		if err != nil {
			t.Fatalf("sigma %v: smooth.Process() error = %v", sigma, err)
		}
		fs, err := Detect(s, cfg)
		if err != nil {
			t.Fatalf("sigma %v: Detect() error = %v", sigma, err)
		}
		if len(fs) != 0 {
			t.Fatalf("sigma %v: flat spectrum features = %+v, want none", sigma, fs[0])
		}
	}
}

func TestDetectDistanceKeepsHigherPeak(t *testing.T) {
	s := spectra.Series{
		Wavenumber: testutil.Axis(0, 1, 9),
		Values:     []float64{0, 0.1, 0.9, 0.2, 1, 0.1, 0, 0, 0},
	}
	cfg := DefaultConfig()
	cfg.MinWidth = 0
	cfg.Shoulders = false
	fs, err := Detect(s, cfg)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got := positions(fs, KindPeak); !reflect.DeepEqual(got, []float64{4}) {
		t.Fatalf("peaks = %v, want [4]", got)
	}
}

func TestDetectThresholds(t *testing.T) {
	s := spectra.Series{
		Wavenumber: testutil.Axis(0, 1, 11),
		Values:     []float64{0, 1, 0, 0, 0.3, 0, 0, 0, 0.02, 0, 0},
	}
	cfg := DefaultConfig()
	cfg.MinWidth = 0
	cfg.Shoulders = false

	cfg.Height = 0.1
	fs, _ := Detect(s, cfg)
	if got := positions(fs, KindPeak); !reflect.DeepEqual(got, []float64{1, 4}) {
		t.Fatalf("height filter: peaks = %v, want [1 4]", got)
	}

	cfg.Height = 0
	cfg.Prominence = 0.5
	fs, _ = Detect(s, cfg)
	if got := positions(fs, KindPeak); !reflect.DeepEqual(got, []float64{1}) {
		t.Fatalf("prominence filter: peaks = %v, want [1]", got)
	}
}

func TestDetectInvalidConfig(t *testing.T) {
	bad := []func(*Config){
		func(c *Config) { c.Prominence = -1 },
		func(c *Config) { c.Height = -0.1 },
		func(c *Config) { c.Distance = -3 },
		func(c *Config) { c.MinWidth = -1 },
		func(c *Config) { c.ShoulderRatio = 1.5 },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		if _, err := Detect(spectra.Series{}, cfg); !errors.Is(err, spectra.ErrInvalidConfig) {
			t.Fatalf("case %d: err = %v, want ErrInvalidConfig", i, err)
		}
	}
}

func TestDetectDeterministic(t *testing.T) {
	axis := testutil.Axis(60, 1, 100)
	y := testutil.Render(axis, 0.05, []testutil.Band{
		{Center: 80, Height: 0.7, Width: 2},
		{Center: 100, Height: 1, Width: 2.5},
		{Center: 106, Height: 0.45, Width: 2.5},
		{Center: 140, Height: 0.3, Width: 4, Lorentzian: true},
	}, 0.003, 11)
	s := series(t, axis, y)

	first, err := Detect(s, DefaultConfig())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := Detect(s, DefaultConfig())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
	for i := 1; i < len(first); i++ {
		if !(first[i].Position > first[i-1].Position) {
			t.Fatalf("features not strictly ordered by position: %+v", first)
		}
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{KindPeak, KindShoulder} {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText() error = %v", err)
		}
		var got Kind
		if err := got.UnmarshalText(b); err != nil || got != k {
			t.Fatalf("round trip %v -> %q -> %v (%v)", k, b, got, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("valley")); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
