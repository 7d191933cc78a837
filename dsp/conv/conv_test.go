package conv

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-raman/internal/testutil"
)

func TestDirectKnownValues(t *testing.T) {
	got, err := Direct([]float64{1, 2, 3}, []float64{0, 1, 0.5})
	if err != nil {
		t.Fatalf("Direct() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 1, 2.5, 4, 1.5}, 1e-12)
}

func TestDirectSIMDPathMatchesScalar(t *testing.T) {
	a := testutil.DeterministicNoise(3, 1, 50)
	b := []float64{0.1, 0.2, 0.4, 0.2, 0.1}

	got, err := Direct(a, b)
	if err != nil {
		t.Fatalf("Direct() error = %v", err)
	}

	want := make([]float64, len(a)+len(b)-1)
	for i := range a {
		for j := range b {
			want[i+j] += a[i] * b[j]
		}
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestFFTMatchesDirect(t *testing.T) {
	a := testutil.DeterministicNoise(7, 1, 300)
	b := testutil.DeterministicNoise(8, 1, 97)

	direct, err := Direct(a, b)
	if err != nil {
		t.Fatalf("Direct() error = %v", err)
	}
	fft, err := FFT(a, b)
	if err != nil {
		t.Fatalf("FFT() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, fft, direct, 1e-9)
}

func TestConvolveSelectsByKernelLength(t *testing.T) {
	a := testutil.DeterministicNoise(1, 1, 256)
	for _, m := range []int{3, DirectThreshold, DirectThreshold + 1, 129} {
		b := testutil.DeterministicNoise(2, 1, m)
		got, err := Convolve(a, b)
		if err != nil {
			t.Fatalf("m=%d: Convolve() error = %v", m, err)
		}
		want, _ := Direct(a, b)
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
	}
}

func TestEmptyInputs(t *testing.T) {
	for name, fn := range map[string]func(a, b []float64) ([]float64, error){
		"direct":   Direct,
		"fft":      FFT,
		"convolve": Convolve,
	} {
		if _, err := fn(nil, []float64{1}); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("%s: err = %v, want ErrEmptyInput", name, err)
		}
		if _, err := fn([]float64{1}, nil); !errors.Is(err, ErrEmptyKernel) {
			t.Fatalf("%s: err = %v, want ErrEmptyKernel", name, err)
		}
	}
}

func TestValid(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{1, 1, 1}
	full, err := Direct(a, b)
	if err != nil {
		t.Fatalf("Direct() error = %v", err)
	}
	// full = [1 3 6 9 12 9 5]
	testutil.RequireSliceNearlyEqual(t, Valid(full, len(a), len(b)), []float64{6, 9, 12}, 0)
	testutil.RequireSliceNearlyEqual(t, Valid(full, len(b), len(a)), []float64{6, 9, 12}, 0)
}
