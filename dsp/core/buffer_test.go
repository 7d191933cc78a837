package core

import "testing"

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}
	if &out[0] != &buf[0] {
		t.Fatal("expected capacity reuse")
	}

	out = EnsureLen(buf, 16)
	if len(out) != 16 || cap(out) < 16 {
		t.Fatalf("len/cap = %d/%d, want 16", len(out), cap(out))
	}

	if got := EnsureLen(buf, 0); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestReflectPad(t *testing.T) {
	got := ReflectPad(nil, []float64{1, 2, 3, 4}, 3)
	want := []float64{3, 2, 1, 1, 2, 3, 4, 4, 3, 2}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v (%v)", i, got[i], want[i], got)
		}
	}
}

func TestReflectPadWrapsShortInput(t *testing.T) {
	got := ReflectPad(nil, []float64{1, 2}, 5)
	want := []float64{1, 1, 2, 2, 1, 1, 2, 2, 1, 1, 2, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v (%v)", i, got[i], want[i], got)
		}
	}
}
