package pipeline

import (
	"context"
	"testing"
)

func BenchmarkRunScenario(b *testing.B) {
	in := scenario()
	a, err := New(WithMarkers(markers()))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.Analyze(ctx, in); err != nil {
			b.Fatal(err)
		}
	}
}
