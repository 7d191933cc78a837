package smooth

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-raman/internal/testutil"
)

func BenchmarkGaussian(b *testing.B) {
	x := testutil.DeterministicNoise(1, 1, 2048)
	for _, sigma := range []float64{1, 4, 20} {
		b.Run(fmt.Sprintf("sigma=%v", sigma), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = Gaussian(x, WithSigma(sigma))
			}
		})
	}
}
